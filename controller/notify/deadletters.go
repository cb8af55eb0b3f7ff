package notify

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opsboard/middleware"
	"opsboard/notifier"
)

func DeadLetterController(router *gin.Engine, n *notifier.Notifier) {
	router.GET("/notifier/deadletters", middleware.AccessTokenMiddleware(), middleware.AdminMiddleware(), func(c *gin.Context) {
		ListDeadLetters(c, n)
	})
}

// ListDeadLetters exposes undeliverable notifications for operators. The
// list is capped and in memory only; it does not survive a restart.
func ListDeadLetters(c *gin.Context, n *notifier.Notifier) {
	letters := n.DeadLetters()
	if letters == nil {
		letters = []notifier.DeadLetter{}
	}
	c.JSON(http.StatusOK, letters)
}
