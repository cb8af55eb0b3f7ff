package task

import (
	"io"

	"github.com/gin-gonic/gin"

	"opsboard/middleware"
	"opsboard/model"
	"opsboard/notifier"
)

func StreamController(router *gin.Engine, feed *notifier.Feed[model.BuildTask]) {
	router.GET("/tasks/stream", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		StreamTasks(c, feed)
	})
}

// StreamTasks pushes full task list snapshots as server-sent events until
// the client disconnects.
func StreamTasks(c *gin.Context, feed *notifier.Feed[model.BuildTask]) {
	ch := feed.Subscribe()
	defer feed.Unsubscribe(ch)

	c.Stream(func(w io.Writer) bool {
		select {
		case tasks := <-ch:
			c.SSEvent("tasks", tasks)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
