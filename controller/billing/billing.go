package billing

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"opsboard/dto"
	"opsboard/middleware"
	"opsboard/model"
	"opsboard/notifier"
	"opsboard/services"
)

func BillingController(router *gin.Engine, svc *services.BillingService, feed *notifier.Feed[model.BillingEntry]) {
	routes := router.Group("/billing", middleware.AccessTokenMiddleware())
	{
		routes.GET("", func(c *gin.Context) {
			ListEntries(c, svc)
		})
		routes.GET("/stream", func(c *gin.Context) {
			StreamEntries(c, feed)
		})
		routes.POST("", func(c *gin.Context) {
			CreateEntry(c, svc)
		})
		routes.POST("/:id/sync", func(c *gin.Context) {
			SyncEntry(c, svc)
		})
	}
}

func ListEntries(c *gin.Context, svc *services.BillingService) {
	entries, err := svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []model.BillingEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func CreateEntry(c *gin.Context, svc *services.BillingService) {
	var request dto.CreateBillingEntryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	entryID, err := svc.Create(c.Request.Context(), request.InvoiceNumber, request.Amount, request.CustomerName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Billing entry created",
		"entryID": entryID,
	})
}

// SyncEntry pushes the entry to the ERP. Entries already syncing or synced
// are refused; failed ones may be retried.
func SyncEntry(c *gin.Context, svc *services.BillingService) {
	if err := svc.Sync(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry synced"})
}

func StreamEntries(c *gin.Context, feed *notifier.Feed[model.BillingEntry]) {
	ch := feed.Subscribe()
	defer feed.Unsubscribe(ch)

	c.Stream(func(w io.Writer) bool {
		select {
		case entries := <-ch:
			c.SSEvent("billing", entries)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func respondError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Billing entry not found"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
