package queueapi

import (
	"net/http"

	"boundedq/internal/queue"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(r *queue.Registry) http.Handler {
	e := echo.New()
	h := NewHandler(r)
	e.POST("/queues/:name/messages", h.Enqueue)
	e.DELETE("/queues/:name/messages/head", h.Dequeue)
	e.GET("/queues/:name/stats", h.Stats)
	return e
}
