package queueapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"boundedq/internal/queue"

	"github.com/labstack/echo/v4"
)

type EnqueueRequest struct {
	Message string `json:"message"`
}

type StatsResponse struct {
	Count    int `json:"count"`
	Capacity int `json:"capacity"`
}

type Handler struct {
	Registry *queue.Registry
}

func NewHandler(r *queue.Registry) *Handler {
	return &Handler{Registry: r}
}

func (h *Handler) Enqueue(c echo.Context) error {
	queueName := c.Param("name")
	if queueName == "" {
		return c.String(http.StatusBadRequest, "invalid queue name")
	}

	switch c.Request().Header.Get("Content-Type") {
	case "application/octet-stream":
		return h.enqueueOctetStream(c, queueName)
	default:
		return h.enqueueJSON(c, queueName)
	}
}

func (h *Handler) enqueueOctetStream(c echo.Context, queueName string) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "invalid request body")
	}
	if len(body) == 0 {
		return c.String(http.StatusBadRequest, "message is required")
	}
	h.Registry.PushWithName(queueName, body)
	return c.NoContent(http.StatusAccepted)
}

func (h *Handler) enqueueJSON(c echo.Context, queueName string) error {
	var req EnqueueRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return c.String(http.StatusBadRequest, "message is required")
	}
	h.Registry.PushWithName(queueName, []byte(req.Message))
	return c.NoContent(http.StatusAccepted)
}

// Dequeue pops the head of the named queue. An optional timeout_ms query
// parameter bounds how long the handler waits for a message; without it the
// check is immediate. An empty queue (or an expired wait) yields 204.
func (h *Handler) Dequeue(c echo.Context) error {
	queueName := c.Param("name")
	if queueName == "" {
		return c.String(http.StatusBadRequest, "invalid queue name")
	}

	var wait time.Duration
	if raw := c.QueryParam("timeout_ms"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return c.String(http.StatusBadRequest, "invalid timeout_ms")
		}
		wait = time.Duration(ms) * time.Millisecond
	}

	msg, err := h.Registry.PopWithName(queueName, wait)
	if errors.Is(err, queue.ErrTimeout) {
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return c.String(http.StatusInternalServerError, "dequeue failed")
	}
	return c.Blob(http.StatusOK, "application/octet-stream", msg)
}

func (h *Handler) Stats(c echo.Context) error {
	queueName := c.Param("name")
	if queueName == "" {
		return c.String(http.StatusBadRequest, "invalid queue name")
	}
	q := h.Registry.GetOrCreate(queueName)
	return c.JSON(http.StatusOK, StatsResponse{Count: q.Count(), Capacity: q.Size()})
}
