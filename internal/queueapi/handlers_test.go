package queueapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boundedq/internal/queue"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	r, err := queue.NewRegistry(8)
	require.NoError(t, err)
	return NewHandler(r)
}

func TestHandler_Enqueue(t *testing.T) {
	cases := []struct {
		name        string
		headers     map[string]string
		body        io.Reader
		wantStatus  int
		wantInQueue []byte
	}{
		{
			name:        "octet-stream valid",
			headers:     map[string]string{"Content-Type": "application/octet-stream"},
			body:        bytes.NewBuffer([]byte("abc")),
			wantStatus:  http.StatusAccepted,
			wantInQueue: []byte("abc"),
		},
		{
			name:       "octet-stream empty",
			headers:    map[string]string{"Content-Type": "application/octet-stream"},
			body:       bytes.NewBuffer([]byte{}),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "json valid",
			headers:     map[string]string{"Content-Type": "application/json"},
			body:        bytes.NewBufferString(`{"message":"hello"}`),
			wantStatus:  http.StatusAccepted,
			wantInQueue: []byte("hello"),
		},
		{
			name:       "json missing message",
			headers:    map[string]string{"Content-Type": "application/json"},
			body:       bytes.NewBufferString(`{"message":""}`),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing queue name",
			headers:    map[string]string{"Content-Type": "application/json"},
			body:       bytes.NewBufferString(`{"message":"x"}`),
			wantStatus: http.StatusBadRequest,
		},
	}
	e := echo.New()
	h := newTestHandler(t)
	e.POST("/queues/:name/messages", h.Enqueue)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			queueName := "q"
			if c.name == "missing queue name" {
				queueName = ""
			}
			req := httptest.NewRequest(http.MethodPost, "/queues/"+queueName+"/messages", c.body)
			for k, v := range c.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			ctx := e.NewContext(req, rec)
			ctx.SetParamNames("name")
			ctx.SetParamValues(queueName)
			err := h.Enqueue(ctx)
			require.NoError(t, err)
			assert.Equal(t, c.wantStatus, rec.Code, "status code")
			if c.wantInQueue != nil && rec.Code == http.StatusAccepted {
				got, err := h.Registry.PopWithName(queueName, 0)
				require.NoError(t, err)
				assert.Equal(t, c.wantInQueue, got, "queue value")
			}
		})
	}
}

func TestHandler_EnqueueOverflowStaysAccepted(t *testing.T) {
	r, err := queue.NewRegistry(2)
	require.NoError(t, err)
	e := echo.New()
	h := NewHandler(r)

	// Pushing past capacity still answers 202; the oldest message is dropped.
	for _, msg := range []string{"1", "2", "3"} {
		req := httptest.NewRequest(http.MethodPost, "/queues/q/messages", bytes.NewBufferString(msg))
		req.Header.Set("Content-Type", "application/octet-stream")
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		ctx.SetParamNames("name")
		ctx.SetParamValues("q")
		require.NoError(t, h.Enqueue(ctx))
		assert.Equal(t, http.StatusAccepted, rec.Code)
	}

	got, err := r.PopWithName("q", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestHandler_Dequeue(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)
	queueName := "q"
	h.Registry.PushWithName(queueName, []byte("abc"))

	cases := []struct {
		name       string
		queue      string
		timeoutMS  string
		wantStatus int
		wantBody   []byte
	}{
		{"valid", queueName, "", http.StatusOK, []byte("abc")},
		{"empty", queueName, "", http.StatusNoContent, nil},
		{"empty with timeout", queueName, "50", http.StatusNoContent, nil},
		{"invalid timeout", queueName, "abc", http.StatusBadRequest, nil},
		{"negative timeout", queueName, "-5", http.StatusBadRequest, nil},
		{"missing queue name", "", "", http.StatusBadRequest, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			target := "/queues/" + c.queue + "/messages/head"
			if c.timeoutMS != "" {
				target += "?timeout_ms=" + c.timeoutMS
			}
			req := httptest.NewRequest(http.MethodDelete, target, nil)
			rec := httptest.NewRecorder()
			ctx := e.NewContext(req, rec)
			ctx.SetParamNames("name")
			ctx.SetParamValues(c.queue)
			err := h.Dequeue(ctx)
			require.NoError(t, err)
			assert.Equal(t, c.wantStatus, rec.Code, "status code")
			if c.wantBody != nil {
				assert.Equal(t, string(c.wantBody), rec.Body.String(), "body")
			}
		})
	}
}

func TestHandler_DequeueWaitsForPush(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	go func() {
		time.Sleep(50 * time.Millisecond)
		h.Registry.PushWithName("q", []byte("late"))
	}()

	req := httptest.NewRequest(http.MethodDelete, "/queues/q/messages/head?timeout_ms=2000", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("name")
	ctx.SetParamValues("q")
	require.NoError(t, h.Dequeue(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "late", rec.Body.String())
}

func TestHandler_Stats(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)
	h.Registry.PushWithName("q", []byte("a"))
	h.Registry.PushWithName("q", []byte("b"))

	req := httptest.NewRequest(http.MethodGet, "/queues/q/stats", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("name")
	ctx.SetParamValues("q")
	require.NoError(t, h.Stats(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, StatsResponse{Count: 2, Capacity: 8}, got)
}
