// Package qclient is an HTTP client for the queue service.
package qclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"boundedq/internal/queue"
)

type Client struct {
	BaseURL    string
	QueueName  string
	HttpClient *http.Client
}

func New(baseURL, queueName string) *Client {
	return &Client{
		BaseURL:    baseURL,
		QueueName:  queueName,
		HttpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Push enqueues msg. The service always accepts: a full queue drops its
// oldest message rather than rejecting the push.
func (c *Client) Push(ctx context.Context, msg []byte) error {
	url := fmt.Sprintf("%s/queues/%s/messages", c.BaseURL, c.QueueName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(msg))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push failed: %s: %s", resp.Status, string(b))
	}
	return nil
}

// Pop dequeues the head message, letting the service wait up to timeout for
// one to arrive. It returns queue.ErrTimeout when the wait expires empty.
func (c *Client) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	url := fmt.Sprintf("%s/queues/%s/messages/head", c.BaseURL, c.QueueName)
	if timeout > 0 {
		url += "?timeout_ms=" + strconv.FormatInt(timeout.Milliseconds(), 10)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNoContent:
		return nil, queue.ErrTimeout
	default:
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pop failed: %s: %s", resp.Status, string(b))
	}
}

// Stats reports the queue's current count and fixed capacity.
func (c *Client) Stats(ctx context.Context) (count, capacity int, err error) {
	url := fmt.Sprintf("%s/queues/%s/stats", c.BaseURL, c.QueueName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, err
	}
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, 0, errors.New("stats failed: " + resp.Status)
	}
	var stats struct {
		Count    int `json:"count"`
		Capacity int `json:"capacity"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return 0, 0, err
	}
	return stats.Count, stats.Capacity, nil
}
