// Package client talks to the broker's admin API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/nfrund/mqbroker/internal/admin"
	"github.com/nfrund/mqbroker/internal/dispatch"
	"github.com/nfrund/mqbroker/internal/topicmgr"
)

// DefaultAddr is the admin address a broker listens on unless configured otherwise.
const DefaultAddr = "http://127.0.0.1:10912"

// APIError is a non-2xx answer of the admin API.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s (%s, HTTP %d)", e.Message, e.Type, e.Status)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// NotFound reports whether err is a 404 from the admin API.
func NotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// Client is an admin API client.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the admin API at addr.
func New(addr string) *Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &Client{
		base: strings.TrimRight(addr, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// ListTopics returns every topic with the table's data version.
func (c *Client) ListTopics(ctx context.Context) (*admin.TopicListResponse, error) {
	var out admin.TopicListResponse
	if err := c.do(ctx, http.MethodGet, "/topics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTopic returns the config of one topic.
func (c *Client) GetTopic(ctx context.Context, name string) (*topicmgr.TopicConfig, error) {
	var out topicmgr.TopicConfig
	if err := c.do(ctx, http.MethodGet, "/topics/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTopic creates or replaces a topic and returns the stored config.
func (c *Client) UpdateTopic(ctx context.Context, name string, req admin.UpdateTopicRequest) (*topicmgr.TopicConfig, error) {
	var out topicmgr.TopicConfig
	if err := c.do(ctx, http.MethodPut, "/topics/"+url.PathEscape(name), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTopic removes a topic.
func (c *Client) DeleteTopic(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/topics/"+url.PathEscape(name), nil, nil)
}

// AutoCreate asks the broker to create name from a template as if a producer sent to it.
func (c *Client) AutoCreate(ctx context.Context, name string, req admin.AutoCreateRequest) (*topicmgr.TopicConfig, error) {
	var out topicmgr.TopicConfig
	if err := c.do(ctx, http.MethodPost, "/topics/"+url.PathEscape(name)+"/autocreate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Snapshot returns the persisted form of the topic table.
func (c *Client) Snapshot(ctx context.Context, pretty bool) ([]byte, error) {
	path := "/snapshot"
	if pretty {
		path += "?pretty=true"
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Version returns the broker version and registry statistics.
func (c *Client) Version(ctx context.Context) (*admin.VersionResponse, error) {
	var out admin.VersionResponse
	if err := c.do(ctx, http.MethodGet, "/version", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Watch streams topic registrations to fn until ctx is cancelled or fn returns an error.
func (c *Client) Watch(ctx context.Context, fn func(dispatch.Registration) error) error {
	wsURL := "ws" + strings.TrimPrefix(c.base, "http") + "/topics/watch"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}
	defer conn.CloseNow()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				conn.Close(websocket.StatusNormalClosure, "")
				return nil
			}
			return err
		}
		var reg dispatch.Registration
		if err := json.Unmarshal(data, &reg); err != nil {
			return fmt.Errorf("malformed registration: %w", err)
		}
		if err := fn(reg); err != nil {
			return err
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		var e admin.ErrorResponse
		if json.Unmarshal(data, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(data))
		}
		return &APIError{Status: resp.StatusCode, Type: e.Type, Message: e.Error}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}
