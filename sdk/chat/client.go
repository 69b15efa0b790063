// Package chat is a Go client for DeskPulse ticket chat: the REST endpoints,
// a polling loop for one ticket view and the push WebSocket stream.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is the chat API client.
type Client struct {
	baseURL    string
	session    Session
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// NewClient creates a new chat API client.
//
// Parameters:
//   - baseURL: The API base URL (e.g., "https://support.example.com")
//   - session: The caller's bearer token and role
func NewClient(baseURL string, session Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the credentials the client sends.
func (c *Client) Session() Session {
	return c.session
}

// Messages lists every message on a ticket, oldest first. Fetching marks the
// other party's messages read.
func (c *Client) Messages(ctx context.Context, ticketID uint) ([]Message, error) {
	u := fmt.Sprintf("%s/tickets/%d/chat", c.baseURL, ticketID)

	var msgs []Message
	if err := c.doRequest(ctx, http.MethodGet, u, nil, &msgs); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// Send posts a message to a ticket and returns it as stored.
func (c *Client) Send(ctx context.Context, ticketID uint, text string) (*Message, error) {
	u := fmt.Sprintf("%s/tickets/%d/chat", c.baseURL, ticketID)

	var msg Message
	if err := c.doRequest(ctx, http.MethodPost, u, map[string]string{"message": text}, &msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &msg, nil
}

// CheckNew returns messages with an ID above lastMessageID.
func (c *Client) CheckNew(ctx context.Context, ticketID, lastMessageID uint) (*CheckNewResult, error) {
	u := fmt.Sprintf("%s/tickets/%d/chat/check-new?last_message_id=%d", c.baseURL, ticketID, lastMessageID)

	var result CheckNewResult
	if err := c.doRequest(ctx, http.MethodGet, u, nil, &result); err != nil {
		return nil, fmt.Errorf("check new messages: %w", err)
	}
	return &result, nil
}

// MarkRead marks the other party's messages on a ticket read.
func (c *Client) MarkRead(ctx context.Context, ticketID uint) error {
	u := fmt.Sprintf("%s/tickets/%d/chat/mark-read", c.baseURL, ticketID)

	if err := c.doRequest(ctx, http.MethodPost, u, nil, nil); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// UnreadCount returns how many messages across the caller's tickets are unread.
func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	u := c.baseURL + "/chat/unread-count"

	var result struct {
		UnreadCount int64 `json:"unread_count"`
	}
	if err := c.doRequest(ctx, http.MethodGet, u, nil, &result); err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return result.UnreadCount, nil
}

// wsURL builds the WebSocket URL for a ticket. The token rides in the query
// because browsers cannot set headers on the handshake.
func (c *Client) wsURL(ticketID uint) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/tickets/" + strconv.FormatUint(uint64(ticketID), 10)
	u.RawQuery = url.Values{"token": {c.session.Token}}.Encode()
	return u.String(), nil
}

// doRequest performs an HTTP request and decodes the response.
func (c *Client) doRequest(ctx context.Context, method, url string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.session.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			apiErr.Errors = eb.Errors
			switch {
			case eb.Message != "":
				apiErr.Message = eb.Message
			case eb.Error != "":
				apiErr.Message = eb.Error
			}
		}
		return apiErr
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
