package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shareit/internal/api"
	"shareit/internal/models"
)

// Client calls the shareit HTTP API on behalf of a user.
type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	userHeader   string
	httpClient   *http.Client
}

// APIError is a non-2xx response. Message is the server's error text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

type Booking struct {
	ID           int64         `json:"id"`
	Start        api.Timestamp `json:"start"`
	End          api.Timestamp `json:"end"`
	Status       string        `json:"status"`
	DurationDays int64         `json:"durationDays"`
}

type ItemRequest struct {
	ID          int64         `json:"id"`
	Description string        `json:"description"`
	Created     api.Timestamp `json:"created"`
}

// New constructs a client for baseURL. An empty apiKey sends no key header.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		apiKeyHeader: "x-api-key",
		userHeader:   models.DefaultUserHeader,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) CreateUser(ctx context.Context, name, email string) (*User, error) {
	var out User
	body := map[string]string{"name": name, "email": email}
	if err := c.do(ctx, http.MethodPost, "/users", 0, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "/users", 0, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateItem(ctx context.Context, ownerID int64, item Item) (*Item, error) {
	var out Item
	body := map[string]any{
		"name":        item.Name,
		"description": item.Description,
		"available":   item.Available,
		"requestId":   item.RequestID,
	}
	if err := c.do(ctx, http.MethodPost, "/items", ownerID, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListItems returns the items owned by ownerID.
func (c *Client) ListItems(ctx context.Context, ownerID int64) ([]Item, error) {
	var out []Item
	if err := c.do(ctx, http.MethodGet, "/items", ownerID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchItems(ctx context.Context, userID int64, text string) ([]Item, error) {
	var out []Item
	if err := c.do(ctx, http.MethodGet, "/items/search?text="+url.QueryEscape(text), userID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*Booking, error) {
	var out Booking
	body := map[string]any{
		"itemId": itemID,
		"start":  api.NewTimestamp(start),
		"end":    api.NewTimestamp(end),
	}
	if err := c.do(ctx, http.MethodPost, "/bookings", bookerID, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*Booking, error) {
	var out Booking
	path := fmt.Sprintf("/bookings/%d?approved=%s", bookingID, strconv.FormatBool(approved))
	if err := c.do(ctx, http.MethodPatch, path, ownerID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRequest(ctx context.Context, requesterID int64, description string) (*ItemRequest, error) {
	var out ItemRequest
	body := map[string]string{"description": description}
	if err := c.do(ctx, http.MethodPost, "/requests", requesterID, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends body as JSON and decodes the response into out. userID <= 0 sends no user header.
func (c *Client) do(ctx context.Context, method, path string, userID int64, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}
	if userID > 0 {
		req.Header.Set(c.userHeader, strconv.FormatInt(userID, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
