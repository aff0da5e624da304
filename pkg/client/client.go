// Package client is a Go client for the Sweet Shop API. The token lives in
// an explicit Client value instead of ambient global state, callers thread
// the client through their own code.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
}

type Session struct {
	Token string
	User  User
}

type Sweet struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

type envelope struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    User    `json:"user"`
	Sweet   Sweet   `json:"sweet"`
	Sweets  []Sweet `json:"sweets"`
}

// SetToken seeds a persisted token, e.g. one restored from disk.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, body any, out *envelope) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, out.Message)
	}
	return nil
}

// Register creates an account and captures the issued token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var out envelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &Session{Token: out.Token, User: out.User}, nil
}

// Login authenticates and captures the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out envelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &Session{Token: out.Token, User: out.User}, nil
}

// Me re-resolves the identity behind the held token, the call a restored
// session makes on startup.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out envelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Sweets(ctx context.Context) ([]Sweet, error) {
	var out envelope
	if err := c.do(ctx, http.MethodGet, "/api/sweets", nil, &out); err != nil {
		return nil, err
	}
	return out.Sweets, nil
}

func (c *Client) Purchase(ctx context.Context, sweetID string, quantity int) (*Sweet, error) {
	var out envelope
	if err := c.do(ctx, http.MethodPost, "/api/sweets/"+sweetID+"/purchase", map[string]int{
		"quantity": quantity,
	}, &out); err != nil {
		return nil, err
	}
	return &out.Sweet, nil
}
