// Package contactclient talks to the contact API and drives a contact form
// through its submit lifecycle.
package contactclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/model"
)

// DefaultTimeout bounds every API call made by a Client.
const DefaultTimeout = 15 * time.Second

const maxErrorBody = 4096

// APIError is returned for non-2xx responses. Message is the server's
// message field when the body carried one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("contact api: status %d", e.Status)
	}
	return fmt.Sprintf("contact api: status %d: %s", e.Status, e.Message)
}

// EmailJSConfig is the public EmailJS configuration served by the API.
type EmailJSConfig struct {
	PublicKey  string `json:"publicKey"`
	ServiceID  string `json:"serviceId"`
	TemplateID string `json:"templateId"`
}

// Configured reports whether all three identifiers are present.
func (c EmailJSConfig) Configured() bool {
	return c.PublicKey != "" && c.ServiceID != "" && c.TemplateID != ""
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client is an HTTP client for the contact API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a Client for the API rooted at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts sub to /api/contact and returns the stored message.
func (c *Client) Submit(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("contact api: encode submission: %w", err)
	}

	var msg model.ContactMessage
	if err := c.do(ctx, http.MethodPost, "/api/contact", "", body, &msg); err != nil {
		return model.ContactMessage{}, err
	}
	return msg, nil
}

// ListMessages fetches every stored message. adminToken may be empty when
// the server runs without one.
func (c *Client) ListMessages(ctx context.Context, adminToken string) ([]model.ContactMessage, error) {
	msgs := []model.ContactMessage{}
	if err := c.do(ctx, http.MethodGet, "/api/contact/messages", adminToken, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// EmailJSConfig fetches the public EmailJS identifiers.
func (c *Client) EmailJSConfig(ctx context.Context) (EmailJSConfig, error) {
	var cfg EmailJSConfig
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/emailjs-config", nil)
	if err != nil {
		return cfg, fmt.Errorf("contact api: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cfg, fmt.Errorf("contact api: get emailjs config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return cfg, readAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("contact api: decode emailjs config: %w", err)
	}
	return cfg, nil
}

// do sends a request and unpacks the {success, message, data} envelope into out.
func (c *Client) do(ctx context.Context, method, path, token string, body []byte, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("contact api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("contact api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("contact api: decode response: %w", err)
	}
	if !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if len(env.Data) > 0 && out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("contact api: decode data: %w", err)
		}
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{Status: resp.StatusCode}
	var env envelope
	if json.Unmarshal(b, &env) == nil {
		apiErr.Message = env.Message
	}
	return apiErr
}
