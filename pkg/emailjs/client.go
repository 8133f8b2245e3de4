// Package emailjs provides a lightweight EmailJS REST client.
// Uses raw HTTP calls (no SDK) to minimize external dependencies.
package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public EmailJS API endpoint.
const DefaultBaseURL = "https://api.emailjs.com"

const sendPath = "/api/v1.0/email/send"

// Config holds the account identifiers for one EmailJS template.
type Config struct {
	PublicKey  string // user_id in the REST API
	ServiceID  string
	TemplateID string
	PrivateKey string // optional accessToken, required for strict-mode accounts
	BaseURL    string
}

// Configured reports whether the three public identifiers are present.
func (c Config) Configured() bool {
	return c.PublicKey != "" && c.ServiceID != "" && c.TemplateID != ""
}

// Client は EmailJS API クライアントのインターフェース
type Client interface {
	// Send renders the configured template with params and sends it.
	Send(ctx context.Context, params map[string]string) error
}

// ErrNotConfigured は EmailJS が設定されていない場合のエラー
var ErrNotConfigured = errors.New("emailjs: not configured")

// APIError is returned for non-2xx responses. EmailJS answers with a plain
// text body describing the problem.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("emailjs: status %d: %s", e.StatusCode, e.Body)
}

// RealClient は EmailJS API への raw HTTP クライアント実装
type RealClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient は RealClient を生成する
func NewClient(cfg Config) *RealClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &RealClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ Client = (*RealClient)(nil)

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
	AccessToken    string            `json:"accessToken,omitempty"`
}

// Send posts the template parameters to the EmailJS send endpoint.
func (c *RealClient) Send(ctx context.Context, params map[string]string) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     c.cfg.TemplateID,
		UserID:         c.cfg.PublicKey,
		TemplateParams: params,
		AccessToken:    c.cfg.PrivateKey,
	})
	if err != nil {
		return fmt.Errorf("emailjs: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
