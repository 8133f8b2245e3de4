package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/internal/validation"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc func(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error)
	listFunc   func(ctx context.Context) ([]model.ContactMessage, error)
}

func (m *mockContactService) Submit(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	return model.ContactMessage{ID: 1, Name: sub.Name, Email: sub.Email, Subject: sub.Subject, Message: sub.Message}, nil
}

func (m *mockContactService) List(ctx context.Context) ([]model.ContactMessage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

type submitResult struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    *model.ContactMessage `json:"data"`
	Errors  validation.Errors     `json:"errors"`
}

func postContact(t *testing.T, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, submitResult) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)

	var resp submitResult
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, resp
}

const validBody = `{"name":"Jo","email":"jo@x.com","subject":"Hello!","message":"This is a test message."}`

// ---------------------------------------------------------------------------
// POST /api/contact tests
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	var captured model.ContactSubmission
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error) {
			captured = sub
			return model.ContactMessage{ID: 1, Name: sub.Name, Email: sub.Email, Subject: sub.Subject, Message: sub.Message, CreatedAt: time.Now()}, nil
		},
	}
	h := NewContactHandler(mock, PublicEmailJSConfig{})

	rec, resp := postContact(t, h.Submit, validBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if !resp.Success || resp.Message != "Message received successfully" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Data == nil || resp.Data.ID != 1 || resp.Data.Name != "Jo" {
		t.Errorf("expected stored message in data, got %+v", resp.Data)
	}
	if captured.Subject != "Hello!" {
		t.Errorf("expected subject to reach the service, got %+v", captured)
	}
}

func TestContactHandler_Submit_Rejection(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error) {
			return model.ContactMessage{}, &service.RejectionError{
				Reason: service.ReasonInvalidEmail,
				Fields: validation.Errors{{Field: validation.FieldEmail, Reason: "Please enter a valid email address"}},
			}
		},
	}
	h := NewContactHandler(mock, PublicEmailJSConfig{})

	rec, resp := postContact(t, h.Submit, validBody)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp.Success || resp.Message != "Invalid email format" {
		t.Errorf("unexpected response %+v", resp)
	}
	if !resp.Errors.Has(validation.FieldEmail) {
		t.Errorf("expected email field error, got %v", resp.Errors)
	}
	if resp.Data != nil {
		t.Error("rejection must not carry data")
	}
}

func TestContactHandler_Submit_StoreFailure(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error) {
			return model.ContactMessage{}, errors.New("disk full")
		},
	}
	h := NewContactHandler(mock, PublicEmailJSConfig{})

	rec, resp := postContact(t, h.Submit, validBody)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp.Success || resp.Message != "Internal server error" {
		t.Errorf("unexpected response %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "disk full") {
		t.Error("internal error details must not leak to the client")
	}
}

func TestContactHandler_Submit_BadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", "", "All fields are required"},
		{"malformed json", `{"name":`, "Invalid form data"},
		{"wrong field type", `{"name":42,"email":"jo@x.com","subject":"Hello!","message":"This is a test message."}`, "Invalid form data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			mock := &mockContactService{
				submitFunc: func(ctx context.Context, sub model.ContactSubmission) (model.ContactMessage, error) {
					called = true
					return model.ContactMessage{}, nil
				},
			}
			h := NewContactHandler(mock, PublicEmailJSConfig{})

			rec, resp := postContact(t, h.Submit, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if resp.Message != tt.want {
				t.Errorf("expected %q, got %q", tt.want, resp.Message)
			}
			if called {
				t.Error("service must not be called for an undecodable body")
			}
		})
	}
}

func TestContactHandler_Submit_BodyTooLarge(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, PublicEmailJSConfig{})
	huge := `{"name":"Jo","email":"jo@x.com","subject":"Hello!","message":"` + strings.Repeat("a", maxContactBodyBytes) + `"}`

	rec, resp := postContact(t, h.Submit, huge)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if resp.Message != "Invalid form data" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

// TestContactHandler_Submit_EndToEnd drives the real service and memory store.
func TestContactHandler_Submit_EndToEnd(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	h := NewContactHandler(service.NewContactService(repo, nil, time.Second), PublicEmailJSConfig{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
		wantID     int64
	}{
		{"accepted", validBody, http.StatusOK, "Message received successfully", 1},
		{"missing message", `{"name":"Jo","email":"jo@x.com","subject":"Hello!","message":""}`, http.StatusBadRequest, "All fields are required", 0},
		{"bad email", `{"name":"Jo","email":"not-an-email","subject":"Hello!","message":"This is a test message."}`, http.StatusBadRequest, "Invalid email format", 0},
		{"short name", `{"name":"J","email":"jo@x.com","subject":"Hello!","message":"This is a test message."}`, http.StatusBadRequest, "Invalid form data", 0},
		{"accepted again", validBody, http.StatusOK, "Message received successfully", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := postContact(t, h.Submit, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if resp.Message != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, resp.Message)
			}
			if tt.wantID != 0 && (resp.Data == nil || resp.Data.ID != tt.wantID) {
				t.Errorf("expected id %d, got %+v", tt.wantID, resp.Data)
			}
		})
	}

	all, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected only the 2 accepted messages stored, got %d", len(all))
	}
}

// ---------------------------------------------------------------------------
// GET /api/contact/messages tests
// ---------------------------------------------------------------------------

func TestContactHandler_List_Success(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context) ([]model.ContactMessage, error) {
			return []model.ContactMessage{{ID: 1, Name: "Jo"}, {ID: 2, Name: "Al"}}, nil
		},
	}
	h := NewContactHandler(mock, PublicEmailJSConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/contact/messages", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Success bool                   `json:"success"`
		Data    []model.ContactMessage `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Data) != 2 || resp.Data[0].ID != 1 || resp.Data[1].ID != 2 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestContactHandler_List_EmptyIsArray(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, PublicEmailJSConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/contact/messages", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestContactHandler_List_ServiceError(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context) ([]model.ContactMessage, error) {
			return nil, errors.New("connection reset")
		},
	}
	h := NewContactHandler(mock, PublicEmailJSConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/contact/messages", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp submitResult
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success || resp.Message != "Failed to fetch contact messages" {
		t.Errorf("unexpected response %+v", resp)
	}
}

// ---------------------------------------------------------------------------
// GET /api/emailjs-config
// ---------------------------------------------------------------------------

func TestContactHandler_EmailJSConfig(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, PublicEmailJSConfig{
		PublicKey:  "pk_123",
		ServiceID:  "service_x",
		TemplateID: "template_x",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/emailjs-config", nil)
	rec := httptest.NewRecorder()
	h.EmailJSConfig(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["publicKey"] != "pk_123" || got["serviceId"] != "service_x" || got["templateId"] != "template_x" {
		t.Errorf("unexpected config %v", got)
	}
	if _, ok := got["privateKey"]; ok {
		t.Error("private key must never be served")
	}
}
