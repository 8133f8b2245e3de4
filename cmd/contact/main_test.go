package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseFlags(t *testing.T) {
	t.Setenv("CONTACT_API_URL", "http://api.example.com")
	t.Setenv("ADMIN_TOKEN", "s3cret")

	o, err := parseFlags([]string{"-name", "Jo", "-list"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.apiURL != "http://api.example.com" || o.token != "s3cret" || !o.list || o.name != "Jo" {
		t.Errorf("unexpected options %+v", o)
	}
	if o.timeout != 15*time.Second {
		t.Errorf("expected default timeout, got %v", o.timeout)
	}
}

func TestRun_InvalidFormDoesNotCallAPI(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), options{apiURL: srv.URL, timeout: time.Second, name: "J", email: "jo@x.com", subject: "Hello!", message: "This is a test message."}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "name:") {
		t.Errorf("expected name error, got %q", stderr.String())
	}
	if calls.Load() != 0 {
		t.Error("invalid form must not reach the API")
	}
}

func TestRun_SubmitWithClientNotification(t *testing.T) {
	var emailed atomic.Int32
	emailjsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		emailed.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer emailjsSrv.Close()
	t.Setenv("EMAILJS_BASE_URL", emailjsSrv.URL)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/emailjs-config":
			_ = json.NewEncoder(w).Encode(map[string]string{"publicKey": "pk", "serviceId": "svc", "templateId": "tpl"})
		case "/api/contact":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"message": "Message received successfully",
				"data":    map[string]any{"id": 3, "name": "Jo", "email": "jo@x.com", "subject": "Hello!", "message": "This is a test message."},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer api.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), options{
		apiURL: api.URL, timeout: time.Second, notify: true,
		name: "Jo", email: "jo@x.com", subject: "Hello!", message: "This is a test message.",
	}, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"id": 3`) {
		t.Errorf("expected stored message on stdout, got %q", stdout.String())
	}
	if emailed.Load() != 1 {
		t.Errorf("expected one EmailJS call, got %d", emailed.Load())
	}
}

func TestRun_ServerRejection(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Internal server error"})
	}))
	defer api.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), options{
		apiURL: api.URL, timeout: time.Second,
		name: "Jo", email: "jo@x.com", subject: "Hello!", message: "This is a test message.",
	}, &stdout, &stderr)

	if code != 1 || !strings.Contains(stderr.String(), "Internal server error") {
		t.Errorf("expected server message and exit 1, got %d %q", code, stderr.String())
	}
}

func TestRun_List(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []map[string]any{{"id": 1, "name": "Jo"}}})
	}))
	defer api.Close()

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), options{apiURL: api.URL, timeout: time.Second, list: true}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), `"name": "Jo"`) {
		t.Errorf("unexpected output %q", stdout.String())
	}
}
