package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/internal/validation"
)

const maxContactBodyBytes = 64 << 10

const (
	msgSubmitted     = "Message received successfully"
	msgInternalError = "Internal server error"
	msgListFailed    = "Failed to fetch contact messages"
)

// PublicEmailJSConfig is the subset of EmailJS settings the browser needs to
// send the notification itself.
type PublicEmailJSConfig struct {
	PublicKey  string `json:"publicKey"`
	ServiceID  string `json:"serviceId"`
	TemplateID string `json:"templateId"`
}

// ContactHandler handles contact form submission and admin listing.
type ContactHandler struct {
	contactService service.ContactService
	emailjs        PublicEmailJSConfig
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService, emailjs PublicEmailJSConfig) *ContactHandler {
	return &ContactHandler{contactService: contactService, emailjs: emailjs}
}

type contactResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    *model.ContactMessage `json:"data,omitempty"`
	Errors  validation.Errors     `json:"errors,omitempty"`
}

type contactListResponse struct {
	Success bool                   `json:"success"`
	Data    []model.ContactMessage `json:"data"`
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBodyBytes)

	var req model.ContactSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reason := service.ReasonInvalidForm
		if errors.Is(err, io.EOF) {
			reason = service.ReasonRequired
		}
		respondJSON(w, http.StatusBadRequest, contactResponse{Success: false, Message: reason})
		return
	}

	msg, err := h.contactService.Submit(r.Context(), req)
	if err != nil {
		var rej *service.RejectionError
		if errors.As(err, &rej) {
			respondJSON(w, http.StatusBadRequest, contactResponse{
				Success: false,
				Message: rej.Reason,
				Errors:  rej.Fields,
			})
			return
		}
		slog.Error("contact submit failed",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		respondJSON(w, http.StatusInternalServerError, contactResponse{Success: false, Message: msgInternalError})
		return
	}

	respondJSON(w, http.StatusOK, contactResponse{
		Success: true,
		Message: msgSubmitted,
		Data:    &msg,
	})
}

// List handles GET /api/contact/messages.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.contactService.List(r.Context())
	if err != nil {
		slog.Error("contact list failed",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		respondJSON(w, http.StatusInternalServerError, contactResponse{Success: false, Message: msgListFailed})
		return
	}
	if msgs == nil {
		msgs = []model.ContactMessage{}
	}
	respondJSON(w, http.StatusOK, contactListResponse{Success: true, Data: msgs})
}

// EmailJSConfig handles GET /api/emailjs-config. Empty values mean the
// browser should skip its own notification.
func (h *ContactHandler) EmailJSConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.emailjs)
}
