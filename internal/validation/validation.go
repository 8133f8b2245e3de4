// Package validation holds the contact form rules. The HTTP endpoint and the
// Go client both import this package so a form accepted on one side is never
// rejected on the other.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/portfolio/backend/internal/model"
)

// emailPattern requires a non-whitespace local part, an "@", and a domain
// part containing a ".".
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Field names as they appear in JSON payloads and error reports.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// Minimum lengths, counted in Unicode code points on the untrimmed value.
const (
	MinNameLength    = 2
	MinSubjectLength = 5
	MinMessageLength = 10
)

type rules struct {
	Name    string `json:"name" validate:"notblank,min=2"`
	Email   string `json:"email" validate:"notblank,contactemail"`
	Subject string `json:"subject" validate:"notblank,min=5"`
	Message string `json:"message" validate:"notblank,min=10"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return !isBlank(fl.Field().String())
	})
	_ = v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	return v
}

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Errors is the full set of field violations for one submission.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Reason)
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// Has reports whether field has at least one violation.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validate checks every field of sub and returns nil or an Errors value
// listing all violations at once.
func Validate(sub model.ContactSubmission) error {
	err := validate.Struct(rules{
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Message: sub.Message,
	})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Reason: reason(fe.Field(), fe.Tag())})
	}
	return out
}

// MissingFields returns the names of blank fields in form order.
func MissingFields(sub model.ContactSubmission) []string {
	var missing []string
	if isBlank(sub.Name) {
		missing = append(missing, FieldName)
	}
	if isBlank(sub.Email) {
		missing = append(missing, FieldEmail)
	}
	if isBlank(sub.Subject) {
		missing = append(missing, FieldSubject)
	}
	if isBlank(sub.Message) {
		missing = append(missing, FieldMessage)
	}
	return missing
}

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

var labels = map[string]string{
	FieldName:    "Name",
	FieldEmail:   "Email",
	FieldSubject: "Subject",
	FieldMessage: "Message",
}

func reason(field, tag string) string {
	switch tag {
	case "notblank":
		return labels[field] + " is required"
	case "contactemail":
		return "Please enter a valid email address"
	}
	switch field {
	case FieldName:
		return "Name must be at least 2 characters"
	case FieldSubject:
		return "Subject must be at least 5 characters"
	case FieldMessage:
		return "Message must be at least 10 characters"
	}
	return labels[field] + " is invalid"
}
