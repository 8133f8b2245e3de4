package notify

import (
	"context"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/pkg/emailjs"
)

// EmailJSNotifier sends messages through an EmailJS template.
type EmailJSNotifier struct {
	client emailjs.Client
}

func NewEmailJSNotifier(client emailjs.Client) *EmailJSNotifier {
	return &EmailJSNotifier{client: client}
}

func (n *EmailJSNotifier) Notify(ctx context.Context, msg model.ContactMessage) error {
	return n.client.Send(ctx, TemplateParams(msg))
}

// TemplateParams maps a message onto the variables used by the contact
// email template.
func TemplateParams(msg model.ContactMessage) map[string]string {
	return map[string]string{
		"from_name":  msg.Name,
		"from_email": msg.Email,
		"subject":    msg.Subject,
		"message":    msg.Message,
	}
}
