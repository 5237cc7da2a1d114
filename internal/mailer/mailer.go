// Package mailer sends enrollment receipts over SMTP.
package mailer

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"summercamp-backend-go/internal/events"
)

// Mailer sends mail through one SMTP server with PLAIN auth.
type Mailer struct {
	host   string
	port   string
	user   string
	pass   string
	sender string
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a Mailer. All of host, user, pass and sender are required.
func New(host, port, user, pass, sender string) (*Mailer, error) {
	if host == "" || port == "" {
		return nil, fmt.Errorf("SMTP host and port must be provided")
	}
	if user == "" || pass == "" {
		return nil, fmt.Errorf("SMTP username and password must be provided")
	}
	if sender == "" {
		return nil, fmt.Errorf("sender email address cannot be empty")
	}
	return &Mailer{host: host, port: port, user: user, pass: pass, sender: sender, send: smtp.SendMail}, nil
}

// SendEmail sends body to recipient. The content type is HTML when the body
// looks like HTML and plain text otherwise.
func (m *Mailer) SendEmail(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}
	msg := buildMessage(m.sender, recipient, subject, body)
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := m.send(m.host+":"+m.port, auth, m.sender, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendReceipt emails the enrollment receipt for event.
func (m *Mailer) SendReceipt(event events.PaymentRecorded) error {
	subject, body := Receipt(event)
	return m.SendEmail(event.Email, subject, body)
}

// Receipt renders the subject and HTML body of an enrollment receipt.
// Class names and the transaction id come from the payment request body
// and are escaped before they reach the markup.
func Receipt(event events.PaymentRecorded) (string, string) {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<h1>Thank you for enrolling!</h1>")
	if len(event.ClassNames) > 0 {
		b.WriteString("<p>You are enrolled in:</p><ul>")
		for _, name := range event.ClassNames {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(name))
		}
		b.WriteString("</ul>")
	}
	fmt.Fprintf(&b, "<p>Amount paid: $%.2f</p>", event.Price)
	if event.TransactionID != "" {
		fmt.Fprintf(&b, "<p>Transaction: %s</p>", html.EscapeString(event.TransactionID))
	}
	b.WriteString("</body></html>")
	return "Summer Camp enrollment receipt", b.String()
}

func buildMessage(sender, recipient, subject, body string) []byte {
	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}
	return []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, sender, subject, contentType, body))
}
