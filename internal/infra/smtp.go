package infra

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/fadesignlk/stock-master-api/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
// Every send goes through the circuit breaker so a dead relay fast-fails
// instead of stalling the worker pool.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
	domain   string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		domain:   cfg.Domain,
		cb:       cb,
	}
}

// CircuitState exposes the breaker state for the health endpoint.
func (m *Mailer) CircuitState() string {
	if m.cb == nil {
		return "disabled"
	}
	return m.cb.State().String()
}

func (m *Mailer) send(e *email.Email) error {
	e.From = m.user
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if m.cb == nil {
		return e.Send(m.addr, auth)
	}
	return m.cb.Execute(func() error {
		return e.Send(m.addr, auth)
	})
}

// SendReceipt mails a PDF sale receipt to the customer.
func (m *Mailer) SendReceipt(to, subject, body, pdfPath string) error {
	e := email.NewEmail()
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}
	return m.send(e)
}

// SendPasswordReset mails the reset link for a forgotten password.
func (m *Mailer) SendPasswordReset(to, token string) error {
	e := email.NewEmail()
	e.To = []string{to}
	e.Subject = "Password reset"
	e.Text = []byte(fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Reset link: %s/reset-password?token=%s\n\n"+
			"The link expires in one hour. If you did not request this, ignore this mail.",
		m.domain, token))
	return m.send(e)
}

// SendLowStockAlert mails the operations inbox when ledger records cross the
// low-stock threshold.
func (m *Mailer) SendLowStockAlert(to string, lines []string) error {
	e := email.NewEmail()
	e.To = []string{to}
	e.Subject = "Low stock alert"
	e.Text = []byte("The following products are running low:\n\n" + strings.Join(lines, "\n"))
	return m.send(e)
}
