package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"

	"github.com/example/authd/internal/config"
)

// Mailer delivers mail. Handlers depend on this interface so tests can
// substitute a fake.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPMailer constructs an SMTPMailer from configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
	}
}

// Send delivers a single HTML message.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.username == "" || m.password == "" {
		log.Printf("[Mail] SMTP credentials not configured, dropping mail to %s", to)
		return nil
	}

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := m.host + ":" + m.port

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		log.Printf("[Mail] Failed to send to %s: %v", to, err)
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

var verificationEmailTmpl = template.Must(template.New("verification").Parse(`
<div style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; padding: 20px;">
    <h1 style="text-align: center;">Verify Your Email</h1>
    <p>Thank you for signing up! To complete your registration, please use the verification code below:</p>
    <div style="text-align: center; margin: 20px 0;">
      <span style="font-size: 24px; font-weight: bold; padding: 10px 20px; border: 2px dashed #4CAF50; display: inline-block;">{{.Code}}</span>
    </div>
    <p>If you did not request this, please ignore this email. The code will expire in 10 minutes.</p>
    <p>Best regards,<br/>The Support Team</p>
  </div>
</div>`))

// VerificationEmail renders the HTML body for a verification-code message.
func VerificationEmail(code string) string {
	var buf bytes.Buffer
	if err := verificationEmailTmpl.Execute(&buf, struct{ Code string }{Code: code}); err != nil {
		// Template and data are both static shapes; execution cannot fail
		// with well-formed inputs, but fall back to plain text anyway.
		return "Your verification code is " + code
	}
	return buf.String()
}

var resetEmailTmpl = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; padding: 20px;">
    <h1 style="text-align: center;">Reset Your Password</h1>
    <p>Click the link below to reset your password. It expires in 15 minutes.</p>
    <p style="text-align: center; margin: 20px 0;"><a href="{{.URL}}">{{.URL}}</a></p>
    <p>If you have not requested this email then please ignore it.</p>
  </div>
</div>`))

// ResetEmail renders the HTML body for a password-reset message.
func ResetEmail(resetURL string) string {
	var buf bytes.Buffer
	if err := resetEmailTmpl.Execute(&buf, struct{ URL string }{URL: resetURL}); err != nil {
		return "Your reset link: " + resetURL
	}
	return buf.String()
}
