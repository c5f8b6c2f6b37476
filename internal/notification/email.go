package notification

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/planbyte/event-planner-backend/config"
)

// Channel is a delivery mechanism for outbound notifications
type Channel interface {
	Send(to []string, subject string, body string) error
}

// EmailSender implements Channel using SMTP
type EmailSender struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	FromAddr string
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		FromName: cfg.SMTPFromName,
		FromAddr: cfg.SMTPFromEmail,
	}
}

var emailTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; background: #f7f7f7; padding: 24px;">
    <div style="max-width: 560px; margin: auto; background: #ffffff; border-radius: 8px; padding: 24px;">
      <h2 style="color: #333333;">{{.Subject}}</h2>
      <div style="color: #555555; line-height: 1.5;">{{.Body}}</div>
      <p style="color: #999999; font-size: 12px; margin-top: 32px;">Sent by Event Planner</p>
    </div>
  </body>
</html>`))

// Send renders the HTML shell and delivers the email over SMTP
func (e *EmailSender) Send(to []string, subject string, body string) error {
	if e.Host == "" {
		fmt.Println("⚠️ SMTP not configured, skipping email to:", to)
		return nil
	}

	var htmlBody bytes.Buffer
	err := emailTmpl.Execute(&htmlBody, map[string]interface{}{
		"Subject": subject,
		"Body":    template.HTML(body),
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	from := fmt.Sprintf("%s <%s>", e.FromName, e.FromAddr)
	toHeader := strings.Join(to, ", ")
	headers := map[string]string{
		"From":         from,
		"To":           toHeader,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"UTF-8\"",
	}

	var msgBuilder strings.Builder
	for k, v := range headers {
		msgBuilder.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msgBuilder.WriteString("\r\n" + htmlBody.String())
	message := []byte(msgBuilder.String())

	addr := fmt.Sprintf("%s:%s", e.Host, e.Port)
	fmt.Println("📤 Sending email to:", to, "via", addr)

	if err := e.sendMailWithTLS(addr, to, message); err != nil {
		fmt.Println("❌ Email send failed:", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	fmt.Println("✅ Email sent successfully to:", to)
	return nil
}

func (e *EmailSender) sendMailWithTLS(addr string, to []string, message []byte) error {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         e.Host,
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", e.Username, e.Password, e.Host)
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err = client.Mail(e.FromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = writer.Write(message); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return client.Quit()
}
