// -----------------------------------------------------------------------
// Mailer Service - SMTP delivery of notification emails
// -----------------------------------------------------------------------

package mailer

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/signalist/notifier/internal/common"
	"github.com/signalist/notifier/internal/interfaces"
	"github.com/signalist/notifier/internal/models"
	"github.com/ternarybob/arbor"
)

// Service provides email sending over SMTP
type Service struct {
	config *common.MailConfig
	logger arbor.ILogger
}

// NewService creates a new mailer service
func NewService(config *common.MailConfig, logger arbor.ILogger) interfaces.MailerService {
	return &Service{
		config: config,
		logger: logger,
	}
}

// IsConfigured checks if SMTP is configured with minimum required settings
func (s *Service) IsConfigured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != "" && s.config.From != ""
}

// SendWelcomeEmail delivers the personalized sign-up email
func (s *Service) SendWelcomeEmail(ctx context.Context, email models.WelcomeEmail) (*models.SendResult, error) {
	htmlBody, err := RenderWelcomeEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to render welcome email: %w", err)
	}

	subject := fmt.Sprintf("Welcome to Signalist - your stock market toolkit is ready, %s!", email.Name)

	result, err := s.sendHTMLEmail(ctx, email.Email, subject, htmlBody, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("to", email.Email).
		Str("message_id", result.MessageID).
		Msg("Welcome email sent")

	return result, nil
}

// SendNewsSummaryEmail delivers one daily market summary
func (s *Service) SendNewsSummaryEmail(ctx context.Context, email models.NewsSummaryEmail) (*models.SendResult, error) {
	htmlBody, err := RenderNewsSummaryEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to render news summary email: %w", err)
	}

	subject := fmt.Sprintf("Market News Summary Today - %s", email.Date)

	result, err := s.sendHTMLEmail(ctx, email.Email, subject, htmlBody, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("to", email.Email).
		Str("message_id", result.MessageID).
		Msg("News summary email sent")

	return result, nil
}

// sendHTMLEmail builds a MIME message and delivers it to one recipient.
// When textBody is non-empty the message is sent as multipart/alternative.
func (s *Service) sendHTMLEmail(ctx context.Context, to, subject, htmlBody, textBody string) (*models.SendResult, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("SMTP is not configured")
	}
	if to == "" {
		return nil, fmt.Errorf("recipient address cannot be empty")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), s.config.Host)

	// Build email message
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Message-ID: %s\r\n", messageID))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	msg.WriteString("MIME-Version: 1.0\r\n")

	// Bodies are base64 encoded to handle long lines. RFC 5322 limits
	// line length to 998 chars; base64 ensures compliance.
	if textBody != "" {
		boundary := generateBoundary()
		msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(encodeBase64WithLineBreaks(textBody))
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(encodeBase64WithLineBreaks(htmlBody))
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	} else {
		msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(encodeBase64WithLineBreaks(htmlBody))
		msg.WriteString("\r\n")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	var err error
	if s.config.UseTLS {
		err = s.sendWithTLS(addr, auth, s.config.From, to, msg.String())
	} else {
		err = smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg.String()))
	}
	if err != nil {
		return nil, err
	}

	return &models.SendResult{
		MessageID: messageID,
		Server:    s.config.Host,
		Accepted:  true,
	}, nil
}

// sendWithTLS sends email using TLS connection (required for Gmail)
func (s *Service) sendWithTLS(addr string, auth smtp.Auth, from, to, msg string) error {
	host := strings.Split(addr, ":")[0]

	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: host,
	})
	if err != nil {
		// Fallback to STARTTLS if direct TLS fails
		return s.sendWithSTARTTLS(addr, auth, from, to, msg)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set mail from: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set mail recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start data: %w", err)
	}

	_, err = w.Write([]byte(msg))
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// sendWithSTARTTLS sends email using STARTTLS upgrade
func (s *Service) sendWithSTARTTLS(addr string, auth smtp.Auth, from, to, msg string) error {
	host := strings.Split(addr, ":")[0]

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: host,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set mail from: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set mail recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start data: %w", err)
	}

	_, err = w.Write([]byte(msg))
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// generateBoundary creates a unique MIME boundary string
func generateBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "signalist_boundary_fallback"
	}
	return fmt.Sprintf("signalist_%x", b)
}

// encodeBase64WithLineBreaks encodes content as base64 with 76-char line
// breaks per RFC 2045 for MIME content. This prevents line-length related
// corruption of large HTML content.
func encodeBase64WithLineBreaks(content string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))

	var result strings.Builder
	const lineLen = 76

	for i := 0; i < len(encoded); i += lineLen {
		end := i + lineLen
		if end > len(encoded) {
			end = len(encoded)
		}
		result.WriteString(encoded[i:end])
		if end < len(encoded) {
			result.WriteString("\r\n")
		}
	}

	return result.String()
}
