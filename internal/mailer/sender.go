package mailer

import (
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"time"

	"github.com/google/uuid"

	"github.com/maycoffee/maycoffee-api/internal/config"
	"github.com/maycoffee/maycoffee-api/internal/logger"
)

// Sender delivers one message. Implementations must be safe for use from the
// queue's drain goroutine.
type Sender interface {
	Send(recipientEmail, subject, htmlBody string) error
}

type SMTPSender struct {
	config *config.Mail
	auth   smtp.Auth
}

func NewSMTPSender(cfg *config.Mail) *SMTPSender {
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPServer)
	return &SMTPSender{
		config: cfg,
		auth:   auth,
	}
}

func (s *SMTPSender) Send(recipientEmail, subject, htmlBody string) error {
	msg := s.buildMessage(recipientEmail, subject, htmlBody)
	address := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)

	// Port 465 = implicit TLS, otherwise STARTTLS
	if s.config.SMTPPort == 465 {
		return s.sendImplicitTLS(address, recipientEmail, msg)
	}
	return s.sendSTARTTLS(address, recipientEmail, msg)
}

func (s *SMTPSender) timeout() time.Duration {
	timeout := time.Duration(s.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return timeout
}

func (s *SMTPSender) sendImplicitTLS(address, recipientEmail string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: s.config.SMTPServer}

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: s.timeout()}, "tcp", address, tlsConfig)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server (implicit TLS)", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	return s.sendOverConn(conn, recipientEmail, msg)
}

func (s *SMTPSender) sendSTARTTLS(address, recipientEmail string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", address, s.timeout())
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: s.config.SMTPServer}
	if err = client.StartTLS(tlsConfig); err != nil {
		logger.Log.Error("failed to start TLS", "error", err)
		return err
	}

	return s.sendViaClient(client, recipientEmail, msg)
}

func (s *SMTPSender) sendOverConn(conn net.Conn, recipientEmail string, msg []byte) error {
	client, err := smtp.NewClient(conn, s.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	return s.sendViaClient(client, recipientEmail, msg)
}

func (s *SMTPSender) sendViaClient(client *smtp.Client, recipientEmail string, msg []byte) error {
	if err := client.Auth(s.auth); err != nil {
		logger.Log.Error("SMTP authentication failed", "error", err)
		return err
	}

	if err := client.Mail(s.config.Username); err != nil {
		logger.Log.Error("failed to set sender", "error", err)
		return err
	}

	if err := client.Rcpt(recipientEmail); err != nil {
		logger.Log.Error("failed to set recipient", "recipient", recipientEmail, "error", err)
		return err
	}

	w, err := client.Data()
	if err != nil {
		logger.Log.Error("failed to get data writer", "error", err)
		return err
	}

	if _, err = w.Write(msg); err != nil {
		logger.Log.Error("failed to write message", "error", err)
		return err
	}

	if err = w.Close(); err != nil {
		logger.Log.Error("failed to close data writer", "error", err)
		return err
	}

	return client.Quit()
}

func (s *SMTPSender) buildMessage(recipient, subject, htmlBody string) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)
	encodedSenderName := mime.QEncoding.Encode("utf-8", s.config.SenderName)

	msgID := fmt.Sprintf("<%s@maycoffee.vn>", uuid.NewString())
	date := time.Now().Format(time.RFC1123Z)

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		msgID, date, recipient, encodedSenderName, s.config.Username, encodedSubject, htmlBody,
	)
}

// LogSender stands in when no SMTP provider is configured. Register echoes
// the raw verification code to the caller in that mode, so dropping the mail
// is acceptable outside production.
type LogSender struct{}

func (LogSender) Send(recipientEmail, subject, _ string) error {
	logger.Log.Info("mail delivery skipped (no SMTP configured)", "recipient", recipientEmail, "subject", subject)
	return nil
}
