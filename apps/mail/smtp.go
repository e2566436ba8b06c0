package mail

import (
	"bytes"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPClient handles SMTP connections for sending emails.
type SMTPClient struct {
	config Config
}

// NewSMTPClient creates a new SMTP client with the given configuration.
func NewSMTPClient(config Config) *SMTPClient {
	return &SMTPClient{config: config}
}

// Send sends an email using SMTP and returns the generated Message-ID.
func (c *SMTPClient) Send(email Email) (string, error) {
	messageID := email.MessageID
	if messageID == "" {
		messageID = fmt.Sprintf("<%d.%s@%s>", time.Now().UnixNano(), randomID(8), c.domain())
	}
	email.MessageID = messageID

	msg := c.buildMessage(email)

	addr := fmt.Sprintf("%s:%d", c.config.SMTPHost, c.config.SMTPPort)

	var conn net.Conn
	var client *smtp.Client
	var err error

	if c.config.SMTPEncryption == "ssl" || c.config.SMTPPort == 465 {
		tlsConfig := &tls.Config{ServerName: c.config.SMTPHost}
		conn, err = tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return "", fmt.Errorf("failed to connect (SSL): %w", err)
		}
		defer conn.Close()

		client, err = smtp.NewClient(conn, c.config.SMTPHost)
		if err != nil {
			return "", fmt.Errorf("failed to create SMTP client: %w", err)
		}
	} else {
		client, err = smtp.Dial(addr)
		if err != nil {
			return "", fmt.Errorf("failed to connect: %w", err)
		}

		if c.config.SMTPEncryption == "tls" {
			tlsConfig := &tls.Config{ServerName: c.config.SMTPHost}
			if err = client.StartTLS(tlsConfig); err != nil {
				client.Close()
				return "", fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}
	defer client.Close()

	if c.config.SMTPUsername != "" && c.config.SMTPPassword != "" {
		auth := smtp.PlainAuth("", c.config.SMTPUsername, c.config.SMTPPassword, c.config.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return "", fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err := client.Mail(c.config.FromEmail); err != nil {
		return "", fmt.Errorf("failed to set sender: %w", err)
	}

	recipients := append(email.To, email.CC...)
	for _, to := range recipients {
		if err := client.Rcpt(to); err != nil {
			return "", fmt.Errorf("failed to add recipient %s: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return "", fmt.Errorf("failed to start data: %w", err)
	}

	if _, err := w.Write(msg); err != nil {
		return "", fmt.Errorf("failed to write message: %w", err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close data: %w", err)
	}

	if err := client.Quit(); err != nil {
		return "", fmt.Errorf("failed to quit: %w", err)
	}

	return messageID, nil
}

// buildMessage constructs the email message with proper MIME encoding.
func (c *SMTPClient) buildMessage(email Email) []byte {
	var buf bytes.Buffer

	if c.config.FromName != "" {
		fmt.Fprintf(&buf, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", c.config.FromName), c.config.FromEmail)
	} else {
		fmt.Fprintf(&buf, "From: %s\r\n", c.config.FromEmail)
	}

	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(email.To, ", "))
	if len(email.CC) > 0 {
		fmt.Fprintf(&buf, "Cc: %s\r\n", strings.Join(email.CC, ", "))
	}

	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: %s\r\n", email.MessageID)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n")
		fmt.Fprintf(&buf, "Content-Transfer-Encoding: quoted-printable\r\n")
		fmt.Fprintf(&buf, "\r\n")
		fmt.Fprintf(&buf, "%s", encodeQuotedPrintable(email.HTMLBody))
	} else {
		fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n")
		fmt.Fprintf(&buf, "Content-Transfer-Encoding: quoted-printable\r\n")
		fmt.Fprintf(&buf, "\r\n")
		fmt.Fprintf(&buf, "%s", encodeQuotedPrintable(email.Body))
	}

	return buf.Bytes()
}

// domain extracts the domain from the sender address.
func (c *SMTPClient) domain() string {
	parts := strings.Split(c.config.FromEmail, "@")
	if len(parts) == 2 {
		return parts[1]
	}
	return "localhost"
}

// TestConnection tests the SMTP connection.
func (c *SMTPClient) TestConnection() error {
	addr := fmt.Sprintf("%s:%d", c.config.SMTPHost, c.config.SMTPPort)

	var conn net.Conn
	var client *smtp.Client
	var err error

	if c.config.SMTPEncryption == "ssl" || c.config.SMTPPort == 465 {
		tlsConfig := &tls.Config{ServerName: c.config.SMTPHost}
		conn, err = tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("failed to connect (SSL): %w", err)
		}
		defer conn.Close()

		client, err = smtp.NewClient(conn, c.config.SMTPHost)
		if err != nil {
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
	} else {
		client, err = smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}

		if c.config.SMTPEncryption == "tls" {
			tlsConfig := &tls.Config{ServerName: c.config.SMTPHost}
			if err = client.StartTLS(tlsConfig); err != nil {
				client.Close()
				return fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}
	defer client.Close()

	if c.config.SMTPUsername != "" && c.config.SMTPPassword != "" {
		auth := smtp.PlainAuth("", c.config.SMTPUsername, c.config.SMTPPassword, c.config.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	return client.Quit()
}

// encodeQuotedPrintable encodes a string in quoted-printable format.
func encodeQuotedPrintable(s string) string {
	var buf strings.Builder
	lineLen := 0

	for _, r := range s {
		if r == '\r' || r == '\n' {
			buf.WriteRune(r)
			lineLen = 0
			continue
		}

		var encoded string
		if (r >= 33 && r <= 126 && r != '=') || r == ' ' || r == '\t' {
			encoded = string(r)
		} else {
			encoded = fmt.Sprintf("=%02X", r)
		}

		// Soft line break at 76 characters
		if lineLen+len(encoded) > 75 {
			buf.WriteString("=\r\n")
			lineLen = 0
		}

		buf.WriteString(encoded)
		lineLen += len(encoded)
	}

	return buf.String()
}

// randomID generates a random ID string.
func randomID(length int) string {
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)[:length]
}
