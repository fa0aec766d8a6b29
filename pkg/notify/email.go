package notify

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// EmailConfig holds SMTP delivery configuration. When the Gmail OAuth
// fields are set, delivery authenticates with XOAUTH2 and falls back to
// PLAIN auth with the app password if the token refresh fails.
type EmailConfig struct {
	SMTPHost string // e.g. "smtp.gmail.com"
	SMTPPort string // e.g. "465" or "587"
	From     string // sender email
	FromName string // display name on the From header
	Password string // SMTP password or app-specific password

	// Gmail OAuth credentials. All three must be set to enable XOAUTH2.
	ClientID     string
	ClientSecret string
	RefreshToken string
}

type emailNotifier struct {
	cfg    EmailConfig
	tokens *gmailTokenSource
}

// NewEmailNotifier creates an email notifier.
func NewEmailNotifier(cfg EmailConfig) Notifier {
	n := &emailNotifier{cfg: cfg}
	if cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.RefreshToken != "" {
		n.tokens = newGmailTokenSource(cfg.ClientID, cfg.ClientSecret, cfg.RefreshToken)
	}
	return n
}

func (e *emailNotifier) Send(ctx context.Context, to []string, msg Message) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	auth, err := e.auth(ctx)
	if err != nil {
		return err
	}

	body := buildEmailBody(e.cfg, to, msg)

	var client *smtp.Client
	addr := net.JoinHostPort(e.cfg.SMTPHost, e.cfg.SMTPPort)

	if e.cfg.SMTPPort == "465" {
		client, err = dialTLS(addr, e.cfg.SMTPHost)
	} else {
		client, err = dialSTARTTLS(addr, e.cfg.SMTPHost)
	}
	if err != nil {
		// Fallback: try the other method
		if e.cfg.SMTPPort == "465" {
			altAddr := net.JoinHostPort(e.cfg.SMTPHost, "587")
			client, err = dialSTARTTLS(altAddr, e.cfg.SMTPHost)
		} else {
			altAddr := net.JoinHostPort(e.cfg.SMTPHost, "465")
			client, err = dialTLS(altAddr, e.cfg.SMTPHost)
		}
		if err != nil {
			return fmt.Errorf("SMTP connect failed: %w", err)
		}
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}
	if err := client.Mail(e.cfg.From); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("SMTP RCPT TO %s: %w", rcpt, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		return fmt.Errorf("SMTP write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("SMTP close data: %w", err)
	}
	return client.Quit()
}

// auth picks XOAUTH2 when OAuth credentials are configured, otherwise
// PLAIN with the app password. A failed token refresh falls back to the
// password if one is set.
func (e *emailNotifier) auth(ctx context.Context) (smtp.Auth, error) {
	if e.tokens != nil {
		token, err := e.tokens.AccessToken(ctx)
		if err == nil {
			return &xoauth2Auth{user: e.cfg.From, token: token}, nil
		}
		if e.cfg.Password == "" {
			return nil, fmt.Errorf("OAuth token refresh: %w", err)
		}
	}
	if e.cfg.Password == "" {
		return nil, fmt.Errorf("no SMTP credentials configured")
	}
	return smtp.PlainAuth("", e.cfg.From, e.cfg.Password, e.cfg.SMTPHost), nil
}

// xoauth2Auth implements the SASL XOAUTH2 mechanism used by Gmail.
type xoauth2Auth struct {
	user  string
	token string
}

func (a *xoauth2Auth) Start(*smtp.ServerInfo) (string, []byte, error) {
	resp := fmt.Sprintf("user=%s\x01auth=Bearer %s\x01\x01", a.user, a.token)
	return "XOAUTH2", []byte(resp), nil
}

func (a *xoauth2Auth) Next(fromServer []byte, more bool) ([]byte, error) {
	// On failure the server sends an error payload as a challenge;
	// an empty reply makes it return the final SMTP error.
	if more {
		return []byte(""), nil
	}
	return nil, nil
}

func dialTLS(addr, host string) (*smtp.Client, error) {
	tlsConfig := &tls.Config{ServerName: host}
	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("TLS dial %s: %w", addr, err)
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("SMTP client: %w", err)
	}
	return client, nil
}

func dialSTARTTLS(addr, host string) (*smtp.Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("SMTP client: %w", err)
	}
	tlsConfig := &tls.Config{ServerName: host}
	if err := client.StartTLS(tlsConfig); err != nil {
		client.Close()
		return nil, fmt.Errorf("STARTTLS: %w", err)
	}
	return client, nil
}

// encodeRFC2047 encodes a UTF-8 string for email headers using RFC 2047 base64 encoding.
func encodeRFC2047(s string) string {
	return "=?UTF-8?B?" + base64.StdEncoding.EncodeToString([]byte(s)) + "?="
}

func buildEmailBody(cfg EmailConfig, to []string, msg Message) string {
	fromName := cfg.FromName
	if fromName == "" {
		fromName = "MarketBrief"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("From: %s <%s>\r\n", encodeRFC2047(fromName), cfg.From))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", encodeRFC2047(msg.Subject)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	sb.WriteString("Content-Transfer-Encoding: base64\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(base64.StdEncoding.EncodeToString([]byte(msg.HTMLBody)))

	return sb.String()
}
