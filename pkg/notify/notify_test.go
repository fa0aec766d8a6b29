package notify

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBuildEmailBody(t *testing.T) {
	cfg := EmailConfig{From: "digest@example.com", FromName: "MarketBrief"}
	msg := Message{Subject: "Daily Digest", HTMLBody: "<h1>Markets</h1>"}

	body := buildEmailBody(cfg, []string{"a@example.com", "b@example.com"}, msg)

	if !strings.Contains(body, "To: a@example.com, b@example.com\r\n") {
		t.Error("To header missing or malformed")
	}
	if !strings.Contains(body, "Content-Type: text/html; charset=UTF-8") {
		t.Error("Content-Type header missing")
	}

	encodedSubject := "=?UTF-8?B?" + base64.StdEncoding.EncodeToString([]byte("Daily Digest")) + "?="
	if !strings.Contains(body, "Subject: "+encodedSubject) {
		t.Error("Subject not RFC 2047 encoded")
	}

	// The HTML body rides base64 encoded after the blank line.
	parts := strings.SplitN(body, "\r\n\r\n", 2)
	if len(parts) != 2 {
		t.Fatal("missing header/body separator")
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parts[1]))
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if string(decoded) != "<h1>Markets</h1>" {
		t.Errorf("decoded body = %q", decoded)
	}
}

func TestXOAuth2Start(t *testing.T) {
	a := &xoauth2Auth{user: "digest@example.com", token: "tok123"}

	proto, resp, err := a.Start(nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if proto != "XOAUTH2" {
		t.Errorf("proto = %q", proto)
	}
	want := "user=digest@example.com\x01auth=Bearer tok123\x01\x01"
	if string(resp) != want {
		t.Errorf("initial response = %q, want %q", resp, want)
	}

	// A server challenge gets an empty line back.
	next, err := a.Next([]byte(`{"status":"400"}`), true)
	if err != nil || string(next) != "" {
		t.Errorf("Next = %q, %v", next, err)
	}
}

func TestGmailTokenSource(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("refresh_token"); got != "refresh-abc" {
			t.Errorf("refresh_token = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"access-xyz","expires_in":3599}`))
	}))
	defer srv.Close()

	ts := newGmailTokenSource("client-id", "client-secret", "refresh-abc")
	ts.endpoint = srv.URL

	token, err := ts.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken: %v", err)
	}
	if token != "access-xyz" {
		t.Errorf("token = %q", token)
	}

	// Cached until expiry; no second request.
	if _, err := ts.AccessToken(context.Background()); err != nil {
		t.Fatalf("AccessToken (cached): %v", err)
	}
	if calls != 1 {
		t.Errorf("token endpoint called %d times, want 1", calls)
	}

	// An expired token forces a refresh.
	ts.expires = time.Now().Add(-time.Minute)
	if _, err := ts.AccessToken(context.Background()); err != nil {
		t.Fatalf("AccessToken (expired): %v", err)
	}
	if calls != 2 {
		t.Errorf("token endpoint called %d times, want 2", calls)
	}
}

func TestGmailTokenSourceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	ts := newGmailTokenSource("id", "secret", "bad")
	ts.endpoint = srv.URL

	if _, err := ts.AccessToken(context.Background()); err == nil {
		t.Fatal("expected an error for a rejected refresh token")
	}
}

func TestSendNoRecipients(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: "465", Password: "pw", From: "x@example.com"})
	if err := n.Send(context.Background(), nil, Message{Subject: "s"}); err == nil {
		t.Fatal("expected an error with no recipients")
	}
}

func TestAuthRequiresCredentials(t *testing.T) {
	n := &emailNotifier{cfg: EmailConfig{From: "x@example.com"}}
	if _, err := n.auth(context.Background()); err == nil {
		t.Fatal("expected an error with no credentials configured")
	}
}
