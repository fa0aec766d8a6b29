package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const googleTokenEndpoint = "https://oauth2.googleapis.com/token"

// gmailTokenSource exchanges a long-lived refresh token for short-lived
// access tokens, caching each token until shortly before it expires.
type gmailTokenSource struct {
	clientID     string
	clientSecret string
	refreshToken string
	endpoint     string
	client       *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

func newGmailTokenSource(clientID, clientSecret, refreshToken string) *gmailTokenSource {
	return &gmailTokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		endpoint:     googleTokenEndpoint,
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

// AccessToken returns a valid access token, refreshing when the cached
// one has expired or is about to.
func (s *gmailTokenSource) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expires.Add(-30*time.Second)) {
		return s.token, nil
	}

	form := url.Values{}
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)
	form.Set("refresh_token", s.refreshToken)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access token")
	}

	s.token = tr.AccessToken
	s.expires = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return s.token, nil
}
