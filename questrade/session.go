// Package questrade is a minimal client for the Questrade account API: the
// session handshake and the handful of read-only endpoints the reconcile run
// consumes.
package questrade

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// loginURL is the OAuth token endpoint; a variable so tests can redirect it.
var loginURL = "https://login.questrade.com/oauth2/token"

// DefaultCachePath returns the default location of the session cache file,
// the traditional ~/.questrade.json.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".questrade.json")
	}
	return filepath.Join(home, ".questrade.json")
}

// Session is an authenticated API session. It is constructed once per run
// and passed explicitly into every fetcher.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	APIServer    string    `json:"api_server"`
	ExpiresAt    time.Time `json:"expires_at"`

	// Client defaults to http.DefaultClient.
	Client *http.Client `json:"-"`
}

// Connect establishes a session: first with the cached session file validated
// against the time endpoint, then, failing that, by redeeming the refresh
// token. Both paths failing is the single fatal error of a run.
func Connect(cachePath, refreshToken string) (*Session, error) {
	if s, err := load(cachePath); err == nil {
		if _, err := s.Time(); err == nil {
			return s, nil
		}
		log.Printf("cached session rejected, re-authenticating: %v", err)
	}
	// The cache is stale or absent; remove it before re-authenticating, the
	// refresh may rotate the token it contains.
	os.Remove(cachePath)

	s, err := redeem(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("cannot authenticate with refresh token: %w", err)
	}
	if _, err := s.Time(); err != nil {
		return nil, fmt.Errorf("authenticated session rejected by time endpoint: %w", err)
	}
	if err := s.save(cachePath); err != nil {
		log.Printf("cannot cache session (ignored): %v", err)
	}
	return s, nil
}

// redeem exchanges a refresh token for a new session. Questrade rotates the
// refresh token on every redemption, so the returned session must be cached
// or the new token is lost.
func redeem(refreshToken string) (*Session, error) {
	q := url.Values{}
	q.Set("grant_type", "refresh_token")
	q.Set("refresh_token", refreshToken)

	resp, err := http.PostForm(loginURL, q)
	if err != nil {
		return nil, fmt.Errorf("cannot reach login server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login server: %v", resp.Status)
	}

	var grant struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		APIServer    string `json:"api_server"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, fmt.Errorf("cannot decode login response: %w", err)
	}
	return &Session{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		APIServer:    grant.APIServer,
		ExpiresAt:    time.Now().Add(time.Duration(grant.ExpiresIn) * time.Second),
	}, nil
}

func load(cachePath string) (*Session, error) {
	content, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, err
	}
	s := new(Session)
	if err := json.Unmarshal(content, s); err != nil {
		return nil, fmt.Errorf("invalid session cache %q: %w", cachePath, err)
	}
	return s, nil
}

func (s *Session) save(cachePath string) error {
	content, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cachePath, content, 0600)
}
