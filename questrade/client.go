package questrade

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// get performs an authorized GET on the session's API server and decodes the
// JSON payload into data. Numbers are decoded as json.Number so account
// numbers and prices keep their exact digits.
func (s *Session) get(path string, query url.Values, data any) error {
	addr := strings.TrimSuffix(s.APIServer, "/") + "/v1/" + path
	if len(query) > 0 {
		addr += "?" + query.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot execute http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fmt.Errorf("cannot read http body: %w", err)
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("cannot decode response of %q: %w", path, err)
	}
	return nil
}

// Time returns the server time, the cheapest call to validate a session.
func (s *Session) Time() (string, error) {
	var payload struct {
		Time string `json:"time"`
	}
	if err := s.get("time", nil, &payload); err != nil {
		return "", err
	}
	return payload.Time, nil
}

// Accounts returns the raw accounts payload.
func (s *Session) Accounts() (map[string]any, error) {
	return s.object("accounts", nil)
}

// Balances returns the raw balances payload for one account.
func (s *Session) Balances(account string) (map[string]any, error) {
	return s.object("accounts/"+url.PathEscape(account)+"/balances", nil)
}

// Positions returns the raw positions payload for one account.
func (s *Session) Positions(account string) (map[string]any, error) {
	return s.object("accounts/"+url.PathEscape(account)+"/positions", nil)
}

// Activities returns the raw activities payload for one account, bounded by
// the start and end timestamps (ISO-8601 with offset).
func (s *Session) Activities(account, startTime, endTime string) (map[string]any, error) {
	q := url.Values{}
	q.Set("startTime", startTime)
	q.Set("endTime", endTime)
	return s.object("accounts/"+url.PathEscape(account)+"/activities", q)
}

// Symbols returns the raw payload of a bulk symbol lookup by a
// comma-separated list of names.
func (s *Session) Symbols(names string) (map[string]any, error) {
	q := url.Values{}
	q.Set("names", names)
	return s.object("symbols", q)
}

// Symbol returns the raw payload of a single symbol lookup by identifier.
func (s *Session) Symbol(id string) (map[string]any, error) {
	return s.object("symbols/"+url.PathEscape(id), nil)
}

func (s *Session) object(path string, query url.Values) (map[string]any, error) {
	var payload map[string]any
	if err := s.get(path, query, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
