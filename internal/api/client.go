package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the hosted csrent backend.
const DefaultBaseURL = "https://csrent.onrender.com"

// Doer is satisfied by *http.Client and by LoggingClient.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks JSON to the csrent REST API. Requests carry no timeout and no
// credentials; cancellation comes from the caller's context.
type Client struct {
	BaseURL string
	HTTP    Doer
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method     string
	URL        string
	Status     int
	StatusText string
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%d %s", e.Status, e.StatusText)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += " - " + body
	}
	return msg
}

// TransportError wraps failures that never produced a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.Status
	}
	return 0
}

func (c Client) endpointFor(path string) (string, error) {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		return "", fmt.Errorf("missing api base url")
	}
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid api url %q: want scheme://host", base)
	}
	p := strings.TrimPrefix(strings.TrimSpace(path), "/")
	u.Path = strings.TrimRight(u.Path, "/") + "/" + p
	return u.String(), nil
}

// Do sends body (when non-nil) as JSON and decodes a 2xx response into out
// (when non-nil). Empty 2xx bodies are accepted.
func (c Client) Do(ctx context.Context, method, path string, body, out any) error {
	endpoint, err := c.endpointFor(path)
	if err != nil {
		return err
	}
	doer := c.HTTP
	if doer == nil {
		doer = http.DefaultClient
	}

	var r io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := doer.Do(req)
	if err != nil {
		return &TransportError{Method: method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, URL: endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{
			Method:     method,
			URL:        endpoint,
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       string(b),
		}
	}
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("invalid json response (status=%d): %w", resp.StatusCode, err)
	}
	return nil
}
