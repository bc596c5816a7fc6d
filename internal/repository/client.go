package repository

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
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"go.uber.org/zap"
)

// CredentialSource yields the bearer credential of the session a request belongs to.
type CredentialSource interface {
	Credential() string
}

type credentialSourceKey struct{}

// WithCredentialSource binds a credential source to ctx. Every backend request made with
// that ctx carries the source's current credential.
func WithCredentialSource(ctx context.Context, src CredentialSource) context.Context {
	return context.WithValue(ctx, credentialSourceKey{}, src)
}

func credentialFrom(ctx context.Context) string {
	src, ok := ctx.Value(credentialSourceKey{}).(CredentialSource)
	if !ok || src == nil {
		return ""
	}
	return src.Credential()
}

type bearerTransport struct {
	base http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := credentialFrom(req.Context()); token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(req)
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient returns a client for the backend API rooted at baseURL (including its /api prefix).
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &bearerTransport{base: http.DefaultTransport},
		},
		log: log.With(zap.String("component", "backend")),
	}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.log.Warn("backend request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return nil, &domain.BackendError{Err: err}
	}

	c.log.Debug("backend request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	var body errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &body)
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &domain.AuthError{Message: msg, Err: &domain.BackendError{Status: resp.StatusCode, Message: msg}}
	case http.StatusNotFound:
		if msg == "" {
			msg = "not found"
		}
		return &domain.NotFoundError{Message: msg}
	default:
		return &domain.BackendError{Status: resp.StatusCode, Message: msg}
	}
}

// do sends a JSON request and decodes a JSON response into out (when out is non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &domain.BackendError{Status: resp.StatusCode, Message: "empty response body"}
		}
		return &domain.BackendError{Status: resp.StatusCode, Message: "malformed response body", Err: err}
	}
	return nil
}

// download fetches a binary document.
func (c *Client) download(ctx context.Context, path string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.send(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &domain.BackendError{Status: resp.StatusCode, Err: err}
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func escape(id string) string {
	return url.PathEscape(id)
}
