package bulkclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	app "github.com/leadflow/crm-import/internal/application/companyimport"
	domain "github.com/leadflow/crm-import/internal/domain/company"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"

	bulkImportPath = "/api/v1/companies/bulk-import"
	rosterPath     = "/api/v1/roster"
)

// ErrRejected is returned for 4xx answers: the request itself was refused.
var ErrRejected = errors.New("request rejected by server")

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the CRM API on behalf of one user.
type Client struct {
	baseURL       string
	userID        string
	role          domain.Role
	httpClient    *http.Client
	rosterRetries uint64
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithRole(role domain.Role) Option {
	return func(c *Client) { c.role = role }
}

func WithRosterRetries(n uint64) Option {
	return func(c *Client) { c.rosterRetries = n }
}

func New(baseURL, userID string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		userID:        userID,
		httpClient:    &http.Client{Timeout: 2 * time.Minute},
		rosterRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BulkInsert posts the whole batch once. It is never retried: a timeout may
// hide a batch the server did write. The endpoint answers with a bare result
// object; only failures come wrapped in the error envelope.
func (c *Client) BulkInsert(ctx context.Context, req domain.BulkInsertRequest) (domain.ImportResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("encode bulk request: %w", err)
	}

	payload, err := c.send(ctx, http.MethodPost, bulkImportPath, body)
	if err != nil {
		return domain.ImportResult{}, err
	}
	var result domain.ImportResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.ImportResult{}, fmt.Errorf("decode %s response: %w", bulkImportPath, err)
	}
	return result, nil
}

func (c *Client) ListActive(ctx context.Context) ([]domain.RosterEntry, error) {
	var entries []domain.RosterEntry

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.rosterRetries), ctx)
	err := backoff.Retry(func() error {
		err := c.do(ctx, http.MethodGet, rosterPath, nil, &entries)
		if errors.Is(err, ErrRejected) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	payload, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

// send performs the request and returns the body of a 2xx answer.
func (c *Client) send(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderUserID, c.userID)
	if c.role != "" {
		req.Header.Set(HeaderUserRole, string(c.role))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode >= 400 {
		var env envelope
		_ = json.Unmarshal(payload, &env)
		cause := ErrRejected
		if resp.StatusCode >= 500 {
			cause = app.ErrServerFailure
		}
		return nil, fmt.Errorf("%w: %s %s returned %d%s", cause, method, path, resp.StatusCode, errorSuffix(env))
	}
	return payload, nil
}

func errorSuffix(env envelope) string {
	if env.Error == nil || env.Error.Message == "" {
		return ""
	}
	return ": " + env.Error.Message
}
