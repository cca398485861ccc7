// Package qase is a typed client for the Qase.io v1 REST API.
//
// Client methods return errors; BestEffort wraps a Client with the
// log-and-return-nothing behavior the CLI wrappers use.
package qase

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL  = "https://api.qase.io/v1"
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 100
)

// Options configures a Client. Project and Token are required.
type Options struct {
	BaseURL    string
	Project    string
	Token      string
	Timeout    time.Duration
	PageSize   int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client issues requests scoped to one project.
type Client struct {
	baseURL   string
	project   string
	token     string
	timeout   time.Duration
	pageSize  int
	client    *http.Client
	log       *zap.Logger
	endpoints *Endpoints
}

func New(opts Options) (*Client, error) {
	if opts.Project == "" {
		return nil, errors.New("qase: project code is required")
	}
	if opts.Token == "" {
		return nil, errors.New("qase: api token is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		project:   opts.Project,
		token:     opts.Token,
		timeout:   opts.Timeout,
		pageSize:  opts.PageSize,
		client:    opts.HTTPClient,
		log:       opts.Logger,
		endpoints: NewEndpoints(),
	}, nil
}

// Project returns the project code every call is scoped to.
func (c *Client) Project() string { return c.project }

// Logger returns the client's logger.
func (c *Client) Logger() *zap.Logger { return c.log }

// envelope is the common response wrapper.
type envelope struct {
	Status       bool            `json:"status"`
	Result       json.RawMessage `json:"result"`
	ErrorMessage string          `json:"errorMessage"`
	ErrorFields  []FieldError    `json:"errorFields"`
}

// acquire scopes a single remote call: a deadline bounded by the client
// timeout and a request id. The returned release must run on every path.
func (c *Client) acquire(ctx context.Context) (context.Context, string, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	return ctx, uuid.NewString(), cancel
}

// do performs one request and decodes the envelope's result into out
// (when out is non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, requestID, release := c.acquire(ctx)
	defer release()

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Token", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.log.Error("http request failed",
			zap.String("method", method), zap.String("path", path),
			zap.Duration("duration", duration), zap.String("request_id", requestID), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	c.log.Debug("qase request",
		zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration), zap.String("request_id", requestID))

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, RequestID: requestID}
		if decodeErr == nil {
			apiErr.Message = env.ErrorMessage
			apiErr.Fields = env.ErrorFields
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("unmarshal %s %s response: %w", method, path, decodeErr)
	}
	if !env.Status {
		return &APIError{
			Method: method, Path: path, StatusCode: resp.StatusCode,
			Message: env.ErrorMessage, Fields: env.ErrorFields, RequestID: requestID,
		}
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("unmarshal %s %s result: %w", method, path, err)
	}
	return nil
}

// idResult is the result shape of create/update/delete calls.
type idResult struct {
	ID int `json:"id"`
}
