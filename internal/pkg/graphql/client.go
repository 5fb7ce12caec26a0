// Package graphql is a small client for the Storefront GraphQL API.
//
// Queries are retried with exponential backoff on transport failures, 5xx and
// throttling. Mutations are sent exactly once.
package graphql

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

	"github.com/jpillora/backoff"
	"go.uber.org/zap"
)

const (
	// AccessTokenHeader carries the public storefront access token.
	AccessTokenHeader = "X-Shopify-Storefront-Access-Token"

	defaultAPIVersion  = "2025-01"
	defaultMaxAttempts = 3
	defaultTimeout     = 10 * time.Second
	maxErrorBody       = 512
)

// Config configures a Client.
type Config struct {
	StoreDomain string // e.g. "feliz.myshopify.com", or a full base URL
	APIVersion  string
	AccessToken string
	Country     string
	Language    string

	HTTPClient  *http.Client
	MaxAttempts int
	RetryMin    time.Duration
	RetryMax    time.Duration
}

// Client sends GraphQL documents to the Storefront API.
type Client struct {
	endpoint    string
	token       string
	country     string
	language    string
	httpClient  *http.Client
	maxAttempts int
	retryMin    time.Duration
	retryMax    time.Duration
	logger      *zap.Logger
}

// NewClient creates a new Client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	retryMin, retryMax := cfg.RetryMin, cfg.RetryMax
	if retryMin <= 0 {
		retryMin = 100 * time.Millisecond
	}
	if retryMax <= 0 {
		retryMax = 2 * time.Second
	}

	return &Client{
		endpoint:    Endpoint(cfg.StoreDomain, version),
		token:       cfg.AccessToken,
		country:     cfg.Country,
		language:    cfg.Language,
		httpClient:  httpClient,
		maxAttempts: attempts,
		retryMin:    retryMin,
		retryMax:    retryMax,
		logger:      logger,
	}
}

// Endpoint builds the GraphQL URL for a store domain.
func Endpoint(storeDomain, version string) string {
	base := strings.TrimRight(storeDomain, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/api/%s/graphql.json", base, version)
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Message       `json:"errors"`
}

// Query executes a read-only document and decodes "data" into out.
func (c *Client) Query(ctx context.Context, document string, variables map[string]any, out any) error {
	retry := backoff.Backoff{Min: c.retryMin, Max: c.retryMax, Factor: 2, Jitter: true}
	op := OperationName(document)

	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err = c.do(ctx, op, document, variables, out)
		if err == nil || !retryable(ctx, err) || attempt == c.maxAttempts {
			break
		}

		wait := retry.Duration()
		c.logger.Warn("Storefront query failed, retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}

// Mutate executes a mutation exactly once.
func (c *Client) Mutate(ctx context.Context, document string, variables map[string]any, out any) error {
	return c.do(ctx, OperationName(document), document, variables, out)
}

func (c *Client) do(ctx context.Context, op, document string, variables map[string]any, out any) error {
	body, err := json.Marshal(request{
		Query:         document,
		OperationName: op,
		Variables:     c.withContext(document, variables),
	})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(AccessTokenHeader, c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storefront request %s failed: %w", op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Storefront request",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("%w: %s response: %v", ErrDecode, op, err)
	}
	if len(decoded.Errors) > 0 {
		return &Error{Operation: op, Errors: decoded.Errors}
	}
	if len(decoded.Data) == 0 || string(decoded.Data) == "null" {
		return ErrEmptyData
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrDecode, op, err)
	}
	return nil
}

// withContext fills the @inContext variables when the document declares them
// and the caller did not.
func (c *Client) withContext(document string, variables map[string]any) map[string]any {
	needsCountry := c.country != "" && strings.Contains(document, "$country")
	needsLanguage := c.language != "" && strings.Contains(document, "$language")
	if !needsCountry && !needsLanguage {
		return variables
	}

	vars := make(map[string]any, len(variables)+2)
	for k, v := range variables {
		vars[k] = v
	}
	if _, ok := vars["country"]; !ok && needsCountry {
		vars["country"] = c.country
	}
	if _, ok := vars["language"]; !ok && needsLanguage {
		vars["language"] = c.language
	}
	return vars
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge.HasCode("THROTTLED")
	}
	if errors.Is(err, ErrEmptyData) || errors.Is(err, ErrDecode) {
		return false
	}
	// Transport level failures.
	return true
}
