// Package api is the HTTP client for the ScamShield scoring and report
// backend. Every response is decoded into typed models at this boundary;
// anything that does not match the expected shape becomes a *DecodeError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/CosmoTheDev/scamshield/internal/config"
	"github.com/CosmoTheDev/scamshield/models"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// Client talks to the ScamShield backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client configured from cfg.
// baseURL defaults to http://127.0.0.1:8000 when cfg.BaseURL is empty.
func New(cfg config.APIConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = config.DefaultBaseURL
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// BaseURL returns the backend root this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Scan asks the backend to score query (GET /api/v1/scan?q=...).
func (c *Client) Scan(ctx context.Context, query string) (*models.ScanResult, error) {
	body, err := c.do(ctx, http.MethodGet, pathScan, url.Values{"q": {query}}, nil)
	if err != nil {
		return nil, err
	}
	var resp scanResponse
	if err := unmarshal(pathScan, body, &resp); err != nil {
		return nil, err
	}
	return resp.toModel(query)
}

// SubmitReport files a community report (POST /api/v1/reports).
// The response body is ignored; any 2xx counts as success.
func (c *Client) SubmitReport(ctx context.Context, draft models.ReportDraft) error {
	payload, err := json.Marshal(reportRequest{
		Value:       draft.Value,
		Type:        string(draft.Type),
		Description: draft.Description,
	})
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, pathReports, nil, bytes.NewReader(payload))
	return err
}

// RecentReports returns the newest reports, newest first
// (GET /api/v1/reports/recent). A non-zero filter must carry exactly one of
// category or date.
func (c *Client) RecentReports(ctx context.Context, limit int, filter models.FilterSelection) ([]models.ReportRecord, error) {
	if !filter.IsZero() {
		if err := filter.Validate(); err != nil {
			return nil, err
		}
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	if filter.Date != "" {
		params.Set("date", filter.Date)
	}

	body, err := c.do(ctx, http.MethodGet, pathRecent, params, nil)
	if err != nil {
		return nil, err
	}
	var payloads []reportPayload
	if err := unmarshal(pathRecent, body, &payloads); err != nil {
		return nil, err
	}
	return toRecords(pathRecent, payloads)
}

// Stats fetches the aggregate statistics (GET /api/v1/stats).
func (c *Client) Stats(ctx context.Context) (*models.TrendsSnapshot, error) {
	body, err := c.do(ctx, http.MethodGet, pathStats, nil, nil)
	if err != nil {
		return nil, err
	}
	var resp statsResponse
	if err := unmarshal(pathStats, body, &resp); err != nil {
		return nil, err
	}
	return resp.toModel()
}

// Ping checks that the backend answers the stats endpoint with a valid body.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Stats(ctx)
	return err
}

// do executes an HTTP request and returns the response body.
// Non-2xx responses are converted to *StatusError, transport failures to
// *TransportError.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader) ([]byte, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("api request", "method", method, "path", path, "request_id", requestID)

	res, err := c.http.Do(req) // #nosec G107 -- base URL comes from user configuration
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: err}
	}
	defer res.Body.Close() //nolint:errcheck

	b, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: fmt.Errorf("reading response: %w", err)}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{Endpoint: path, StatusCode: res.StatusCode, Message: errorMessage(b)}
	}
	return b, nil
}

// errorMessage extracts a human-readable message from an error body.
// FastAPI uses {"detail": ...}; other proxies use error/message.
func errorMessage(b []byte) string {
	var apiErr struct {
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(b, &apiErr); err != nil {
		return ""
	}
	if len(apiErr.Detail) > 0 {
		var s string
		if err := json.Unmarshal(apiErr.Detail, &s); err == nil {
			return s
		}
		return string(apiErr.Detail)
	}
	if apiErr.Error != "" {
		return apiErr.Error
	}
	return apiErr.Message
}

// unmarshal decodes body into dest, mapping JSON errors to *DecodeError.
func unmarshal(endpoint string, body []byte, dest any) error {
	err := json.Unmarshal(body, dest)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{Endpoint: endpoint, Field: typeErr.Field, Err: err}
	}
	return &DecodeError{Endpoint: endpoint, Err: err}
}
