package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/hannaerdza/titanic-visualization/domain/passenger"
	"github.com/hannaerdza/titanic-visualization/internal"
	"github.com/hannaerdza/titanic-visualization/internal/errors"
	"github.com/hannaerdza/titanic-visualization/internal/metrics"
)

const (
	OpListPassengers = "list_passengers"
	OpStatistics     = "statistics"
	OpImportCSV      = "import_csv"

	passengersPath = "/passengers"
	statisticsPath = "/passengers/statistics"
	importPath     = "/passengers/import-csv"

	// maxErrorBody bounds how much of a failed response is kept for the error message
	maxErrorBody = 4096
)

// Client implements ports.PassengerAPI over HTTP
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
	logger  *internal.Logger
}

// NewClient creates a passenger API client
func NewClient(config ClientConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.ConfigInvalid("passenger API base URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		metrics: config.Metrics,
		logger:  logger,
	}, nil
}

// ListPassengers fetches the records matching predicate. Filtering happens server-side.
func (c *Client) ListPassengers(ctx context.Context, predicate passenger.Predicate) ([]passenger.Passenger, error) {
	url := c.baseURL + passengersPath
	if query := predicate.Values().Encode(); query != "" {
		url += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build passengers request")
	}

	var records []passenger.Passenger
	if err := c.do(req, OpListPassengers, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []passenger.Passenger{}
	}
	return records, nil
}

// Statistics fetches the aggregate survival payload
func (c *Client) Statistics(ctx context.Context) (*passenger.Statistics, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+statisticsPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build statistics request")
	}

	var stats passenger.Statistics
	if err := c.do(req, OpStatistics, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ImportCSV uploads a CSV file; the server replaces its data set with the file's rows
func (c *Client) ImportCSV(ctx context.Context, filename string, r io.Reader) (*passenger.ImportAck, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", "text/csv")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, errors.Wrap(err, "create multipart part")
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, errors.Wrap(err, "copy upload body")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "close multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+importPath, &body)
	if err != nil {
		return nil, errors.Wrap(err, "build import request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var ack passenger.ImportAck
	if err := c.do(req, OpImportCSV, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// do sends req and decodes a 2xx JSON body into out
func (c *Client) do(req *http.Request, operation string, out interface{}) (err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveRequest(operation, started, err) }()

	req.Header.Set("Accept", "application/json")
	c.logger.Debug("[API] %s %s", req.Method, req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("[API] %s failed: %v", operation, err)
		return errors.Transport(operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("[API] %s returned HTTP %d", operation, resp.StatusCode)
		return errors.UpstreamStatus(operation, resp.StatusCode, errorDetail(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Decode(operation, err)
	}
	c.logger.Trace("[API] %s completed in %s", operation, time.Since(started))
	return nil
}

// errorDetail extracts the "detail" message of an error body, falling back to the raw text
func errorDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 {
		var msg string
		if err := json.Unmarshal(body.Detail, &msg); err == nil {
			return msg
		}
		return string(body.Detail)
	}
	return strings.TrimSpace(string(raw))
}
