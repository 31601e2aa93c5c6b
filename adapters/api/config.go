package api

import (
	"net/http"
	"time"

	"github.com/hannaerdza/titanic-visualization/internal"
	"github.com/hannaerdza/titanic-visualization/internal/metrics"
)

// ClientConfig holds configuration for the passenger API client
type ClientConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`

	// Optional collaborators
	HTTPClient *http.Client     `json:"-"`
	Metrics    *metrics.Metrics `json:"-"`
	Logger     *internal.Logger `json:"-"`
}

// DefaultClientConfig returns defaults matching a local passenger API
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL: "http://localhost:8000",
		Timeout: 30 * time.Second,
	}
}
