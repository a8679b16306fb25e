// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by provider clients.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "detection-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DetectConfig holds settings for the detection aggregator and the
// provider clients it fans out to. Keyed providers whose key fields are
// empty short-circuit to the zero result without network I/O.
type DetectConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxHighlights caps the aggregated highlight list (default 15).
	MaxHighlights int `json:"max_highlights" yaml:"max_highlights"`

	// ProbeDelay is the minimum interval between successive probe queries
	// to the same provider (default 1s). Providers self-throttle; cross-
	// provider calls are independent rate-limit domains and run
	// concurrently.
	ProbeDelay time.Duration `json:"probe_delay" yaml:"probe_delay"`

	// EnableDuckDuckGo controls the DuckDuckGo Instant Answer provider.
	EnableDuckDuckGo bool `json:"enable_duckduckgo" yaml:"enable_duckduckgo"`

	// EnableCrossRef controls the CrossRef works provider.
	EnableCrossRef bool `json:"enable_crossref" yaml:"enable_crossref"`

	// EnableArxiv controls the arXiv provider.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// GoogleAPIKey and GoogleEngineID configure the Google Custom Search
	// provider; both must be set for it to issue queries.
	GoogleAPIKey   string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty"`
	GoogleEngineID string `json:"google_engine_id,omitempty" yaml:"google_engine_id,omitempty"`

	// BingAPIKey configures the Bing Web Search provider.
	BingAPIKey string `json:"bing_api_key,omitempty" yaml:"bing_api_key,omitempty"`

	// DupliCheckerAPIKey configures the chunk-based DupliChecker provider.
	DupliCheckerAPIKey string `json:"duplichecker_api_key,omitempty" yaml:"duplichecker_api_key,omitempty"`
}

// ReportStoreConfig holds settings for the local report history store.
type ReportStoreConfig struct {
	// ReportsDir is the base directory for report storage (contains index/).
	ReportsDir string `json:"reports_dir" yaml:"reports_dir"`

	// MaxResults is the default maximum number of listed reports (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
