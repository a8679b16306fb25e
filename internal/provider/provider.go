// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements one client per external search or catalog
// API consulted for evidence of content overlap. Each client satisfies the
// Provider interface; the aggregator in internal/detect fans out across
// them and tolerates individual failures.
//
// Within one provider, probe queries run strictly sequentially with a
// paced delay between them: these are free, rate-limited APIs and bursting
// them risks throttling. Cross-provider calls are independent rate-limit
// domains and run concurrently.
package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/plagiasure/detection-engine/internal/httputil"
	"github.com/plagiasure/detection-engine/pkg/types"
)

// Provider checks one external API for evidence that text is non-original.
// A provider whose required API key is not configured returns the zero
// ProviderResult and nil error without any network I/O.
type Provider interface {
	Name() string
	Check(ctx context.Context, text string, cfg types.DetectConfig) (types.ProviderResult, error)
}

// newPacer builds the per-check probe pacer. Declared as a var so tests
// can substitute a pacer with a fake sleep.
var newPacer = func(interval time.Duration) *httputil.Pacer {
	return httputil.NewPacer(interval)
}

// probeDelay returns the configured inter-probe interval, defaulting to 1s.
func probeDelay(cfg types.DetectConfig) time.Duration {
	if cfg.ProbeDelay > 0 {
		return cfg.ProbeDelay
	}
	return time.Second
}

// hitScore maps a result count to a bounded confidence: count*weight,
// capped. More returned items mean stronger evidence, saturating at cap.
func hitScore(count int, weight, cap float64) float64 {
	s := float64(count) * weight
	if s > cap {
		return cap
	}
	if s < 0 {
		return 0
	}
	return s
}

// Configured returns the provider set for cfg. Unkeyed providers are
// gated by their enable flags; keyed providers are always present and
// short-circuit themselves when their key is absent.
func Configured(cfg types.DetectConfig, httpClient *http.Client) []Provider {
	var providers []Provider
	if cfg.EnableDuckDuckGo {
		providers = append(providers, &DuckDuckGoProvider{Client: httpClient})
	}
	if cfg.EnableCrossRef {
		providers = append(providers, &CrossRefProvider{Client: httpClient})
	}
	if cfg.EnableArxiv {
		providers = append(providers, &ArxivProvider{Client: httpClient})
	}
	providers = append(providers,
		&GoogleProvider{Client: httpClient},
		&BingProvider{Client: httpClient},
		&DupliCheckerProvider{Client: httpClient},
	)
	return providers
}
