// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package detect aggregates evidence from all configured providers into a
// single bounded detection result. It fans out one Check per provider
// concurrently, tolerates individual failures, merges and deduplicates
// highlights, and reduces everything to one score.
package detect

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/plagiasure/detection-engine/internal/provider"
	"github.com/plagiasure/detection-engine/pkg/types"
)

const (
	// defaultMaxHighlights caps the aggregated highlight list.
	defaultMaxHighlights = 15

	// dedupPrefixLen is the normalized text prefix length used as the
	// dedup key: two highlights sharing a lowercase, trimmed 50-character
	// prefix describe the same match.
	dedupPrefixLen = 50
)

// Detect runs every provider against text and merges the outcomes. It
// never returns an error: a failed provider contributes the zero result
// (recorded in ProviderErrors), and a total orchestration failure degrades
// to the empty result. Detection is advisory; an outage must read as "no
// evidence found", not break the caller's pipeline.
func Detect(ctx context.Context, text string, providers []provider.Provider, cfg types.DetectConfig) (result types.DetectionResult) {
	result = types.DetectionResult{Method: types.MethodFreeAPI}

	defer func() {
		if r := recover(); r != nil {
			result = types.DetectionResult{
				Method:         types.MethodFreeAPI,
				ProviderErrors: []string{fmt.Sprintf("detection aborted: %v", r)},
			}
		}
	}()

	if strings.TrimSpace(text) == "" || len(providers) == 0 {
		return result
	}

	type checkOutcome struct {
		res  types.ProviderResult
		err  error
		name string
	}

	// Fire all, wait for all. Each provider call settles independently;
	// one failure never cancels the others.
	ch := make(chan checkOutcome, len(providers))
	var wg sync.WaitGroup
	for _, p := range providers {
		wg.Add(1)
		go func(p provider.Provider) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					ch <- checkOutcome{err: fmt.Errorf("panic: %v", r), name: p.Name()}
				}
			}()
			res, err := p.Check(ctx, text, cfg)
			ch <- checkOutcome{res: res, err: err, name: p.Name()}
		}(p)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.Highlight
	for oc := range ch {
		if oc.err != nil {
			result.ProviderErrors = append(result.ProviderErrors, fmt.Sprintf("%s: %v", oc.name, oc.err))
			continue
		}
		// A single strong provider match is sufficient evidence of
		// non-originality, so the overall score is the max, not a mean.
		if s := clamp01(oc.res.Score); s > result.Score {
			result.Score = s
		}
		all = append(all, oc.res.Highlights...)
	}

	for i := range all {
		normalize(&all[i])
	}

	// Stable-sort by descending score before dedup so the surviving
	// duplicate is the highest-scoring one, independent of which provider
	// happened to complete first.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score > all[j].Score
	})

	deduped := deduplicate(all)

	max := cfg.MaxHighlights
	if max <= 0 {
		max = defaultMaxHighlights
	}
	if len(deduped) > max {
		deduped = deduped[:max]
	}

	result.Highlights = deduped
	result.Sources = distinctSources(deduped)
	return result
}

// normalize applies highlight defaults and clamps the score into [0, 1].
func normalize(h *types.Highlight) {
	if strings.TrimSpace(h.Source) == "" {
		h.Source = types.UnknownSource
	}
	if strings.TrimSpace(h.Title) == "" {
		h.Title = types.UntitledMatch
	}
	h.Score = clamp01(h.Score)
}

// deduplicate keeps the first occurrence of each dedup key. Input order
// matters: callers sort by descending score first.
func deduplicate(highlights []types.Highlight) []types.Highlight {
	seen := make(map[string]bool, len(highlights))
	var deduped []types.Highlight
	for _, h := range highlights {
		key := dedupKey(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, h)
	}
	return deduped
}

// dedupKey returns the lowercase, trimmed, first-50-character prefix of
// the highlight text.
func dedupKey(h types.Highlight) string {
	key := strings.ToLower(strings.TrimSpace(h.Text))
	if len(key) > dedupPrefixLen {
		key = key[:dedupPrefixLen]
	}
	return key
}

// distinctSources returns the distinct source labels of the surviving
// highlights, in highlight order.
func distinctSources(highlights []types.Highlight) []string {
	seen := make(map[string]bool, len(highlights))
	var sources []string
	for _, h := range highlights {
		if seen[h.Source] {
			continue
		}
		seen[h.Source] = true
		sources = append(sources, h.Source)
	}
	return sources
}

func clamp01(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}
