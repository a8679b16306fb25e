// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/plagiasure/detection-engine/internal/extract"
	"github.com/plagiasure/detection-engine/pkg/types"
)

// duckduckgoAPIBase is the DuckDuckGo Instant Answer endpoint. Declared as
// a var so tests can substitute an httptest server.
var duckduckgoAPIBase = "https://api.duckduckgo.com/"

const (
	ddgMaxProbes   = 3
	ddgMinSentence = 25
	ddgProbeLen    = 80
	ddgHitWeight   = 0.25
	ddgScoreCap    = 0.8
)

// DuckDuckGoProvider queries the unkeyed DuckDuckGo Instant Answer API
// with sentence probes.
type DuckDuckGoProvider struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *DuckDuckGoProvider) Name() string { return "duckduckgo" }

// Check extracts up to 3 sentence probes, queries them sequentially with a
// paced delay, and maps the total number of returned topics to a bounded
// confidence score.
func (p *DuckDuckGoProvider) Check(ctx context.Context, text string, cfg types.DetectConfig) (types.ProviderResult, error) {
	probes := extract.SentenceProbes(text, ddgMinSentence)
	if len(probes) > ddgMaxProbes {
		probes = probes[:ddgMaxProbes]
	}
	if len(probes) == 0 {
		return types.ProviderResult{}, nil
	}

	pacer := newPacer(probeDelay(cfg))

	hits := 0
	var highlights []types.Highlight
	for _, probe := range probes {
		if err := pacer.Wait(ctx); err != nil {
			return types.ProviderResult{}, err
		}

		answer, err := p.query(ctx, extract.Truncate(probe, ddgProbeLen), cfg)
		if err != nil {
			return types.ProviderResult{}, err
		}

		if answer.AbstractURL != "" {
			hits++
			highlights = append(highlights, types.Highlight{
				Text:   probe,
				Source: answer.AbstractURL,
				Title:  answer.Heading,
				Score:  ddgHitWeight,
				Web:    &types.WebMetadata{Snippet: answer.AbstractText, Rank: 1},
			})
		}
		for i, topic := range answer.RelatedTopics {
			if topic.FirstURL == "" {
				continue
			}
			hits++
			highlights = append(highlights, types.Highlight{
				Text:   probe,
				Source: topic.FirstURL,
				Title:  extract.Truncate(topic.Text, 80),
				Score:  ddgHitWeight,
				Web:    &types.WebMetadata{Snippet: topic.Text, Rank: i + 1},
			})
		}
	}

	return types.ProviderResult{
		Score:      hitScore(hits, ddgHitWeight, ddgScoreCap),
		Highlights: highlights,
	}, nil
}

func (p *DuckDuckGoProvider) query(ctx context.Context, probe string, cfg types.DetectConfig) (*duckduckgoAnswer, error) {
	params := url.Values{
		"q":       {probe},
		"format":  {"json"},
		"no_html": {"1"},
	}
	reqURL := duckduckgoAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DuckDuckGo API returned HTTP %d", resp.StatusCode)
	}

	var answer duckduckgoAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("parsing DuckDuckGo response: %w", err)
	}
	return &answer, nil
}

// DuckDuckGo Instant Answer JSON structures.
type duckduckgoAnswer struct {
	AbstractText  string            `json:"AbstractText"`
	AbstractURL   string            `json:"AbstractURL"`
	Heading       string            `json:"Heading"`
	RelatedTopics []duckduckgoTopic `json:"RelatedTopics"`
}

type duckduckgoTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}
