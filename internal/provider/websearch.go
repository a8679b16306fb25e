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

// API endpoints for the keyed web-search providers. Declared as vars so
// tests can substitute httptest servers.
var (
	googleAPIBase = "https://www.googleapis.com/customsearch/v1"
	bingAPIBase   = "https://api.bing.microsoft.com/v7.0/search"
)

const (
	webMaxProbes   = 2
	webMinSentence = 30
	webProbeLen    = 70
	webResultCount = 5
	webHitWeight   = 0.3
	webScoreCap    = 0.9
)

// webItem is the provider-neutral shape of one web search result.
type webItem struct {
	URL     string
	Title   string
	Snippet string
}

// checkWebProbes runs the shared probe loop for keyed web-search
// providers: extract 2 sentence probes, quote the first 70 characters of
// each, query sequentially with a paced delay, and map the total item
// count to a bounded confidence.
func checkWebProbes(ctx context.Context, text string, cfg types.DetectConfig,
	search func(ctx context.Context, quoted string) ([]webItem, error)) (types.ProviderResult, error) {

	probes := extract.SentenceProbes(text, webMinSentence)
	if len(probes) > webMaxProbes {
		probes = probes[:webMaxProbes]
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

		items, err := search(ctx, `"`+extract.Truncate(probe, webProbeLen)+`"`)
		if err != nil {
			return types.ProviderResult{}, err
		}

		hits += len(items)
		for i, item := range items {
			highlights = append(highlights, types.Highlight{
				Text:   probe,
				Source: item.URL,
				Title:  item.Title,
				Score:  webHitWeight,
				Web:    &types.WebMetadata{Snippet: item.Snippet, Rank: i + 1},
			})
		}
	}

	return types.ProviderResult{
		Score:      hitScore(hits, webHitWeight, webScoreCap),
		Highlights: highlights,
	}, nil
}

// GoogleProvider queries the Google Custom Search API with quoted sentence
// probes. Requires both an API key and an engine ID; without them it
// short-circuits to the zero result with no network I/O.
type GoogleProvider struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *GoogleProvider) Name() string { return "google" }

// Check queries Google Custom Search for exact-phrase probe matches.
func (p *GoogleProvider) Check(ctx context.Context, text string, cfg types.DetectConfig) (types.ProviderResult, error) {
	if cfg.GoogleAPIKey == "" || cfg.GoogleEngineID == "" {
		return types.ProviderResult{}, nil
	}
	return checkWebProbes(ctx, text, cfg, func(ctx context.Context, quoted string) ([]webItem, error) {
		return p.search(ctx, quoted, cfg)
	})
}

func (p *GoogleProvider) search(ctx context.Context, quoted string, cfg types.DetectConfig) ([]webItem, error) {
	params := url.Values{
		"key": {cfg.GoogleAPIKey},
		"cx":  {cfg.GoogleEngineID},
		"q":   {quoted},
		"num": {fmt.Sprintf("%d", webResultCount)},
	}
	reqURL := googleAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Google API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google API returned HTTP %d", resp.StatusCode)
	}

	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("parsing Google response: %w", err)
	}

	items := make([]webItem, 0, len(gr.Items))
	for _, it := range gr.Items {
		items = append(items, webItem{URL: it.Link, Title: it.Title, Snippet: it.Snippet})
	}
	return items, nil
}

// BingProvider queries the Bing Web Search API with quoted sentence
// probes. Requires an API key; without it, zero result and no network I/O.
type BingProvider struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *BingProvider) Name() string { return "bing" }

// Check queries Bing Web Search for exact-phrase probe matches.
func (p *BingProvider) Check(ctx context.Context, text string, cfg types.DetectConfig) (types.ProviderResult, error) {
	if cfg.BingAPIKey == "" {
		return types.ProviderResult{}, nil
	}
	return checkWebProbes(ctx, text, cfg, func(ctx context.Context, quoted string) ([]webItem, error) {
		return p.search(ctx, quoted, cfg)
	})
}

func (p *BingProvider) search(ctx context.Context, quoted string, cfg types.DetectConfig) ([]webItem, error) {
	params := url.Values{
		"q":     {quoted},
		"count": {fmt.Sprintf("%d", webResultCount)},
	}
	reqURL := bingAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Ocp-Apim-Subscription-Key", cfg.BingAPIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Bing API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Bing API returned HTTP %d", resp.StatusCode)
	}

	var br bingResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("parsing Bing response: %w", err)
	}

	items := make([]webItem, 0, len(br.WebPages.Value))
	for _, it := range br.WebPages.Value {
		items = append(items, webItem{URL: it.URL, Title: it.Name, Snippet: it.Snippet})
	}
	return items, nil
}

// Google Custom Search JSON structures.
type googleResponse struct {
	Items []googleItem `json:"items"`
}

type googleItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Bing Web Search JSON structures.
type bingResponse struct {
	WebPages bingWebPages `json:"webPages"`
}

type bingWebPages struct {
	Value []bingPage `json:"value"`
}

type bingPage struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}
