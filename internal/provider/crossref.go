// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/plagiasure/detection-engine/internal/extract"
	"github.com/plagiasure/detection-engine/internal/httputil"
	"github.com/plagiasure/detection-engine/pkg/types"
)

// crossrefAPIBase is the CrossRef works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

const (
	crossrefMaxPhrases = 3
	crossrefRows       = 5
	crossrefHitWeight  = 0.2
	crossrefScoreCap   = 0.7
)

// CrossRefProvider queries the unkeyed CrossRef bibliographic catalog with
// academic phrases.
type CrossRefProvider struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *CrossRefProvider) Name() string { return "crossref" }

// Check extracts up to 3 academic phrases, queries them sequentially with
// a paced delay, and scales confidence with the number of returned works.
// Each highlight carries author names and a DOI-derived source URL.
func (p *CrossRefProvider) Check(ctx context.Context, text string, cfg types.DetectConfig) (types.ProviderResult, error) {
	phrases := extract.AcademicPhrases(text)
	if len(phrases) > crossrefMaxPhrases {
		phrases = phrases[:crossrefMaxPhrases]
	}
	if len(phrases) == 0 {
		return types.ProviderResult{}, nil
	}

	pacer := newPacer(probeDelay(cfg))

	works := 0
	var highlights []types.Highlight
	for _, phrase := range phrases {
		if err := pacer.Wait(ctx); err != nil {
			return types.ProviderResult{}, err
		}

		items, err := p.query(ctx, phrase, cfg)
		if err != nil {
			return types.ProviderResult{}, err
		}

		works += len(items)
		for _, item := range items {
			highlights = append(highlights, crossrefHighlight(phrase, item))
		}
	}

	return types.ProviderResult{
		Score:      hitScore(works, crossrefHitWeight, crossrefScoreCap),
		Highlights: highlights,
	}, nil
}

func (p *CrossRefProvider) query(ctx context.Context, phrase string, cfg types.DetectConfig) ([]crossrefWork, error) {
	params := url.Values{
		"query.bibliographic": {phrase},
		"rows":                {fmt.Sprintf("%d", crossrefRows)},
	}
	reqURL := crossrefAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing CrossRef response: %w", err)
	}
	return cr.Message.Items, nil
}

// crossrefHighlight converts one CrossRef work into a highlight for the
// probe phrase that found it.
func crossrefHighlight(phrase string, work crossrefWork) types.Highlight {
	h := types.Highlight{
		Text:  phrase,
		Score: crossrefHitWeight,
		Academic: &types.AcademicMetadata{
			DOI:           work.DOI,
			CitationCount: work.CitationCount,
		},
	}

	if len(work.Title) > 0 {
		h.Title = work.Title[0]
	}

	// Prefer a DOI-derived URL as the source.
	switch {
	case work.DOI != "":
		h.Source = "https://doi.org/" + work.DOI
	case work.URL != "":
		h.Source = work.URL
	}

	for _, a := range work.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			h.Academic.Authors = append(h.Academic.Authors, name)
		}
	}

	if parts := work.Issued.DateParts; len(parts) > 0 && len(parts[0]) > 0 {
		h.Academic.Year = parts[0][0]
	}

	return h
}

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefWork `json:"items"`
}

type crossrefWork struct {
	DOI           string           `json:"DOI"`
	URL           string           `json:"URL"`
	Title         []string         `json:"title"`
	Author        []crossrefAuthor `json:"author"`
	Issued        crossrefDate     `json:"issued"`
	CitationCount int              `json:"is-referenced-by-count"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}
