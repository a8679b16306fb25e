// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/plagiasure/detection-engine/internal/extract"
	"github.com/plagiasure/detection-engine/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const (
	arxivMaxTerms   = 2
	arxivMaxResults = 3

	// arxivTermScore is the fixed confidence assigned when any entry
	// matches a scientific term. arXiv search is too fuzzy for counts to
	// carry signal; presence of a match is the evidence.
	arxivTermScore = 0.5
)

// ArxivProvider queries the unkeyed arXiv Atom API with capitalized
// scientific terms.
type ArxivProvider struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *ArxivProvider) Name() string { return "arxiv" }

// Check extracts up to 2 scientific terms, queries them sequentially with
// a paced delay, and emits one fixed-confidence highlight per term whose
// feed contains at least one entry.
func (p *ArxivProvider) Check(ctx context.Context, text string, cfg types.DetectConfig) (types.ProviderResult, error) {
	terms := extract.CapitalizedTerms(text)
	if len(terms) > arxivMaxTerms {
		terms = terms[:arxivMaxTerms]
	}
	if len(terms) == 0 {
		return types.ProviderResult{}, nil
	}

	pacer := newPacer(probeDelay(cfg))

	score := 0.0
	var highlights []types.Highlight
	for _, term := range terms {
		if err := pacer.Wait(ctx); err != nil {
			return types.ProviderResult{}, err
		}

		feed, err := p.query(ctx, term, cfg)
		if err != nil {
			return types.ProviderResult{}, err
		}
		if len(feed.Entries) == 0 {
			continue
		}

		score = arxivTermScore
		highlights = append(highlights, arxivHighlight(term, feed.Entries[0]))
	}

	return types.ProviderResult{Score: score, Highlights: highlights}, nil
}

func (p *ArxivProvider) query(ctx context.Context, term string, cfg types.DetectConfig) (*arxivFeed, error) {
	params := url.Values{
		"search_query": {`all:"` + term + `"`},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", arxivMaxResults)},
	}
	reqURL := arxivAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

// arxivHighlight builds one generic highlight for a matched term from the
// first entry of its feed.
func arxivHighlight(term string, entry arxivEntry) types.Highlight {
	h := types.Highlight{
		Text:   term,
		Source: strings.TrimSpace(entry.ID),
		Title:  strings.TrimSpace(entry.Title),
		Score:  arxivTermScore,
		Reason: "scientific term appears in arXiv literature",
	}

	meta := &types.AcademicMetadata{}
	for _, a := range entry.Authors {
		meta.Authors = append(meta.Authors, strings.TrimSpace(a.Name))
	}
	if len(meta.Authors) > 0 {
		h.Academic = meta
	}
	return h
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string        `xml:"id"`
	Title   string        `xml:"title"`
	Authors []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}
