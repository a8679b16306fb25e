// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/plagiasure/detection-engine/pkg/types"
)

// duplicheckerAPIBase is the DupliChecker submission endpoint. Declared as
// a var so tests can substitute an httptest server.
var duplicheckerAPIBase = "https://www.duplichecker.com/api/v1/check"

const (
	duplicheckerChunkSize = 1000
	duplicheckerMaxChunks = 2
)

// DupliCheckerProvider submits whole document chunks to the keyed
// DupliChecker API. Unlike the probe-based providers it checks verbatim
// 1000-character slices and trusts the provider-reported percentage.
type DupliCheckerProvider struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *DupliCheckerProvider) Name() string { return "duplichecker" }

// Check splits the document into 1000-character chunks, submits up to 2
// sequentially with a paced delay, and reports the highest
// provider-reported plagiarism percentage as the confidence.
func (p *DupliCheckerProvider) Check(ctx context.Context, text string, cfg types.DetectConfig) (types.ProviderResult, error) {
	if cfg.DupliCheckerAPIKey == "" {
		return types.ProviderResult{}, nil
	}

	chunks := chunkText(text, duplicheckerChunkSize)
	if len(chunks) > duplicheckerMaxChunks {
		chunks = chunks[:duplicheckerMaxChunks]
	}
	if len(chunks) == 0 {
		return types.ProviderResult{}, nil
	}

	pacer := newPacer(probeDelay(cfg))

	score := 0.0
	var highlights []types.Highlight
	for _, chunk := range chunks {
		if err := pacer.Wait(ctx); err != nil {
			return types.ProviderResult{}, err
		}

		report, err := p.submit(ctx, chunk, cfg)
		if err != nil {
			return types.ProviderResult{}, err
		}

		if s := report.PercentPlagiarism / 100; s > score {
			score = s
		}
		for _, m := range report.Matches {
			matched := m.MatchedText
			if matched == "" {
				matched = chunk
			}
			highlights = append(highlights, types.Highlight{
				Text:   matched,
				Source: m.URL,
				Title:  m.Title,
				Score:  m.Percent / 100,
				Reason: "verbatim overlap reported by chunk scan",
			})
		}
	}

	if score > 1 {
		score = 1
	}
	return types.ProviderResult{Score: score, Highlights: highlights}, nil
}

func (p *DupliCheckerProvider) submit(ctx context.Context, chunk string, cfg types.DetectConfig) (*duplicheckerReport, error) {
	form := url.Values{
		"key":  {cfg.DupliCheckerAPIKey},
		"text": {chunk},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, duplicheckerAPIBase,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("DupliChecker API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DupliChecker API returned HTTP %d", resp.StatusCode)
	}

	var report duplicheckerReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("parsing DupliChecker response: %w", err)
	}
	return &report, nil
}

// chunkText splits text into fixed-size character chunks. The final chunk
// may be shorter; whitespace-only chunks are dropped.
func chunkText(text string, size int) []string {
	var chunks []string
	for start := 0; start < len(text); start += size {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunk := text[start:end]
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// DupliChecker API JSON structures.
type duplicheckerReport struct {
	PercentPlagiarism float64             `json:"percentPlagiarism"`
	Matches           []duplicheckerMatch `json:"matches"`
}

type duplicheckerMatch struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	MatchedText string  `json:"matchedText"`
	Percent     float64 `json:"percent"`
}
