// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the detection engine:
// highlights, provider results, the aggregated detection result, and the
// configuration structs consumed by the provider clients and the CLI.
package types

// MethodFreeAPI labels detection results produced by the multi-provider
// free-API aggregation path.
const MethodFreeAPI = "multi_source_free_api"

// Default values applied to highlights whose provider omitted the field.
const (
	UnknownSource = "Unknown Source"
	UntitledMatch = "Untitled"
)

// AcademicMetadata carries provider fields specific to scholarly catalogs
// (CrossRef, arXiv).
type AcademicMetadata struct {
	// Authors lists author names in "given family" form, in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// DOI is the bare DOI string when the catalog provided one.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// CitationCount is the citation count reported by the catalog, 0 when absent.
	CitationCount int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`
}

// WebMetadata carries provider fields specific to general web-search APIs
// (DuckDuckGo, Google, Bing).
type WebMetadata struct {
	// Snippet is the result snippet or abstract text returned by the engine.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Rank is the 1-based position of this item in the engine's response.
	Rank int `json:"rank,omitempty" yaml:"rank,omitempty"`
}

// Highlight is one matched passage attributable to one external source.
// Exactly one of Academic or Web is set for catalog and web-search matches
// respectively; both are nil for generic matches (e.g. DupliChecker).
type Highlight struct {
	// Text is the matched or probe text this highlight refers to.
	Text string `json:"text" yaml:"text"`

	// Source is a URL or textual source label; never empty in aggregated
	// results (defaults to UnknownSource).
	Source string `json:"source" yaml:"source"`

	// Title names the matched document (defaults to UntitledMatch).
	Title string `json:"title" yaml:"title"`

	// Score is the confidence of this particular match, in [0, 1].
	Score float64 `json:"score" yaml:"score"`

	// Reason optionally explains why the provider flagged this passage.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	Academic *AcademicMetadata `json:"academic,omitempty" yaml:"academic,omitempty"`
	Web      *WebMetadata      `json:"web,omitempty" yaml:"web,omitempty"`
}

// ProviderResult is the outcome of querying one external provider.
// Score is the provider-local confidence in [0, 1] that the content is
// non-original; a failed or unconfigured provider contributes the zero value.
type ProviderResult struct {
	Score      float64     `json:"score" yaml:"score"`
	Highlights []Highlight `json:"highlights" yaml:"highlights"`
}

// DetectionResult aggregates all provider evidence for one detect call.
type DetectionResult struct {
	// Score is the maximum of all provider scores, in [0, 1]. A single
	// strong provider match dominates; scores are never averaged.
	Score float64 `json:"score" yaml:"score"`

	// Highlights is deduplicated, sorted by descending score, and capped.
	Highlights []Highlight `json:"highlights" yaml:"highlights"`

	// Sources lists the distinct source labels of the surviving highlights.
	Sources []string `json:"sources" yaml:"sources"`

	// Method identifies the detection path (MethodFreeAPI).
	Method string `json:"method" yaml:"method"`

	// ProviderErrors records per-provider failures for diagnostics. A
	// failed provider is otherwise indistinguishable from one that found
	// nothing.
	ProviderErrors []string `json:"provider_errors,omitempty" yaml:"provider_errors,omitempty"`
}
