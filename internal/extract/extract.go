// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract derives probe queries from a document: sentences for
// general web search, longer academic phrases for scholarly catalogs, and
// capitalized terms for scientific-paper lookups. All functions are pure
// and deterministic over the input text.
package extract

import (
	"regexp"
	"strings"
)

const (
	academicMinLen  = 40
	academicMaxLen  = 100
	maxAcademic     = 5
	capitalTermMin  = 10
	maxCapitalTerms = 3
)

// capitalRunRe matches runs of two or more capitalized words
// (proper-noun-like sequences such as "Albert Einstein" or
// "General Theory of Relativity" minus the lowercase connectives).
var capitalRunRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)

// SentenceProbes splits text on sentence-ending punctuation, trims each
// fragment, and drops fragments shorter than minLen. Order follows the
// original text.
func SentenceProbes(text string, minLen int) []string {
	var probes []string
	for _, s := range splitSentences(text) {
		if len(s) >= minLen {
			probes = append(probes, s)
		}
	}
	return probes
}

// AcademicPhrases returns up to 5 sentences longer than 40 characters,
// each truncated to 100 characters. These read like citable academic prose
// and feed bibliographic catalog queries.
func AcademicPhrases(text string) []string {
	var phrases []string
	for _, s := range splitSentences(text) {
		if len(s) <= academicMinLen {
			continue
		}
		phrases = append(phrases, Truncate(s, academicMaxLen))
		if len(phrases) == maxAcademic {
			break
		}
	}
	return phrases
}

// CapitalizedTerms scans for runs of capitalized words and returns up to 3
// terms longer than 10 characters. These catch named entities and
// technical terms for scientific-paper lookups.
func CapitalizedTerms(text string) []string {
	var terms []string
	for _, m := range capitalRunRe.FindAllString(text, -1) {
		if len(m) <= capitalTermMin {
			continue
		}
		terms = append(terms, m)
		if len(terms) == maxCapitalTerms {
			break
		}
	}
	return terms
}

// Truncate cuts s to at most max bytes. Probes are built from ASCII-heavy
// prose; a mid-rune cut is tolerated by every consuming API.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// splitSentences splits text on '.', '!' and '?' and trims each fragment.
func splitSentences(text string) []string {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var sentences []string
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f != "" {
			sentences = append(sentences, f)
		}
	}
	return sentences
}
