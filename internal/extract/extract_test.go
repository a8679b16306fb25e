// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"testing"
)

func TestSentenceProbesFiltersShortFragments(t *testing.T) {
	got := SentenceProbes("Hi. This is a sufficiently long sentence for testing purposes.", 30)
	if len(got) != 1 {
		t.Fatalf("len(probes) = %d, want 1 (%v)", len(got), got)
	}
	if got[0] != "This is a sufficiently long sentence for testing purposes" {
		t.Errorf("probe = %q", got[0])
	}
}

func TestSentenceProbesPreserveOrder(t *testing.T) {
	text := "First sentence with enough characters here. Second sentence also has enough characters! Third one is similarly long enough?"
	got := SentenceProbes(text, 25)
	if len(got) != 3 {
		t.Fatalf("len(probes) = %d, want 3 (%v)", len(got), got)
	}
	if !strings.HasPrefix(got[0], "First") || !strings.HasPrefix(got[1], "Second") || !strings.HasPrefix(got[2], "Third") {
		t.Errorf("probes out of order: %v", got)
	}
}

func TestSentenceProbesEmptyText(t *testing.T) {
	if got := SentenceProbes("", 25); len(got) != 0 {
		t.Errorf("probes = %v, want none", got)
	}
	if got := SentenceProbes("...!!!???", 1); len(got) != 0 {
		t.Errorf("punctuation-only probes = %v, want none", got)
	}
}

func TestAcademicPhrasesLengthAndCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("This sentence is comfortably longer than the forty character floor required for phrases, number ")
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString(". ")
	}
	b.WriteString("Short one. ")

	got := AcademicPhrases(b.String())
	if len(got) != 5 {
		t.Fatalf("len(phrases) = %d, want 5", len(got))
	}
	for _, p := range got {
		if len(p) > 100 {
			t.Errorf("phrase exceeds 100 chars: %q", p)
		}
	}
}

func TestAcademicPhrasesSkipsShortSentences(t *testing.T) {
	got := AcademicPhrases("Too short. Also short here.")
	if len(got) != 0 {
		t.Errorf("phrases = %v, want none", got)
	}
}

func TestCapitalizedTerms(t *testing.T) {
	text := "The theory was developed by Albert Einstein at the Institute For Advanced Study. See General Relativity and Quantum Field Theory and Statistical Mechanics Methods."
	got := CapitalizedTerms(text)
	if len(got) != 3 {
		t.Fatalf("len(terms) = %d, want 3 (%v)", len(got), got)
	}
	for _, term := range got {
		if len(term) <= 10 {
			t.Errorf("term %q not longer than 10 chars", term)
		}
		if !strings.Contains(term, " ") {
			t.Errorf("term %q is not a multi-word run", term)
		}
	}
	if got[0] != "Albert Einstein" {
		t.Errorf("first term = %q, want %q", got[0], "Albert Einstein")
	}
}

func TestCapitalizedTermsNoneFound(t *testing.T) {
	if got := CapitalizedTerms("nothing here is capitalized beyond the start."); len(got) != 0 {
		t.Errorf("terms = %v, want none", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abcd" {
		t.Errorf("Truncate = %q, want %q", got, "abcd")
	}
	if got := Truncate("abc", 4); got != "abc" {
		t.Errorf("Truncate = %q, want %q", got, "abc")
	}
}

func TestDeterminism(t *testing.T) {
	text := "The theory of relativity, developed by Albert Einstein, fundamentally changed our understanding of space, time, and gravity."
	a := SentenceProbes(text, 25)
	b := SentenceProbes(text, 25)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic probe count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("probe %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}
