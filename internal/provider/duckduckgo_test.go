// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ddgTestText = "The theory of relativity fundamentally changed physics forever. Quantum mechanics describes the behavior of matter at small scales. Thermodynamics governs the transfer of heat and energy in systems."

func TestDuckDuckGoCheck(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		fmt.Fprint(w, `{
			"AbstractText": "The theory of relativity...",
			"AbstractURL": "https://en.wikipedia.org/wiki/Theory_of_relativity",
			"Heading": "Theory of relativity",
			"RelatedTopics": [
				{"Text": "Special relativity - physical theory", "FirstURL": "https://duckduckgo.com/Special_relativity"},
				{"Text": "No URL topic", "FirstURL": ""}
			]
		}`)
	}))
	defer ts.Close()

	old := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	defer func() { duckduckgoAPIBase = old }()

	p := &DuckDuckGoProvider{Client: ts.Client()}
	res, err := p.Check(context.Background(), ddgTestText, testCfg())
	require.NoError(t, err)

	// Three sentences over the length floor, one query each.
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	// 2 hits per probe (abstract + one linked topic), 6 total, capped at 0.8.
	assert.InDelta(t, 0.8, res.Score, 1e-9)
	assert.Len(t, res.Highlights, 6)

	h := res.Highlights[0]
	assert.Equal(t, "https://en.wikipedia.org/wiki/Theory_of_relativity", h.Source)
	assert.Equal(t, "Theory of relativity", h.Title)
	require.NotNil(t, h.Web)
	assert.Equal(t, "The theory of relativity...", h.Web.Snippet)
	assert.Nil(t, h.Academic)
}

func TestDuckDuckGoNoProbes(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{}`)
	}))
	defer ts.Close()

	old := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	defer func() { duckduckgoAPIBase = old }()

	p := &DuckDuckGoProvider{Client: ts.Client()}
	res, err := p.Check(context.Background(), "Short. Tiny. Words.", testCfg())
	require.NoError(t, err)

	assert.Zero(t, res.Score)
	assert.Empty(t, res.Highlights)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestDuckDuckGoServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	old := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	defer func() { duckduckgoAPIBase = old }()

	p := &DuckDuckGoProvider{Client: ts.Client()}
	_, err := p.Check(context.Background(), ddgTestText, testCfg())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestDuckDuckGoMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `not json at all`)
	}))
	defer ts.Close()

	old := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	defer func() { duckduckgoAPIBase = old }()

	p := &DuckDuckGoProvider{Client: ts.Client()}
	_, err := p.Check(context.Background(), ddgTestText, testCfg())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing DuckDuckGo response")
}
