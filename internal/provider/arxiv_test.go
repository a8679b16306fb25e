// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arxivTestText = "The theory was developed by Albert Einstein and extended under General Relativity in later decades."

const arxivTestFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1602.03837v1</id>
    <title>Observation of Gravitational Waves from a Binary Black Hole Merger</title>
    <author><name>B. P. Abbott</name></author>
    <author><name>R. Abbott</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1606.04855v1</id>
    <title>Second Observation</title>
  </entry>
</feed>`

func TestArxivCheck(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		q := r.URL.Query().Get("search_query")
		assert.True(t, strings.HasPrefix(q, `all:"`), "search_query should quote the term: %q", q)
		fmt.Fprint(w, arxivTestFeed)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	p := &ArxivProvider{Client: ts.Client()}
	res, err := p.Check(context.Background(), arxivTestText, testCfg())
	require.NoError(t, err)

	// Two capitalized terms, one query each.
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// Presence of entries is a fixed-confidence hit; one generic
	// highlight per successful term, not one per paper.
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	require.Len(t, res.Highlights, 2)

	h := res.Highlights[0]
	assert.Equal(t, "Albert Einstein", h.Text)
	assert.Equal(t, "http://arxiv.org/abs/1602.03837v1", h.Source)
	assert.Equal(t, "Observation of Gravitational Waves from a Binary Black Hole Merger", h.Title)
	assert.InDelta(t, 0.5, h.Score, 1e-9)
	require.NotNil(t, h.Academic)
	assert.Equal(t, []string{"B. P. Abbott", "R. Abbott"}, h.Academic.Authors)
}

func TestArxivEmptyFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	p := &ArxivProvider{Client: ts.Client()}
	res, err := p.Check(context.Background(), arxivTestText, testCfg())
	require.NoError(t, err)

	assert.Zero(t, res.Score)
	assert.Empty(t, res.Highlights)
}

func TestArxivNoTerms(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	p := &ArxivProvider{Client: ts.Client()}
	res, err := p.Check(context.Background(), "no capitalized runs appear in this text at all.", testCfg())
	require.NoError(t, err)

	assert.Zero(t, res.Score)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestArxivMalformedXML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<feed><entry></feed>`)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	p := &ArxivProvider{Client: ts.Client()}
	_, err := p.Check(context.Background(), arxivTestText, testCfg())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing arXiv response")
}
