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

const webTestText = "The theory of relativity fundamentally changed our understanding of physics. Quantum field theory describes interactions between elementary particles there."

func TestGoogleKeyAbsentShortCircuits(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	old := googleAPIBase
	googleAPIBase = ts.URL
	defer func() { googleAPIBase = old }()

	// No key configured: zero result, zero outbound HTTP calls.
	p := &GoogleProvider{Client: ts.Client()}
	res, err := p.Check(context.Background(), webTestText, testCfg())
	require.NoError(t, err)

	assert.Zero(t, res.Score)
	assert.Empty(t, res.Highlights)
	assert.Zero(t, atomic.LoadInt32(&calls))

	// Key without engine ID is still unconfigured.
	cfg := testCfg()
	cfg.GoogleAPIKey = "gk_123"
	res, err = p.Check(context.Background(), webTestText, cfg)
	require.NoError(t, err)
	assert.Zero(t, res.Score)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestGoogleCheck(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		q := r.URL.Query()
		assert.Equal(t, "gk_123", q.Get("key"))
		assert.Equal(t, "cx_456", q.Get("cx"))
		assert.True(t, strings.HasPrefix(q.Get("q"), `"`), "probe should be quoted: %q", q.Get("q"))
		assert.LessOrEqual(t, len(q.Get("q")), webProbeLen+2)
		fmt.Fprint(w, `{"items":[
			{"title":"Relativity - Wikipedia","link":"https://en.wikipedia.org/wiki/Relativity","snippet":"The theory of relativity..."},
			{"title":"Course notes","link":"https://physics.example/notes","snippet":"changed our understanding"}
		]}`)
	}))
	defer ts.Close()

	old := googleAPIBase
	googleAPIBase = ts.URL
	defer func() { googleAPIBase = old }()

	cfg := testCfg()
	cfg.GoogleAPIKey = "gk_123"
	cfg.GoogleEngineID = "cx_456"

	p := &GoogleProvider{Client: ts.Client()}
	res, err := p.Check(context.Background(), webTestText, cfg)
	require.NoError(t, err)

	// Two sentence probes, one query each.
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// 4 items at 0.3 each, capped at 0.9.
	assert.InDelta(t, 0.9, res.Score, 1e-9)
	require.Len(t, res.Highlights, 4)

	h := res.Highlights[0]
	assert.Equal(t, "https://en.wikipedia.org/wiki/Relativity", h.Source)
	assert.Equal(t, "Relativity - Wikipedia", h.Title)
	require.NotNil(t, h.Web)
	assert.Equal(t, 1, h.Web.Rank)
	assert.Equal(t, 2, res.Highlights[1].Web.Rank)
}

func TestBingKeyAbsentShortCircuits(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	old := bingAPIBase
	bingAPIBase = ts.URL
	defer func() { bingAPIBase = old }()

	p := &BingProvider{Client: ts.Client()}
	res, err := p.Check(context.Background(), webTestText, testCfg())
	require.NoError(t, err)

	assert.Zero(t, res.Score)
	assert.Empty(t, res.Highlights)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestBingCheck(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bk_789", r.Header.Get("Ocp-Apim-Subscription-Key"))
		fmt.Fprint(w, `{"webPages":{"value":[
			{"name":"Relativity explained","url":"https://example.org/relativity","snippet":"the theory of relativity"}
		]}}`)
	}))
	defer ts.Close()

	old := bingAPIBase
	bingAPIBase = ts.URL
	defer func() { bingAPIBase = old }()

	cfg := testCfg()
	cfg.BingAPIKey = "bk_789"

	p := &BingProvider{Client: ts.Client()}
	res, err := p.Check(context.Background(), webTestText, cfg)
	require.NoError(t, err)

	// 2 items (one per probe) at 0.3 each.
	assert.InDelta(t, 0.6, res.Score, 1e-9)
	require.Len(t, res.Highlights, 2)
	assert.Equal(t, "https://example.org/relativity", res.Highlights[0].Source)
	assert.Equal(t, "Relativity explained", res.Highlights[0].Title)
}

func TestWebSearchErrorPropagates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	old := googleAPIBase
	googleAPIBase = ts.URL
	defer func() { googleAPIBase = old }()

	cfg := testCfg()
	cfg.GoogleAPIKey = "gk_123"
	cfg.GoogleEngineID = "cx_456"

	p := &GoogleProvider{Client: ts.Client()}
	_, err := p.Check(context.Background(), webTestText, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}
