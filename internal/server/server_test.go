package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/scan"
	"github.com/mj1618/a11y-audit/internal/source"
)

const testPage = `<html lang="en"><head><title>t</title></head><body><img src="a.png"></body></html>`

func newTestServer(ttl time.Duration) *Server {
	defaults := scan.DefaultOptions()
	defaults.AnimationFetch = false
	return New(Config{CacheTTL: ttl, Defaults: defaults})
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content = %+v, want one item", res.Content)
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func TestHandleScan_HTML(t *testing.T) {
	s := newTestServer(0)
	res, err := s.handleScan(context.Background(), callTool("scan", map[string]any{
		"html":   testPage,
		"format": "json",
	}))
	if err != nil {
		t.Fatalf("handleScan: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	var out scan.Result
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Summary.ByRule["img_alt_missing"] != 1 {
		t.Errorf("by_rule = %v, want one img_alt_missing", out.Summary.ByRule)
	}
}

func TestHandleScan_Options(t *testing.T) {
	s := newTestServer(0)
	res, err := s.handleScan(context.Background(), callTool("scan", map[string]any{
		"html":           testPage,
		"disabled_rules": []any{"img_alt_missing"},
	}))
	if err != nil {
		t.Fatalf("handleScan: %v", err)
	}
	if text := resultText(t, res); strings.Contains(text, "rule_slug: img_alt_missing") {
		t.Errorf("disabled rule reported:\n%s", text)
	}
}

func TestHandleScan_BadArguments(t *testing.T) {
	s := newTestServer(0)
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"neither", map[string]any{}, "exactly one of html or url"},
		{"both", map[string]any{"html": "<p>", "url": "http://x"}, "exactly one of html or url"},
		{"format", map[string]any{"html": "<p>", "format": "xml"}, "unsupported format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleScan(context.Background(), callTool("scan", tt.args))
			if err != nil {
				t.Fatalf("handleScan: %v", err)
			}
			if !res.IsError || !strings.Contains(resultText(t, res), tt.want) {
				t.Errorf("result = %+v, want error containing %q", res, tt.want)
			}
		})
	}
}

func TestHandleScan_URLCached(t *testing.T) {
	s := newTestServer(time.Minute)
	calls := 0
	s.load = func(_ context.Context, location string, opts source.Options) (*dom.HTMLDocument, error) {
		calls++
		if location != "https://example.com/" || !opts.FetchStyles {
			t.Errorf("load(%q, %+v)", location, opts)
		}
		return dom.MustParseString(testPage), nil
	}
	args := map[string]any{"url": "https://example.com/", "fetch_styles": true}
	for i := 0; i < 2; i++ {
		res, err := s.handleScan(context.Background(), callTool("scan", args))
		if err != nil || res.IsError {
			t.Fatalf("handleScan: %v %+v", err, res)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache has %d entries, want 1", s.cache.Len())
	}
}

func TestHandleRules(t *testing.T) {
	s := newTestServer(0)
	res, err := s.handleRules(context.Background(), callTool("rules", map[string]any{"type": "error"}))
	if err != nil {
		t.Fatalf("handleRules: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "slug: img_alt_missing") {
		t.Errorf("error rules missing img_alt_missing:\n%s", text)
	}
	if strings.Contains(text, "slug: img_alt_long") {
		t.Errorf("warning rule listed under error filter:\n%s", text)
	}

	res, err = s.handleRules(context.Background(), callTool("rules", map[string]any{"type": "fatal"}))
	if err != nil {
		t.Fatalf("handleRules: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for unknown type")
	}
}

func TestResultCache(t *testing.T) {
	c := NewResultCache(time.Second)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put(1, scan.Result{Summary: scan.Summary{Errors: 3}})
	if got, ok := c.Get(1); !ok || got.Summary.Errors != 3 {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
	if _, ok := c.Get(2); ok {
		t.Error("unexpected hit for missing key")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get(1); ok {
		t.Error("entry should expire at the ttl")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after expiry, want 0", c.Len())
	}

	c.Put(3, scan.Result{})
	c.InvalidateAll()
	if c.Len() != 0 {
		t.Error("InvalidateAll left entries")
	}

	off := NewResultCache(0)
	off.Put(1, scan.Result{})
	if _, ok := off.Get(1); ok || off.Len() != 0 {
		t.Error("zero ttl should disable caching")
	}
}

func TestCacheKey(t *testing.T) {
	a := scanRequest{HTML: "<p>", IgnoredIDs: []string{"x", "y"}}
	b := scanRequest{HTML: "<p>", IgnoredIDs: []string{"y", "x"}}
	if a.cacheKey() != b.cacheKey() {
		t.Error("ignored id order should not change the key")
	}
	c := scanRequest{HTML: "<p>", AltMaxLength: 50}
	if a.cacheKey() == c.cacheKey() {
		t.Error("options should change the key")
	}
}
