package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/model"
	"github.com/mj1618/a11y-audit/internal/rules"
	"github.com/mj1618/a11y-audit/internal/scan"
	"github.com/mj1618/a11y-audit/internal/source"
	"gopkg.in/yaml.v3"
)

// scanRequest is the decoded argument set of the scan tool.
type scanRequest struct {
	HTML            string
	URL             string
	BaseURL         string
	FetchStyles     bool
	AltMaxLength    int
	SmallTextPx     float64
	SubheadingWords int
	IgnoredIDs      []string
	DisabledRules   []string
	Format          string
}

func parseScanRequest(request mcp.CallToolRequest) scanRequest {
	return scanRequest{
		HTML:            request.GetString("html", ""),
		URL:             request.GetString("url", ""),
		BaseURL:         request.GetString("base_url", ""),
		FetchStyles:     request.GetBool("fetch_styles", false),
		AltMaxLength:    request.GetInt("alt_max_length", 0),
		SmallTextPx:     request.GetFloat("small_text_px", 0),
		SubheadingWords: request.GetInt("subheading_words", 0),
		IgnoredIDs:      request.GetStringSlice("ignored_ids", nil),
		DisabledRules:   request.GetStringSlice("disabled_rules", nil),
		Format:          request.GetString("format", "yaml"),
	}
}

// options overlays the request onto the server defaults.
func (r scanRequest) options(defaults scan.Options) scan.Options {
	opts := defaults
	if r.AltMaxLength > 0 {
		opts.AltMaxLength = r.AltMaxLength
	}
	if r.SmallTextPx > 0 {
		opts.SmallTextPx = r.SmallTextPx
	}
	if r.SubheadingWords > 0 {
		opts.SubheadingWords = r.SubheadingWords
	}
	opts.IgnoredIssueIDs = append(append([]string(nil), defaults.IgnoredIssueIDs...), r.IgnoredIDs...)
	opts.DisabledRules = append(append([]string(nil), defaults.DisabledRules...), r.DisabledRules...)
	return opts
}

// cacheKey hashes everything that can change a result.
func (r scanRequest) cacheKey() uint64 {
	ignored := append([]string(nil), r.IgnoredIDs...)
	sort.Strings(ignored)
	disabled := append([]string(nil), r.DisabledRules...)
	sort.Strings(disabled)
	d := xxhash.New()
	fmt.Fprintf(d, "%s\x00%s\x00%s\x00%v\x00%d\x00%g\x00%d\x00%s\x00%s\x00",
		r.URL, r.BaseURL, r.Format, r.FetchStyles, r.AltMaxLength, r.SmallTextPx, r.SubheadingWords,
		strings.Join(ignored, ","), strings.Join(disabled, ","))
	_, _ = d.WriteString(r.HTML)
	return d.Sum64()
}

func (s *Server) handleScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := parseScanRequest(request)
	if (req.HTML == "") == (req.URL == "") {
		return mcp.NewToolResultError("exactly one of html or url is required"), nil
	}
	if req.Format != "yaml" && req.Format != "json" {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format: %s (use yaml or json)", req.Format)), nil
	}

	key := req.cacheKey()
	if result, ok := s.cache.Get(key); ok {
		s.logger.Debug("scan served from cache", "key", key)
		return encodeResult(result, req.Format)
	}

	doc, err := s.document(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := req.options(s.cfg.Defaults)
	opts.Registry = s.registry
	opts.Logger = s.logger
	result, err := scan.Scan(ctx, doc, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.cache.Put(key, result)
	return encodeResult(result, req.Format)
}

func (s *Server) document(ctx context.Context, req scanRequest) (*dom.HTMLDocument, error) {
	if req.URL != "" {
		return s.load(ctx, req.URL, source.Options{BaseURL: req.BaseURL, FetchStyles: req.FetchStyles, Logger: s.logger})
	}
	var base *url.URL
	if req.BaseURL != "" {
		u, err := url.Parse(req.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base_url: %w", err)
		}
		base = u
	}
	return dom.ParseString(req.HTML, dom.Options{BaseURL: base, Logger: s.logger})
}

func encodeResult(result scan.Result, format string) (*mcp.CallToolResult, error) {
	var b []byte
	var err error
	if format == "json" {
		b, err = json.Marshal(result)
	} else {
		b, err = yaml.Marshal(result)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleRules(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := request.GetString("type", "")
	var want model.RuleType
	if filter != "" {
		t, err := model.ParseRuleType(filter)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		want = t
	}
	var list []rules.Rule
	for _, r := range s.registry.Rules() {
		if want == "" || r.Type == want {
			list = append(list, r)
		}
	}
	b, _ := yaml.Marshal(list)
	return mcp.NewToolResultText(string(b)), nil
}
