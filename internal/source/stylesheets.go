package source

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// stylesheetLinks returns the hrefs of <link rel=stylesheet> elements that
// apply to screen media, in document order.
func stylesheetLinks(root *html.Node) []string {
	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, href, media string
			for _, a := range n.Attr {
				switch strings.ToLower(a.Key) {
				case "rel":
					rel = strings.ToLower(a.Val)
				case "href":
					href = strings.TrimSpace(a.Val)
				case "media":
					media = strings.ToLower(a.Val)
				}
			}
			if hasToken(rel, "stylesheet") && !hasToken(rel, "alternate") && href != "" && screenMedia(media) {
				hrefs = append(hrefs, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return hrefs
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if f == token {
			return true
		}
	}
	return false
}

func screenMedia(media string) bool {
	media = strings.TrimSpace(media)
	return media == "" || strings.Contains(media, "all") || strings.Contains(media, "screen")
}

// fetchStylesheets loads same-origin linked sheets. Failures are logged and
// skipped; a missing sheet only makes style facts less complete.
func fetchStylesheets(ctx context.Context, root *html.Node, base *url.URL, opts Options) []string {
	var sheets []string
	for _, href := range stylesheetLinks(root) {
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		u := base.ResolveReference(ref)
		if !sameOrigin(base, u) {
			opts.Logger.Debug("skipping cross-origin stylesheet", "href", u.String())
			continue
		}
		text, err := fetchText(ctx, u, opts)
		if err != nil {
			opts.Logger.Debug("stylesheet fetch failed", "href", u.String(), "error", err)
			continue
		}
		sheets = append(sheets, text)
	}
	return sheets
}

func sameOrigin(a, b *url.URL) bool {
	if a.Scheme == "file" || b.Scheme == "file" {
		return a.Scheme == b.Scheme
	}
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}

func fetchText(ctx context.Context, u *url.URL, opts Options) (string, error) {
	var body io.ReadCloser
	if u.Scheme == "file" {
		f, err := os.Open(filepath.FromSlash(u.Path))
		if err != nil {
			return "", err
		}
		body = f
	} else {
		resp, err := get(ctx, u, opts)
		if err != nil {
			return "", err
		}
		body = resp.Body
	}
	defer body.Close()
	data, err := io.ReadAll(io.LimitReader(body, opts.MaxBytes))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
