// Package source loads documents to scan from files, stdin or URLs.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/a11y-audit/internal/dom"
	"golang.org/x/net/html"
)

// ErrUnsupportedScheme is returned for locations no loader handles.
var ErrUnsupportedScheme = errors.New("unsupported document source")

// DefaultMaxBytes bounds a fetched document or stylesheet.
const DefaultMaxBytes = 10 << 20

// DefaultTimeout bounds each HTTP request.
const DefaultTimeout = 15 * time.Second

// Loader opens one kind of location. It returns the body and the URL
// relative references in the document resolve against.
type Loader interface {
	Open(ctx context.Context, u *url.URL, opts Options) (io.ReadCloser, *url.URL, error)
}

var loadersMu sync.RWMutex

// loaders is keyed by URL scheme.
var loaders = map[string]Loader{
	"file":  fileLoader{},
	"http":  httpLoader{},
	"https": httpLoader{},
}

// Register adds or replaces the loader for scheme.
func Register(scheme string, l Loader) {
	loadersMu.Lock()
	defer loadersMu.Unlock()
	loaders[strings.ToLower(scheme)] = l
}

// Options configures loading.
type Options struct {
	// BaseURL overrides the base taken from the location.
	BaseURL string
	// FetchStyles loads same-origin <link rel=stylesheet> sheets.
	FetchStyles bool
	Timeout     time.Duration
	MaxBytes    int64
	Client      *http.Client
	// Stdin is read for the location "-". Nil uses os.Stdin.
	Stdin  io.Reader
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.Client == nil {
		o.Client = &http.Client{Timeout: o.Timeout}
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Load reads and parses the document at location: a file path, a file://
// or http(s) URL, or "-" for stdin.
func Load(ctx context.Context, location string, opts Options) (*dom.HTMLDocument, error) {
	opts = opts.withDefaults()
	body, base, err := open(ctx, location, opts)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	root, err := html.Parse(io.LimitReader(body, opts.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", location, err)
	}
	if opts.BaseURL != "" {
		if base, err = url.Parse(opts.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
	}
	base = documentBase(root, base)

	var sheets []string
	if opts.FetchStyles && base != nil {
		sheets = fetchStylesheets(ctx, root, base, opts)
	}
	return dom.FromNode(root, dom.Options{BaseURL: base, Stylesheets: sheets, Logger: opts.Logger}), nil
}

func open(ctx context.Context, location string, opts Options) (io.ReadCloser, *url.URL, error) {
	if location == "-" {
		return io.NopCloser(opts.Stdin), nil, nil
	}
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// A bare path, or a Windows drive letter.
		abs, aerr := filepath.Abs(location)
		if aerr != nil {
			return nil, nil, fmt.Errorf("resolve %s: %w", location, aerr)
		}
		u = &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	}
	loadersMu.RLock()
	l, ok := loaders[strings.ToLower(u.Scheme)]
	loadersMu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return l.Open(ctx, u, opts)
}

// documentBase applies a <base href> element on top of the location.
func documentBase(root *html.Node, base *url.URL) *url.URL {
	var href string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "base" {
			for _, a := range n.Attr {
				if a.Key == "href" {
					href = a.Val
					return true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if !walk(root) || strings.TrimSpace(href) == "" {
		return base
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return base
	}
	if base == nil {
		if ref.IsAbs() {
			return ref
		}
		return nil
	}
	return base.ResolveReference(ref)
}

type fileLoader struct{}

func (fileLoader) Open(_ context.Context, u *url.URL, _ Options) (io.ReadCloser, *url.URL, error) {
	f, err := os.Open(filepath.FromSlash(u.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("open document: %w", err)
	}
	return f, u, nil
}

type httpLoader struct{}

func (httpLoader) Open(ctx context.Context, u *url.URL, opts Options) (io.ReadCloser, *url.URL, error) {
	resp, err := get(ctx, u, opts)
	if err != nil {
		return nil, nil, err
	}
	return resp.Body, resp.Request.URL, nil
}

func get(ctx context.Context, u *url.URL, opts Options) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "a11y-audit")
	resp, err := opts.Client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("fetch %s: status %d", u, resp.StatusCode)
	}
	resp.Body = cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
