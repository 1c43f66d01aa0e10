package animation

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds a single image fetch.
const DefaultTimeout = 3 * time.Second

// DefaultConcurrency bounds concurrent fetches started by Prefetch.
const DefaultConcurrency = 8

// Fetcher returns up to limit leading bytes of the resource at u.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL, limit int) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, u *url.URL, limit int) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, u *url.URL, limit int) ([]byte, error) {
	return f(ctx, u, limit)
}

// HTTPFetcher reads http(s) and file URLs.
type HTTPFetcher struct {
	Client *http.Client
}

var defaultClient = &http.Client{
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		if len(via) >= 3 {
			return http.ErrUseLastResponse
		}
		return nil
	},
}

// Fetch implements Fetcher.
func (f HTTPFetcher) Fetch(ctx context.Context, u *url.URL, limit int) ([]byte, error) {
	switch u.Scheme {
	case "file":
		fh, err := os.Open(u.Path)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		return io.ReadAll(io.LimitReader(fh, int64(limit)))
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	client := f.Client
	if client == nil {
		client = defaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", limit-1))
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, int64(limit)))
}

// Options configures a Detector.
type Options struct {
	Fetcher Fetcher       // nil uses HTTPFetcher
	Fetch   bool          // allow byte fetches at all
	Timeout time.Duration // per fetch; zero uses DefaultTimeout
	Window  int           // bytes inspected; zero uses DefaultWindow
	// Concurrency bounds Prefetch; zero uses DefaultConcurrency.
	Concurrency int
	BaseURL *url.URL      // same-origin boundary and base for relative refs
	Logger  *slog.Logger
}

// Detector memoises animation verdicts for one scan. It is safe for
// concurrent use: the first verdict stored for a reference wins and
// concurrent lookups of the same reference share one fetch.
type Detector struct {
	opts   Options
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]bool
	group singleflight.Group
}

// NewDetector returns a detector with an empty cache.
func NewDetector(opts Options) *Detector {
	if opts.Fetcher == nil {
		opts.Fetcher = HTTPFetcher{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{opts: opts, logger: logger, cache: make(map[string]bool)}
}

// IsAnimated reports whether ref is animated. The filename heuristic
// answers first; only same-origin GIF/WebP references and inline data URIs
// are inspected byte-wise. Any fetch failure falls back to the heuristic.
//
// A canceled ctx returns the heuristic without caching a verdict. Once
// started, a fetch is bounded by the detector timeout only, so callers
// joining it are not cut short by the first caller's ctx.
func (d *Detector) IsAnimated(ctx context.Context, ref string) bool {
	key := d.normalize(ref)
	if key == "" {
		return false
	}
	d.mu.Lock()
	if v, ok := d.cache[key]; ok {
		d.mu.Unlock()
		return v
	}
	d.mu.Unlock()
	if ctx.Err() != nil {
		return Heuristic(key)
	}

	detached := context.WithoutCancel(ctx)
	v, _, shared := d.group.Do(key, func() (interface{}, error) {
		return d.detect(detached, key), nil
	})
	if shared {
		d.logger.Debug("animation: shared fetch", "ref", key)
	}
	animated := v.(bool)

	d.mu.Lock()
	if prev, ok := d.cache[key]; ok {
		animated = prev
	} else {
		d.cache[key] = animated
	}
	d.mu.Unlock()
	return animated
}

// Prefetch resolves refs concurrently so later IsAnimated calls read a
// memoised verdict or join a fetch already in flight. It returns once every
// started lookup has finished; refs not yet started when ctx is canceled
// are skipped.
func (d *Detector) Prefetch(ctx context.Context, refs []string) {
	var g errgroup.Group
	g.SetLimit(d.opts.Concurrency)
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		key := d.normalize(ref)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := d.Cached(key); ok {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			d.IsAnimated(ctx, key)
			return nil
		})
	}
	_ = g.Wait()
}

// Cached returns the memoised verdict for ref, if any.
func (d *Detector) Cached(ref string) (bool, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.cache[d.normalize(ref)]
	return v, ok
}

func (d *Detector) detect(ctx context.Context, key string) bool {
	if Heuristic(key) {
		return true
	}
	if !Candidate(key) {
		return false
	}
	if strings.HasPrefix(key, "data:") {
		b, err := decodeDataURI(key)
		if err != nil {
			return false
		}
		return Animated(b, d.opts.Window)
	}
	if !d.opts.Fetch {
		return false
	}
	u, err := url.Parse(key)
	if err != nil || !d.sameOrigin(u) {
		return false
	}
	fctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()
	b, err := d.opts.Fetcher.Fetch(fctx, u, d.opts.Window)
	if err != nil {
		d.logger.Debug("animation: fetch failed, using heuristic", "ref", key, "error", err)
		return false
	}
	return Animated(b, d.opts.Window)
}

func (d *Detector) sameOrigin(u *url.URL) bool {
	base := d.opts.BaseURL
	if base == nil {
		return false
	}
	if u.Scheme == "file" {
		return base.Scheme == "file"
	}
	return strings.EqualFold(u.Scheme, base.Scheme) && strings.EqualFold(u.Host, base.Host)
}

// normalize resolves ref against the base URL and drops the fragment.
func (d *Detector) normalize(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(ref), "data:") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if d.opts.BaseURL != nil {
		u = d.opts.BaseURL.ResolveReference(u)
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

func decodeDataURI(s string) ([]byte, error) {
	meta, data, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri")
	}
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		return base64.StdEncoding.DecodeString(data)
	}
	unescaped, err := url.PathUnescape(data)
	if err != nil {
		return nil, err
	}
	return []byte(unescaped), nil
}
