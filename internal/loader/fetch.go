package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ProgressFunc receives non-decreasing fractions in [0, 1].
type ProgressFunc func(fraction float64)

// Fetcher retrieves the bytes of an asset addressed by a slash-separated
// path relative to the models root.
type Fetcher interface {
	Fetch(ctx context.Context, assetPath string, progress ProgressFunc) ([]byte, error)
}

// NewFetcher returns an HTTPFetcher for http(s) roots and a FileFetcher
// otherwise.
func NewFetcher(root string) Fetcher {
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		return NewHTTPFetcher(root, nil)
	}
	return &FileFetcher{Root: root}
}

// FileFetcher reads assets from a directory.
type FileFetcher struct {
	Root string
}

// Fetch implements Fetcher.
func (f *FileFetcher) Fetch(ctx context.Context, assetPath string, progress ProgressFunc) ([]byte, error) {
	rel := filepath.FromSlash(assetPath)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("asset path %q escapes models root", assetPath)
	}

	file, err := os.Open(filepath.Join(f.Root, rel))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var total int64 = -1
	if info, err := file.Stat(); err == nil {
		total = info.Size()
	}
	return readAll(ctx, file, total, progress)
}

// HTTPFetcher downloads assets below a base URL.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for baseURL. A nil client gets a
// default with a generous timeout for large scans.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	return &HTTPFetcher{base: u, client: client}
}

// URL returns the absolute URL for an asset path.
func (f *HTTPFetcher) URL(assetPath string) string {
	return f.base.JoinPath(assetPath).String()
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, assetPath string, progress ProgressFunc) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(assetPath), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", req.URL, resp.Status)
	}
	return readAll(ctx, resp.Body, resp.ContentLength, progress)
}

// progressReader reports the fraction read so far. Unknown totals report
// nothing until the final 1.
type progressReader struct {
	ctx    context.Context
	r      io.Reader
	total  int64
	read   int64
	last   float64
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 && n > 0 {
		p.advance(min(float64(p.read)/float64(p.total), 1))
	}
	return n, err
}

func (p *progressReader) advance(f float64) {
	if f <= p.last {
		return
	}
	p.last = f
	if p.report != nil {
		p.report(f)
	}
}

func readAll(ctx context.Context, r io.Reader, total int64, progress ProgressFunc) ([]byte, error) {
	pr := &progressReader{ctx: ctx, r: r, total: total, report: progress}

	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}
	if _, err := buf.ReadFrom(pr); err != nil {
		return nil, err
	}
	pr.advance(1)
	return buf.Bytes(), nil
}
