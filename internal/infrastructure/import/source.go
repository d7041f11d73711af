package csvimport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxSourceSize caps how much CSV we accept from any source (20 MiB).
const maxSourceSize = 20 << 20

// Source carries the raw CSV for one import run. Exactly one of the three
// inputs is used, checked in order: uploaded file, inline text, remote URL.
type Source struct {
	FileName  string
	FileBytes []byte
	Text      string
	URL       string
}

// Kind reports which input this source will resolve from
func (s Source) Kind() string {
	switch {
	case len(s.FileBytes) > 0:
		return "file"
	case s.Text != "":
		return "text"
	case s.URL != "":
		return "url"
	default:
		return ""
	}
}

// Resolver turns a Source into CSV bytes, fetching remote URLs when needed
type Resolver struct {
	client  *http.Client
	maxSize int64
}

// NewResolver creates a resolver with a dedicated HTTP client for URL sources
func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{
		client:  &http.Client{Timeout: timeout},
		maxSize: maxSourceSize,
	}
}

// Resolve returns the CSV content for the source. ErrNoSource is returned
// when the source carries no input at all.
func (r *Resolver) Resolve(ctx context.Context, src Source) ([]byte, error) {
	switch src.Kind() {
	case "file":
		return src.FileBytes, nil
	case "text":
		return []byte(src.Text), nil
	case "url":
		return r.fetch(ctx, src.URL)
	default:
		return nil, ErrNoSource
	}
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrSourceUnreadable, resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	if int64(len(data)) > r.maxSize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrSourceUnreadable, r.maxSize)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return data, nil
}
