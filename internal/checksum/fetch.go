package checksum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/schollz/progressbar/v3"
)

// DefaultUserAgent is the User-Agent header sent with downloads.
const DefaultUserAgent = "brewform/1.0"

// Fetcher computes the digest of a remote artifact.
type Fetcher interface {
	FetchDigest(ctx context.Context, url string) (string, error)
}

// StatusError reports a download answered with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download %s: unexpected status code: %d", e.URL, e.StatusCode)
}

// HTTPFetcher downloads artifacts with a single GET and hashes the body as
// it streams, without writing it to disk.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	progress  io.Writer
}

// NewHTTPFetcher creates a fetcher using client. A nil progress writer
// disables the progress bar, as does a response without Content-Length.
func NewHTTPFetcher(client *http.Client, progress io.Writer) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		client:    client,
		userAgent: DefaultUserAgent,
		progress:  progress,
	}
}

// FetchDigest GETs url and returns the SHA-256 of the response body.
func (f *HTTPFetcher) FetchDigest(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	hasher := sha256.New()
	var sink io.Writer = hasher
	if f.progress != nil && resp.ContentLength > 0 {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(f.progress),
			progressbar.OptionSetDescription(fmt.Sprintf("hashing %s", path.Base(url))),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100*time.Millisecond),
		)
		defer bar.Finish()
		sink = io.MultiWriter(hasher, bar)
	}

	if _, err := io.Copy(sink, resp.Body); err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
