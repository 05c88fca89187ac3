package checksum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// countingServer serves body and counts requests.
func countingServer(t *testing.T, status int, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		if _, err := w.Write(body); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestResolver_SidecarWins(t *testing.T) {
	dir := t.TempDir()
	tarball := filepath.Join(dir, "frobber-x86_64-unknown-linux-gnu.tar.gz")
	require.NoError(t, os.WriteFile(tarball, []byte("local tarball"), 0o644))
	require.NoError(t, os.WriteFile(tarball+SidecarSuffix, []byte(testDigest), 0o644))

	server, hits := countingServer(t, http.StatusOK, []byte("remote tarball"))
	resolver := NewResolver(NewHTTPFetcher(server.Client(), nil), nil)

	digest, source, err := resolver.ResolveSource(context.Background(), tarball, server.URL)
	require.NoError(t, err)
	assert.Equal(t, testDigest, digest, "sidecar content must be returned verbatim")
	assert.Equal(t, SourceSidecar, source)
	assert.Zero(t, hits.Load(), "remote must not be contacted")
}

func TestResolver_LocalBeatsRemote(t *testing.T) {
	dir := t.TempDir()
	tarball := filepath.Join(dir, "frobber.tar.gz")
	content := []byte("local tarball bytes")
	require.NoError(t, os.WriteFile(tarball, content, 0o644))

	server, hits := countingServer(t, http.StatusOK, []byte("remote tarball"))
	resolver := NewResolver(NewHTTPFetcher(server.Client(), nil), nil)

	digest, source, err := resolver.ResolveSource(context.Background(), tarball, server.URL)
	require.NoError(t, err)
	assert.Equal(t, sum(content), digest)
	assert.Equal(t, SourceLocal, source)
	assert.Zero(t, hits.Load())
}

func TestResolver_MalformedSidecarFallsThrough(t *testing.T) {
	dir := t.TempDir()
	tarball := filepath.Join(dir, "frobber.tar.gz")
	content := []byte("local tarball bytes")
	require.NoError(t, os.WriteFile(tarball, content, 0o644))
	require.NoError(t, os.WriteFile(tarball+SidecarSuffix, []byte("deadbeef"), 0o644))

	resolver := NewResolver(nil, nil)

	digest, source, err := resolver.ResolveSource(context.Background(), tarball, "")
	require.NoError(t, err)
	assert.Equal(t, sum(content), digest)
	assert.Equal(t, SourceLocal, source)
}

func TestResolver_MalformedSidecarWithoutTarballGoesRemote(t *testing.T) {
	dir := t.TempDir()
	tarball := filepath.Join(dir, "frobber.tar.gz")
	require.NoError(t, os.WriteFile(tarball+SidecarSuffix, []byte("not a digest"), 0o644))

	body := []byte("remote tarball")
	server, hits := countingServer(t, http.StatusOK, body)
	resolver := NewResolver(NewHTTPFetcher(server.Client(), nil), nil)

	digest, source, err := resolver.ResolveSource(context.Background(), tarball, server.URL)
	require.NoError(t, err)
	assert.Equal(t, sum(body), digest)
	assert.Equal(t, SourceRemote, source)
	assert.EqualValues(t, 1, hits.Load())
}

func TestResolver_Remote(t *testing.T) {
	body := make([]byte, 64*1024)
	for i := range body {
		body[i] = byte(i % 251)
	}
	server, hits := countingServer(t, http.StatusOK, body)
	resolver := NewResolver(NewHTTPFetcher(server.Client(), nil), nil)

	missing := filepath.Join(t.TempDir(), "frobber.tar.gz")
	digest, err := resolver.Resolve(context.Background(), missing, server.URL)
	require.NoError(t, err)
	assert.Equal(t, sum(body), digest)
	assert.Len(t, digest, DigestLength)
	assert.EqualValues(t, 1, hits.Load(), "exactly one GET per asset")
}

func TestResolver_RemoteFailureIsHardError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := countingServer(t, tt.status, []byte("nope"))
			resolver := NewResolver(NewHTTPFetcher(server.Client(), nil), nil)

			_, err := resolver.Resolve(context.Background(), filepath.Join(t.TempDir(), "x.tar.gz"), server.URL)
			require.Error(t, err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr), "expected StatusError, got %v", err)
			assert.Equal(t, tt.status, statusErr.StatusCode)
		})
	}
}

func TestResolver_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	resolver := NewResolver(NewHTTPFetcher(nil, nil), nil)
	_, err := resolver.Resolve(context.Background(), filepath.Join(t.TempDir(), "x.tar.gz"), url)
	assert.Error(t, err)
}

func TestResolver_NoFetcher(t *testing.T) {
	resolver := NewResolver(nil, nil)
	_, err := resolver.Resolve(context.Background(), filepath.Join(t.TempDir(), "x.tar.gz"), "https://example.com/x.tar.gz")
	assert.Error(t, err)
}

func TestResolver_DirectoryIsNotATarball(t *testing.T) {
	dir := t.TempDir()
	tarball := filepath.Join(dir, "frobber.tar.gz")
	require.NoError(t, os.Mkdir(tarball, 0o755))

	body := []byte("remote")
	server, _ := countingServer(t, http.StatusOK, body)
	resolver := NewResolver(NewHTTPFetcher(server.Client(), nil), nil)

	digest, source, err := resolver.ResolveSource(context.Background(), tarball, server.URL)
	require.NoError(t, err)
	assert.Equal(t, sum(body), digest)
	assert.Equal(t, SourceRemote, source)
}

func TestHTTPFetcher_UserAgentAndProgress(t *testing.T) {
	body := []byte("tarball with progress")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		if _, err := w.Write(body); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	var progress discardCounter
	fetcher := NewHTTPFetcher(server.Client(), &progress)

	digest, err := fetcher.FetchDigest(context.Background(), server.URL+"/frobber.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, sum(body), digest)
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", got)

	_, err = HashFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "sidecar", SourceSidecar.String())
	assert.Equal(t, "local", SourceLocal.String())
	assert.Equal(t, "remote", SourceRemote.String())
	assert.Equal(t, "unknown", Source(0).String())
}

type discardCounter struct{ n int }

func (d *discardCounter) Write(p []byte) (int, error) {
	d.n += len(p)
	return len(p), nil
}
