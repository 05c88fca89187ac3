package checksum

import (
	"context"
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/brewform/internal/logger"
	"go.uber.org/zap"
)

// Source identifies which tier produced a digest.
type Source int

const (
	SourceSidecar Source = iota + 1
	SourceLocal
	SourceRemote
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceSidecar:
		return "sidecar"
	case SourceLocal:
		return "local"
	case SourceRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Resolver obtains digests using the sidecar, local, remote fallback.
type Resolver struct {
	fetcher Fetcher
	log     *zap.SugaredLogger
}

// NewResolver creates a resolver that uses fetcher for the remote tier.
// A nil log uses the process-wide logger.
func NewResolver(fetcher Fetcher, log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = logger.Logger()
	}
	return &Resolver{fetcher: fetcher, log: log}
}

// Resolve returns the digest for the tarball at localPath, published at
// remoteURL.
func (r *Resolver) Resolve(ctx context.Context, localPath, remoteURL string) (string, error) {
	digest, _, err := r.ResolveSource(ctx, localPath, remoteURL)
	return digest, err
}

// ResolveSource is Resolve that also reports which tier answered.
func (r *Resolver) ResolveSource(ctx context.Context, localPath, remoteURL string) (string, Source, error) {
	if localPath != "" {
		if digest, ok := r.fromSidecar(localPath); ok {
			r.log.Debugw("digest from sidecar", "path", localPath+SidecarSuffix)
			return digest, SourceSidecar, nil
		}

		if digest, ok := r.fromLocal(localPath); ok {
			r.log.Debugw("digest from local tarball", "path", localPath)
			return digest, SourceLocal, nil
		}
	}

	if r.fetcher == nil {
		return "", 0, fmt.Errorf("no local digest for %q and remote fetching is disabled", localPath)
	}
	if remoteURL == "" {
		return "", 0, fmt.Errorf("no local digest for %q and no download URL", localPath)
	}

	r.log.Debugw("digest from remote download", "url", remoteURL)
	digest, err := r.fetcher.FetchDigest(ctx, remoteURL)
	if err != nil {
		return "", 0, fmt.Errorf("remote digest: %w", err)
	}

	return digest, SourceRemote, nil
}

// fromSidecar reads "<localPath>.sha256".
func (r *Resolver) fromSidecar(localPath string) (string, bool) {
	sidecarPath := localPath + SidecarSuffix

	content, err := os.ReadFile(sidecarPath)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Debugw("unreadable sidecar", "path", sidecarPath, "error", err)
		}
		return "", false
	}

	digest, ok := ParseSidecar(string(content), localPath)
	if !ok {
		r.log.Debugw("sidecar has no usable digest", "path", sidecarPath)
	}
	return digest, ok
}

// fromLocal hashes the tarball itself when it is a regular file.
func (r *Resolver) fromLocal(localPath string) (string, bool) {
	info, err := os.Stat(localPath)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	digest, err := HashFile(localPath)
	if err != nil {
		r.log.Debugw("unreadable local tarball", "path", localPath, "error", err)
		return "", false
	}
	return digest, true
}
