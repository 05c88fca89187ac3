package asset

import (
	"context"
	"errors"
	"strings"

	"github.com/ZebulonRouseFrantzich/brewform/internal/checksum"
	"github.com/ZebulonRouseFrantzich/brewform/internal/logger"
	"github.com/ZebulonRouseFrantzich/brewform/internal/platform"
	"go.uber.org/zap"
)

var errNoResolver = errors.New("no upstream digest and no checksum resolver")

// DigestResolver produces a digest for a tarball that has no upstream one.
// *checksum.Resolver satisfies it.
type DigestResolver interface {
	Resolve(ctx context.Context, localPath, remoteURL string) (string, error)
}

// Normalizer validates raw assets one at a time.
type Normalizer struct {
	resolver DigestResolver
	log      *zap.SugaredLogger
}

// NewNormalizer creates a normalizer. A nil log uses the process-wide
// logger.
func NewNormalizer(resolver DigestResolver, log *zap.SugaredLogger) *Normalizer {
	if log == nil {
		log = logger.Logger()
	}
	return &Normalizer{resolver: resolver, log: log}
}

// Normalize validates raw and returns either an Asset or the reason it was
// skipped. Checks run in order and stop at the first failure.
func (n *Normalizer) Normalize(ctx context.Context, raw Raw) Result {
	if raw.Name == "" {
		return n.skip(raw, SkipMissingName, nil)
	}
	if !strings.HasSuffix(raw.Name, TarballSuffix) {
		return n.skip(raw, SkipNotTarball, nil)
	}
	if raw.URL == "" {
		return n.skip(raw, SkipMissingURL, nil)
	}

	digest, err := n.digest(ctx, raw)
	if err != nil {
		return n.skip(raw, SkipDigestFailure, err)
	}

	osTag, cpuTag := platform.Classify(raw.URL)
	return Result{
		Raw: raw,
		Asset: &Asset{
			CPU:    cpuTag,
			OS:     osTag,
			SHA256: digest,
			URL:    raw.URL,
		},
	}
}

// NormalizeAll normalizes every raw asset in order. A skipped asset never
// stops the batch.
func (n *Normalizer) NormalizeAll(ctx context.Context, raws []Raw) []Result {
	results := make([]Result, 0, len(raws))
	for _, raw := range raws {
		results = append(results, n.Normalize(ctx, raw))
	}
	return results
}

func (n *Normalizer) digest(ctx context.Context, raw Raw) (string, error) {
	if digest, ok := upstreamDigest(raw.Digest); ok {
		return digest, nil
	}
	if raw.Digest != "" {
		n.log.Debugw("ignoring unusable upstream digest", "name", raw.Name, "digest", raw.Digest)
	}

	if n.resolver == nil {
		return "", errNoResolver
	}

	localPath := raw.LocalPath
	if localPath == "" {
		localPath = raw.Name
	}
	return n.resolver.Resolve(ctx, localPath, raw.URL)
}

// upstreamDigest strips the algorithm prefix from an "algorithm:hex"
// digest. The value is not taken verbatim: it is lowercased, and anything
// other than a 64-hex SHA-256 digest is ignored so the resolver runs
// instead (and may download the asset). An Asset's SHA256 is therefore
// always 64 lowercase hex characters.
func upstreamDigest(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	value := s
	if algo, rest, found := strings.Cut(s, ":"); found {
		if !strings.EqualFold(algo, "sha256") {
			return "", false
		}
		value = rest
	}
	return checksum.Normalize(value)
}

func (n *Normalizer) skip(raw Raw, reason SkipReason, err error) Result {
	fields := []interface{}{"name", raw.Name, "url", raw.URL, "reason", string(reason)}
	if err != nil {
		fields = append(fields, "error", err)
	}
	n.log.Infow("skipping asset", fields...)
	return Result{Raw: raw, Reason: reason, Err: err}
}
