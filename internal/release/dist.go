package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZebulonRouseFrantzich/brewform/internal/archive"
	"github.com/ZebulonRouseFrantzich/brewform/internal/asset"
	"github.com/ZebulonRouseFrantzich/brewform/internal/logger"
	"go.uber.org/zap"
)

// DistConfig describes a local dist directory and the release it will be
// published as.
type DistConfig struct {
	// Dir is the directory scanned for tarballs.
	Dir        string
	Owner      string
	Repo       string
	Version    string
	Executable string
}

// DistSource offers the gzip files in a dist directory as release assets,
// for use without API access.
type DistSource struct {
	config    DistConfig
	inspector *archive.Inspector
	log       *zap.SugaredLogger
}

// NewDistSource creates a dist source. A nil log uses the process-wide
// logger.
func NewDistSource(config DistConfig, log *zap.SugaredLogger) *DistSource {
	if log == nil {
		log = logger.Logger()
	}
	return &DistSource{
		config:    config,
		inspector: archive.NewInspector(),
		log:       log,
	}
}

// Assets lists regular files ending in .gz (any case), sorted by name. A
// missing directory yields no assets. URLs point at the v<version> tag.
func (s *DistSource) Assets(ctx context.Context) ([]asset.Raw, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if os.IsNotExist(err) {
		s.log.Infow("dist directory not found", "dir", s.config.Dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dist directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".gz") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	tag := "v" + s.config.Version
	raws := make([]asset.Raw, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(s.config.Dir, name)
		s.checkExecutable(path)

		raws = append(raws, asset.Raw{
			Name:      name,
			URL:       DownloadURL(s.config.Owner, s.config.Repo, tag, name),
			LocalPath: path,
		})
	}
	return raws, nil
}

// checkExecutable warns when a tarball cannot satisfy bin.install.
func (s *DistSource) checkExecutable(path string) {
	if s.config.Executable == "" || !strings.HasSuffix(path, asset.TarballSuffix) {
		return
	}

	found, err := s.inspector.Contains(path, s.config.Executable)
	if err != nil {
		s.log.Warnw("cannot inspect tarball", "path", path, "error", err)
		return
	}
	if !found {
		s.log.Warnw("tarball does not contain the executable", "path", path, "executable", s.config.Executable)
	}
}
