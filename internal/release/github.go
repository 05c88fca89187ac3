package release

import (
	"context"

	"github.com/ZebulonRouseFrantzich/brewform/internal/asset"
	"github.com/ZebulonRouseFrantzich/brewform/internal/github"
)

// ReleaseFetcher reads the latest release. *github.Client satisfies it.
type ReleaseFetcher interface {
	LatestRelease(ctx context.Context, owner, repo string) (*github.Release, error)
}

// GitHubSource reads assets from the latest release of owner/repo.
type GitHubSource struct {
	client ReleaseFetcher
	owner  string
	repo   string
}

// NewGitHubSource creates a source for owner/repo.
func NewGitHubSource(client ReleaseFetcher, owner, repo string) *GitHubSource {
	return &GitHubSource{client: client, owner: owner, repo: repo}
}

// Assets returns the latest release's assets in API order. Tarballs are
// looked up locally under their own name, so a sidecar or a copy in the
// working directory is preferred over downloading.
func (s *GitHubSource) Assets(ctx context.Context) ([]asset.Raw, error) {
	rel, err := s.client.LatestRelease(ctx, s.owner, s.repo)
	if err != nil {
		return nil, err
	}

	raws := make([]asset.Raw, 0, len(rel.Assets))
	for _, a := range rel.Assets {
		raws = append(raws, asset.Raw{
			Name:   deref(a.Name),
			URL:    deref(a.BrowserDownloadURL),
			Digest: deref(a.Digest),
		})
	}
	return raws, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
