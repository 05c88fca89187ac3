package github

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Release is a published GitHub release.
type Release struct {
	ID          int64          `json:"id"`
	TagName     string         `json:"tag_name"`
	Name        string         `json:"name"`
	Draft       bool           `json:"draft"`
	Prerelease  bool           `json:"prerelease"`
	PublishedAt *time.Time     `json:"published_at"`
	Assets      []ReleaseAsset `json:"assets"`
}

// ReleaseAsset is a file attached to a release. Name, download URL and
// digest may be absent.
type ReleaseAsset struct {
	ID                 int64   `json:"id"`
	Name               *string `json:"name"`
	ContentType        string  `json:"content_type"`
	Size               int64   `json:"size"`
	BrowserDownloadURL *string `json:"browser_download_url"`
	// Digest is "algorithm:hex", e.g. "sha256:9f86...".
	Digest *string `json:"digest"`
}

// LatestRelease returns the most recent non-draft, non-prerelease release.
func (c *Client) LatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("github: owner and repo are required (got %q/%q)", owner, repo)
	}

	var release Release
	path := fmt.Sprintf("/repos/%s/%s/releases/latest", url.PathEscape(owner), url.PathEscape(repo))
	if err := c.get(ctx, path, &release); err != nil {
		return nil, fmt.Errorf("latest release of %s/%s: %w", owner, repo, err)
	}
	return &release, nil
}
