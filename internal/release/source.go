// Package release gathers the raw assets a formula is built from, either
// from the latest GitHub release or from a local dist directory.
package release

import (
	"context"

	"github.com/ZebulonRouseFrantzich/brewform/internal/asset"
)

// Source supplies raw release assets in a stable order.
type Source interface {
	Assets(ctx context.Context) ([]asset.Raw, error)
}

// DownloadURL is the GitHub release download URL for file under tag.
func DownloadURL(owner, repo, tag, file string) string {
	return "https://github.com/" + owner + "/" + repo + "/releases/download/" + tag + "/" + file
}
