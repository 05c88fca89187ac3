package git

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseGitHubRemote extracts owner and repository from a remote URL. It
// accepts https ("https://github.com/acme/frobber.git"), ssh URLs
// ("ssh://git@github.com/acme/frobber") and scp-style
// ("git@github.com:acme/frobber.git") forms. Only the last two path
// segments are used, so the host is not checked.
func ParseGitHubRemote(remote string) (owner, repo string, err error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return "", "", fmt.Errorf("empty remote URL")
	}

	var path string
	if strings.Contains(remote, "://") {
		u, err := url.Parse(remote)
		if err != nil {
			return "", "", fmt.Errorf("parse remote URL %q: %w", remote, err)
		}
		path = u.Path
	} else if _, after, found := strings.Cut(remote, ":"); found {
		path = after
	} else {
		path = remote
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")

	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return "", "", fmt.Errorf("remote URL %q does not name owner/repo", remote)
	}
	owner = segments[len(segments)-2]
	repo = segments[len(segments)-1]
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("remote URL %q does not name owner/repo", remote)
	}
	return owner, repo, nil
}
