// Package git reads repository metadata from the work tree around a
// manifest.
package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// Common Git errors
var (
	ErrNotAGitRepo = errors.New("not a git repository")
	ErrNoRemote    = errors.New("remote not configured")
	ErrInvalidRepo = errors.New("invalid git repository")
)

// DefaultRemote is the remote consulted when none is named.
const DefaultRemote = "origin"

// Remotes is the interface for reading remote configuration.
type Remotes interface {
	RemoteURL(ctx context.Context, name string) (string, error)
}

// Client implements Remotes over a path inside a work tree.
type Client struct {
	path string // Any path inside the repository
}

// NewClient creates a new Git client. path may be any directory inside
// the work tree; parent directories are searched for .git.
func NewClient(path string) *Client {
	return &Client{
		path: path,
	}
}

// RemoteURL returns the first configured URL of the named remote.
func (c *Client) RemoteURL(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	repo, err := c.open()
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(name)
	if errors.Is(err, gogit.ErrRemoteNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNoRemote, name)
	}
	if err != nil {
		return "", fmt.Errorf("get remote %s: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %s has no URL", ErrNoRemote, name)
	}
	return urls[0], nil
}

// IsGitRepo checks if the path is inside a valid git repository.
// Returns (true, nil) if valid, (false, nil) if not exists, (false, err) if corrupted.
func (c *Client) IsGitRepo(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context cancelled: %w", err)
	}

	_, err := c.open()
	if errors.Is(err, ErrNotAGitRepo) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(c.path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotAGitRepo, c.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRepo, err.Error())
	}
	return repo, nil
}
