package interfaces

import (
	"context"

	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// ListReleases returns one page of releases, newest first. An empty slice means no more pages.
	ListReleases(ctx context.Context, owner, repo string, page, perPage int) ([]*model.Release, error)
}
