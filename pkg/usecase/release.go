package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/interfaces"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

// DefaultPerPage is the page size requested from the list releases endpoint
const DefaultPerPage = 100

type releaseUseCase struct {
	githubClient interfaces.GitHubClient
	filter       *model.SectionFilter
	perPage      int
	maxPages     int
}

// ReleaseOption is a functional option for the release use case
type ReleaseOption func(*releaseUseCase)

// WithPerPage sets the page size. Values outside 1..100 fall back to DefaultPerPage.
func WithPerPage(n int) ReleaseOption {
	return func(uc *releaseUseCase) {
		if n > 0 && n <= DefaultPerPage {
			uc.perPage = n
		}
	}
}

// WithMaxPages stops pagination after n pages. Zero means unlimited.
func WithMaxPages(n int) ReleaseOption {
	return func(uc *releaseUseCase) {
		if n >= 0 {
			uc.maxPages = n
		}
	}
}

// NewRelease creates a new instance of ReleaseUseCase
func NewRelease(githubClient interfaces.GitHubClient, filter *model.SectionFilter, opts ...ReleaseOption) interfaces.ReleaseUseCase {
	uc := &releaseUseCase{
		githubClient: githubClient,
		filter:       filter,
		perPage:      DefaultPerPage,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// FetchReleasesForYear pages through releases newest first and collects the filtered
// releases created in year. It stops at the first release older than year.
func (uc *releaseUseCase) FetchReleasesForYear(ctx context.Context, owner, repo string, year int) ([]*model.FilteredRelease, error) {
	logger := ctxlog.From(ctx)

	logger.Info("Fetching releases",
		"owner", owner,
		"repo", repo,
		"year", year,
	)

	results, err := uc.collect(ctx, owner, repo, year)
	if err != nil {
		return nil, err
	}

	logger.Info("Fetched releases",
		"owner", owner,
		"repo", repo,
		"year", year,
		"count", len(results),
	)

	return results, nil
}

func (uc *releaseUseCase) collect(ctx context.Context, owner, repo string, year int) ([]*model.FilteredRelease, error) {
	logger := ctxlog.From(ctx)

	var results []*model.FilteredRelease

	for page := 1; ; page++ {
		if uc.maxPages > 0 && page > uc.maxPages {
			logger.Warn("Reached page limit before passing target year",
				"max_pages", uc.maxPages,
				"collected", len(results),
			)
			return results, nil
		}

		releases, err := uc.githubClient.ListReleases(ctx, owner, repo, page, uc.perPage)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list releases",
				goerr.V("owner", owner),
				goerr.V("repo", repo),
				goerr.V("page", page),
			)
		}

		logger.Debug("Received releases page",
			"page", page,
			"count", len(releases),
		)

		if len(releases) == 0 {
			break
		}

		for _, release := range releases {
			releaseYear := release.Year()

			switch {
			case releaseYear == year:
				if filtered := uc.filterRelease(release); filtered != nil {
					results = append(results, filtered)
				} else {
					logger.Debug("Release has no kept sections", "tag", release.TagName)
				}

			case releaseYear < year:
				logger.Debug("Passed target year, stop fetching",
					"page", page,
					"tag", release.TagName,
					"release_year", releaseYear,
				)
				return results, nil

			default:
				// newer than target; only expected at the head of page 1
				logger.Debug("Skipping release newer than target year",
					"tag", release.TagName,
					"release_year", releaseYear,
				)
			}
		}
	}

	return results, nil
}

func (uc *releaseUseCase) filterRelease(release *model.Release) *model.FilteredRelease {
	body := uc.filter.Apply(release.Body)
	if body == "" {
		return nil
	}

	name := release.Name
	if name == "" {
		name = model.NoNamePlaceholder
	}

	return &model.FilteredRelease{
		CreatedAt: release.CreatedAt,
		TagName:   release.TagName,
		Name:      name,
		HTMLURL:   release.HTMLURL,
		Body:      body,
	}
}
