package interfaces

import (
	"context"

	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

// ReleaseUseCase defines operations for collecting release notes
type ReleaseUseCase interface {
	// FetchReleasesForYear returns the filtered releases created in year, newest first
	FetchReleasesForYear(ctx context.Context, owner, repo string, year int) ([]*model.FilteredRelease, error)
}

// Notifier delivers a rendered report to an external destination
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
