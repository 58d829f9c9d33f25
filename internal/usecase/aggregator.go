// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/naka-gawa/harbor-summary/internal/domain"
	"github.com/naka-gawa/harbor-summary/internal/filter"
	"github.com/naka-gawa/harbor-summary/internal/gateway"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Aggregator is the use case for collecting Harbor projects and repositories.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher     gateway.Fetcher
	logger      zerolog.Logger
	concurrency int
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithConcurrency lets up to n projects fetch their repositories at the
// same time. Values below 2 keep the walk strictly sequential.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.concurrency = n
	}
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger zerolog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetcher:     fetcher,
		logger:      logger,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is the outcome of an aggregation run.
type Result struct {
	Projects []*domain.Project
	// Missing lists requested project names that matched nothing, in their
	// original spelling, sorted.
	Missing []string
}

// Aggregate walks every project, skips those rejected by projects (a nil
// set keeps all of them) before any repository request is made, and
// collects the repositories of the remaining ones. Projects come back in
// the order the server listed them. Any fetch error aborts the run.
func (a *Aggregator) Aggregate(ctx context.Context, projects *filter.Set) (*Result, error) {
	a.logger.Info().Strs("filter", projects.Keys()).Msg("Starting data aggregation")

	var collected []*domain.Project
	eg, egCtx := errgroup.WithContext(ctx)
	if a.concurrency > 1 {
		eg.SetLimit(a.concurrency)
	}

	var walkErr error
	for listing, err := range a.fetcher.Projects(egCtx) {
		if err != nil {
			walkErr = err
			break
		}
		if listing.Name == "" {
			continue
		}
		if !projects.Match(listing.Name) {
			a.logger.Debug().Str("project", listing.Name).Msg("Skipping project outside filter")
			continue
		}

		project := &domain.Project{Name: listing.Name, RepoCount: listing.RepoCount}
		collected = append(collected, project)
		if a.concurrency > 1 {
			eg.Go(func() error {
				return a.collectRepositories(egCtx, project)
			})
			continue
		}
		if err := a.collectRepositories(egCtx, project); err != nil {
			walkErr = err
			break
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}

	result := &Result{Projects: collected, Missing: projects.Unmatched()}
	if result.Projects == nil {
		result.Projects = []*domain.Project{}
	}
	a.logger.Info().Int("projects", len(result.Projects)).Strs("missing", result.Missing).Msg("Aggregation complete")
	return result, nil
}

func (a *Aggregator) collectRepositories(ctx context.Context, project *domain.Project) error {
	repositories := []*domain.Repository{}
	for repo, err := range a.fetcher.Repositories(ctx, project.Name) {
		if err != nil {
			return err
		}
		repositories = append(repositories, repo)
	}
	project.Repositories = repositories
	a.logger.Debug().Str("project", project.Name).Int("repositories", len(repositories)).Msg("Collected repositories")
	return nil
}

// ListProjects walks the project listing only, applying the same filter
// as Aggregate, and returns the listings sorted case-insensitively along
// with the unmatched filter tokens.
func (a *Aggregator) ListProjects(ctx context.Context, projects *filter.Set) ([]domain.ProjectListing, []string, error) {
	listings := []domain.ProjectListing{}
	for listing, err := range a.fetcher.Projects(ctx) {
		if err != nil {
			return nil, nil, err
		}
		if listing.Name == "" || !projects.Match(listing.Name) {
			continue
		}
		listings = append(listings, listing)
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return strings.ToLower(listings[i].Name) < strings.ToLower(listings[j].Name)
	})
	return listings, projects.Unmatched(), nil
}
