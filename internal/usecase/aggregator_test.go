package usecase

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/naka-gawa/harbor-summary/internal/domain"
	"github.com/naka-gawa/harbor-summary/internal/filter"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the Harbor gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Projects(ctx context.Context) iter.Seq2[domain.ProjectListing, error] {
	args := m.Called(ctx)
	listings, _ := args.Get(0).([]domain.ProjectListing)
	return seq(listings, args.Error(1))
}

func (m *mockFetcher) Repositories(ctx context.Context, project string) iter.Seq2[*domain.Repository, error] {
	args := m.Called(ctx, project)
	repos, _ := args.Get(0).([]*domain.Repository)
	return seq(repos, args.Error(1))
}

// seq yields items and then err, if any.
func seq[T any](items []T, err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
		if err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

func intPtr(n int) *int { return &n }

func repo(project, name string, pulls, artifacts *int) *domain.Repository {
	return &domain.Repository{Name: name, ProjectName: project, PullCount: pulls, ArtifactCount: artifacts}
}

// TestAggregator_Aggregate uses a table-driven approach to test the aggregator.
func TestAggregator_Aggregate(t *testing.T) {
	alphaRepos := []*domain.Repository{
		repo("alpha", "x", intPtr(5), nil),
		repo("alpha", "y", nil, intPtr(3)),
	}

	testCases := []struct {
		name             string
		filter           []string
		listings         []domain.ProjectListing
		listErr          error
		repos            map[string][]*domain.Repository
		repoErrs         map[string]error
		expectedProjects []*domain.Project
		expectedMissing  []string
		expectError      bool
	}{
		{
			name: "happy path - collects every project",
			listings: []domain.ProjectListing{
				{Name: "alpha", RepoCount: 2},
				{Name: "beta", RepoCount: 0},
			},
			repos: map[string][]*domain.Repository{"alpha": alphaRepos, "beta": nil},
			expectedProjects: []*domain.Project{
				{Name: "alpha", RepoCount: 2, Repositories: alphaRepos},
				{Name: "beta", RepoCount: 0, Repositories: []*domain.Repository{}},
			},
		},
		{
			name:   "filter skips projects before fetching repositories",
			filter: []string{"ALPHA"},
			listings: []domain.ProjectListing{
				{Name: "alpha", RepoCount: 2},
				{Name: "beta", RepoCount: 0},
			},
			repos: map[string][]*domain.Repository{"alpha": alphaRepos},
			expectedProjects: []*domain.Project{
				{Name: "alpha", RepoCount: 2, Repositories: alphaRepos},
			},
		},
		{
			name:             "unknown filter completes with a missing entry",
			filter:           []string{"gamma"},
			listings:         []domain.ProjectListing{{Name: "alpha", RepoCount: 2}},
			expectedProjects: []*domain.Project{},
			expectedMissing:  []string{"gamma"},
		},
		{
			name:             "projects without a name are skipped",
			listings:         []domain.ProjectListing{{Name: "", RepoCount: 9}},
			expectedProjects: []*domain.Project{},
		},
		{
			name:        "error case - project listing fails",
			listErr:     errors.New("harbor api error"),
			expectError: true,
		},
		{
			name:        "error case - repository listing fails",
			listings:    []domain.ProjectListing{{Name: "alpha", RepoCount: 2}},
			repoErrs:    map[string]error{"alpha": errors.New("boom")},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			fetcher := new(mockFetcher)
			fetcher.On("Projects", mock.Anything).Return(tc.listings, tc.listErr)
			for _, l := range tc.listings {
				if _, ok := tc.repos[l.Name]; ok || tc.repoErrs[l.Name] != nil {
					fetcher.On("Repositories", mock.Anything, l.Name).Return(tc.repos[l.Name], tc.repoErrs[l.Name])
				}
			}
			aggregator := NewAggregator(fetcher, zerolog.Nop())

			// --- Act ---
			result, err := aggregator.Aggregate(context.Background(), filter.Parse(tc.filter))

			// --- Assert ---
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedProjects, result.Projects)
			assert.Equal(t, tc.expectedMissing, result.Missing)
			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_FilterAvoidsRepositoryRequests(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Projects", mock.Anything).Return([]domain.ProjectListing{
		{Name: "Proj-A"}, {Name: "proj-b"}, {Name: "proj-c"},
	}, nil)
	fetcher.On("Repositories", mock.Anything, "Proj-A").Return(nil, nil)
	fetcher.On("Repositories", mock.Anything, "proj-b").Return(nil, nil)

	result, err := NewAggregator(fetcher, zerolog.Nop()).Aggregate(context.Background(), filter.Parse([]string{"proj-a, PROJ-B"}))

	require.NoError(t, err)
	assert.Len(t, result.Projects, 2)
	fetcher.AssertNotCalled(t, "Repositories", mock.Anything, "proj-c")
}

func TestAggregator_ConcurrentKeepsOrder(t *testing.T) {
	listings := []domain.ProjectListing{}
	fetcher := new(mockFetcher)
	names := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	for _, name := range names {
		listings = append(listings, domain.ProjectListing{Name: name, RepoCount: 1})
		fetcher.On("Repositories", mock.Anything, name).Return([]*domain.Repository{repo(name, name+"/r", intPtr(1), intPtr(1))}, nil)
	}
	fetcher.On("Projects", mock.Anything).Return(listings, nil)

	result, err := NewAggregator(fetcher, zerolog.Nop(), WithConcurrency(3)).Aggregate(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, result.Projects, len(names))
	for i, p := range result.Projects {
		assert.Equal(t, names[i], p.Name)
		require.Len(t, p.Repositories, 1)
		assert.Equal(t, names[i], p.Repositories[0].ProjectName)
	}
}

func TestAggregator_ConcurrentPropagatesError(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Projects", mock.Anything).Return([]domain.ProjectListing{{Name: "a"}, {Name: "b"}}, nil)
	fetcher.On("Repositories", mock.Anything, "a").Return(nil, nil)
	fetcher.On("Repositories", mock.Anything, "b").Return(nil, errors.New("boom"))

	result, err := NewAggregator(fetcher, zerolog.Nop(), WithConcurrency(2)).Aggregate(context.Background(), nil)

	assert.EqualError(t, err, "boom")
	assert.Nil(t, result)
}

func TestAggregator_ListProjects(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Projects", mock.Anything).Return([]domain.ProjectListing{
		{Name: "beta", RepoCount: 1},
		{Name: "Alpha", RepoCount: 4},
		{Name: "", RepoCount: 2},
		{Name: "gamma", RepoCount: 0},
	}, nil)

	listings, missing, err := NewAggregator(fetcher, zerolog.Nop()).ListProjects(context.Background(), filter.Parse([]string{"alpha,beta,Delta"}))

	require.NoError(t, err)
	assert.Equal(t, []domain.ProjectListing{{Name: "Alpha", RepoCount: 4}, {Name: "beta", RepoCount: 1}}, listings)
	assert.Equal(t, []string{"Delta"}, missing)
	fetcher.AssertNotCalled(t, "Repositories", mock.Anything, mock.Anything)
}
