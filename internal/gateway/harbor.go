package gateway

import (
	"context"
	"encoding/json"
	"iter"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/naka-gawa/harbor-summary/internal/domain"
	"github.com/rs/zerolog"
)

const (
	projectsPath = "/api/v2.0/projects"
	// ResourceNameHeader tells Harbor to treat the project segment as a
	// name rather than an ID. Repository names may contain slashes.
	ResourceNameHeader = "X-Is-Resource-Name"
)

// Fetcher defines the behavior of a gateway for fetching information from Harbor.
type Fetcher interface {
	Projects(ctx context.Context) iter.Seq2[domain.ProjectListing, error]
	Repositories(ctx context.Context, project string) iter.Seq2[*domain.Repository, error]
}

// HarborGateway is the concrete implementation of the Fetcher interface.
type HarborGateway struct {
	client   *Client
	pageSize int
	logger   zerolog.Logger
}

// NewHarborGateway is a constructor that creates a new instance of HarborGateway.
func NewHarborGateway(client *Client, pageSize int, logger zerolog.Logger) *HarborGateway {
	return &HarborGateway{client: client, pageSize: pageSize, logger: logger}
}

// Projects yields every project page item. repo_count defaults to 0 when
// absent or not numeric.
func (g *HarborGateway) Projects(ctx context.Context) iter.Seq2[domain.ProjectListing, error] {
	return func(yield func(domain.ProjectListing, error) bool) {
		for item, err := range g.client.Paginate(ctx, projectsPath, PageOptions{PageSize: g.pageSize}) {
			if err != nil {
				yield(domain.ProjectListing{}, err)
				return
			}
			listing := domain.ProjectListing{Name: stringValue(item["name"])}
			if n := intValue(item["repo_count"]); n != nil {
				listing.RepoCount = *n
			}
			if !yield(listing, nil) {
				return
			}
		}
	}
}

// Repositories yields every repository of the named project.
func (g *HarborGateway) Repositories(ctx context.Context, project string) iter.Seq2[*domain.Repository, error] {
	return func(yield func(*domain.Repository, error) bool) {
		g.logger.Debug().Str("project", project).Msg("Fetching repositories")
		opts := PageOptions{
			PageSize: g.pageSize,
			Headers:  http.Header{ResourceNameHeader: []string{"true"}},
		}
		path := projectsPath + "/" + url.PathEscape(project) + "/repositories"
		for item, err := range g.client.Paginate(ctx, path, opts) {
			if err != nil {
				yield(nil, err)
				return
			}
			repo := &domain.Repository{
				Name:          stringValue(item["name"]),
				ProjectName:   project,
				PullCount:     intValue(item["pull_count"]),
				ArtifactCount: intValue(item["artifact_count"]),
			}
			if s, ok := item["update_time"].(string); ok {
				repo.UpdateTime = s
			}
			if s, ok := item["description"].(string); ok {
				repo.Description = &s
			}
			if !yield(repo, nil) {
				return
			}
		}
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// intValue coerces a decoded JSON value to an int. Anything that cannot be
// read as a number yields nil, never zero.
func intValue(v any) *int {
	var n int
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			n = int(i)
		} else if f, err := t.Float64(); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			n = int(f)
		} else {
			return nil
		}
	case float64:
		n = int(t)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		n = i
	case bool:
		if t {
			n = 1
		}
	default:
		return nil
	}
	return &n
}
