package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/naka-gawa/harbor-summary/internal/columns"
	"github.com/naka-gawa/harbor-summary/internal/domain"
)

const (
	title       = "Harbor Repository Summary"
	generatedBy = "harbor-summary"
	noRepos     = "No repositories available."
)

// Renderer serializes aggregated projects into a complete document.
type Renderer interface {
	Format() Format
	Render(projects []*domain.Project, cols []columns.Column) (string, error)
}

// cellFunc renders one table cell, already escaped for its format.
type cellFunc func(*domain.Repository) string

// Option customizes a Renderer.
type Option func(*settings)

type settings struct {
	now func() time.Time
}

// WithClock overrides the clock used for the generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

// New returns the renderer for format.
func New(format Format, opts ...Option) (Renderer, error) {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	switch format {
	case FormatHTML:
		return &htmlRenderer{settings: s, cells: htmlCells}, nil
	case FormatMarkdown:
		return &markdownRenderer{settings: s, cells: markdownCells}, nil
	default:
		return nil, domain.NewConfigError("unsupported format %q", string(format))
	}
}

// document is the format-independent view both renderers walk.
type document struct {
	generated    string
	projects     []*domain.Project
	repositories int
}

func newDocument(projects []*domain.Project, now time.Time) *document {
	doc := &document{
		generated: now.UTC().Format(timestampLayout),
		projects:  make([]*domain.Project, 0, len(projects)),
	}
	for _, p := range projects {
		sorted := *p
		sorted.Repositories = append([]*domain.Repository(nil), p.Repositories...)
		sort.SliceStable(sorted.Repositories, func(i, j int) bool {
			return strings.ToLower(sorted.Repositories[i].Name) < strings.ToLower(sorted.Repositories[j].Name)
		})
		doc.projects = append(doc.projects, &sorted)
		doc.repositories += len(p.Repositories)
	}
	sort.SliceStable(doc.projects, func(i, j int) bool {
		return strings.ToLower(doc.projects[i].Name) < strings.ToLower(doc.projects[j].Name)
	})
	return doc
}

// bind looks up the cell function of every selected column.
func bind(format Format, table map[string]cellFunc, cols []columns.Column) ([]cellFunc, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns selected")
	}
	funcs := make([]cellFunc, len(cols))
	for i, c := range cols {
		fn, ok := table[c.Key]
		if !ok {
			return nil, fmt.Errorf("column %q has no %s renderer", c.Key, format.Label())
		}
		funcs[i] = fn
	}
	return funcs, nil
}

func summaryLine(doc *document) string {
	return fmt.Sprintf("Generated at %s · %d projects · %d repositories.", doc.generated, len(doc.projects), doc.repositories)
}

func projectHeading(name string, repoCount int) string {
	return fmt.Sprintf("Project: %s (%d repositories)", name, repoCount)
}
