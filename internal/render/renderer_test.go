package render

import (
	"strings"
	"testing"
	"time"

	"github.com/naka-gawa/harbor-summary/internal/columns"
	"github.com/naka-gawa/harbor-summary/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 59, 0, time.UTC) }

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func scenarioProjects() []*domain.Project {
	return []*domain.Project{
		{Name: "beta", RepoCount: 0, Repositories: []*domain.Repository{}},
		{
			Name:      "alpha",
			RepoCount: 2,
			Repositories: []*domain.Repository{
				{Name: "y", ProjectName: "alpha", ArtifactCount: intPtr(3)},
				{Name: "x", ProjectName: "alpha", PullCount: intPtr(5)},
			},
		},
	}
}

func render(t *testing.T, format Format, projects []*domain.Project, cols []columns.Column) string {
	t.Helper()
	r, err := New(format, WithClock(fixedNow))
	require.NoError(t, err)
	assert.Equal(t, format, r.Format())
	out, err := r.Render(projects, cols)
	require.NoError(t, err)
	return out
}

func TestHTMLRenderer_Scenario(t *testing.T) {
	out := render(t, FormatHTML, scenarioProjects(), columns.All())

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "Generated at 2025-03-04 05:06 UTC · 2 projects · 2 repositories.")
	assert.Contains(t, out, "<h2>Project: alpha (2 repositories)</h2>")
	assert.Contains(t, out, "<thead><tr><th>Repository</th><th>Artifacts</th><th>Pull Count</th><th>Last Updated</th><th>Description</th></tr></thead>")
	assert.Contains(t, out, "<tr><td><code>x</code></td><td>—</td><td>5</td><td>—</td><td>—</td></tr>")
	assert.Contains(t, out, "<tr><td><code>y</code></td><td>3</td><td>—</td><td>—</td><td>—</td></tr>")
	assert.Contains(t, out, "<h2>Project: beta (0 repositories)</h2>\n<p>No repositories available.</p>")
	assert.Contains(t, out, "<p>Generated by harbor-summary.</p>")
	assert.Equal(t, 2, strings.Count(out, "<tr><td>"))

	// sorted: alpha before beta, x before y
	assert.Less(t, strings.Index(out, "Project: alpha"), strings.Index(out, "Project: beta"))
	assert.Less(t, strings.Index(out, "<code>x</code>"), strings.Index(out, "<code>y</code>"))
	assert.NotContains(t, out, "<td>0</td>")
}

func TestHTMLRenderer_EscapesEverything(t *testing.T) {
	projects := []*domain.Project{{
		Name:      "<team & co>",
		RepoCount: 1,
		Repositories: []*domain.Repository{{
			Name:        `<script>alert("x")</script>`,
			UpdateTime:  "<b>soon</b>",
			Description: strPtr("  a < b  "),
		}},
	}}

	out := render(t, FormatHTML, projects, columns.All())

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>soon")
	assert.Contains(t, out, "Project: &lt;team &amp; co&gt; (1 repositories)")
	assert.Contains(t, out, "<code>&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;</code>")
	assert.Contains(t, out, "<td>&lt;b&gt;soon&lt;/b&gt;</td>")
	assert.Contains(t, out, "<td>a &lt; b</td>")
}

func TestMarkdownRenderer_Scenario(t *testing.T) {
	out := render(t, FormatMarkdown, scenarioProjects(), columns.All())

	expected := strings.Join([]string{
		"# Harbor Repository Summary",
		"",
		"Generated at 2025-03-04 05:06 UTC · 2 projects · 2 repositories.",
		"",
		"## Project: alpha (2 repositories)",
		"",
		"| Repository | Artifacts | Pull Count | Last Updated | Description |",
		"| --- | --- | --- | --- | --- |",
		"| `x` | — | 5 | — | — |",
		"| `y` | 3 | — | — | — |",
		"",
		"## Project: beta (0 repositories)",
		"",
		"_No repositories available._",
		"",
		"_Generated by harbor-summary_",
		"",
	}, "\n")
	assert.Equal(t, expected, out)
}

func TestMarkdownRenderer_SelectedColumns(t *testing.T) {
	cols, err := columns.Resolve([]string{"pull_count,repository"})
	require.NoError(t, err)

	out := render(t, FormatMarkdown, scenarioProjects(), cols)

	assert.Contains(t, out, "| Pull Count | Repository |\n| --- | --- |\n| 5 | `x` |\n| — | `y` |")
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `a\|b`, EscapeMarkdown("a|b"))
	assert.Equal(t, `c:\\dir`, EscapeMarkdown(`c:\dir`))
	assert.Equal(t, "\\`tick\\`", EscapeMarkdown("`tick`"))
	assert.Equal(t, "one<br />two<br />three", EscapeMarkdown("one\ntwo\r\nthree"))
}

// splitRow splits a rendered Markdown table row on unescaped pipes.
func splitRow(row string) []string {
	row = strings.TrimSuffix(strings.TrimPrefix(row, "| "), " |")
	var cells []string
	var cur strings.Builder
	for i := 0; i < len(row); i++ {
		switch {
		case row[i] == '\\' && i+1 < len(row):
			cur.WriteByte(row[i])
			cur.WriteByte(row[i+1])
			i++
		case strings.HasPrefix(row[i:], " | "):
			cells = append(cells, cur.String())
			cur.Reset()
			i += 2
		default:
			cur.WriteByte(row[i])
		}
	}
	return append(cells, cur.String())
}

func unescapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "<br />", "\n")
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestMarkdownRenderer_RoundTrip(t *testing.T) {
	name := "lib|core\\`edge`"
	description := "first line | with pipe\nsecond \\ line"
	projects := []*domain.Project{{
		Name:      "p",
		RepoCount: 1,
		Repositories: []*domain.Repository{{
			Name:        name,
			PullCount:   intPtr(12),
			Description: strPtr(description),
		}},
	}}

	out := render(t, FormatMarkdown, projects, columns.All())

	var row string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "| `") {
			row = line
		}
	}
	require.NotEmpty(t, row)
	cells := splitRow(row)
	require.Len(t, cells, 5)

	repoCell := strings.TrimSuffix(strings.TrimPrefix(cells[0], "`"), "`")
	assert.Equal(t, name, unescapeMarkdown(repoCell))
	assert.Equal(t, Placeholder, unescapeMarkdown(cells[1]))
	assert.Equal(t, "12", unescapeMarkdown(cells[2]))
	assert.Equal(t, description, unescapeMarkdown(cells[4]))
}

func TestRenderer_DoesNotMutateInput(t *testing.T) {
	projects := scenarioProjects()

	render(t, FormatMarkdown, projects, columns.All())

	assert.Equal(t, "beta", projects[0].Name)
	assert.Equal(t, "y", projects[1].Repositories[0].Name)
}

func TestRenderer_MissingCellFunction(t *testing.T) {
	r, err := New(FormatHTML)
	require.NoError(t, err)

	_, err = r.Render(scenarioProjects(), []columns.Column{{Key: "size", Label: "Size"}})
	assert.Error(t, err)
}

func TestRenderer_EveryColumnHasBothRenderers(t *testing.T) {
	for _, c := range columns.All() {
		assert.Contains(t, htmlCells, c.Key)
		assert.Contains(t, markdownCells, c.Key)
	}
	assert.Len(t, htmlCells, len(columns.All()))
	assert.Len(t, markdownCells, len(columns.All()))
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Format("pdf"))
	assert.Error(t, err)
}
