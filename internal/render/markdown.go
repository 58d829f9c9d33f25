package render

import (
	"strings"

	"github.com/naka-gawa/harbor-summary/internal/columns"
	"github.com/naka-gawa/harbor-summary/internal/domain"
)

// markdownEscaper keeps text inside a single table cell: the cell
// delimiter, the escape character and backticks are escaped and newlines
// become explicit line breaks.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"`", "\\`",
	"\r\n", "<br />",
	"\n", "<br />",
)

// EscapeMarkdown escapes s for use inside a Markdown table cell.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var markdownCells = map[string]cellFunc{
	columns.KeyRepository: func(r *domain.Repository) string {
		return "`" + EscapeMarkdown(r.Name) + "`"
	},
	columns.KeyArtifacts: func(r *domain.Repository) string {
		return EscapeMarkdown(countText(r.ArtifactCount))
	},
	columns.KeyPullCount: func(r *domain.Repository) string {
		return EscapeMarkdown(countText(r.PullCount))
	},
	columns.KeyLastUpdated: func(r *domain.Repository) string {
		return EscapeMarkdown(FormatTimestamp(r.UpdateTime))
	},
	columns.KeyDescription: func(r *domain.Repository) string {
		return EscapeMarkdown(descriptionText(r))
	},
}

type markdownRenderer struct {
	settings
	cells map[string]cellFunc
}

func (r *markdownRenderer) Format() Format { return FormatMarkdown }

func (r *markdownRenderer) Render(projects []*domain.Project, cols []columns.Column) (string, error) {
	cells, err := bind(FormatMarkdown, r.cells, cols)
	if err != nil {
		return "", err
	}
	doc := newDocument(projects, r.now())

	lines := []string{
		"# " + EscapeMarkdown(title),
		"",
		EscapeMarkdown(summaryLine(doc)),
		"",
	}

	labels := make([]string, len(cols))
	separator := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = EscapeMarkdown(c.Label)
		separator[i] = "---"
	}

	for _, p := range doc.projects {
		lines = append(lines, "## "+EscapeMarkdown(projectHeading(p.Name, p.RepoCount)), "")
		if len(p.Repositories) == 0 {
			lines = append(lines, "_"+noRepos+"_", "")
			continue
		}
		lines = append(lines, tableRow(labels), tableRow(separator))
		for _, repo := range p.Repositories {
			row := make([]string, len(cells))
			for i, cell := range cells {
				row[i] = cell(repo)
			}
			lines = append(lines, tableRow(row))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "_Generated by "+EscapeMarkdown(generatedBy)+"_", "")
	return strings.Join(lines, "\n"), nil
}

func tableRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}
