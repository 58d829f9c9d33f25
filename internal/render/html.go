package render

import (
	"html"
	"strings"

	"github.com/naka-gawa/harbor-summary/internal/columns"
	"github.com/naka-gawa/harbor-summary/internal/domain"
)

var htmlCells = map[string]cellFunc{
	columns.KeyRepository: func(r *domain.Repository) string {
		return "<code>" + html.EscapeString(r.Name) + "</code>"
	},
	columns.KeyArtifacts: func(r *domain.Repository) string {
		return html.EscapeString(countText(r.ArtifactCount))
	},
	columns.KeyPullCount: func(r *domain.Repository) string {
		return html.EscapeString(countText(r.PullCount))
	},
	columns.KeyLastUpdated: func(r *domain.Repository) string {
		return html.EscapeString(FormatTimestamp(r.UpdateTime))
	},
	columns.KeyDescription: func(r *domain.Repository) string {
		return html.EscapeString(descriptionText(r))
	},
}

var htmlHead = []string{
	"<!DOCTYPE html>",
	"<html lang='en'>",
	"<head>",
	"<meta charset='utf-8' />",
	"<title>" + title + "</title>",
	"<style>",
	"body { font-family: Arial, sans-serif; margin: 2rem; background: #f9fafc; color: #172b4d; }",
	"h1 { margin-bottom: 0.25rem; }",
	"section { margin-top: 2rem; }",
	"table { border-collapse: collapse; width: 100%; margin-top: 1rem; }",
	"th, td { border: 1px solid #dfe1e6; padding: 0.5rem 0.75rem; text-align: left; }",
	"th { background-color: #f4f5f7; }",
	"tbody tr:nth-child(even) { background-color: #f8f9fc; }",
	"code { background: #f4f5f7; padding: 0.125rem 0.25rem; border-radius: 4px; }",
	"footer { margin-top: 4rem; font-size: 0.875rem; color: #6b778c; }",
	"</style>",
	"</head>",
	"<body>",
}

type htmlRenderer struct {
	settings
	cells map[string]cellFunc
}

func (r *htmlRenderer) Format() Format { return FormatHTML }

func (r *htmlRenderer) Render(projects []*domain.Project, cols []columns.Column) (string, error) {
	cells, err := bind(FormatHTML, r.cells, cols)
	if err != nil {
		return "", err
	}
	doc := newDocument(projects, r.now())

	rows := append([]string(nil), htmlHead...)
	rows = append(rows,
		"<h1>"+html.EscapeString(title)+"</h1>",
		"<p>"+html.EscapeString(summaryLine(doc))+"</p>",
	)

	var b strings.Builder
	for _, p := range doc.projects {
		rows = append(rows, "<section>")
		rows = append(rows, "<h2>"+html.EscapeString(projectHeading(p.Name, p.RepoCount))+"</h2>")
		if len(p.Repositories) == 0 {
			rows = append(rows, "<p>"+noRepos+"</p>", "</section>")
			continue
		}
		rows = append(rows, "<table>")
		b.Reset()
		for _, c := range cols {
			b.WriteString("<th>" + html.EscapeString(c.Label) + "</th>")
		}
		rows = append(rows, "<thead><tr>"+b.String()+"</tr></thead>", "<tbody>")
		for _, repo := range p.Repositories {
			b.Reset()
			for _, cell := range cells {
				b.WriteString("<td>" + cell(repo) + "</td>")
			}
			rows = append(rows, "<tr>"+b.String()+"</tr>")
		}
		rows = append(rows, "</tbody>", "</table>", "</section>")
	}

	rows = append(rows,
		"<footer>",
		"<p>Generated by "+html.EscapeString(generatedBy)+".</p>",
		"</footer>",
		"</body>",
		"</html>",
	)
	return strings.Join(rows, "\n"), nil
}
