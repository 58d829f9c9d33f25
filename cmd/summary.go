package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/naka-gawa/harbor-summary/internal/columns"
	"github.com/naka-gawa/harbor-summary/internal/filter"
	"github.com/naka-gawa/harbor-summary/internal/render"
	"github.com/spf13/cobra"
)

// resolveOutput decides the document format and the file to write.
// An explicit --format wins; otherwise the output extension decides.
func resolveOutput(format, output string) (render.Format, string, error) {
	var f render.Format
	if format != "" {
		parsed, err := render.ParseFormat(format)
		if err != nil {
			return "", "", err
		}
		f = parsed
	} else {
		f = render.InferFormat(output)
	}
	if output == "" {
		output = render.DefaultOutput(f)
	}
	return f, output, nil
}

func runSummary(cmd *cobra.Command, o *options) error {
	format, output, err := resolveOutput(o.format, o.output)
	if err != nil {
		return err
	}
	cols, err := columns.Resolve(o.columns)
	if err != nil {
		return err
	}
	renderer, err := render.New(format)
	if err != nil {
		return err
	}

	aggregator, err := o.newAggregator(cmd)
	if err != nil {
		return err
	}
	result, err := aggregator.Aggregate(cmd.Context(), filter.Parse(o.projects))
	if err != nil {
		return err
	}
	warnMissing(cmd, result.Missing)

	doc, err := renderer.Render(result.Projects, cols)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s summary to %s\n", format.Label(), absPath(output))

	if o.preview {
		if format != render.FormatMarkdown {
			o.logger.Warn().Msg("--preview only applies to Markdown output")
			return nil
		}
		rendered, err := render.Preview(doc, o.previewWidth)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
	}
	return nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
