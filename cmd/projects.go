package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/naka-gawa/harbor-summary/internal/domain"
	"github.com/naka-gawa/harbor-summary/internal/filter"
	"github.com/spf13/cobra"
)

func newProjectsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List Harbor projects with their repository counts",
		Long: `List Harbor projects with the repository count reported by the server.
The list is printed unless --output is given, in which case it is written
to that file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjects(cmd, o)
		},
	}
}

func runProjects(cmd *cobra.Command, o *options) error {
	aggregator, err := o.newAggregator(cmd)
	if err != nil {
		return err
	}
	listings, missing, err := aggregator.ListProjects(cmd.Context(), filter.Parse(o.projects))
	if err != nil {
		return err
	}
	warnMissing(cmd, missing)

	text := formatProjectList(listings)
	if !cmd.Flags().Changed("output") {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	if err := os.WriteFile(o.output, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", o.output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote project list to %s\n", absPath(o.output))
	return nil
}

func formatProjectList(listings []domain.ProjectListing) string {
	if len(listings) == 0 {
		return "No projects found."
	}
	lines := make([]string, len(listings))
	for i, l := range listings {
		lines[i] = fmt.Sprintf("%s (%d repositories)", l.Name, l.RepoCount)
	}
	return strings.Join(lines, "\n")
}
