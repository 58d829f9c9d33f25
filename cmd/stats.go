package cmd

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/naka-gawa/harbor-summary/internal/domain"
	"github.com/naka-gawa/harbor-summary/internal/filter"
	"github.com/naka-gawa/harbor-summary/internal/usecase"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newStatsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print pull and artifact statistics per project",
		Long: `Collect every repository like the summary does and print, per project,
the total, mean, median, 90th percentile and maximum pull count along with
the total artifact count. Repositories with unknown counts are left out of
the figures.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			aggregator, err := o.newAggregator(cmd)
			if err != nil {
				return err
			}
			result, err := aggregator.Aggregate(cmd.Context(), filter.Parse(o.projects))
			if err != nil {
				return err
			}
			warnMissing(cmd, result.Missing)

			projectStats, err := usecase.Statistics(result.Projects)
			if err != nil {
				return fmt.Errorf("failed to compute statistics: %w", err)
			}
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				pterm.DisableStyling()
			}
			table, err := statsTable(projectStats)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func statsTable(projectStats []*domain.ProjectStats) (string, error) {
	data := pterm.TableData{
		{"Project", "Repositories", "Known Pulls", "Total Pulls", "Mean", "Median", "P90", "Max", "Artifacts"},
	}
	for _, s := range projectStats {
		data = append(data, []string{
			s.Name,
			strconv.Itoa(s.Repositories),
			strconv.Itoa(s.KnownPulls),
			formatFloat(s.TotalPulls),
			formatFloat(s.MeanPulls),
			formatFloat(s.MedianPulls),
			formatFloat(s.P90Pulls),
			formatFloat(s.MaxPulls),
			strconv.Itoa(s.TotalArtifacts),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
