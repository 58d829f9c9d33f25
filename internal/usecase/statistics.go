package usecase

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/harbor-summary/internal/domain"
)

// Statistics summarizes pull and artifact counts per project. Repositories
// with an unknown count are excluded from the figures for that count.
// The result is sorted case-insensitively by project name.
func Statistics(projects []*domain.Project) ([]*domain.ProjectStats, error) {
	out := make([]*domain.ProjectStats, 0, len(projects))
	for _, p := range projects {
		ps := &domain.ProjectStats{Name: p.Name, Repositories: len(p.Repositories)}

		var pulls stats.Float64Data
		for _, r := range p.Repositories {
			if r.PullCount != nil {
				pulls = append(pulls, float64(*r.PullCount))
			}
			if r.ArtifactCount != nil {
				ps.TotalArtifacts += *r.ArtifactCount
			}
		}
		ps.KnownPulls = len(pulls)

		if len(pulls) > 0 {
			var err error
			if ps.TotalPulls, err = stats.Sum(pulls); err != nil {
				return nil, err
			}
			if ps.MeanPulls, err = stats.Mean(pulls); err != nil {
				return nil, err
			}
			if ps.MedianPulls, err = stats.Median(pulls); err != nil {
				return nil, err
			}
			if ps.MaxPulls, err = stats.Max(pulls); err != nil {
				return nil, err
			}
			if ps.P90Pulls, err = stats.PercentileNearestRank(pulls, 90); err != nil {
				return nil, err
			}
		}
		out = append(out, ps)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}
