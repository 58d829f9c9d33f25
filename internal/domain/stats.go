// Package domain contains the core data structures and domain logic for the application.
package domain

// ProjectStats holds pull and artifact statistics for a single project.
// Repositories whose counts are unknown are left out of the figures rather
// than counted as zero.
type ProjectStats struct {
	Name           string  `json:"name"`
	Repositories   int     `json:"repositories"`
	KnownPulls     int     `json:"known_pulls"`
	TotalPulls     float64 `json:"total_pulls"`
	MeanPulls      float64 `json:"mean_pulls"`
	MedianPulls    float64 `json:"median_pulls"`
	P90Pulls       float64 `json:"p90_pulls"`
	MaxPulls       float64 `json:"max_pulls"`
	TotalArtifacts int     `json:"total_artifacts"`
}
