package domain

// Repository is a single repository as reported by the Harbor API.
// Nil counts mean the server did not report a usable value.
type Repository struct {
	Name          string  `json:"name"`
	ProjectName   string  `json:"project_name"`
	PullCount     *int    `json:"pull_count,omitempty"`
	ArtifactCount *int    `json:"artifact_count,omitempty"`
	UpdateTime    string  `json:"update_time,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// Project is a Harbor project together with the repositories collected for it.
// RepoCount is the count reported by the server and may differ from
// len(Repositories).
type Project struct {
	Name         string        `json:"name"`
	RepoCount    int           `json:"repo_count"`
	Repositories []*Repository `json:"repositories"`
}

// ProjectListing is a project page item before any repository is fetched.
type ProjectListing struct {
	Name      string `json:"name"`
	RepoCount int    `json:"repo_count"`
}
