// Package columns declares the fixed set of columns a summary table can show.
package columns

import (
	"strings"

	"github.com/naka-gawa/harbor-summary/internal/domain"
	"github.com/naka-gawa/harbor-summary/internal/filter"
)

// Column keys.
const (
	KeyRepository  = "repository"
	KeyArtifacts   = "artifacts"
	KeyPullCount   = "pull_count"
	KeyLastUpdated = "last_updated"
	KeyDescription = "description"
)

// Column describes a displayable repository field. How a cell is rendered
// is up to each output format.
type Column struct {
	Key         string
	Label       string
	Description string
}

var definitions = []Column{
	{Key: KeyRepository, Label: "Repository", Description: "Repository name within the project"},
	{Key: KeyArtifacts, Label: "Artifacts", Description: "Number of artifacts stored in the repository"},
	{Key: KeyPullCount, Label: "Pull Count", Description: "Number of pulls across all artifacts within the repository"},
	{Key: KeyLastUpdated, Label: "Last Updated", Description: "Last updated timestamp reported by Harbor"},
	{Key: KeyDescription, Label: "Description", Description: "Repository description if available"},
}

var registry = func() map[string]Column {
	m := make(map[string]Column, len(definitions))
	for _, c := range definitions {
		m[c.Key] = c
	}
	return m
}()

// All returns every column in default order.
func All() []Column {
	out := make([]Column, len(definitions))
	copy(out, definitions)
	return out
}

// Keys returns every column key in default order.
func Keys() []string {
	keys := make([]string, len(definitions))
	for i, c := range definitions {
		keys[i] = c.Key
	}
	return keys
}

// Lookup finds a column by key.
func Lookup(key string) (Column, bool) {
	c, ok := registry[key]
	return c, ok
}

// Resolve turns raw --column values into an ordered column list.
// Without any value it returns all columns. Keys are case-insensitive and
// duplicates are dropped; an unknown key is a configuration error.
func Resolve(raw []string) ([]Column, error) {
	if len(raw) == 0 {
		return All(), nil
	}
	tokens := filter.Tokens(raw)
	if len(tokens) == 0 {
		return nil, domain.NewConfigError("no valid columns specified via --column")
	}

	resolved := make([]Column, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		key := strings.ToLower(token)
		if _, ok := seen[key]; ok {
			continue
		}
		c, ok := registry[key]
		if !ok {
			return nil, domain.NewConfigError("unknown column '%s'; use --list-columns to view available columns", key)
		}
		seen[key] = struct{}{}
		resolved = append(resolved, c)
	}
	return resolved, nil
}
