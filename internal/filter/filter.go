// Package filter normalizes user-supplied name filters into case-insensitive
// lookup sets.
package filter

import (
	"sort"
	"strings"
)

// Tokens flattens raw flag values, splitting comma-separated lists and
// dropping blank entries. Surrounding whitespace is trimmed.
func Tokens(raw []string) []string {
	var tokens []string
	for _, value := range raw {
		for _, token := range strings.Split(value, ",") {
			if cleaned := strings.TrimSpace(token); cleaned != "" {
				tokens = append(tokens, cleaned)
			}
		}
	}
	return tokens
}

// Set is a case-insensitive name filter that remembers which entries were
// matched. A nil *Set means "no filter" and matches every name.
type Set struct {
	originals map[string]string
	matched   map[string]struct{}
}

// Parse builds a Set from raw flag values. It returns nil when no usable
// token remains, which callers treat as "match everything".
func Parse(raw []string) *Set {
	tokens := Tokens(raw)
	if len(tokens) == 0 {
		return nil
	}
	s := &Set{
		originals: make(map[string]string, len(tokens)),
		matched:   make(map[string]struct{}),
	}
	for _, token := range tokens {
		s.originals[strings.ToLower(token)] = token
	}
	return s
}

// Active reports whether the set restricts anything.
func (s *Set) Active() bool {
	return s != nil
}

// Keys returns the normalized keys, sorted.
func (s *Set) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.originals))
	for key := range s.originals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Match reports whether name passes the filter and records the hit.
func (s *Set) Match(name string) bool {
	if s == nil {
		return true
	}
	key := strings.ToLower(name)
	if _, ok := s.originals[key]; !ok {
		return false
	}
	s.matched[key] = struct{}{}
	return true
}

// Unmatched returns the original spelling of every token that never
// matched, sorted alphabetically.
func (s *Set) Unmatched() []string {
	if s == nil {
		return nil
	}
	var missing []string
	for key, original := range s.originals {
		if _, ok := s.matched[key]; !ok {
			missing = append(missing, original)
		}
	}
	sort.Strings(missing)
	return missing
}
