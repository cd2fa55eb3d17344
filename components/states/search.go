package states

import (
	"sort"
	"strings"
)

// Search matches query case-insensitively against codes and names. Exact code
// matches rank first, then name prefixes, then other substring matches.
func Search(states []State, query string, limit int, opts Options) []State {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(states) <= limit {
				return append([]State{}, states...)
			}
			return append([]State{}, states[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedState, 0, 8)
	for _, state := range states {
		code := strings.ToLower(state.Code)
		name := strings.ToLower(state.Name)
		rank := -1
		switch {
		case code == q:
			rank = 0
		case strings.HasPrefix(name, q):
			rank = 1
		case strings.Contains(name, q):
			rank = 2
		}
		if rank < 0 {
			continue
		}
		matches = append(matches, matchedState{state: state, rank: rank})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].state.Name < matches[j].state.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]State, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.state)
	}
	return out
}

// SearchOptions runs Search and converts the results into select options.
func SearchOptions(states []State, query string, limit int, opts Options) []Option {
	results := Search(states, query, limit, opts)
	if len(results) == 0 {
		return nil
	}
	return ToOptions(results)
}

type matchedState struct {
	state State
	rank  int
}
