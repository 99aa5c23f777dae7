// Package resolve turns human upload and domain references (file
// names, partial names) into the IDs the API wants.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Candidate is one resolvable resource: an asset or domain ID and the
// name a user would type for it.
type Candidate struct {
	ID   string
	Name string
}

// Match is one ranked result from Rank.
type Match struct {
	ID    string
	Name  string
	Score int
}

var (
	ErrEmptyQuery   = errors.New("empty search query")
	ErrNoCandidates = errors.New("no items to match against")
)

// AmbiguousError reports that a reference matched several candidates
// equally well. Matches are ranked best first.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %s: %s", m.ID, m.Name)
		}
	}
	return b.String()
}

const ambiguityLimit = 5

// BestMatch resolves ref to a candidate ID in three passes: exact name
// (case-insensitive), unique name prefix, then fuzzy subsequence
// ranking. A score tie at the top of the fuzzy pass is an
// *AmbiguousError.
func BestMatch(ref string, candidates []Candidate) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmptyQuery
	}
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}

	for _, c := range candidates {
		if strings.EqualFold(c.Name, ref) {
			return c.ID, nil
		}
	}

	lowered := strings.ToLower(ref)

	prefixID := ""
	prefixHits := 0
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c.Name), lowered) {
			prefixID = c.ID
			prefixHits++
		}
	}
	if prefixHits == 1 {
		return prefixID, nil
	}

	results := fuzzy.FindFrom(lowered, lowerNames(candidates))
	switch {
	case len(results) == 0:
		return "", fmt.Errorf("no match found for %q", ref)
	case len(results) > 1 && results[0].Score == results[1].Score:
		return "", &AmbiguousError{Query: ref, Matches: collect(candidates, results, ambiguityLimit)}
	}
	return candidates[results[0].Index].ID, nil
}

// Rank returns up to limit fuzzy matches for ref, best first.
func Rank(ref string, candidates []Candidate, limit int) []Match {
	ref = strings.TrimSpace(ref)
	if ref == "" || len(candidates) == 0 || limit <= 0 {
		return nil
	}
	return collect(candidates, fuzzy.FindFrom(strings.ToLower(ref), lowerNames(candidates)), limit)
}

type lowerNames []Candidate

func (s lowerNames) String(i int) string { return strings.ToLower(s[i].Name) }
func (s lowerNames) Len() int            { return len(s) }

func collect(candidates []Candidate, results fuzzy.Matches, limit int) []Match {
	if limit > len(results) {
		limit = len(results)
	}
	matches := make([]Match, 0, limit)
	for _, r := range results[:limit] {
		matches = append(matches, Match{
			ID:    candidates[r.Index].ID,
			Name:  candidates[r.Index].Name,
			Score: r.Score,
		})
	}
	if len(matches) == 0 {
		return nil
	}
	return matches
}
