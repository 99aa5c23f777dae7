package cmd

import "strings"

// closestMatch returns the candidate closest to input by edit distance,
// or "" when nothing is plausibly close. A candidate that input is a
// prefix of wins outright, and the tolerated distance scales with the
// input length so short typos don't match everything.
func closestMatch(input string, candidates []string) string {
	input = strings.ToLower(input)
	if input == "" {
		return ""
	}
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), input) {
			return c
		}
	}
	best := ""
	bestDist := len(input)/4 + 2
	for _, c := range candidates {
		if d := editDistance(input, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// suggestCommand picks the most likely intended command for an unknown one.
func suggestCommand(unknown string, commands []string) string {
	return closestMatch(unknown, commands)
}

// suggestFlag picks the most likely intended flag for an unknown one.
// Dashes are ignored for matching; the returned flag keeps its prefix.
func suggestFlag(unknown string, flags []string) string {
	stripped := strings.TrimLeft(unknown, "-")
	if stripped == "" {
		return ""
	}
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = strings.TrimLeft(f, "-")
	}
	match := closestMatch(stripped, names)
	if match == "" {
		return ""
	}
	for i, name := range names {
		if name == match {
			return flags[i]
		}
	}
	return ""
}

// editDistance is the Levenshtein distance between a and b, computed
// with two rows of the edit matrix.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 0; i < len(a); i++ {
		cur[0] = i + 1
		for j := 0; j < len(b); j++ {
			sub := prev[j]
			if a[i] != b[j] {
				sub++
			}
			cur[j+1] = min(sub, prev[j+1]+1, cur[j]+1)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
