package core

import "github.com/agnivade/levenshtein"

// Suggest returns the candidate closest to token by edit distance, or "" if
// none is within a third of its own length.
func Suggest(token string, candidates []string) string {
	best := ""
	bestDist := 0
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(token, cand)
		if dist > len(cand)/3+1 {
			continue
		}
		if best == "" || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}
