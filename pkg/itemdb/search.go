package itemdb

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// SearchResult is one ranked match. Lower Score is better.
type SearchResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Search ranks items whose display name or identifier resemble query.
// Substring hits rank ahead of fuzzy hits; fuzzy hits must be within an edit
// distance that scales with the query length. limit <= 0 returns all hits.
func Search(db *Database, language, query string, limit int) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []SearchResult
	for _, id := range db.ItemIDs() {
		name := db.DisplayName(id, language)
		best, ok := matchScore(q, strings.ToLower(name))
		if s, idOK := matchScore(q, strings.ToLower(id)); idOK && (!ok || s < best) {
			best, ok = s, true
		}
		if !ok {
			continue
		}
		out = append(out, SearchResult{ID: id, Name: name, Score: best})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Substring hits score by position; fuzzy hits are pushed behind every
// substring hit.
const fuzzyPenalty = 1000

func matchScore(query, candidate string) (int, bool) {
	if pos := strings.Index(candidate, query); pos >= 0 {
		return pos, true
	}
	if len(query) < 3 {
		return 0, false
	}
	dist := levenshtein.ComputeDistance(query, candidate)
	if dist > distanceLimit(len(query)) {
		return 0, false
	}
	return fuzzyPenalty + dist, true
}

func distanceLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
