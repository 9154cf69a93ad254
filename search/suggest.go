package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/xrash/smetrics"
)

type suggestion struct {
	name  string
	score float64
}

// suggestNames ranks names by Jaro-Winkler similarity to query. A name scores
// the better of its full form and its surname, so "smth" still finds
// "SMITH, JOHN". Names below cutoff are dropped; ties sort by name.
func suggestNames(query string, names []string, cutoff float64, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	var ranked []suggestion
	for _, name := range names {
		full := strings.ToLower(strings.TrimSpace(name))
		score := similarity(query, full)
		if surname, _, ok := strings.Cut(full, ","); ok {
			score = max(score, similarity(query, strings.TrimSpace(surname)))
		}
		if score >= cutoff {
			ranked = append(ranked, suggestion{name: name, score: score})
		}
	}

	slices.SortFunc(ranked, func(a, b suggestion) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	out := make([]string, 0, min(limit, len(ranked)))
	for _, s := range ranked {
		if len(out) == limit {
			break
		}
		if slices.Contains(out, s.name) {
			continue
		}
		out = append(out, s.name)
	}
	return out
}

func similarity(a, b string) float64 {
	if b == "" {
		return 0
	}
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}
