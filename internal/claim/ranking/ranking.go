// Package ranking orders location and calling-code search results by how
// well they match a free-text term.
package ranking

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// MinTermLength is the shortest location term worth sending to the backend.
	MinTermLength = 3
	// MaxLocations caps a ranked location list.
	MaxLocations = 20
)

// Location is a district-level place from the location search index.
type Location struct {
	ID          int    `json:"id"`
	District    string `json:"district"`
	Province    string `json:"province"`
	Department  string `json:"department"`
	DisplayName string `json:"displayName"`
	Code        string `json:"ubigeo"`
}

// CallingCode is an international dial prefix.
type CallingCode struct {
	Dial string `json:"code"`
	Name string `json:"name"`
	ISO  string `json:"iso"`
}

// tier scores an exact, prefix or substring match of term in field.
func tier(field, term string, exact, prefix, substring int) int {
	switch {
	case field == term:
		return exact
	case strings.HasPrefix(field, term):
		return prefix
	case substring > 0 && strings.Contains(field, term):
		return substring
	}
	return 0
}

// ScoreLocation scores a location against term, case-insensitively.
// District weighs most, then province and department; the display name and
// the ubigeo code add small bonuses. Zero means no match.
func ScoreLocation(loc Location, term string) int {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return 0
	}
	score := tier(strings.ToLower(loc.District), term, 100, 80, 60)
	score += tier(strings.ToLower(loc.Province), term, 50, 35, 20)
	score += tier(strings.ToLower(loc.Department), term, 30, 15, 0)
	if strings.Contains(strings.ToLower(loc.DisplayName), term) {
		score += 10
	}
	if loc.Code != "" && strings.HasPrefix(loc.Code, term) {
		score += 5
	}
	return score
}

// ScoreCallingCode scores a calling code against term, case-insensitively.
func ScoreCallingCode(c CallingCode, term string) int {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return 0
	}
	score := tier(strings.ToLower(c.Name), term, 100, 70, 40)
	score += tier(strings.ToLower(c.Dial), term, 60, 60, 30)
	score += tier(strings.ToLower(c.ISO), term, 50, 50, 20)
	return score
}

// SearchableTerm reports whether a location term is long enough to query.
func SearchableTerm(term string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(term)) >= MinTermLength
}

type scored[T any] struct {
	item  T
	score int
	name  string
}

func rank[T any](items []T, score func(T) int, name func(T) string) []T {
	ranked := make([]scored[T], 0, len(items))
	for _, it := range items {
		if sc := score(it); sc > 0 {
			ranked = append(ranked, scored[T]{item: it, score: sc, name: name(it)})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].name < ranked[j].name
	})
	out := make([]T, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}

// RankLocations drops non-matching results, orders the rest by score then
// display name, and keeps the top MaxLocations. Short terms yield nothing.
func RankLocations(results []Location, term string) []Location {
	if !SearchableTerm(term) {
		return []Location{}
	}
	ranked := rank(results,
		func(l Location) int { return ScoreLocation(l, term) },
		func(l Location) string { return l.DisplayName },
	)
	if len(ranked) > MaxLocations {
		ranked = ranked[:MaxLocations]
	}
	return ranked
}

// RankCallingCodes filters and orders entries; an empty term returns them all.
func RankCallingCodes(entries []CallingCode, term string) []CallingCode {
	if strings.TrimSpace(term) == "" {
		out := make([]CallingCode, len(entries))
		copy(out, entries)
		return out
	}
	return rank(entries,
		func(c CallingCode) int { return ScoreCallingCode(c, term) },
		func(c CallingCode) string { return c.Name },
	)
}
