package library

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	listfuzzy "github.com/sahilm/fuzzy"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/therebelrobot/open-strudel-samples/internal/domain"
)

// CategoryGroup is one category label plus its sounds, in insertion order.
type CategoryGroup struct {
	Category string
	Sounds   []domain.Sound
}

// GroupByCategory groups sounds by display category, preserving first-seen
// category order and within-category order. Every sound-listing surface uses
// this same grouping.
func GroupByCategory(sounds []domain.Sound) []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)

	for _, s := range sounds {
		label := s.DisplayCategory()
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, CategoryGroup{Category: label})
		}
		groups[i].Sounds = append(groups[i].Sounds, s)
	}
	return groups
}

// FilterSounds returns the sounds whose name, category, or repository
// contains the query, case-insensitively. An empty or whitespace-only query
// returns the input unchanged.
func FilterSounds(sounds []domain.Sound, query string) []domain.Sound {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return sounds
	}

	var out []domain.Sound
	for _, s := range sounds {
		if strings.Contains(strings.ToLower(s.Name), query) ||
			strings.Contains(strings.ToLower(s.DisplayCategory()), query) ||
			strings.Contains(strings.ToLower(s.Repository), query) {
			out = append(out, s)
		}
	}
	return out
}

// SortField selects the sound attribute to sort by.
type SortField int

const (
	SortByName SortField = iota
	SortByCategory
	SortByRepository
)

// String returns the field name for display.
func (f SortField) String() string {
	switch f {
	case SortByCategory:
		return "category"
	case SortByRepository:
		return "repository"
	default:
		return "name"
	}
}

// SortSounds returns a copy sorted by the given field using locale-aware
// collation. Ties keep their original relative order.
func SortSounds(sounds []domain.Sound, field SortField) []domain.Sound {
	out := make([]domain.Sound, len(sounds))
	copy(out, sounds)

	c := collate.New(language.Und)
	key := func(s domain.Sound) string {
		switch field {
		case SortByCategory:
			return s.DisplayCategory()
		case SortByRepository:
			return s.Repository
		default:
			return s.Name
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(key(out[i]), key(out[j])) < 0
	})
	return out
}

// RankSounds fuzzy-ranks sounds against the query by name, best match first.
// The exact-substring FilterSounds stays the contract for plain filtering.
func RankSounds(sounds []domain.Sound, query string) []domain.Sound {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	names := make([]string, len(sounds))
	for i, s := range sounds {
		names[i] = s.Name
	}

	matches := fuzzy.RankFindFold(query, names)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	out := make([]domain.Sound, 0, len(matches))
	for _, m := range matches {
		out = append(out, sounds[m.OriginalIndex])
	}
	return out
}

// RankSearchItems narrows search hits to those fuzzy-matching the query
// against "owner/repo path", best match first. A blank query returns the
// input unchanged.
func RankSearchItems(items []domain.SearchItem, query string) []domain.SearchItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	targets := make([]string, len(items))
	for i, it := range items {
		targets[i] = strings.ToLower(it.Owner + "/" + it.Repo + " " + it.Path)
	}

	matches := listfuzzy.Find(strings.ToLower(query), targets)
	out := make([]domain.SearchItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}
