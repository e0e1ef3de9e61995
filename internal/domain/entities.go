package domain

import (
	"time"
)

// UncategorizedLabel is the display/grouping label for sounds whose manifest
// entry carries no category.
const UncategorizedLabel = "uncategorized"

// Sound represents one playable audio reference extracted from a manifest.
// Sounds are immutable after extraction and live as long as their owning
// Repository.
type Sound struct {
	ID         string `json:"id"`                 // "owner/repo/category/index"
	Name       string `json:"name"`               // Display label, suffixed within multi-sound categories
	URL        string `json:"url"`                // Playable URL, resolved against the manifest base
	Category   string `json:"category,omitempty"` // Grouping label, may be empty
	Repository string `json:"repository"`         // "owner/repo", denormalized for display
	Owner      string `json:"owner"`              // Provenance
	Path       string `json:"path"`               // Manifest path within the repository
}

// DisplayCategory returns the category label used for grouping, falling back
// to UncategorizedLabel when the manifest supplied none.
func (s Sound) DisplayCategory() string {
	if s.Category == "" {
		return UncategorizedLabel
	}
	return s.Category
}

// Repository represents one fetched and parsed manifest plus its sounds.
type Repository struct {
	Owner          string    `json:"owner"`
	Repo           string    `json:"repo"`
	Path           string    `json:"path"`
	Branch         string    `json:"branch,omitempty"`
	StrudelJSONURL string    `json:"strudel_json_url,omitempty"`
	RawJSONURL     string    `json:"raw_json_url,omitempty"`
	Sounds         []Sound   `json:"sounds"`
	LoadedAt       time.Time `json:"loaded_at"`
	IsCustomURL    bool      `json:"isCustomUrl,omitempty"`
}

// Key returns the repository identity used for lookup, equality, and
// deduplication across every collection. Two Repository values are the same
// repository if and only if their keys are equal.
func (r Repository) Key() string {
	return r.Owner + "/" + r.Repo + "/" + r.Path
}

// FullName returns the "owner/repo" composite shown in listings.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Repo
}

// CustomURLRepository remembers a manifest loaded from an arbitrary URL,
// independently of whether the underlying repository remains saved.
type CustomURLRepository struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// LibraryState is the durable subset of library state mirrored to storage.
// Preview and the currently-playing sound are session-only and never appear
// here.
type LibraryState struct {
	SavedRepositories []Repository          `json:"saved_repositories"`
	BlockedRepos      []string              `json:"blocked_repos"`
	CollapsedRepos    []string              `json:"collapsed_repos"`
	CustomURLs        []CustomURLRepository `json:"custom_urls"`
}

// SearchItem is one code-search hit pointing at a strudel.json manifest.
type SearchItem struct {
	Owner       string
	Repo        string
	Branch      string
	Path        string
	Stars       int
	Language    string
	Description string
	HTMLURL     string
	RawURL      string
}

// Key returns the repository key this hit would load into.
func (i SearchItem) Key() string {
	return i.Owner + "/" + i.Repo + "/" + i.Path
}

// SearchResult is one page of search hits plus the total match count.
type SearchResult struct {
	TotalCount int
	Items      []SearchItem
}
