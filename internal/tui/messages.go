package tui

import (
	"github.com/therebelrobot/open-strudel-samples/internal/domain"
	"github.com/therebelrobot/open-strudel-samples/internal/transfer"
)

// Message types for the TUI

// ErrMsg represents an error surfaced on the status line
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SearchResultsMsg signals that a search page is ready
type SearchResultsMsg struct {
	Result *domain.SearchResult
	Query  string
	Page   int
}

// RepoLoadedMsg signals that a manifest was loaded into preview
type RepoLoadedMsg struct {
	Repo domain.Repository
}

// CustomLoadedMsg signals that a custom URL manifest was loaded and saved
type CustomLoadedMsg struct {
	Repo domain.Repository
}

// LoadSkippedMsg signals a load that was dropped (blocked or already running)
type LoadSkippedMsg struct {
	Reason string
}

// LibraryChangedMsg signals that the library mutated and views must refresh
type LibraryChangedMsg struct{}

// PlaybackStartedMsg signals that the player process was launched
type PlaybackStartedMsg struct {
	SoundID string
}

// PlaybackDoneMsg signals that playback finished on its own
type PlaybackDoneMsg struct{}

// ExportDoneMsg signals that the library snapshot was written
type ExportDoneMsg struct {
	Path  string
	Count int
}

// ImportReadMsg carries a parsed import payload awaiting confirmation
type ImportReadMsg struct {
	Export *transfer.Export
	Path   string
}

// StatusMsg shows a transient informational message
type StatusMsg struct {
	Text string
}
