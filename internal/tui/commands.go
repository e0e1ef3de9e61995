package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/therebelrobot/open-strudel-samples/internal/domain"
	"github.com/therebelrobot/open-strudel-samples/internal/library"
	"github.com/therebelrobot/open-strudel-samples/internal/transfer"
)

// Command factories for async operations

// SearchCmd queries GitHub for strudel.json manifests
func SearchCmd(client domain.SearchClient, query string, page, perPage int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := client.Search(ctx, query, page, perPage)
		if err != nil {
			return ErrMsg{Err: err, Context: "searching GitHub"}
		}
		return SearchResultsMsg{Result: result, Query: query, Page: page}
	}
}

// LoadRepoCmd fetches a search result's manifest into the preview collection
func LoadRepoCmd(svc *library.Service, item domain.SearchItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		repo, err := svc.LoadRepository(ctx, item)
		if err != nil {
			if errors.Is(err, library.ErrLoadInFlight) {
				return LoadSkippedMsg{Reason: fmt.Sprintf("%s is already loading", item.Key())}
			}
			if errors.Is(err, library.ErrBlocked) {
				return LoadSkippedMsg{Reason: fmt.Sprintf("%s is blocked", item.Key())}
			}
			return ErrMsg{Err: err, Context: "loading " + item.Key()}
		}
		return RepoLoadedMsg{Repo: repo}
	}
}

// LoadCustomURLCmd fetches a manifest from a user-supplied URL and saves it
func LoadCustomURLCmd(svc *library.Service, url, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		repo, err := svc.LoadCustomURL(ctx, url, name)
		if err != nil {
			if errors.Is(err, library.ErrLoadInFlight) {
				return LoadSkippedMsg{Reason: "url is already loading"}
			}
			return ErrMsg{Err: err, Context: "loading custom url"}
		}
		return CustomLoadedMsg{Repo: repo}
	}
}

// PlayCmd starts external playback of a single sound
func PlayCmd(player domain.Player, sound domain.Sound) tea.Cmd {
	return func() tea.Msg {
		if err := player.Play(sound.URL); err != nil {
			return ErrMsg{Err: err, Context: "playing " + sound.Name}
		}
		return PlaybackStartedMsg{SoundID: sound.ID}
	}
}

// StopCmd stops any active playback
func StopCmd(player domain.Player) tea.Cmd {
	return func() tea.Msg {
		if err := player.Stop(); err != nil {
			return ErrMsg{Err: err, Context: "stopping playback"}
		}
		return PlaybackDoneMsg{}
	}
}

// ExportCmd writes the saved library to a JSON file
func ExportCmd(svc *library.Service, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := transfer.Serialize(svc.Saved(), svc.Blocked(), svc.CustomURLs())
		if err != nil {
			return ErrMsg{Err: err, Context: "exporting library"}
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return ErrMsg{Err: err, Context: "writing " + path}
		}
		return ExportDoneMsg{Path: path, Count: len(svc.Saved())}
	}
}

// ReadImportCmd reads and validates an export file without applying it
func ReadImportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return ErrMsg{Err: err, Context: "reading " + path}
		}
		export, err := transfer.Deserialize(data)
		if err != nil {
			return ErrMsg{Err: err, Context: "parsing " + path}
		}
		return ImportReadMsg{Export: export, Path: path}
	}
}
