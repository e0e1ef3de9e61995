package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/therebelrobot/open-strudel-samples/internal/domain"
	"github.com/therebelrobot/open-strudel-samples/internal/manifest"
)

// Loader-level sentinel errors.
var (
	// ErrLoadInFlight indicates a load for the same repository key is already
	// running; the duplicate request is dropped rather than raced.
	ErrLoadInFlight = errors.New("load already in flight")

	// ErrBlocked indicates the repository key is on the blocklist.
	ErrBlocked = errors.New("repository is blocked")
)

// LoadRepository fetches and parses a search hit's manifest and places the
// result in the preview collection. Loads for blocked keys are refused, and
// overlapping loads for the same key are deduplicated so the last-write-wins
// race on concurrent fetches cannot occur.
func (s *Service) LoadRepository(ctx context.Context, item domain.SearchItem) (domain.Repository, error) {
	key := item.Key()
	if s.IsBlocked(key) {
		return domain.Repository{}, fmt.Errorf("%w: %s", ErrBlocked, key)
	}
	if !s.beginLoad(key) {
		return domain.Repository{}, fmt.Errorf("%w: %s", ErrLoadInFlight, key)
	}
	defer s.endLoad(key)

	doc, err := s.fetcher.FetchManifest(ctx, item.Owner, item.Repo, item.Branch, item.Path)
	if err != nil {
		s.logger.Error("manifest fetch failed", "key", key, "error", err)
		return domain.Repository{}, err
	}

	sounds, err := manifest.Parse(doc, item.Owner, item.Repo, item.Path)
	if err != nil {
		s.logger.Error("manifest parse failed", "key", key, "error", err)
		return domain.Repository{}, err
	}

	repo := domain.Repository{
		Owner:          item.Owner,
		Repo:           item.Repo,
		Path:           item.Path,
		Branch:         item.Branch,
		StrudelJSONURL: item.HTMLURL,
		RawJSONURL:     item.RawURL,
		Sounds:         sounds,
		LoadedAt:       time.Now(),
	}
	s.AddPreview(repo)
	return repo, nil
}

// LoadCustomURL fetches and parses a manifest from an arbitrary URL. Custom
// repositories skip preview: they are saved immediately and the URL is
// remembered in the custom URL registry.
func (s *Service) LoadCustomURL(ctx context.Context, url, name string) (domain.Repository, error) {
	if name == "" {
		name = url
	}

	repo := domain.Repository{
		Owner:          "custom",
		Repo:           name,
		Path:           url,
		StrudelJSONURL: url,
		RawJSONURL:     url,
		IsCustomURL:    true,
	}
	key := repo.Key()
	if !s.beginLoad(key) {
		return domain.Repository{}, fmt.Errorf("%w: %s", ErrLoadInFlight, key)
	}
	defer s.endLoad(key)

	doc, err := s.fetcher.FetchURL(ctx, url)
	if err != nil {
		s.logger.Error("custom url fetch failed", "url", url, "error", err)
		return domain.Repository{}, err
	}

	sounds, err := manifest.Parse(doc, repo.Owner, repo.Repo, repo.Path)
	if err != nil {
		s.logger.Error("custom url parse failed", "url", url, "error", err)
		return domain.Repository{}, err
	}

	repo.Sounds = sounds
	repo.LoadedAt = time.Now()
	s.SaveRepository(repo)
	s.AddCustomURL(url, name)
	return repo, nil
}

func (s *Service) beginLoad(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, inFlight := s.loading[key]; inFlight {
		return false
	}
	s.loading[key] = struct{}{}
	return true
}

func (s *Service) endLoad(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loading, key)
}

// loadInFlight reports whether a load for key currently holds the dedup slot.
func (s *Service) loadInFlight(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.loading[key]
	return ok
}
