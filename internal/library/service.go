// Package library owns the in-memory sound library: the preview, saved, and
// blocked collections plus their cross-collection invariants. Every mutation
// mirrors the durable subset to the state store and notifies subscribers.
package library

import (
	"log/slog"
	"sync"

	"github.com/therebelrobot/open-strudel-samples/internal/domain"
)

// Service orchestrates the library collections over a state store.
//
// Invariants held across mutations: at most one preview entry per repository
// key; saving removes the matching preview; blocking removes the key from both
// preview and saved. Blocking is not retroactive here; refusing loads of
// blocked repositories is the loader's job.
type Service struct {
	store   domain.StateStore
	fetcher domain.ManifestFetcher
	logger  *slog.Logger

	mu         sync.RWMutex
	previews   []domain.Repository
	saved      []domain.Repository
	blocked    *orderedSet
	collapsed  *orderedSet
	customURLs []domain.CustomURLRepository
	playing    string              // sound id, "" when nothing plays
	loading    map[string]struct{} // repository keys with a fetch in flight

	listenerMu sync.Mutex
	listeners  []func()
}

// NewService creates a library service and rehydrates the durable collections
// from the store.
func NewService(store domain.StateStore, fetcher domain.ManifestFetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:     store,
		fetcher:   fetcher,
		logger:    logger,
		blocked:   newOrderedSet(),
		collapsed: newOrderedSet(),
		loading:   make(map[string]struct{}),
	}

	state, err := store.Load()
	if err != nil {
		// Load only fails on medium errors; corrupt data comes back empty.
		logger.Warn("failed to load library state, starting empty", "error", err)
		return s
	}
	s.saved = state.SavedRepositories
	s.blocked = newOrderedSet(state.BlockedRepos...)
	s.collapsed = newOrderedSet(state.CollapsedRepos...)
	s.customURLs = state.CustomURLs
	logger.Debug("library state loaded",
		"saved", len(s.saved), "blocked", s.blocked.Len(), "customUrls", len(s.customURLs))
	return s
}

// Subscribe registers a callback invoked after every mutation.
func (s *Service) Subscribe(fn func()) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify() {
	s.listenerMu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.listenerMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// persist mirrors the durable collections to the store. Called with s.mu held.
// Mutations never fail on persistence errors; they are logged and the
// in-memory state stays authoritative for the session.
func (s *Service) persist() {
	state := &domain.LibraryState{
		SavedRepositories: s.saved,
		BlockedRepos:      s.blocked.Values(),
		CollapsedRepos:    s.collapsed.Values(),
		CustomURLs:        s.customURLs,
	}
	if err := s.store.Save(state); err != nil {
		s.logger.Error("failed to persist library state", "error", err)
	}
}

// === Preview ===

// AddPreview inserts a repository into the preview collection. If the key is
// already previewed the entry is replaced in place, keeping its position.
func (s *Service) AddPreview(repo domain.Repository) {
	s.mu.Lock()
	key := repo.Key()
	replaced := false
	for i := range s.previews {
		if s.previews[i].Key() == key {
			s.previews[i] = repo
			replaced = true
			break
		}
	}
	if !replaced {
		s.previews = append(s.previews, repo)
	}
	s.mu.Unlock()

	s.logger.Debug("preview added", "key", key, "sounds", len(repo.Sounds), "replaced", replaced)
	s.notify()
}

// RemovePreview drops the preview entry for key, if present.
func (s *Service) RemovePreview(key string) {
	s.mu.Lock()
	s.previews = removeByKey(s.previews, key)
	s.mu.Unlock()
	s.notify()
}

// ClearPreviews empties the preview collection and stops tracking the
// currently-playing sound.
func (s *Service) ClearPreviews() {
	s.mu.Lock()
	s.previews = nil
	s.playing = ""
	s.mu.Unlock()
	s.notify()
}

// === Saved ===

// SaveRepository promotes a repository into the saved library. Saving an
// already-saved key is a no-op; otherwise the repository is appended and any
// matching preview entry is removed.
func (s *Service) SaveRepository(repo domain.Repository) {
	s.mu.Lock()
	key := repo.Key()
	for i := range s.saved {
		if s.saved[i].Key() == key {
			s.mu.Unlock()
			return
		}
	}
	s.saved = append(s.saved, repo)
	s.previews = removeByKey(s.previews, key)
	s.persist()
	s.mu.Unlock()

	s.logger.Info("repository saved", "key", key, "sounds", len(repo.Sounds))
	s.notify()
}

// UnsaveRepository removes the saved entry for key, if present.
func (s *Service) UnsaveRepository(key string) {
	s.mu.Lock()
	s.saved = removeByKey(s.saved, key)
	s.persist()
	s.mu.Unlock()

	s.logger.Info("repository unsaved", "key", key)
	s.notify()
}

// ImportRepositories replaces the saved library wholesale. No merge and no
// deduplication against the previous contents; callers confirm the
// destructive replacement with the operator first.
func (s *Service) ImportRepositories(repos []domain.Repository) {
	s.mu.Lock()
	s.saved = repos
	s.persist()
	s.mu.Unlock()

	s.logger.Info("saved repositories replaced by import", "count", len(repos))
	s.notify()
}

// === Blocked ===

// BlockRepository adds key to the blocklist and evicts it from both the
// preview and saved collections.
func (s *Service) BlockRepository(key string) {
	s.mu.Lock()
	s.blocked.Add(key)
	s.previews = removeByKey(s.previews, key)
	s.saved = removeByKey(s.saved, key)
	s.persist()
	s.mu.Unlock()

	s.logger.Info("repository blocked", "key", key)
	s.notify()
}

// UnblockRepository removes key from the blocklist.
func (s *Service) UnblockRepository(key string) {
	s.mu.Lock()
	s.blocked.Remove(key)
	s.persist()
	s.mu.Unlock()
	s.notify()
}

// ClearBlocklist empties the blocklist.
func (s *Service) ClearBlocklist() {
	s.mu.Lock()
	s.blocked.Clear()
	s.persist()
	s.mu.Unlock()
	s.notify()
}

// ImportBlocklist replaces the blocklist wholesale.
func (s *Service) ImportBlocklist(keys []string) {
	s.mu.Lock()
	s.blocked = newOrderedSet(keys...)
	s.persist()
	s.mu.Unlock()
	s.notify()
}

// === Collapsed ===

// ToggleCollapsed flips the UI-collapsed marker for key.
func (s *Service) ToggleCollapsed(key string) {
	s.mu.Lock()
	s.collapsed.Toggle(key)
	s.persist()
	s.mu.Unlock()
	s.notify()
}

// === Custom URLs ===

// AddCustomURL remembers a manifest URL. Adding an existing URL updates its
// display name.
func (s *Service) AddCustomURL(url, name string) {
	s.mu.Lock()
	found := false
	for i := range s.customURLs {
		if s.customURLs[i].URL == url {
			s.customURLs[i].Name = name
			found = true
			break
		}
	}
	if !found {
		s.customURLs = append(s.customURLs, domain.CustomURLRepository{URL: url, Name: name})
	}
	s.persist()
	s.mu.Unlock()
	s.notify()
}

// RemoveCustomURL forgets a remembered manifest URL.
func (s *Service) RemoveCustomURL(url string) {
	s.mu.Lock()
	for i := range s.customURLs {
		if s.customURLs[i].URL == url {
			s.customURLs = append(s.customURLs[:i], s.customURLs[i+1:]...)
			break
		}
	}
	s.persist()
	s.mu.Unlock()
	s.notify()
}

// ImportCustomURLs replaces the custom URL registry wholesale.
func (s *Service) ImportCustomURLs(urls []domain.CustomURLRepository) {
	s.mu.Lock()
	s.customURLs = urls
	s.persist()
	s.mu.Unlock()
	s.notify()
}

// === Playback tracking ===

// SetCurrentlyPlaying records the active sound id, "" for none. The playback
// component owns the single-voice guarantee; the library only tracks the id.
func (s *Service) SetCurrentlyPlaying(id string) {
	s.mu.Lock()
	s.playing = id
	s.mu.Unlock()
	s.notify()
}

// CurrentlyPlaying returns the active sound id, "" when nothing plays.
func (s *Service) CurrentlyPlaying() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playing
}

// === Queries ===

// IsSaved reports whether key is in the saved library.
func (s *Service) IsSaved(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsKey(s.saved, key)
}

// IsBlocked reports whether key is on the blocklist.
func (s *Service) IsBlocked(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocked.Has(key)
}

// IsCollapsed reports whether key is marked collapsed in the UI.
func (s *Service) IsCollapsed(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collapsed.Has(key)
}

// PreviewByKey returns the preview entry for key.
func (s *Service) PreviewByKey(key string) (domain.Repository, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.previews {
		if r.Key() == key {
			return r, true
		}
	}
	return domain.Repository{}, false
}

// Previews returns the preview collection in insertion order.
func (s *Service) Previews() []domain.Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRepos(s.previews)
}

// Saved returns the saved library in insertion order.
func (s *Service) Saved() []domain.Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRepos(s.saved)
}

// Blocked returns the blocklist in insertion order.
func (s *Service) Blocked() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocked.Values()
}

// CustomURLs returns the remembered custom manifest URLs.
func (s *Service) CustomURLs() []domain.CustomURLRepository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CustomURLRepository, len(s.customURLs))
	copy(out, s.customURLs)
	return out
}

// PreviewSounds flattens every previewed repository's sounds in collection
// order.
func (s *Service) PreviewSounds() []domain.Sound {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return flattenSounds(s.previews)
}

// SavedSounds flattens every saved repository's sounds in collection order.
func (s *Service) SavedSounds() []domain.Sound {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return flattenSounds(s.saved)
}

// === helpers ===

func removeByKey(repos []domain.Repository, key string) []domain.Repository {
	out := repos[:0]
	for _, r := range repos {
		if r.Key() != key {
			out = append(out, r)
		}
	}
	return out
}

func containsKey(repos []domain.Repository, key string) bool {
	for _, r := range repos {
		if r.Key() == key {
			return true
		}
	}
	return false
}

func copyRepos(repos []domain.Repository) []domain.Repository {
	out := make([]domain.Repository, len(repos))
	copy(out, repos)
	return out
}

func flattenSounds(repos []domain.Repository) []domain.Sound {
	var sounds []domain.Sound
	for _, r := range repos {
		sounds = append(sounds, r.Sounds...)
	}
	return sounds
}
