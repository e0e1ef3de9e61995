// Package store mirrors durable library state to BoltDB under a single key,
// using a versioned JSON envelope with ordered schema migrations.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/therebelrobot/open-strudel-samples/internal/domain"
)

const schemaVersion = 2

var bucketLibrary = []byte("library")

const stateKey = "state"

// Store implements domain.StateStore on BoltDB. An empty path selects
// memory-only mode with no persistence, used by tests and ephemeral runs.
type Store struct {
	db     *bolt.DB
	logger *slog.Logger

	mu  sync.Mutex
	mem []byte // memory-only mode value
}

// New opens (or creates) the library database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return &Store{logger: logger}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open library db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLibrary)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load rehydrates library state. Missing or corrupt stored data yields an
// empty state rather than an error, so startup can never be wedged by a bad
// value.
func (s *Store) Load() (*domain.LibraryState, error) {
	data := s.read()
	if data == nil {
		return &domain.LibraryState{}, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.logger.Warn("stored library state is corrupt, starting empty", "error", err)
		return &domain.LibraryState{}, nil
	}

	if err := migrate(envelope); err != nil {
		s.logger.Warn("library state migration failed, starting empty", "error", err)
		return &domain.LibraryState{}, nil
	}

	state := &domain.LibraryState{}
	decodeField(envelope, "saved_repositories", &state.SavedRepositories)
	decodeField(envelope, "blocked_repos", &state.BlockedRepos)
	decodeField(envelope, "collapsed_repos", &state.CollapsedRepos)
	decodeField(envelope, "custom_urls", &state.CustomURLs)
	return state, nil
}

// Save writes the current-version envelope. Set-valued collections arrive as
// ordered lists; the library layer owns the set semantics.
func (s *Store) Save(state *domain.LibraryState) error {
	envelope := persistedState{
		SchemaVersion:     schemaVersion,
		SavedRepositories: state.SavedRepositories,
		BlockedRepos:      state.BlockedRepos,
		CollapsedRepos:    state.CollapsedRepos,
		CustomURLs:        state.CustomURLs,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return s.write(data)
}

// persistedState is the on-disk envelope for the current schema version.
type persistedState struct {
	SchemaVersion     int                          `json:"schema_version"`
	SavedRepositories []domain.Repository          `json:"saved_repositories"`
	BlockedRepos      []string                     `json:"blocked_repos"`
	CollapsedRepos    []string                     `json:"collapsed_repos"`
	CustomURLs        []domain.CustomURLRepository `json:"custom_urls"`
}

func (s *Store) read() []byte {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.mem
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLibrary)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(stateKey)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	return data
}

func (s *Store) write(data []byte) error {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.mem = data
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLibrary)
		return b.Put([]byte(stateKey), data)
	})
}

// decodeField unmarshals one envelope field, leaving the destination empty
// when the field is absent or from a version that lacked it.
func decodeField(envelope map[string]json.RawMessage, name string, dest interface{}) {
	raw, ok := envelope[name]
	if !ok {
		return
	}
	// Best effort: a single bad field falls back to empty rather than
	// poisoning the whole load.
	_ = json.Unmarshal(raw, dest)
}
