package domain

import "context"

// SearchClient provides paginated code search over sound manifests.
type SearchClient interface {
	// Search returns one page of hits for the query. Pages are 1-based.
	Search(ctx context.Context, query string, page, perPage int) (*SearchResult, error)
}

// ManifestFetcher downloads raw manifest documents. The bytes are decoded by
// the manifest package so parse failures can carry provenance context.
type ManifestFetcher interface {
	// FetchManifest downloads a manifest from a repository's raw content host.
	FetchManifest(ctx context.Context, owner, repo, branch, path string) ([]byte, error)

	// FetchURL downloads a manifest from an arbitrary URL.
	FetchURL(ctx context.Context, url string) ([]byte, error)
}

// StateStore mirrors the durable subset of library state to a key-value
// medium. Load never fails on corrupt data; it returns an empty state instead.
type StateStore interface {
	Load() (*LibraryState, error)
	Save(state *LibraryState) error
	Close() error
}

// Player is the audio playback primitive. At most one sound plays at a time;
// Play releases the previous playback before starting the next.
type Player interface {
	Play(url string) error
	Stop() error
}
