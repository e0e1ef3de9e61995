package store

import (
	"encoding/json"

	"github.com/therebelrobot/open-strudel-samples/internal/domain"
)

// migration lifts an envelope from the previous schema version to `to`.
// Steps are pure rewrites of the raw envelope and run in order until the
// envelope reaches the current version.
type migration struct {
	to    int
	apply func(envelope map[string]json.RawMessage) error
}

var migrations = []migration{
	{to: 2, apply: migrateFavoritesToSaved},
}

// migrate applies every pending migration step and stamps the final version.
func migrate(envelope map[string]json.RawMessage) error {
	version := envelopeVersion(envelope)
	for _, m := range migrations {
		if version >= m.to {
			continue
		}
		if err := m.apply(envelope); err != nil {
			return err
		}
		version = m.to
	}
	raw, err := json.Marshal(version)
	if err != nil {
		return err
	}
	envelope["schema_version"] = raw
	return nil
}

// envelopeVersion reads the version tag; untagged legacy data counts as v1.
func envelopeVersion(envelope map[string]json.RawMessage) int {
	raw, ok := envelope["schema_version"]
	if !ok {
		return 1
	}
	var version int
	if err := json.Unmarshal(raw, &version); err != nil || version < 1 {
		return 1
	}
	return version
}

// migrateFavoritesToSaved handles the v1 layout, which stored a full
// "repositories" list plus a "favorites" key list instead of
// "saved_repositories". Saved is reconstructed by filtering the repository
// list down to the favorited keys; custom URLs did not exist yet and default
// to empty on decode.
func migrateFavoritesToSaved(envelope map[string]json.RawMessage) error {
	if _, ok := envelope["saved_repositories"]; ok {
		return nil
	}

	var favorites []string
	if raw, ok := envelope["favorites"]; ok {
		if err := json.Unmarshal(raw, &favorites); err != nil {
			return err
		}
	}

	var repositories []domain.Repository
	if raw, ok := envelope["repositories"]; ok {
		if err := json.Unmarshal(raw, &repositories); err != nil {
			return err
		}
	}

	favored := make(map[string]struct{}, len(favorites))
	for _, key := range favorites {
		favored[key] = struct{}{}
	}

	saved := make([]domain.Repository, 0, len(favorites))
	for _, repo := range repositories {
		if _, ok := favored[repo.Key()]; ok {
			saved = append(saved, repo)
		}
	}

	raw, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	envelope["saved_repositories"] = raw
	return nil
}
