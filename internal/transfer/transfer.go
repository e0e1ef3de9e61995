// Package transfer reads and writes the portable library snapshot used to
// move saved repositories, the blocklist, and custom URLs between
// installations.
package transfer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/therebelrobot/open-strudel-samples/internal/domain"
)

// FormatVersion is written into every export. Older exports lacking the
// blocklist and custom URL fields still import cleanly.
const FormatVersion = "1.1"

// Export is the on-disk snapshot envelope. Unknown extra fields in imported
// files are ignored, not rejected.
//
// HasBlocklist and HasCustomURLs record whether the fields were present in
// the imported document. Older exports lack them, and an import must not
// wipe the live collections when the payload never carried them.
type Export struct {
	Version      string                       `json:"version"`
	ExportedAt   time.Time                    `json:"exported_at"`
	Repositories []domain.Repository          `json:"repositories"`
	Blocklist    []string                     `json:"blocklist"`
	CustomURLs   []domain.CustomURLRepository `json:"customUrls"`

	HasBlocklist  bool `json:"-"`
	HasCustomURLs bool `json:"-"`
}

// Serialize produces an export document for the given library snapshot.
func Serialize(saved []domain.Repository, blocklist []string, customURLs []domain.CustomURLRepository) ([]byte, error) {
	if saved == nil {
		saved = []domain.Repository{}
	}
	if blocklist == nil {
		blocklist = []string{}
	}
	if customURLs == nil {
		customURLs = []domain.CustomURLRepository{}
	}
	return json.MarshalIndent(Export{
		Version:      FormatVersion,
		ExportedAt:   time.Now().UTC(),
		Repositories: saved,
		Blocklist:    blocklist,
		CustomURLs:   customURLs,
	}, "", "  ")
}

// Deserialize validates and decodes an export document. A version field and
// an array-typed repositories field are required; missing blocklist or
// customUrls fields default to empty, since older export versions lacked
// them.
func Deserialize(data []byte) (*Export, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidExport, err)
	}

	if _, ok := envelope["version"]; !ok {
		return nil, fmt.Errorf("%w: missing version field", domain.ErrInvalidExport)
	}
	rawRepos, ok := envelope["repositories"]
	if !ok {
		return nil, fmt.Errorf("%w: missing repositories field", domain.ErrInvalidExport)
	}

	var export Export
	if err := json.Unmarshal(envelope["version"], &export.Version); err != nil || export.Version == "" {
		return nil, fmt.Errorf("%w: version is not a string", domain.ErrInvalidExport)
	}
	if err := json.Unmarshal(rawRepos, &export.Repositories); err != nil {
		return nil, fmt.Errorf("%w: repositories is not a repository array", domain.ErrInvalidExport)
	}

	if raw, ok := envelope["exported_at"]; ok {
		_ = json.Unmarshal(raw, &export.ExportedAt)
	}
	if raw, ok := envelope["blocklist"]; ok {
		if err := json.Unmarshal(raw, &export.Blocklist); err != nil {
			return nil, fmt.Errorf("%w: blocklist is not a string array", domain.ErrInvalidExport)
		}
		export.HasBlocklist = true
	}
	if raw, ok := envelope["customUrls"]; ok {
		if err := json.Unmarshal(raw, &export.CustomURLs); err != nil {
			return nil, fmt.Errorf("%w: customUrls is not a url array", domain.ErrInvalidExport)
		}
		export.HasCustomURLs = true
	}

	if export.Repositories == nil {
		export.Repositories = []domain.Repository{}
	}
	if export.Blocklist == nil {
		export.Blocklist = []string{}
	}
	if export.CustomURLs == nil {
		export.CustomURLs = []domain.CustomURLRepository{}
	}
	return &export, nil
}
