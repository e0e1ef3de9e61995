// Package manifest decodes strudel.json sound manifests into domain sounds.
//
// Two document shapes are supported. The nested shape carries a "sounds" (or
// "samples") object mapping category names to URL strings or string arrays.
// The flat shape treats every top-level property as a category, except
// reserved names starting with "_". Both shapes honor a "_base" string as a
// prefix for relative sound paths.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/therebelrobot/open-strudel-samples/internal/domain"
)

// errNotObject marks a decode target that is valid JSON but not an object.
var errNotObject = errors.New("not a JSON object")

// Kind tags the detected manifest shape.
type Kind int

const (
	KindInvalid Kind = iota // valid JSON, but not a usable manifest object
	KindNested              // categories under a "sounds"/"samples" object
	KindFlat                // categories at the top level
)

// String returns the shape name for logging.
func (k Kind) String() string {
	switch k {
	case KindNested:
		return "nested"
	case KindFlat:
		return "flat"
	default:
		return "invalid"
	}
}

// Manifest is the classified parse result: an ordered category list plus the
// optional base URL. Category order follows the document's own key order.
type Manifest struct {
	Kind       Kind
	Base       string
	Categories []Category
}

// Category is one named group of candidate sound URLs, in document order.
// Entries may still be empty or whitespace; extraction drops those.
type Category struct {
	Name string
	URLs []string
}

// member preserves one object property in document order.
type member struct {
	name  string
	value json.RawMessage
}

// Classify decodes a manifest document and detects its shape. The only fatal
// failure is malformed JSON; a structurally surprising document classifies as
// KindInvalid or yields a partial category list instead of an error.
func Classify(doc []byte) (Manifest, error) {
	members, err := decodeMembers(doc)
	if err != nil {
		if errors.Is(err, errNotObject) {
			return Manifest{Kind: KindInvalid}, nil
		}
		return Manifest{}, err
	}

	base := findBase(members)

	// "sounds" takes precedence over "samples"; they are never merged.
	for _, key := range []string{"sounds", "samples"} {
		if raw, ok := findMember(members, key); ok {
			nested, err := decodeMembers(raw)
			if err != nil {
				if errors.Is(err, errNotObject) {
					// Present but not an object: empty nested manifest.
					return Manifest{Kind: KindNested, Base: base}, nil
				}
				return Manifest{}, err
			}
			return Manifest{Kind: KindNested, Base: base, Categories: collectCategories(nested, false)}, nil
		}
	}

	return Manifest{Kind: KindFlat, Base: base, Categories: collectCategories(members, true)}, nil
}

// Extract converts a classified manifest into an ordered sound list.
// Empty and whitespace-only URLs are dropped silently. Within a category the
// sound id index is the 0-based position among the kept URLs, and names carry
// a 1-based suffix whenever the category keeps more than one sound.
func Extract(m Manifest, owner, repo, path string) []domain.Sound {
	if m.Kind == KindInvalid {
		return nil
	}

	var sounds []domain.Sound
	fullName := owner + "/" + repo

	for _, cat := range m.Categories {
		kept := make([]string, 0, len(cat.URLs))
		for _, u := range cat.URLs {
			if strings.TrimSpace(u) == "" {
				continue
			}
			kept = append(kept, resolveURL(m.Base, u))
		}

		for i, u := range kept {
			name := cat.Name
			if len(kept) > 1 {
				name = cat.Name + "-" + strconv.Itoa(i+1)
			}
			sounds = append(sounds, domain.Sound{
				ID:         fmt.Sprintf("%s/%s/%s/%d", owner, repo, cat.Name, i),
				Name:       name,
				URL:        u,
				Category:   cat.Name,
				Repository: fullName,
				Owner:      owner,
				Path:       path,
			})
		}
	}

	return sounds
}

// Parse is the combined classify-and-extract entry point used by loaders.
// Parse failures embed the manifest's provenance.
func Parse(doc []byte, owner, repo, path string) ([]domain.Sound, error) {
	m, err := Classify(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s/%s: %v", domain.ErrInvalidManifest, owner, repo, path, err)
	}
	return Extract(m, owner, repo, path), nil
}

// resolveURL prefixes relative paths with the manifest base. Absolute URLs
// pass through unchanged; a missing base yields the raw, possibly-relative
// path, which is accepted as-is.
func resolveURL(base, u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return base + u
}

// decodeMembers streams an object's properties in document order.
func decodeMembers(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	var members []member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, errNotObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		members = append(members, member{name: name, value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return members, nil
}

func findMember(members []member, name string) (json.RawMessage, bool) {
	for _, m := range members {
		if m.name == name {
			return m.value, true
		}
	}
	return nil, false
}

// findBase returns the "_base" property when it is a string, else "".
func findBase(members []member) string {
	raw, ok := findMember(members, "_base")
	if !ok {
		return ""
	}
	var base string
	if err := json.Unmarshal(raw, &base); err != nil {
		return ""
	}
	return base
}

// collectCategories turns object members into ordered categories. Members of
// unexpected type are skipped, producing a partial result. In the flat shape,
// reserved "_"-prefixed names are not categories.
func collectCategories(members []member, flat bool) []Category {
	var cats []Category
	for _, m := range members {
		if flat && strings.HasPrefix(m.name, "_") {
			continue
		}
		urls, ok := urlList(m.value)
		if !ok {
			continue
		}
		cats = append(cats, Category{Name: m.name, URLs: urls})
	}
	return cats
}

// urlList accepts a single URL string or an array of strings. Non-string
// array entries are skipped silently.
func urlList(raw json.RawMessage) ([]string, bool) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, true
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, false
	}
	urls := make([]string, 0, len(arr))
	for _, entry := range arr {
		var s string
		if json.Unmarshal(entry, &s) == nil {
			urls = append(urls, s)
		}
	}
	return urls, true
}
