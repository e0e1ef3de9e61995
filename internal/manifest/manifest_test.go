package manifest

import (
	"errors"
	"strings"
	"testing"

	"github.com/therebelrobot/open-strudel-samples/internal/domain"
)

func TestClassifyShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind Kind
		base string
		cats int
	}{
		{
			name: "nested sounds object",
			doc:  `{"sounds":{"kick":["k.wav"],"snare":"s.wav"}}`,
			kind: KindNested,
			cats: 2,
		},
		{
			name: "nested samples object",
			doc:  `{"samples":{"hat":["h.wav"]}}`,
			kind: KindNested,
			cats: 1,
		},
		{
			name: "flat shape",
			doc:  `{"kick":["k.wav"],"snare":["s.wav"]}`,
			kind: KindFlat,
			cats: 2,
		},
		{
			name: "flat shape skips reserved keys",
			doc:  `{"_base":"https://cdn.example/","_meta":"x","kick":["k.wav"]}`,
			kind: KindFlat,
			base: "https://cdn.example/",
			cats: 1,
		},
		{
			name: "base honored in nested shape",
			doc:  `{"_base":"https://cdn.example/","sounds":{"kick":["k.wav"]}}`,
			kind: KindNested,
			base: "https://cdn.example/",
			cats: 1,
		},
		{
			name: "root not an object",
			doc:  `[1,2,3]`,
			kind: KindInvalid,
		},
		{
			name: "sounds present but not an object",
			doc:  `{"sounds":"nope"}`,
			kind: KindNested,
			cats: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Classify([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Classify returned error: %v", err)
			}
			if m.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, m.Kind)
			}
			if m.Base != tt.base {
				t.Errorf("expected base %q, got %q", tt.base, m.Base)
			}
			if len(m.Categories) != tt.cats {
				t.Errorf("expected %d categories, got %d", tt.cats, len(m.Categories))
			}
		})
	}
}

func TestClassifyMalformedJSON(t *testing.T) {
	if _, err := Classify([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestClassifyPreservesKeyOrder(t *testing.T) {
	m, err := Classify([]byte(`{"zeta":["z.wav"],"alpha":["a.wav"],"mid":["m.wav"]}`))
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	want := []string{"zeta", "alpha", "mid"}
	if len(m.Categories) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(m.Categories))
	}
	for i, name := range want {
		if m.Categories[i].Name != name {
			t.Errorf("category %d: expected %q, got %q", i, name, m.Categories[i].Name)
		}
	}
}

func TestExtractSoundsTakesPrecedenceOverSamples(t *testing.T) {
	sounds := mustParse(t, `{"sounds":{"a":["x"]},"samples":{"b":["y"]}}`)
	if len(sounds) != 1 {
		t.Fatalf("expected 1 sound, got %d", len(sounds))
	}
	if sounds[0].Category != "a" {
		t.Errorf("expected category %q, got %q", "a", sounds[0].Category)
	}
}

func TestExtractNaming(t *testing.T) {
	single := mustParse(t, `{"sounds":{"kick":["u1"]}}`)
	if single[0].Name != "kick" {
		t.Errorf("single-element category: expected name %q, got %q", "kick", single[0].Name)
	}

	multi := mustParse(t, `{"sounds":{"kick":["u1","u2"]}}`)
	if len(multi) != 2 {
		t.Fatalf("expected 2 sounds, got %d", len(multi))
	}
	if multi[0].Name != "kick-1" || multi[1].Name != "kick-2" {
		t.Errorf("expected names kick-1/kick-2, got %q/%q", multi[0].Name, multi[1].Name)
	}
}

func TestExtractSkipsEmptyAndNonStringEntries(t *testing.T) {
	sounds := mustParse(t, `{"sounds":{"kick":["u1",""," ",42,null,"u2"]}}`)
	if len(sounds) != 2 {
		t.Fatalf("expected 2 sounds after skips, got %d", len(sounds))
	}
	if sounds[0].URL != "u1" || sounds[1].URL != "u2" {
		t.Errorf("expected urls u1/u2, got %q/%q", sounds[0].URL, sounds[1].URL)
	}
}

func TestExtractCountMatchesCategorySizes(t *testing.T) {
	sounds := mustParse(t, `{"sounds":{"kick":["a","b"],"snare":["c"],"hat":["d","e","f"]}}`)
	if len(sounds) != 6 {
		t.Errorf("expected 6 sounds, got %d", len(sounds))
	}
}

func TestExtractURLResolution(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		url  string
	}{
		{
			name: "relative path prefixed with base",
			doc:  `{"_base":"https://cdn.example/","sounds":{"kick":["k1.wav"]}}`,
			url:  "https://cdn.example/k1.wav",
		},
		{
			name: "absolute https passes through",
			doc:  `{"_base":"https://cdn.example/","sounds":{"kick":["https://other.cdn/k2.wav"]}}`,
			url:  "https://other.cdn/k2.wav",
		},
		{
			name: "absolute http passes through",
			doc:  `{"sounds":{"kick":["http://plain.host/k.wav"]}}`,
			url:  "http://plain.host/k.wav",
		},
		{
			name: "no base leaves path unresolved",
			doc:  `{"sounds":{"kick":["k.wav"]}}`,
			url:  "k.wav",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sounds := mustParse(t, tt.doc)
			if len(sounds) != 1 {
				t.Fatalf("expected 1 sound, got %d", len(sounds))
			}
			if sounds[0].URL != tt.url {
				t.Errorf("expected url %q, got %q", tt.url, sounds[0].URL)
			}
		})
	}
}

func TestExtractIDsIndexPerCategory(t *testing.T) {
	sounds := mustParse(t, `{"sounds":{"kick":["a","b"],"snare":["c"]}}`)
	want := []string{"acme/drums/kick/0", "acme/drums/kick/1", "acme/drums/snare/0"}
	for i, id := range want {
		if sounds[i].ID != id {
			t.Errorf("sound %d: expected id %q, got %q", i, id, sounds[i].ID)
		}
	}
}

func TestExtractEndToEnd(t *testing.T) {
	doc := `{"_base":"https://cdn.example/","sounds":{"kick":["k1.wav","https://other.cdn/k2.wav"]}}`
	sounds, err := Parse([]byte(doc), "acme", "drums", "strudel.json")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(sounds) != 2 {
		t.Fatalf("expected 2 sounds, got %d", len(sounds))
	}

	first, second := sounds[0], sounds[1]
	if first.ID != "acme/drums/kick/0" || second.ID != "acme/drums/kick/1" {
		t.Errorf("unexpected ids %q, %q", first.ID, second.ID)
	}
	if first.URL != "https://cdn.example/k1.wav" {
		t.Errorf("unexpected first url %q", first.URL)
	}
	if second.URL != "https://other.cdn/k2.wav" {
		t.Errorf("unexpected second url %q", second.URL)
	}
	if first.Name != "kick-1" || second.Name != "kick-2" {
		t.Errorf("unexpected names %q, %q", first.Name, second.Name)
	}
	if first.Repository != "acme/drums" || first.Owner != "acme" || first.Path != "strudel.json" {
		t.Errorf("unexpected provenance %q %q %q", first.Repository, first.Owner, first.Path)
	}
}

func TestParseErrorCarriesProvenance(t *testing.T) {
	_, err := Parse([]byte(`{broken`), "acme", "drums", "strudel.json")
	if !errors.Is(err, domain.ErrInvalidManifest) {
		t.Fatalf("expected ErrInvalidManifest, got %v", err)
	}
	for _, part := range []string{"acme", "drums", "strudel.json"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("error message missing %q: %s", part, err.Error())
		}
	}
}

func TestExtractInvalidManifestYieldsNoSounds(t *testing.T) {
	sounds := mustParse(t, `"just a string"`)
	if len(sounds) != 0 {
		t.Errorf("expected no sounds for non-object manifest, got %d", len(sounds))
	}
}

func mustParse(t *testing.T, doc string) []domain.Sound {
	t.Helper()
	sounds, err := Parse([]byte(doc), "acme", "drums", "strudel.json")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return sounds
}
