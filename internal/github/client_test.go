package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/therebelrobot/open-strudel-samples/internal/domain"
	"github.com/therebelrobot/open-strudel-samples/internal/log"
)

const searchPayload = `{
  "total_count": 3,
  "items": [
    {
      "name": "strudel.json",
      "path": "strudel.json",
      "html_url": "https://github.com/acme/drums/blob/main/strudel.json",
      "repository": {
        "name": "drums",
        "owner": {"login": "acme"},
        "default_branch": "main",
        "stargazers_count": 12,
        "language": "JavaScript",
        "description": "drum samples"
      }
    },
    {
      "name": "STRUDEL.JSON",
      "path": "sounds/STRUDEL.JSON",
      "html_url": "https://github.com/zoo/tones/blob/master/sounds/STRUDEL.JSON",
      "repository": {
        "name": "tones",
        "owner": {"login": "zoo"},
        "default_branch": "master"
      }
    },
    {
      "name": "my-strudel.json",
      "path": "my-strudel.json",
      "html_url": "https://github.com/bad/match/blob/main/my-strudel.json",
      "repository": {
        "name": "match",
        "owner": {"login": "bad"},
        "default_branch": "main"
      }
    }
  ]
}`

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithHosts(server.URL, server.URL, "test-token", log.NullLogger()), server
}

func TestSearchFiltersExactFilename(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/code" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("q"); got != "filename:strudel.json drum" {
			t.Errorf("unexpected query %q", got)
		}
		if q.Get("page") != "1" || q.Get("per_page") != "30" {
			t.Errorf("unexpected pagination %v", q)
		}
		w.Write([]byte(searchPayload))
	})

	result, err := client.Search(context.Background(), "drum", 1, 30)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.TotalCount != 3 {
		t.Errorf("expected total count 3, got %d", result.TotalCount)
	}
	// "my-strudel.json" is dropped; the case-insensitive exact match stays.
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items after filename filter, got %d", len(result.Items))
	}

	first := result.Items[0]
	if first.Owner != "acme" || first.Repo != "drums" || first.Branch != "main" {
		t.Errorf("unexpected first item %+v", first)
	}
	if first.Stars != 12 || first.Language != "JavaScript" {
		t.Errorf("unexpected repository metadata %+v", first)
	}
	if first.Key() != "acme/drums/strudel.json" {
		t.Errorf("unexpected key %q", first.Key())
	}
}

func TestSearchSendsAuthHeader(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("unexpected accept header %q", got)
		}
		w.Write([]byte(`{"total_count":0,"items":[]}`))
	})

	if _, err := client.Search(context.Background(), "", 1, 30); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
}

func TestSearchAuthFailure(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		_, err := client.Search(context.Background(), "x", 1, 30)
		if !errors.Is(err, domain.ErrAuthFailed) {
			t.Errorf("status %d: expected ErrAuthFailed, got %v", status, err)
		}
	}
}

func TestSearchServerOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClientWithHosts(server.URL, server.URL, "", log.NullLogger())
	server.Close()

	_, err := client.Search(context.Background(), "x", 1, 30)
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Errorf("expected ErrServerOffline, got %v", err)
	}
}

func TestFetchManifest(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme/drums/main/strudel.json" {
			t.Errorf("unexpected raw path %q", r.URL.Path)
		}
		w.Write([]byte(`{"sounds":{"kick":["k.wav"]}}`))
	})

	body, err := client.FetchManifest(context.Background(), "acme", "drums", "main", "strudel.json")
	if err != nil {
		t.Fatalf("FetchManifest failed: %v", err)
	}
	if len(body) == 0 {
		t.Error("expected manifest body")
	}
}

func TestFetchManifestDefaultsBranch(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/acme/drums/main/strudel.json" {
			t.Errorf("expected main branch fallback, got path %q", r.URL.Path)
		}
		w.Write([]byte(`{}`))
	})

	if _, err := client.FetchManifest(context.Background(), "acme", "drums", "", "strudel.json"); err != nil {
		t.Fatalf("FetchManifest failed: %v", err)
	}
}

func TestFetchManifestNotFound(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FetchManifest(context.Background(), "acme", "drums", "main", "strudel.json")
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestFetchURLOmitsCredentials(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"kick":["k.wav"]}`))
	}))
	t.Cleanup(server.Close)

	// Real GitHub hosts, so the fetched URL is a third-party host.
	client := NewClient("ghp-secret", log.NullLogger())

	if _, err := client.FetchURL(context.Background(), server.URL+"/strudel.json"); err != nil {
		t.Fatalf("FetchURL failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("token must not be sent to third-party hosts, got %q", gotAuth)
	}
	if gotAccept == "application/vnd.github+json" {
		t.Error("github accept header must not be sent to third-party hosts")
	}
}

func TestFetchManifestSendsAuthToOwnHost(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected token on raw content host, got %q", got)
		}
		w.Write([]byte(`{}`))
	})

	if _, err := client.FetchManifest(context.Background(), "acme", "drums", "main", "strudel.json"); err != nil {
		t.Fatalf("FetchManifest failed: %v", err)
	}
}

func TestFetchURL(t *testing.T) {
	client, server := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/any/where.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"kick":["k.wav"]}`))
	})

	body, err := client.FetchURL(context.Background(), server.URL+"/any/where.json")
	if err != nil {
		t.Fatalf("FetchURL failed: %v", err)
	}
	if len(body) == 0 {
		t.Error("expected body")
	}
}
