// Package github implements the search provider and manifest fetchers on the
// GitHub REST API and raw content host.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/therebelrobot/open-strudel-samples/internal/domain"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultRawBase = "https://raw.githubusercontent.com"
	defaultTimeout = 30 * time.Second
	userAgent      = "open-strudel-samples/1.0"

	// ManifestFilename is the exact file name a search hit must carry.
	ManifestFilename = "strudel.json"
)

// Client implements domain.SearchClient and domain.ManifestFetcher.
type Client struct {
	apiBase    string
	rawBase    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a GitHub client. The token is optional; unauthenticated
// search works under a tighter rate limit.
func NewClient(token string, logger *slog.Logger) *Client {
	return NewClientWithHosts(defaultAPIBase, defaultRawBase, token, logger)
}

// NewClientWithHosts creates a client against explicit API and raw-content
// hosts.
func NewClientWithHosts(apiBase, rawBase, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiBase: strings.TrimRight(apiBase, "/"),
		rawBase: strings.TrimRight(rawBase, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Search returns one page of strudel.json hits. The API already restricts by
// filename, but matches are additionally filtered client-side to the exact
// name since the filename qualifier also matches prefixed variants.
func (c *Client) Search(ctx context.Context, query string, page, perPage int) (*domain.SearchResult, error) {
	q := "filename:" + ManifestFilename
	if strings.TrimSpace(query) != "" {
		q += " " + strings.TrimSpace(query)
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	body, err := c.doRequest(ctx, c.apiBase+"/search/code?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("search response parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	result := &domain.SearchResult{TotalCount: resp.TotalCount}
	for _, item := range resp.Items {
		if !strings.EqualFold(item.Name, ManifestFilename) {
			continue
		}
		result.Items = append(result.Items, c.mapItem(item))
	}
	return result, nil
}

// FetchManifest downloads a manifest from the raw content host.
func (c *Client) FetchManifest(ctx context.Context, owner, repo, branch, path string) ([]byte, error) {
	if branch == "" {
		branch = "main"
	}
	return c.doRequest(ctx, c.RawContentURL(owner, repo, branch, path))
}

// FetchURL downloads a manifest from an arbitrary URL. No GitHub-specific
// assumptions apply.
func (c *Client) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	return c.doRequest(ctx, rawURL)
}

// ownHost reports whether the URL targets the API or raw-content host the
// client was built with. The token must never be sent anywhere else.
func (c *Client) ownHost(reqURL string) bool {
	return strings.HasPrefix(reqURL, c.apiBase+"/") || strings.HasPrefix(reqURL, c.rawBase+"/")
}

// RawContentURL builds the raw download URL for a repository file.
func (c *Client) RawContentURL(owner, repo, branch, path string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBase, owner, repo, branch, path)
}

// doRequest performs a GET and returns the body. The bearer token and the
// GitHub Accept header are attached only for the client's own hosts; custom
// manifest URLs are fetched as plain requests so the credential never leaves
// GitHub. Transport failures map to ErrServerOffline and 401/403 to
// ErrAuthFailed so callers can prompt for a credential.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	if strings.HasPrefix(reqURL, c.apiBase+"/") {
		req.Header.Set("Accept", "application/vnd.github+json")
	}
	if c.token != "" && c.ownHost(reqURL) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("github request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("github request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, domain.ErrAuthFailed
	default:
		c.logger.Error("github request error", "status", resp.StatusCode, "url", reqURL)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

func (c *Client) mapItem(item searchItem) domain.SearchItem {
	branch := item.Repository.DefaultBranch
	if branch == "" {
		branch = "main"
	}
	owner := item.Repository.Owner.Login
	return domain.SearchItem{
		Owner:       owner,
		Repo:        item.Repository.Name,
		Branch:      branch,
		Path:        item.Path,
		Stars:       item.Repository.Stars,
		Language:    item.Repository.Language,
		Description: item.Repository.Description,
		HTMLURL:     item.HTMLURL,
		RawURL:      c.RawContentURL(owner, item.Repository.Name, branch, item.Path),
	}
}
