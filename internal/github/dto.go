package github

// searchResponse mirrors the code search API payload. Only the fields the
// application reads are declared.
type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []searchItem `json:"items"`
}

type searchItem struct {
	Name       string         `json:"name"`
	Path       string         `json:"path"`
	HTMLURL    string         `json:"html_url"`
	Repository itemRepository `json:"repository"`
}

type itemRepository struct {
	Name          string    `json:"name"`
	Owner         itemOwner `json:"owner"`
	DefaultBranch string    `json:"default_branch"`
	Stars         int       `json:"stargazers_count"`
	Language      string    `json:"language"`
	Description   string    `json:"description"`
}

type itemOwner struct {
	Login string `json:"login"`
}
