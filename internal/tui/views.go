package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/therebelrobot/open-strudel-samples/internal/domain"
	"github.com/therebelrobot/open-strudel-samples/internal/library"
	"github.com/therebelrobot/open-strudel-samples/internal/transfer"
	"github.com/therebelrobot/open-strudel-samples/internal/tui/styles"
)

// entryKind distinguishes repo header rows from sound rows
type entryKind int

const (
	entryRepo entryKind = iota
	entrySound
)

// entry is one selectable row in the preview and saved views. Sound rows
// carry their parent repo so row-level actions can target either.
type entry struct {
	kind  entryKind
	repo  domain.Repository
	sound domain.Sound
}

// buildEntries flattens repositories into selectable rows, honoring the
// collapsed set, the active filter, and the active sort. Sounds are grouped
// by category within each repo. Repos with no matching sounds are hidden
// while a filter is active.
func (m *Model) buildEntries(repos []domain.Repository) []entry {
	var out []entry
	for _, repo := range repos {
		sounds := library.FilterSounds(repo.Sounds, m.Filter)
		if m.Filter != "" && len(sounds) == 0 {
			continue
		}
		out = append(out, entry{kind: entryRepo, repo: repo})
		if m.Library.IsCollapsed(repo.Key()) {
			continue
		}
		sorted := library.SortSounds(sounds, m.Sort)
		for _, g := range library.GroupByCategory(sorted) {
			for _, s := range g.Sounds {
				out = append(out, entry{kind: entrySound, repo: repo, sound: s})
			}
		}
	}
	return out
}

func (m *Model) entryAt(tab ViewTab) (entry, bool) {
	var entries []entry
	switch tab {
	case ViewPreview:
		entries = m.buildEntries(m.Library.Previews())
	case ViewSaved:
		entries = m.buildEntries(m.Library.Saved())
	default:
		return entry{}, false
	}
	c := m.cursors[tab]
	if c < 0 || c >= len(entries) {
		return entry{}, false
	}
	return entries[c], true
}

// visibleSearchItems applies the local filter on top of the current page
func (m *Model) visibleSearchItems() []domain.SearchItem {
	if m.SearchResult == nil {
		return nil
	}
	return library.RankSearchItems(m.SearchResult.Items, m.Filter)
}

// jumpToBestMatch moves the cursor to the closest-named matching sound after
// a filter change, so the best hit is selected instead of the first row.
func (m *Model) jumpToBestMatch() {
	if m.Filter == "" || (m.Tab != ViewPreview && m.Tab != ViewSaved) {
		return
	}

	var repos []domain.Repository
	if m.Tab == ViewPreview {
		repos = m.Library.Previews()
	} else {
		repos = m.Library.Saved()
	}

	entries := m.buildEntries(repos)
	var sounds []domain.Sound
	for _, e := range entries {
		if e.kind == entrySound {
			sounds = append(sounds, e.sound)
		}
	}

	ranked := library.RankSounds(sounds, m.Filter)
	if len(ranked) == 0 {
		return
	}
	for i, e := range entries {
		if e.kind == entrySound && e.sound.ID == ranked[0].ID {
			m.cursors[m.Tab] = i
			return
		}
	}
}

func (m *Model) searchItemAt() (domain.SearchItem, bool) {
	items := m.visibleSearchItems()
	c := m.cursors[ViewSearch]
	if c < 0 || c >= len(items) {
		return domain.SearchItem{}, false
	}
	return items[c], true
}

func (m *Model) blockedKeyAt() (string, bool) {
	blocked := m.Library.Blocked()
	c := m.cursors[ViewBlocked]
	if c < 0 || c >= len(blocked) {
		return "", false
	}
	return blocked[c], true
}

func nextSortField(f library.SortField) library.SortField {
	switch f {
	case library.SortByName:
		return library.SortByCategory
	case library.SortByCategory:
		return library.SortByRepository
	default:
		return library.SortByName
	}
}

// View renders the full screen
func (m Model) View() string {
	if !m.Ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("strudel samples"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.State == StateHelp {
		b.WriteString(m.renderHelp())
		return b.String()
	}

	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(tabOrder))
	for _, tab := range tabOrder {
		label := tab.String()
		switch tab {
		case ViewPreview:
			label = fmt.Sprintf("%s (%d)", label, len(m.Library.Previews()))
		case ViewSaved:
			label = fmt.Sprintf("%s (%d)", label, len(m.Library.Saved()))
		case ViewBlocked:
			label = fmt.Sprintf("%s (%d)", label, len(m.Library.Blocked()))
		}
		if tab == m.Tab {
			parts = append(parts, styles.TabActive.Render(label))
		} else {
			parts = append(parts, styles.TabInactive.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderBody() string {
	switch m.Tab {
	case ViewSearch:
		return m.renderSearch()
	case ViewPreview:
		return m.renderRepoList(m.Library.Previews(), "no previews; load results from the search tab")
	case ViewSaved:
		return m.renderRepoList(m.Library.Saved(), "no saved repositories")
	case ViewBlocked:
		return m.renderBlocked()
	}
	return ""
}

func (m Model) renderSearch() string {
	if m.SearchResult == nil {
		return styles.Dimmed.Render("press / to search github for strudel.json manifests")
	}
	items := m.visibleSearchItems()
	if len(items) == 0 {
		if m.Filter != "" {
			return styles.Dimmed.Render("no results match filter " + strconv.Quote(m.Filter))
		}
		return styles.Dimmed.Render("no results")
	}

	lines := make([]string, 0, len(items))
	for i, item := range items {
		line := fmt.Sprintf("%s/%s  %s", item.Owner, item.Repo, item.Path)
		var tags []string
		if item.Stars > 0 {
			tags = append(tags, fmt.Sprintf("★%d", item.Stars))
		}
		if item.Language != "" {
			tags = append(tags, item.Language)
		}
		if m.Library.IsBlocked(item.Key()) {
			tags = append(tags, "blocked")
		} else if m.Library.IsSaved(item.Key()) {
			tags = append(tags, "saved")
		} else if _, ok := m.Library.PreviewByKey(item.Key()); ok {
			tags = append(tags, "previewing")
		}
		if len(tags) > 0 {
			line += "  " + styles.Dimmed.Render(strings.Join(tags, " "))
		}
		lines = append(lines, m.renderRow(line, i == m.cursors[ViewSearch], m.Library.IsBlocked(item.Key())))
	}
	return m.window(lines, m.cursors[ViewSearch])
}

func (m Model) renderRepoList(repos []domain.Repository, empty string) string {
	entries := m.buildEntries(repos)
	if len(entries) == 0 {
		if m.Filter != "" {
			return styles.Dimmed.Render("no sounds match filter " + strconv.Quote(m.Filter))
		}
		return styles.Dimmed.Render(empty)
	}

	playing := m.Library.CurrentlyPlaying()
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		var line string
		if e.kind == entryRepo {
			marker := "▾"
			if m.Library.IsCollapsed(e.repo.Key()) {
				marker = "▸"
			}
			name := e.repo.FullName()
			if e.repo.IsCustomURL {
				name = e.repo.Repo + " " + styles.Dimmed.Render("(custom)")
			}
			line = fmt.Sprintf("%s %s  %s", marker, styles.RepoHeader.Render(name), styles.Dimmed.Render(fmt.Sprintf("%d sounds", len(e.repo.Sounds))))
		} else {
			name := e.sound.Name
			if e.sound.ID == playing && playing != "" {
				name = styles.Playing.Render("♪ " + name)
			}
			line = fmt.Sprintf("    %s  %s", name, styles.Category.Render(e.sound.DisplayCategory()))
		}
		lines = append(lines, m.renderRow(line, i == m.cursors[m.Tab], false))
	}
	return m.window(lines, m.cursors[m.Tab])
}

func (m Model) renderBlocked() string {
	blocked := m.Library.Blocked()
	if len(blocked) == 0 {
		return styles.Dimmed.Render("blocklist is empty")
	}
	lines := make([]string, 0, len(blocked))
	for i, k := range blocked {
		lines = append(lines, m.renderRow(k, i == m.cursors[ViewBlocked], false))
	}
	return m.window(lines, m.cursors[ViewBlocked])
}

func (m Model) renderRow(line string, selected, dimmed bool) string {
	prefix := "  "
	if selected {
		prefix = styles.Selected.Render("> ")
	}
	if dimmed {
		line = styles.Dimmed.Render(line)
	}
	return prefix + line
}

// window clips lines to the visible height, keeping the cursor in view
func (m Model) window(lines []string, cursor int) string {
	visible := m.Height - 6
	if visible < 1 || len(lines) <= visible {
		return strings.Join(lines, "\n")
	}
	start := cursor - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > len(lines) {
		start = len(lines) - visible
	}
	return strings.Join(lines[start:start+visible], "\n")
}

func (m Model) renderFooter() string {
	var b strings.Builder
	b.WriteString("\n")

	switch m.State {
	case StateInput:
		b.WriteString(m.Input.View())
		b.WriteString("\n")
	case StateConfirmImport:
		b.WriteString(styles.Prompt.Render(confirmPrompt(m.pendingImprt, m.importPath)))
		b.WriteString("\n")
	default:
		if m.Loading {
			b.WriteString(styles.StatusInfo.Render("working..."))
		} else if m.StatusMsg != "" {
			if m.StatusIsErr {
				b.WriteString(styles.StatusError.Render(m.StatusMsg))
			} else {
				b.WriteString(styles.StatusInfo.Render(m.StatusMsg))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.Help.Render(m.helpLine()))
	return b.String()
}

func (m Model) helpLine() string {
	common := "tab: views • ?: help • q: quit"
	switch m.Tab {
	case ViewSearch:
		return "/: search • f: narrow • enter: load • b: block • n/p: page • " + common
	case ViewPreview:
		return "enter: play/toggle • s: save • x: remove • X: clear • b: block • /: filter • o: sort • space: stop • " + common
	case ViewSaved:
		return "enter: play/toggle • d: unsave • b: block • /: filter • o: sort • E: export • I: import • " + common
	case ViewBlocked:
		return "u: unblock • C: clear all • " + common
	}
	return common
}

func (m Model) renderHelp() string {
	rows := [][2]string{
		{"j/k, ↑/↓", "move"},
		{"tab / shift+tab", "switch view"},
		{"/", "search github (search view) or filter sounds"},
		{"f", "filter the current list"},
		{"enter", "load result, toggle repo, or play sound"},
		{"space", "stop playback"},
		{"s / d", "save / unsave repository"},
		{"b / u", "block / unblock repository"},
		{"x", "remove from preview"},
		{"X", "clear all previews"},
		{"c", "collapse or expand repository"},
		{"o", "cycle sort (name, category, repository)"},
		{"n / p", "next / previous search page"},
		{"a", "add custom manifest url"},
		{"E / I", "export / import library"},
		{"C", "clear blocklist"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(styles.RepoHeader.Render("keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-18s %s\n", r[0], r[1]))
	}
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("press any key to return"))
	return b.String()
}

func confirmPrompt(export *transfer.Export, path string) string {
	if export == nil {
		return ""
	}
	return fmt.Sprintf("replace library with %d repositories, %d blocked, %d custom urls from %s? (y/n)",
		len(export.Repositories), len(export.Blocklist), len(export.CustomURLs), path)
}

func searchStatus(result *domain.SearchResult, page int) string {
	if result.TotalCount == 0 {
		return "no manifests found"
	}
	return fmt.Sprintf("%d manifests found (page %d)", result.TotalCount, page)
}

func loadedStatus(repo domain.Repository) string {
	return fmt.Sprintf("loaded %s: %d sounds", repo.Key(), len(repo.Sounds))
}

func exportStatus(msg ExportDoneMsg) string {
	return fmt.Sprintf("exported %d repositories to %s", msg.Count, msg.Path)
}

func importStatus(export *transfer.Export, path string) string {
	return fmt.Sprintf("imported %d repositories, %d blocked, %d custom urls from %s",
		len(export.Repositories), len(export.Blocklist), len(export.CustomURLs), path)
}
