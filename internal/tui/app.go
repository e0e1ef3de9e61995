package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/therebelrobot/open-strudel-samples/internal/domain"
	"github.com/therebelrobot/open-strudel-samples/internal/library"
	"github.com/therebelrobot/open-strudel-samples/internal/transfer"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateInput
	StateConfirmImport
	StateHelp
)

// ViewTab identifies which collection the main list shows
type ViewTab int

const (
	ViewSearch ViewTab = iota
	ViewPreview
	ViewSaved
	ViewBlocked
)

func (v ViewTab) String() string {
	switch v {
	case ViewSearch:
		return "Search"
	case ViewPreview:
		return "Preview"
	case ViewSaved:
		return "Saved"
	case ViewBlocked:
		return "Blocked"
	}
	return "Unknown"
}

var tabOrder = []ViewTab{ViewSearch, ViewPreview, ViewSaved, ViewBlocked}

// InputKind identifies what the text input prompt is collecting
type InputKind int

const (
	InputSearch InputKind = iota
	InputFilter
	InputCustomURL
	InputCustomName
	InputExportPath
	InputImportPath
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Tab   ViewTab
	Ready bool

	// Services
	Library *library.Service
	Search  domain.SearchClient
	Player  domain.Player

	Keys   KeyMap
	logger *slog.Logger

	// Search state
	SearchResult *domain.SearchResult
	SearchQuery  string
	SearchPage   int
	PerPage      int

	// Library view state
	Filter string
	Sort   library.SortField

	// Cursor position per tab
	cursors map[ViewTab]int

	// Text input prompt
	Input        textinput.Model
	inputKind    InputKind
	pendingURL   string
	pendingImprt *transfer.Export
	importPath   string

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	Loading     bool
}

// NewModel creates a new application model
func NewModel(svc *library.Service, search domain.SearchClient, player domain.Player, perPage int, defaultSort string, logger *slog.Logger) Model {
	ti := textinput.New()
	ti.CharLimit = 256

	if logger == nil {
		logger = slog.Default()
	}

	return Model{
		State:   StateBrowsing,
		Tab:     ViewSearch,
		Library: svc,
		Search:  search,
		Player:  player,
		Keys:    DefaultKeyMap(),
		logger:  logger,
		PerPage: perPage,
		Sort:    sortFieldFromName(defaultSort),
		cursors: make(map[ViewTab]int),
		Input:   ti,
	}
}

func sortFieldFromName(name string) library.SortField {
	switch name {
	case "category":
		return library.SortByCategory
	case "repository":
		return library.SortByRepository
	default:
		return library.SortByName
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case SearchResultsMsg:
		m.Loading = false
		m.SearchResult = msg.Result
		m.SearchQuery = msg.Query
		m.SearchPage = msg.Page
		m.cursors[ViewSearch] = 0
		m.setStatus(searchStatus(msg.Result, msg.Page), false)
		return m, nil

	case RepoLoadedMsg:
		m.Loading = false
		m.setStatus(loadedStatus(msg.Repo), false)
		return m, nil

	case CustomLoadedMsg:
		m.Loading = false
		m.setStatus(loadedStatus(msg.Repo)+" (saved)", false)
		return m, nil

	case LoadSkippedMsg:
		m.Loading = false
		m.setStatus(msg.Reason, false)
		return m, nil

	case LibraryChangedMsg:
		m.clampCursors()
		return m, nil

	case PlaybackStartedMsg:
		m.Library.SetCurrentlyPlaying(msg.SoundID)
		return m, nil

	case PlaybackDoneMsg:
		m.Library.SetCurrentlyPlaying("")
		return m, nil

	case ExportDoneMsg:
		m.setStatus(exportStatus(msg), false)
		return m, nil

	case ImportReadMsg:
		m.pendingImprt = msg.Export
		m.importPath = msg.Path
		m.State = StateConfirmImport
		return m, nil

	case StatusMsg:
		m.setStatus(msg.Text, false)
		return m, nil

	case ErrMsg:
		m.Loading = false
		m.setStatus(msg.Error(), true)
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		return m, nil
	}

	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
}

// applyImport replaces the saved collections with the confirmed payload
func (m *Model) applyImport() {
	if m.pendingImprt == nil {
		return
	}
	m.Library.ImportRepositories(m.pendingImprt.Repositories)
	// Legacy exports never carried these; leave the live collections alone
	// unless the payload did.
	if m.pendingImprt.HasBlocklist {
		m.Library.ImportBlocklist(m.pendingImprt.Blocklist)
	}
	if m.pendingImprt.HasCustomURLs {
		m.Library.ImportCustomURLs(m.pendingImprt.CustomURLs)
	}
	m.setStatus(importStatus(m.pendingImprt, m.importPath), false)
	m.pendingImprt = nil
	m.importPath = ""
}

// clampCursors keeps every cursor inside its list after the library mutates
func (m *Model) clampCursors() {
	for _, tab := range tabOrder {
		n := m.rowCount(tab)
		if n == 0 {
			m.cursors[tab] = 0
			continue
		}
		if m.cursors[tab] >= n {
			m.cursors[tab] = n - 1
		}
	}
}

func (m *Model) rowCount(tab ViewTab) int {
	switch tab {
	case ViewSearch:
		return len(m.visibleSearchItems())
	case ViewPreview:
		return len(m.buildEntries(m.Library.Previews()))
	case ViewSaved:
		return len(m.buildEntries(m.Library.Saved()))
	case ViewBlocked:
		return len(m.Library.Blocked())
	}
	return 0
}

func (m *Model) moveCursor(delta int) {
	n := m.rowCount(m.Tab)
	if n == 0 {
		return
	}
	c := m.cursors[m.Tab] + delta
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	m.cursors[m.Tab] = c
}

func (m *Model) nextTab(delta int) {
	idx := int(m.Tab) + delta
	if idx < 0 {
		idx = len(tabOrder) - 1
	}
	if idx >= len(tabOrder) {
		idx = 0
	}
	m.Tab = tabOrder[idx]
	m.setStatus("", false)
}

// openInput switches to the text prompt state
func (m *Model) openInput(kind InputKind, prompt, initial string) tea.Cmd {
	m.inputKind = kind
	m.Input.Prompt = prompt
	m.Input.SetValue(initial)
	m.Input.CursorEnd()
	m.State = StateInput
	return m.Input.Focus()
}

func (m *Model) closeInput() {
	m.Input.Blur()
	m.Input.SetValue("")
	m.State = StateBrowsing
}

// resetPendingURL drops a half-entered custom url flow
func (m *Model) resetPendingURL() {
	m.pendingURL = ""
}
