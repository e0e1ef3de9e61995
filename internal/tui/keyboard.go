package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg routes key presses to the handler for the current state
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateInput:
		return m.handleInputKey(msg)
	case StateConfirmImport:
		return m.handleConfirmKey(msg)
	case StateHelp:
		m.State = StateBrowsing
		return m, nil
	}
	return m.handleBrowsingKey(msg)
}

func (m Model) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, m.Keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.Keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.Keys.NextTab):
		m.nextTab(1)
		return m, nil

	case key.Matches(msg, m.Keys.PrevTab):
		m.nextTab(-1)
		return m, nil

	case key.Matches(msg, m.Keys.Escape):
		if m.Filter != "" {
			m.Filter = ""
			m.clampCursors()
		}
		m.setStatus("", false)
		return m, nil

	case key.Matches(msg, m.Keys.Search):
		if m.Tab == ViewSearch {
			return m, m.openInput(InputSearch, "search github: ", m.SearchQuery)
		}
		if m.Tab == ViewPreview || m.Tab == ViewSaved {
			return m, m.openInput(InputFilter, "filter sounds: ", m.Filter)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Filter):
		if m.Tab == ViewBlocked {
			return m, nil
		}
		return m, m.openInput(InputFilter, "filter: ", m.Filter)

	case key.Matches(msg, m.Keys.Enter):
		return m.handleEnter()

	case key.Matches(msg, m.Keys.Stop):
		return m, StopCmd(m.Player)

	case key.Matches(msg, m.Keys.Save):
		if e, ok := m.entryAt(m.Tab); ok && m.Tab == ViewPreview {
			m.Library.SaveRepository(e.repo)
			m.setStatus("saved "+e.repo.Key(), false)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Unsave):
		if e, ok := m.entryAt(m.Tab); ok && m.Tab == ViewSaved {
			m.Library.UnsaveRepository(e.repo.Key())
			if e.repo.IsCustomURL {
				// custom repos carry their source url in Path
				m.Library.RemoveCustomURL(e.repo.Path)
			}
			m.setStatus("unsaved "+e.repo.Key(), false)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Block):
		return m.handleBlock()

	case key.Matches(msg, m.Keys.Unblock):
		if m.Tab == ViewBlocked {
			if k, ok := m.blockedKeyAt(); ok {
				m.Library.UnblockRepository(k)
				m.setStatus("unblocked "+k, false)
			}
		}
		return m, nil

	case key.Matches(msg, m.Keys.ClearBlocklist):
		if m.Tab == ViewBlocked {
			m.Library.ClearBlocklist()
			m.setStatus("blocklist cleared", false)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Remove):
		if e, ok := m.entryAt(m.Tab); ok && m.Tab == ViewPreview {
			m.Library.RemovePreview(e.repo.Key())
			m.setStatus("removed "+e.repo.Key(), false)
		}
		return m, nil

	case key.Matches(msg, m.Keys.ClearPreviews):
		if m.Tab == ViewPreview {
			m.Library.ClearPreviews()
			m.setStatus("previews cleared", false)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Collapse):
		if e, ok := m.entryAt(m.Tab); ok && (m.Tab == ViewPreview || m.Tab == ViewSaved) {
			m.Library.ToggleCollapsed(e.repo.Key())
		}
		return m, nil

	case key.Matches(msg, m.Keys.Sort):
		m.Sort = nextSortField(m.Sort)
		m.setStatus("sort: "+m.Sort.String(), false)
		return m, nil

	case key.Matches(msg, m.Keys.NextPage):
		return m.handlePage(1)

	case key.Matches(msg, m.Keys.PrevPage):
		return m.handlePage(-1)

	case key.Matches(msg, m.Keys.CustomURL):
		return m, m.openInput(InputCustomURL, "manifest url: ", "")

	case key.Matches(msg, m.Keys.Export):
		return m, m.openInput(InputExportPath, "export to: ", "strudel-library.json")

	case key.Matches(msg, m.Keys.Import):
		return m, m.openInput(InputImportPath, "import from: ", "")
	}

	return m, nil
}

// handleEnter loads a search hit, toggles a repo header, or plays a sound
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.Tab {
	case ViewSearch:
		item, ok := m.searchItemAt()
		if !ok {
			return m, nil
		}
		m.Loading = true
		m.setStatus("loading "+item.Key(), false)
		return m, LoadRepoCmd(m.Library, item)

	case ViewPreview, ViewSaved:
		e, ok := m.entryAt(m.Tab)
		if !ok {
			return m, nil
		}
		if e.kind == entryRepo {
			m.Library.ToggleCollapsed(e.repo.Key())
			return m, nil
		}
		return m, PlayCmd(m.Player, e.sound)
	}
	return m, nil
}

func (m Model) handleBlock() (tea.Model, tea.Cmd) {
	switch m.Tab {
	case ViewSearch:
		if item, ok := m.searchItemAt(); ok {
			m.Library.BlockRepository(item.Key())
			m.setStatus("blocked "+item.Key(), false)
		}
	case ViewPreview, ViewSaved:
		if e, ok := m.entryAt(m.Tab); ok {
			m.Library.BlockRepository(e.repo.Key())
			m.setStatus("blocked "+e.repo.Key(), false)
		}
	}
	return m, nil
}

func (m Model) handlePage(delta int) (tea.Model, tea.Cmd) {
	if m.Tab != ViewSearch || m.SearchResult == nil {
		return m, nil
	}
	page := m.SearchPage + delta
	if page < 1 {
		return m, nil
	}
	if delta > 0 && m.SearchPage*m.PerPage >= m.SearchResult.TotalCount {
		return m, nil
	}
	m.Loading = true
	return m, SearchCmd(m.Search, m.SearchQuery, page, m.PerPage)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEscape:
		m.resetPendingURL()
		m.closeInput()
		return m, nil

	case tea.KeyEnter:
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.Input.Value())

	switch m.inputKind {
	case InputSearch:
		m.closeInput()
		m.Loading = true
		m.setStatus("searching...", false)
		return m, SearchCmd(m.Search, value, 1, m.PerPage)

	case InputFilter:
		m.Filter = value
		m.closeInput()
		m.clampCursors()
		m.jumpToBestMatch()
		return m, nil

	case InputCustomURL:
		if value == "" {
			m.closeInput()
			return m, nil
		}
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			m.closeInput()
			m.setStatus("url must start with http:// or https://", true)
			return m, nil
		}
		m.pendingURL = value
		return m, m.openInput(InputCustomName, "display name (optional): ", "")

	case InputCustomName:
		url := m.pendingURL
		m.pendingURL = ""
		m.closeInput()
		m.Loading = true
		m.setStatus("loading "+url, false)
		return m, LoadCustomURLCmd(m.Library, url, value)

	case InputExportPath:
		if value == "" {
			value = "strudel-library.json"
		}
		m.closeInput()
		return m, ExportCmd(m.Library, value)

	case InputImportPath:
		m.closeInput()
		if value == "" {
			return m, nil
		}
		return m, ReadImportCmd(value)
	}

	m.closeInput()
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Confirm):
		m.applyImport()
		m.State = StateBrowsing
		m.clampCursors()
		return m, nil

	case key.Matches(msg, m.Keys.Deny), key.Matches(msg, m.Keys.Quit):
		m.pendingImprt = nil
		m.importPath = ""
		m.State = StateBrowsing
		m.setStatus("import cancelled", false)
		return m, nil
	}
	return m, nil
}
