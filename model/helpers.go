package model

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/electr1fy0/smartnotes/chat"
	"github.com/electr1fy0/smartnotes/notes"
	"github.com/electr1fy0/smartnotes/share"
	"github.com/electr1fy0/smartnotes/storage"
	"github.com/electr1fy0/smartnotes/workspace"
)

type statusMsg string

type importDoneMsg struct {
	notes []notes.Note
	err   error
}

type setting int

const (
	settingTheme setting = iota
	settingBackupJSON
	settingBackupText
	settingImport
)

var (
	shareFormats = []share.Format{share.FormatText, share.FormatJSON, share.FormatDownload, share.FormatSystem}
	shareLabels  = []string{"Copy as text", "Copy as JSON", "Download JSON", "Share..."}

	settingsActions = []setting{settingTheme, settingBackupJSON, settingBackupText, settingImport}
)

// dispatch runs an action through the reducer and returns the follow-up
// commands: a save when the persistent part changed and a status timer when
// a new status appeared.
func (m *Model) dispatch(a workspace.Action) tea.Cmd {
	prev := m.st
	m.st = workspace.Reduce(m.st, a)

	if m.st.Revision != prev.Revision {
		m.persist()
		if m.st.Dark != prev.Dark {
			m.styles = newStyles(m.st.Dark)
			m.refreshChat()
		}
	}
	m.clampCursor()

	if m.st.StatusSeq != prev.StatusSeq && m.st.Status != "" {
		seq := m.st.StatusSeq
		return tea.Tick(m.deps.StatusTTL, func(time.Time) tea.Msg {
			return clearStatusMsg{seq: seq}
		})
	}
	return nil
}

func (m *Model) persist() {
	if m.deps.Saver == nil {
		return
	}
	snap := storage.Snapshot{Library: m.st.Library, Dark: m.st.Dark}
	if err := m.deps.Saver.Save(snap); err != nil {
		m.deps.Log.Error().Err(err).Uint64("revision", m.st.Revision).Msg("persist failed")
	}
}

func (m *Model) gridHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < cardHeight {
		h = cardHeight
	}
	return h
}

func (m *Model) rows() int {
	return m.gridHeight() / cardHeight
}

func (m *Model) mainWidth() int {
	w := m.width - sidebarWidth - 1
	if m.chatOpen {
		w -= chatWidth + 1
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) layout() {
	m.body.SetSize(m.mainWidth()-2, m.gridHeight()-2)
	m.titleInput.Width = m.mainWidth() - 4
	m.chatView.Width = chatWidth - 2
	m.chatView.Height = max(m.gridHeight()-2, 3)
	m.chatInput.Width = chatWidth - 4
	m.clampCursor()
	m.refreshChat()
}

func (m *Model) moveCursor(d int) {
	m.cursor += d
	m.clampCursor()
}

// clampCursor keeps the grid cursor on a visible card and scrolls the
// window so the cursor row is drawn.
func (m *Model) clampCursor() {
	n := len(m.st.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	rows := max(m.rows(), 1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset > max(n-rows, 0) {
		m.offset = max(n-rows, 0)
	}
}

// activate is a card click: toggle in select mode, open otherwise.
func (m *Model) activate(id string) tea.Cmd {
	if m.st.SelectMode {
		return m.dispatch(workspace.ToggleSelected{ID: id})
	}
	cmd := m.dispatch(workspace.OpenNote{ID: id})
	return tea.Batch(cmd, m.loadEditor())
}

// loadEditor copies the active note into the title and body inputs.
func (m *Model) loadEditor() tea.Cmd {
	n, ok := m.st.ActiveNote()
	if !ok {
		return nil
	}
	m.titleInput.SetValue(n.Title)
	m.body.SetMarkup(n.Content)
	m.layout()
	if n.Title == "" {
		m.focus = focusTitle
		m.body.Blur()
		return m.titleInput.Focus()
	}
	m.focus = focusBody
	m.titleInput.Blur()
	return m.body.Focus()
}

func (m *Model) confirm(ids []string, msg string) {
	m.confirmIDs = append([]string(nil), ids...)
	m.confirmMsg = msg
	m.overlay = overlayConfirm
}

func (m *Model) openMenu(o overlay) {
	m.overlay = o
	m.menuCursor = 0
}

func (m *Model) closeOverlay() {
	m.overlay = overlayNone
	m.menuCursor = 0
	m.confirmIDs = nil
	m.confirmMsg = ""
	m.searchInput.Blur()
	m.folderInput.Blur()
	m.importInput.Blur()
}

func (m *Model) menuItems() []string {
	switch m.overlay {
	case overlayMove:
		out := make([]string, len(m.st.Library.Folders))
		for i, f := range m.st.Library.Folders {
			out[i] = f.Name
		}
		return out
	case overlayShare:
		return shareLabels
	case overlaySettings:
		theme := "Dark theme: off"
		if m.st.Dark {
			theme = "Dark theme: on"
		}
		return []string{theme, "Export JSON backup", "Export text archive", "Import JSON backup"}
	}
	return nil
}

// shift moves the cursor card one slot, the keyboard form of a drag.
func (m *Model) shift(d int) tea.Cmd {
	target := m.cursor + d
	if target < 0 || target >= len(m.st.Visible()) {
		return nil
	}
	cmds := []tea.Cmd{
		m.dispatch(workspace.DragStart{Index: m.cursor}),
		m.dispatch(workspace.DragOver{Index: target}),
		m.dispatch(workspace.DragEnd{}),
	}
	m.cursor = target
	m.clampCursor()
	return tea.Batch(cmds...)
}

// folderRows lists the sidebar entries in order: all notes, then folders.
func (m *Model) folderRows() []string {
	rows := []string{notes.AllFolders}
	for _, f := range m.st.Library.Folders {
		rows = append(rows, f.ID)
	}
	return rows
}

func (m *Model) cycleFolder(d int) tea.Cmd {
	rows := m.folderRows()
	cur := 0
	for i, id := range rows {
		if id == m.st.ActiveFolderID {
			cur = i
		}
	}
	next := (cur + d + len(rows)) % len(rows)
	return m.selectFolderRow(next)
}

func (m *Model) selectFolderRow(row int) tea.Cmd {
	rows := m.folderRows()
	if row < 0 || row >= len(rows) {
		return nil
	}
	m.cursor, m.offset = 0, 0
	return m.dispatch(workspace.SelectFolder{ID: rows[row]})
}

func (m *Model) sidebarRowAt(x, y int) (int, bool) {
	if x >= sidebarWidth {
		return 0, false
	}
	row := y - headerHeight
	if row < 0 || row >= len(m.folderRows()) {
		return 0, false
	}
	return row, true
}

func (m *Model) cardAt(x, y int) (int, bool) {
	left := sidebarWidth + 1
	if x < left || x >= left+m.mainWidth() {
		return 0, false
	}
	rel := y - headerHeight
	if rel < 0 || rel >= m.rows()*cardHeight {
		return 0, false
	}
	idx := rel/cardHeight + m.offset
	if idx >= len(m.st.Visible()) {
		return 0, false
	}
	return idx, true
}

func (m *Model) toggleChat() tea.Cmd {
	m.chatOpen = !m.chatOpen
	m.chatFocused = m.chatOpen
	m.layout()
	if m.chatOpen {
		m.titleInput.Blur()
		m.body.Blur()
		return m.chatInput.Focus()
	}
	m.chatInput.Blur()
	if m.st.Mode == workspace.ModeEditor {
		if m.focus == focusTitle {
			return m.titleInput.Focus()
		}
		return m.body.Focus()
	}
	return nil
}

func (m *Model) refreshChat() {
	w := m.chatView.Width
	var b strings.Builder
	for _, e := range m.chat.Transcript() {
		if e.Role == chat.RoleUser {
			b.WriteString(m.styles.userLine.Render("You") + "\n")
			b.WriteString(wordwrap.String(e.Text, w))
		} else {
			b.WriteString(m.styles.title.Render("AI") + "\n")
			b.WriteString(m.renderReply(e.Text, w))
		}
		b.WriteString("\n\n")
	}
	if m.chat.Pending() {
		b.WriteString(m.spinner.View() + " Thinking...")
	}
	m.chatView.SetContent(b.String())
	m.chatView.GotoBottom()
}

func (m *Model) selectedNotes() []notes.Note {
	var out []notes.Note
	for _, n := range m.st.Library.Notes {
		if m.st.IsSelected(n.ID) {
			out = append(out, n)
		}
	}
	return out
}

func (m *Model) shareCmd(f share.Format) tea.Cmd {
	ex := m.deps.Exporter
	selected := m.selectedNotes()
	folders := m.st.Library.Folders
	now := m.deps.Now()
	return func() tea.Msg {
		if ex == nil {
			return statusMsg(share.StatusCopyFailed)
		}
		status := ex.Share(context.Background(), f, selected, folders, now)
		if status == "" {
			return nil
		}
		return statusMsg(status)
	}
}

func (m *Model) backupCmd(f share.BackupFormat) tea.Cmd {
	ex := m.deps.Exporter
	lib := m.st.Library
	now := m.deps.Now()
	return func() tea.Msg {
		if ex == nil {
			return statusMsg(share.StatusBackupFailed)
		}
		status, _, _ := ex.Backup(f, lib, now)
		return statusMsg(status)
	}
}

func readImport(path string) tea.Cmd {
	return func() tea.Msg {
		ns, err := share.ReadImport(strings.TrimSpace(path))
		return importDoneMsg{notes: ns, err: err}
	}
}

func displayTitle(n notes.Note) string {
	if n.Title == "" {
		return "Untitled"
	}
	return n.Title
}
