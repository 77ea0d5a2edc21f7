package model

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/electr1fy0/smartnotes/chat"
	"github.com/electr1fy0/smartnotes/editor"
	"github.com/electr1fy0/smartnotes/notes"
	"github.com/electr1fy0/smartnotes/share"
	"github.com/electr1fy0/smartnotes/storage"
	"github.com/electr1fy0/smartnotes/workspace"
)

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	return ti
}

// New builds the UI around a loaded snapshot.
func New(snap storage.Snapshot, deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewFolderID == nil {
		deps.NewFolderID = uuid.NewString
	}
	if deps.StatusTTL <= 0 {
		deps.StatusTTL = 2 * time.Second
	}
	if deps.ContextNotes < 0 {
		deps.ContextNotes = 0
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	st := workspace.New(snap.Library, snap.Dark)
	return Model{
		deps:        deps,
		st:          st,
		pressIdx:    -1,
		searchInput: newInput("Search...", 100),
		folderInput: newInput("Category Name...", 40),
		importInput: newInput("path/to/backup.json", 0),
		titleInput:  newInput("Untitled Note...", 0),
		chatInput:   newInput("Type a message...", 0),
		body:        editor.NewBlock(),
		chatView:    viewport.New(chatWidth-2, 10),
		spinner:     sp,
		renderCache: map[string]string{},
		styles:      newStyles(st.Dark),
	}
}

// State exposes the current workspace snapshot.
func (m Model) State() workspace.State { return m.st }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return nil

	case clearStatusMsg:
		return m.dispatch(workspace.ClearStatus{Seq: msg.seq})

	case statusMsg:
		return m.dispatch(workspace.Notify{Message: string(msg)})

	case importDoneMsg:
		if msg.err != nil {
			m.deps.Log.Warn().Err(msg.err).Msg("import rejected")
			return m.dispatch(workspace.Notify{Message: share.StatusInvalid})
		}
		m.deps.Log.Info().Int("notes", len(msg.notes)).Msg("import read")
		return m.dispatch(workspace.ImportNotes{Notes: msg.notes})

	case chatReplyMsg:
		m.chat.Settle(msg.result)
		m.refreshChat()
		return nil

	case spinner.TickMsg:
		if !m.chat.Pending() {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshChat()
		return cmd

	case editor.ExternalDoneMsg:
		if msg.Err != nil {
			m.deps.Log.Error().Err(msg.Err).Msg("external editor failed")
			return m.dispatch(workspace.Notify{Message: "Editor failed: " + msg.Err.Error()})
		}
		cmd := m.dispatch(workspace.EditNote{ID: msg.NoteID, Field: notes.FieldContent, Value: msg.Markup})
		if msg.NoteID == m.st.ActiveNoteID {
			m.body.SetMarkup(msg.Markup)
		}
		return cmd

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		if m.overlay != overlayNone {
			return m.updateOverlay(msg)
		}
		if m.chatOpen && m.chatFocused {
			return m.updateChat(msg)
		}
		if m.st.Mode == workspace.ModeEditor {
			return m.updateEditor(msg)
		}
		return m.updateGrid(msg)
	}

	return m.forward(msg)
}

// forward hands non-key messages (cursor blink and friends) to whichever
// input currently has focus.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.overlay == overlaySearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case m.overlay == overlayFolder:
		m.folderInput, cmd = m.folderInput.Update(msg)
	case m.overlay == overlayImport:
		m.importInput, cmd = m.importInput.Update(msg)
	case m.chatOpen && m.chatFocused:
		m.chatInput, cmd = m.chatInput.Update(msg)
	case m.st.Mode == workspace.ModeEditor && m.focus == focusTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case m.st.Mode == workspace.ModeEditor:
		_, cmd = m.body.Update(msg)
	}
	return cmd
}

func (m *Model) updateGrid(msg tea.KeyMsg) tea.Cmd {
	vis := m.st.Visible()
	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "home", "g":
		m.cursor = 0
		m.clampCursor()
	case "end", "G":
		m.cursor = len(vis) - 1
		m.clampCursor()
	case "enter":
		if m.cursor < len(vis) {
			return m.activate(vis[m.cursor].ID)
		}
	case " ":
		if m.st.SelectMode && m.cursor < len(vis) {
			return m.dispatch(workspace.ToggleSelected{ID: vis[m.cursor].ID})
		}
	case "n":
		cmd := m.dispatch(workspace.CreateNote{Now: m.deps.Now()})
		return tea.Batch(cmd, m.loadEditor())
	case "/":
		m.overlay = overlaySearch
		m.searchInput.SetValue(m.st.Search)
		m.searchInput.CursorEnd()
		return m.searchInput.Focus()
	case "esc":
		if m.st.SelectMode {
			return m.dispatch(workspace.ToggleSelectMode{})
		}
		if m.st.Search != "" {
			m.searchInput.SetValue("")
			return m.dispatch(workspace.SetSearch{Query: ""})
		}
	case "v":
		return m.dispatch(workspace.ToggleSelectMode{})
	case "a":
		return m.dispatch(workspace.SelectAllVisible{})
	case "m":
		if len(m.st.Selected) > 0 {
			m.openMenu(overlayMove)
		}
	case "s":
		if len(m.st.Selected) > 0 {
			m.openMenu(overlayShare)
		}
	case "d", "x", "delete":
		if m.st.SelectMode {
			if len(m.st.Selected) > 0 {
				m.confirm(m.st.Selected, fmt.Sprintf("Delete %d selected notes? (y/N)", len(m.st.Selected)))
			}
		} else if m.cursor < len(vis) {
			m.confirm([]string{vis[m.cursor].ID}, fmt.Sprintf("Delete note '%s'? (y/N)", displayTitle(vis[m.cursor])))
		}
	case "K", "shift+up":
		return m.shift(-1)
	case "J", "shift+down":
		return m.shift(1)
	case "[":
		return m.cycleFolder(-1)
	case "]":
		return m.cycleFolder(1)
	case "f":
		m.overlay = overlayFolder
		m.folderInput.SetValue("")
		return m.folderInput.Focus()
	case ",":
		m.openMenu(overlaySettings)
	case "t":
		return m.dispatch(workspace.ToggleTheme{})
	case "ctrl+t", "c":
		return m.toggleChat()
	case "tab":
		if m.chatOpen {
			m.chatFocused = true
			return m.chatInput.Focus()
		}
	}
	return nil
}

func (m *Model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	id := m.st.ActiveNoteID
	switch msg.String() {
	case "esc":
		m.titleInput.Blur()
		m.body.Blur()
		return m.dispatch(workspace.Back{})
	case "tab":
		if m.focus == focusTitle {
			m.focus = focusBody
			m.titleInput.Blur()
			return m.body.Focus()
		}
		m.focus = focusTitle
		m.body.Blur()
		return m.titleInput.Focus()
	case "ctrl+e":
		return editor.External(id, m.body.Markup())
	case "ctrl+d":
		if n, ok := m.st.ActiveNote(); ok {
			m.confirm([]string{n.ID}, fmt.Sprintf("Delete note '%s'? (y/N)", displayTitle(n)))
		}
		return nil
	case "ctrl+t":
		return m.toggleChat()
	}

	if m.focus == focusTitle {
		if msg.String() == "enter" {
			m.focus = focusBody
			m.titleInput.Blur()
			return m.body.Focus()
		}
		before := m.titleInput.Value()
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		if v := m.titleInput.Value(); v != before {
			cmd = tea.Batch(cmd, m.dispatch(workspace.EditNote{ID: id, Field: notes.FieldTitle, Value: v}))
		}
		return cmd
	}

	changed, cmd := m.body.Update(msg)
	if changed {
		cmd = tea.Batch(cmd, m.dispatch(workspace.EditNote{ID: id, Field: notes.FieldContent, Value: m.body.Markup()}))
	}
	return cmd
}

func (m *Model) updateChat(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "tab":
		m.chatFocused = false
		m.chatInput.Blur()
		return nil
	case "ctrl+t":
		return m.toggleChat()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return cmd
	case "enter":
		text := m.chatInput.Value()
		if !m.chat.Submit(text) {
			return nil
		}
		m.chatInput.SetValue("")
		m.refreshChat()
		return tea.Batch(m.spinner.Tick, m.ask(text))
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return cmd
}

// ask issues the request off the update loop. The note context is captured
// now, not when the request runs.
func (m *Model) ask(text string) tea.Cmd {
	asker := m.deps.Asker
	noteContext := chat.BuildContext(m.st.Library.Notes, m.deps.ContextNotes)
	return func() tea.Msg {
		if asker == nil {
			return chatReplyMsg{result: chat.Result{Failure: chat.FailureNoKey}}
		}
		return chatReplyMsg{result: asker.Ask(context.Background(), text, noteContext)}
	}
}

func (m *Model) updateOverlay(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch m.overlay {
	case overlaySearch:
		switch key {
		case "enter":
			m.closeOverlay()
			return nil
		case "esc":
			m.searchInput.SetValue("")
			m.closeOverlay()
			return m.dispatch(workspace.SetSearch{Query: ""})
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		if q := m.searchInput.Value(); q != m.st.Search {
			m.cursor, m.offset = 0, 0
			cmd = tea.Batch(cmd, m.dispatch(workspace.SetSearch{Query: q}))
		}
		return cmd

	case overlayFolder:
		switch key {
		case "esc":
			m.closeOverlay()
			return nil
		case "enter":
			name := m.folderInput.Value()
			m.closeOverlay()
			return m.dispatch(workspace.CreateFolder{ID: m.deps.NewFolderID(), Name: name, Color: randomFolderColor()})
		}
		var cmd tea.Cmd
		m.folderInput, cmd = m.folderInput.Update(msg)
		return cmd

	case overlayImport:
		switch key {
		case "esc":
			m.closeOverlay()
			return nil
		case "enter":
			path := m.importInput.Value()
			m.closeOverlay()
			return readImport(path)
		}
		var cmd tea.Cmd
		m.importInput, cmd = m.importInput.Update(msg)
		return cmd

	case overlayConfirm:
		switch key {
		case "y", "Y":
			ids := m.confirmIDs
			m.closeOverlay()
			return m.dispatch(workspace.DeleteNotes{IDs: ids})
		case "n", "N", "esc":
			m.closeOverlay()
		}
		return nil
	}

	items := m.menuItems()
	switch key {
	case "esc", "q":
		m.closeOverlay()
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(items)-1 {
			m.menuCursor++
		}
	case "enter":
		if m.menuCursor < len(items) {
			return m.choose(m.menuCursor)
		}
	}
	return nil
}

// choose runs the highlighted entry of a menu overlay.
func (m *Model) choose(i int) tea.Cmd {
	kind := m.overlay
	m.closeOverlay()
	switch kind {
	case overlayMove:
		folders := m.st.Library.Folders
		return m.dispatch(workspace.MoveSelected{FolderID: folders[i].ID})
	case overlayShare:
		return m.shareCmd(shareFormats[i])
	case overlaySettings:
		switch settingsActions[i] {
		case settingTheme:
			return m.dispatch(workspace.ToggleTheme{})
		case settingBackupJSON:
			return m.backupCmd(share.BackupJSONFormat)
		case settingBackupText:
			return m.backupCmd(share.BackupTextFormat)
		case settingImport:
			m.overlay = overlayImport
			m.importInput.SetValue("")
			return m.importInput.Focus()
		}
	}
	return nil
}

func (m *Model) updateMouse(msg tea.MouseMsg) tea.Cmd {
	if m.overlay != overlayNone || m.st.Mode != workspace.ModeGrid {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-1)
		return nil
	case tea.MouseButtonWheelDown:
		m.moveCursor(1)
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if row, ok := m.sidebarRowAt(msg.X, msg.Y); ok {
			return m.selectFolderRow(row)
		}
		idx, ok := m.cardAt(msg.X, msg.Y)
		if !ok {
			return nil
		}
		m.pressIdx = idx
		m.dragMoved = false
		m.cursor = idx
		return m.dispatch(workspace.DragStart{Index: idx})

	case tea.MouseActionMotion:
		if m.pressIdx < 0 {
			return nil
		}
		idx, ok := m.cardAt(msg.X, msg.Y)
		if !ok || idx == m.st.Dragged {
			return nil
		}
		m.dragMoved = true
		m.cursor = idx
		return m.dispatch(workspace.DragOver{Index: idx})

	case tea.MouseActionRelease:
		if m.pressIdx < 0 {
			return nil
		}
		clicked := !m.dragMoved
		idx := m.pressIdx
		m.pressIdx = -1
		m.dragMoved = false
		cmd := m.dispatch(workspace.DragEnd{})
		if clicked {
			if vis := m.st.Visible(); idx < len(vis) {
				return tea.Batch(cmd, m.activate(vis[idx].ID))
			}
		}
		return cmd
	}
	return nil
}
