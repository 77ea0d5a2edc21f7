package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electr1fy0/smartnotes/chat"
	"github.com/electr1fy0/smartnotes/markup"
	"github.com/electr1fy0/smartnotes/notes"
	"github.com/electr1fy0/smartnotes/share"
	"github.com/electr1fy0/smartnotes/storage"
	"github.com/electr1fy0/smartnotes/workspace"
)

type recordSaver struct {
	saves []storage.Snapshot
}

func (r *recordSaver) Save(s storage.Snapshot) error {
	r.saves = append(r.saves, s)
	return nil
}

type fakeAsker struct {
	message, noteContext string
	reply                string
}

func (f *fakeAsker) Ask(_ context.Context, message, noteContext string) chat.Result {
	f.message, f.noteContext = message, noteContext
	return chat.Result{Reply: f.reply}
}

var clock = time.UnixMilli(1700000000000)

func testDeps(saver *recordSaver, asker chat.Asker) Deps {
	return Deps{
		Saver:        saver,
		Asker:        asker,
		Log:          zerolog.Nop(),
		StatusTTL:    time.Second,
		ContextNotes: chat.DefaultContext,
		Now:          func() time.Time { return clock },
		NewFolderID:  func() string { return "f-1" },
	}
}

func seeded() storage.Snapshot {
	return storage.Snapshot{
		Library: notes.Library{
			Notes: []notes.Note{
				{ID: "1", Title: "Welcome", Content: "This is your AI-powered workspace.", FolderID: notes.DefaultFolderID},
				{ID: "2", Title: "Work log", Content: "<p>standup</p>", FolderID: "work"},
				{ID: "3", Title: "Recipes", Content: "<p>bread</p>", FolderID: "work"},
			},
			Folders: []notes.Folder{notes.DefaultFolder(), {ID: "work", Name: "Work", Color: "hsl(200, 70%, 60%)"}},
		},
		Dark: true,
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func sized(t *testing.T, snap storage.Snapshot, deps Deps) Model {
	m, _ := send(t, New(snap, deps), tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestCreateEditAndReopen(t *testing.T) {
	saver := &recordSaver{}
	m := sized(t, storage.Defaults(clock), testDeps(saver, nil))

	m, _ = send(t, m, key("n"))
	require.Equal(t, workspace.ModeEditor, m.State().Mode)
	assert.Equal(t, focusTitle, m.focus)

	m, _ = send(t, m, key("Test"), key("esc"))
	vis := m.State().Visible()
	require.Len(t, vis, 2)
	assert.Equal(t, "Test", vis[0].Title)
	assert.Equal(t, notes.DefaultFolderID, vis[0].FolderID)
	assert.Equal(t, markup.Empty, markup.Preview(vis[0].Content))

	m, _ = send(t, m, key("enter"))
	require.Equal(t, workspace.ModeEditor, m.State().Mode)
	assert.Equal(t, vis[0].ID, m.State().ActiveNoteID)
	assert.Equal(t, focusBody, m.focus)

	m, _ = send(t, m, key("abc"), key("esc"))
	assert.Equal(t, workspace.ModeGrid, m.State().Mode)
	assert.Equal(t, "abc", markup.Preview(m.State().Visible()[0].Content))

	require.NotEmpty(t, saver.saves)
	last := saver.saves[len(saver.saves)-1]
	assert.Equal(t, "abc", last.Library.Notes[0].Content)
	assert.True(t, last.Dark)
}

func TestDeleteAsksFirst(t *testing.T) {
	saver := &recordSaver{}
	m := sized(t, seeded(), testDeps(saver, nil))

	m, _ = send(t, m, key("d"))
	assert.Equal(t, overlayConfirm, m.overlay)
	m, _ = send(t, m, key("n"))
	assert.Equal(t, overlayNone, m.overlay)
	assert.Len(t, m.State().Library.Notes, 3)
	assert.Empty(t, saver.saves)

	m, _ = send(t, m, key("d"), key("y"))
	assert.Len(t, m.State().Library.Notes, 2)
	_, ok := m.State().Library.Note("1")
	assert.False(t, ok)
	assert.Len(t, saver.saves, 1)
}

func TestSelectMoveAndStatusClears(t *testing.T) {
	m := sized(t, seeded(), testDeps(&recordSaver{}, nil))

	m, _ = send(t, m, key("v"), key(" "), key("m"))
	require.Equal(t, overlayMove, m.overlay)

	m, _ = send(t, m, key("down"))
	m, cmd := send(t, m, key("enter"))
	assert.NotNil(t, cmd, "status timer")
	assert.Equal(t, "Moved to Work", m.State().Status)
	assert.False(t, m.State().SelectMode)
	n, _ := m.State().Library.Note("1")
	assert.Equal(t, "work", n.FolderID)

	m, _ = send(t, m, clearStatusMsg{seq: m.State().StatusSeq - 1})
	assert.Equal(t, "Moved to Work", m.State().Status)
	m, _ = send(t, m, clearStatusMsg{seq: m.State().StatusSeq})
	assert.Empty(t, m.State().Status)
}

func TestSearchOverlayFiltersLive(t *testing.T) {
	m := sized(t, seeded(), testDeps(&recordSaver{}, nil))

	m, _ = send(t, m, key("/"), key("bread"))
	assert.Equal(t, "bread", m.State().Search)
	require.Len(t, m.State().Visible(), 1)
	assert.Equal(t, "3", m.State().Visible()[0].ID)

	m, _ = send(t, m, key("esc"))
	assert.Equal(t, overlayNone, m.overlay)
	assert.Empty(t, m.State().Search)
	assert.Len(t, m.State().Visible(), 3)
}

func TestFolderCycleAndCreate(t *testing.T) {
	m := sized(t, seeded(), testDeps(&recordSaver{}, nil))

	m, _ = send(t, m, key("]"))
	assert.Equal(t, notes.DefaultFolderID, m.State().ActiveFolderID)
	m, _ = send(t, m, key("]"), key("]"))
	assert.Equal(t, notes.AllFolders, m.State().ActiveFolderID)
	m, _ = send(t, m, key("["))
	assert.Equal(t, "work", m.State().ActiveFolderID)

	m, _ = send(t, m, key("f"), key("Travel"), key("enter"))
	f, ok := m.State().Library.Folder("f-1")
	require.True(t, ok)
	assert.Equal(t, "Travel", f.Name)
	assert.Contains(t, f.Color, "hsl(")
}

func TestKeyboardReorder(t *testing.T) {
	m := sized(t, seeded(), testDeps(&recordSaver{}, nil))

	m, _ = send(t, m, key("J"))
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, -1, m.State().Dragged)

	var order []string
	for _, n := range m.State().Library.Notes {
		order = append(order, n.ID)
	}
	assert.Equal(t, []string{"2", "1", "3"}, order)
}

func TestMouseDragAndClick(t *testing.T) {
	m := sized(t, seeded(), testDeps(&recordSaver{}, nil))
	x := sidebarWidth + 3

	m, _ = send(t, m,
		tea.MouseMsg{X: x, Y: headerHeight + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: x, Y: headerHeight + cardHeight + 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: x, Y: headerHeight + cardHeight + 1, Action: tea.MouseActionRelease},
	)
	assert.Equal(t, workspace.ModeGrid, m.State().Mode)
	assert.Equal(t, "2", m.State().Visible()[0].ID)
	assert.Equal(t, "1", m.State().Visible()[1].ID)
	assert.Equal(t, -1, m.State().Dragged)

	m, _ = send(t, m,
		tea.MouseMsg{X: x, Y: headerHeight + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: x, Y: headerHeight + 1, Action: tea.MouseActionRelease},
	)
	assert.Equal(t, workspace.ModeEditor, m.State().Mode)
	assert.Equal(t, "2", m.State().ActiveNoteID)
}

func TestSidebarClickSelectsFolder(t *testing.T) {
	m := sized(t, seeded(), testDeps(&recordSaver{}, nil))

	m, _ = send(t, m, tea.MouseMsg{X: 2, Y: headerHeight + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "work", m.State().ActiveFolderID)
	assert.Len(t, m.State().Visible(), 2)
}

func TestChatIgnoresSubmitWhilePending(t *testing.T) {
	asker := &fakeAsker{reply: "**sure**"}
	m := sized(t, seeded(), testDeps(&recordSaver{}, asker))

	m, _ = send(t, m, key("ctrl+t"))
	require.True(t, m.chatOpen)
	require.True(t, m.chatFocused)

	m, cmd := send(t, m, key("hello"), key("enter"))
	assert.NotNil(t, cmd)
	assert.True(t, m.chat.Pending())
	assert.Empty(t, m.chatInput.Value())

	m, cmd = send(t, m, key("again"), key("enter"))
	assert.Nil(t, cmd)
	assert.Len(t, m.chat.Transcript(), 1)
	assert.Equal(t, "again", m.chatInput.Value())

	reply := m.ask("hello")()
	assert.Equal(t, "hello", asker.message)
	assert.Contains(t, asker.noteContext, "Title: Welcome")

	m, _ = send(t, m, reply)
	assert.False(t, m.chat.Pending())
	tr := m.chat.Transcript()
	require.Len(t, tr, 2)
	assert.Equal(t, chat.RoleAssistant, tr[1].Role)
	assert.Equal(t, "**sure**", tr[1].Text)
}

func TestChatContextNotesZeroSendsNone(t *testing.T) {
	asker := &fakeAsker{reply: "ok"}
	deps := testDeps(&recordSaver{}, asker)
	deps.ContextNotes = 0
	m := sized(t, seeded(), deps)

	m.ask("hello")()
	assert.Equal(t, "hello", asker.message)
	assert.Empty(t, asker.noteContext)
}

func TestChatWithoutAsker(t *testing.T) {
	m := sized(t, seeded(), testDeps(&recordSaver{}, nil))
	msg := m.ask("hi")()
	reply, ok := msg.(chatReplyMsg)
	require.True(t, ok)
	assert.Equal(t, chat.FailureNoKey, reply.result.Failure)
}

func TestSettingsBackupAndImport(t *testing.T) {
	dir := t.TempDir()
	deps := testDeps(&recordSaver{}, nil)
	deps.Exporter = &share.Exporter{Dir: dir, Location: time.UTC, Log: zerolog.Nop()}
	m := sized(t, seeded(), deps)

	m, cmd := send(t, m, key(","), key("down"), key("enter"))
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	assert.Equal(t, share.StatusJSONBackup, m.State().Status)
	files, err := filepath.Glob(filepath.Join(dir, "SmartNotes_Full_Backup_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	backup := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(backup, []byte(`{"notes":[{"id":"9","title":"Imported","content":"","folderId":"default","timestamp":1}]}`), 0o644))

	m, _ = send(t, m, key(","), key("down"), key("down"), key("down"), key("enter"))
	require.Equal(t, overlayImport, m.overlay)
	m, cmd = send(t, m, key(backup), key("enter"))
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	assert.Equal(t, share.StatusImported, m.State().Status)
	_, ok := m.State().Library.Note("9")
	assert.True(t, ok)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"folders":[]}`), 0o644))
	m, cmd = send(t, m, key(","), key("down"), key("down"), key("down"), key("enter"), key(bad), key("enter"))
	m, _ = send(t, m, cmd())
	assert.Equal(t, share.StatusInvalid, m.State().Status)
}

func TestThemeTogglePersists(t *testing.T) {
	saver := &recordSaver{}
	m := sized(t, seeded(), testDeps(saver, nil))

	m, _ = send(t, m, key("t"))
	assert.False(t, m.State().Dark)
	require.Len(t, saver.saves, 1)
	assert.False(t, saver.saves[0].Dark)
}

func TestViewRenders(t *testing.T) {
	m := sized(t, seeded(), testDeps(&recordSaver{}, nil))
	out := m.View()
	assert.Contains(t, out, "Smart Notes")
	assert.Contains(t, out, "Work log")
	assert.Contains(t, out, "All Notes (3)")

	m, _ = send(t, m, key("d"))
	assert.Contains(t, m.View(), "Delete note 'Welcome'?")
}

func TestFolderColor(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#6366f1"), folderColor("#6366f1"))
	assert.Equal(t, lipgloss.Color("#6366f1"), folderColor("not a colour"))
	assert.NotEqual(t, lipgloss.Color("#6366f1"), folderColor("hsl(10, 70%, 60%)"))
}
