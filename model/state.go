package model

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/rs/zerolog"

	"github.com/electr1fy0/smartnotes/chat"
	"github.com/electr1fy0/smartnotes/editor"
	"github.com/electr1fy0/smartnotes/share"
	"github.com/electr1fy0/smartnotes/storage"
	"github.com/electr1fy0/smartnotes/workspace"
)

// overlay is whatever sits on top of the grid or editor and takes keys first.
type overlay int

const (
	overlayNone overlay = iota
	overlaySearch
	overlayFolder
	overlayMove
	overlayShare
	overlaySettings
	overlayImport
	overlayConfirm
)

type editorFocus int

const (
	focusBody editorFocus = iota
	focusTitle
)

const (
	sidebarWidth = 24
	chatWidth    = 44
	cardHeight   = 4
	headerHeight = 2
	footerHeight = 3
)

// Saver receives the full snapshot after every persistent change.
type Saver interface {
	Save(storage.Snapshot) error
}

type Deps struct {
	Saver        Saver
	Asker        chat.Asker
	Exporter     *share.Exporter
	Log          zerolog.Logger
	StatusTTL    time.Duration
	// ContextNotes is how many leading notes go to the assistant; 0 sends none.
	ContextNotes int
	Now          func() time.Time
	NewFolderID  func() string
}

type Model struct {
	deps Deps
	st   workspace.State

	width  int
	height int

	overlay    overlay
	cursor     int
	offset     int
	menuCursor int

	confirmMsg string
	confirmIDs []string

	searchInput textinput.Model
	folderInput textinput.Model
	importInput textinput.Model
	titleInput  textinput.Model
	body        *editor.Block
	focus       editorFocus

	// mouse drag bookkeeping; pressIdx is -1 when no button is down
	pressIdx  int
	dragMoved bool

	chatOpen    bool
	chatFocused bool
	chat        chat.Session
	chatInput   textinput.Model
	chatView    viewport.Model
	spinner     spinner.Model
	renderCache map[string]string

	styles styles
}

type clearStatusMsg struct{ seq int }

type chatReplyMsg struct{ result chat.Result }
