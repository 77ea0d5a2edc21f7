// Package workspace holds the view controller: an immutable State and the
// Reduce function that moves it from one snapshot to the next.
package workspace

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/electr1fy0/smartnotes/notes"
)

type Mode int

const (
	ModeGrid Mode = iota
	ModeEditor
)

func (m Mode) String() string {
	if m == ModeEditor {
		return "editor"
	}
	return "grid"
}

type State struct {
	Library notes.Library
	Dark    bool

	Mode           Mode
	ActiveNoteID   string
	ActiveFolderID string

	SelectMode bool
	Selected   []string
	Search     string

	// Dragged is the visible index of the card being dragged, or -1.
	Dragged int

	Status    string
	StatusSeq int

	// Revision increases whenever Library or Dark changes.
	Revision uint64
}

func New(lib notes.Library, dark bool) State {
	return State{
		Library:        lib,
		Dark:           dark,
		Mode:           ModeGrid,
		ActiveFolderID: notes.AllFolders,
		Dragged:        -1,
	}
}

// Visible is the filtered, ordered list shown in the grid.
func (s State) Visible() []notes.Note {
	return s.Library.Filter(s.ActiveFolderID, s.Search)
}

func (s State) ActiveNote() (notes.Note, bool) {
	if s.ActiveNoteID == "" {
		return notes.Note{}, false
	}
	return s.Library.Note(s.ActiveNoteID)
}

func (s State) IsSelected(id string) bool {
	return slices.Contains(s.Selected, id)
}

// Action is one user intent. Reduce applies it to a snapshot.
type Action interface {
	apply(State) State
}

func Reduce(s State, a Action) State {
	next := a.apply(s)
	if !sameLibrary(s, next) {
		next.Revision = s.Revision + 1
	}
	return next
}

func sameLibrary(a, b State) bool {
	if a.Dark != b.Dark {
		return false
	}
	return slices.Equal(a.Library.Notes, b.Library.Notes) &&
		slices.Equal(a.Library.Folders, b.Library.Folders)
}

func (s State) notify(msg string) State {
	s.Status = msg
	s.StatusSeq++
	return s
}

type CreateNote struct{ Now time.Time }

func (a CreateNote) apply(s State) State {
	folder := s.ActiveFolderID
	if folder == notes.AllFolders || folder == "" {
		folder = notes.DefaultFolderID
	}
	lib, n := s.Library.Create(folder, a.Now)
	s.Library = lib
	s.ActiveNoteID = n.ID
	s.Mode = ModeEditor
	s.SelectMode = false
	s.Selected = nil
	return s
}

type OpenNote struct{ ID string }

func (a OpenNote) apply(s State) State {
	if _, ok := s.Library.Note(a.ID); !ok {
		return s
	}
	s.ActiveNoteID = a.ID
	s.Mode = ModeEditor
	s.SelectMode = false
	s.Selected = nil
	s.Dragged = -1
	return s
}

type Back struct{}

func (Back) apply(s State) State {
	s.Mode = ModeGrid
	return s
}

type EditNote struct {
	ID    string
	Field notes.Field
	Value string
}

func (a EditNote) apply(s State) State {
	s.Library = s.Library.Update(a.ID, a.Field, a.Value)
	return s
}

// SelectFolder narrows the grid to one folder (or notes.AllFolders).
type SelectFolder struct{ ID string }

func (a SelectFolder) apply(s State) State {
	s.ActiveFolderID = a.ID
	s.Mode = ModeGrid
	return s
}

type SetSearch struct{ Query string }

func (a SetSearch) apply(s State) State {
	s.Search = a.Query
	return s
}

type ToggleSelectMode struct{}

func (ToggleSelectMode) apply(s State) State {
	if s.Mode != ModeGrid {
		return s
	}
	s.SelectMode = !s.SelectMode
	s.Selected = nil
	return s
}

type ToggleSelected struct{ ID string }

func (a ToggleSelected) apply(s State) State {
	if !s.SelectMode {
		return s
	}
	if i := slices.Index(s.Selected, a.ID); i >= 0 {
		s.Selected = slices.Delete(slices.Clone(s.Selected), i, i+1)
		return s
	}
	s.Selected = append(slices.Clone(s.Selected), a.ID)
	return s
}

type SelectAllVisible struct{}

func (SelectAllVisible) apply(s State) State {
	if !s.SelectMode {
		return s
	}
	vis := s.Visible()
	s.Selected = make([]string, len(vis))
	for i, n := range vis {
		s.Selected[i] = n.ID
	}
	return s
}

type MoveSelected struct{ FolderID string }

func (a MoveSelected) apply(s State) State {
	s.Library = s.Library.Move(s.Selected, a.FolderID)
	s.Selected = nil
	s.SelectMode = false
	name := a.FolderID
	if f, ok := s.Library.Folder(a.FolderID); ok {
		name = f.Name
	}
	return s.notify(fmt.Sprintf("Moved to %s", name))
}

type DeleteNotes struct{ IDs []string }

func (a DeleteNotes) apply(s State) State {
	s.Library = s.Library.Delete(a.IDs)
	s.Selected = nil
	if slices.Contains(a.IDs, s.ActiveNoteID) {
		s.ActiveNoteID = ""
		s.Mode = ModeGrid
	}
	return s
}

type DeleteSelected struct{}

func (DeleteSelected) apply(s State) State {
	return DeleteNotes{IDs: s.Selected}.apply(s)
}

type DragStart struct{ Index int }

func (a DragStart) apply(s State) State {
	if s.Mode != ModeGrid || a.Index < 0 || a.Index >= len(s.Visible()) {
		return s
	}
	s.Dragged = a.Index
	return s
}

// DragOver moves the dragged card to the visible slot it is over. It fires
// on every boundary crossed, so the list reorders live while dragging.
type DragOver struct{ Index int }

func (a DragOver) apply(s State) State {
	if s.Dragged < 0 || s.Dragged == a.Index {
		return s
	}
	vis := s.Visible()
	if a.Index < 0 || a.Index >= len(vis) || s.Dragged >= len(vis) {
		return s
	}
	from := s.Library.IndexOf(vis[s.Dragged].ID)
	to := s.Library.IndexOf(vis[a.Index].ID)
	s.Library = s.Library.Reorder(from, to)
	s.Dragged = a.Index
	return s
}

type DragEnd struct{}

func (DragEnd) apply(s State) State {
	s.Dragged = -1
	return s
}

type ImportNotes struct{ Notes []notes.Note }

func (a ImportNotes) apply(s State) State {
	s.Library, _ = s.Library.Import(a.Notes)
	return s.notify("Data imported successfully!")
}

type CreateFolder struct {
	ID    string
	Name  string
	Color string
}

func (a CreateFolder) apply(s State) State {
	name := strings.TrimSpace(a.Name)
	if name == "" || a.ID == "" {
		return s
	}
	s.Library = s.Library.AddFolder(notes.Folder{ID: a.ID, Name: name, Color: a.Color})
	return s
}

type ToggleTheme struct{}

func (ToggleTheme) apply(s State) State {
	s.Dark = !s.Dark
	return s
}

// Notify shows a transient status message.
type Notify struct{ Message string }

func (a Notify) apply(s State) State {
	return s.notify(a.Message)
}

// ClearStatus hides the status message if no newer one replaced it.
type ClearStatus struct{ Seq int }

func (a ClearStatus) apply(s State) State {
	if a.Seq == s.StatusSeq {
		s.Status = ""
	}
	return s
}
