package notes

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultFolderID is the folder every library starts with.
	DefaultFolderID = "default"
	// AllFolders is the filter value matching every note.
	AllFolders = "all"

	DefaultFolderName  = "General"
	DefaultFolderColor = "#6366f1"
)

type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	FolderID  string `json:"folderId"`
	Timestamp int64  `json:"timestamp"`
}

type Folder struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Field int

const (
	FieldTitle Field = iota
	FieldContent
	FieldFolder
)

// Time returns the note timestamp as a time.Time.
func (n Note) Time() time.Time {
	return time.UnixMilli(n.Timestamp)
}

// Library is an immutable snapshot of all notes and folders. Methods return a
// new Library and never write to slices the receiver still references.
type Library struct {
	Notes   []Note   `json:"notes"`
	Folders []Folder `json:"folders"`
}

func DefaultFolder() Folder {
	return Folder{ID: DefaultFolderID, Name: DefaultFolderName, Color: DefaultFolderColor}
}

func (l Library) Note(id string) (Note, bool) {
	if i := l.IndexOf(id); i >= 0 {
		return l.Notes[i], true
	}
	return Note{}, false
}

func (l Library) IndexOf(id string) int {
	return slices.IndexFunc(l.Notes, func(n Note) bool { return n.ID == id })
}

func (l Library) Folder(id string) (Folder, bool) {
	i := slices.IndexFunc(l.Folders, func(f Folder) bool { return f.ID == id })
	if i < 0 {
		return Folder{}, false
	}
	return l.Folders[i], true
}

// FolderName resolves a folder reference for display. Dangling references
// are shown as unfiled.
func (l Library) FolderName(id string) string {
	if f, ok := l.Folder(id); ok {
		return f.Name
	}
	return "None"
}

// Create inserts an empty note at the front of the library. The id is the
// creation time in milliseconds, bumped until it is unique.
func (l Library) Create(folderID string, now time.Time) (Library, Note) {
	ms := now.UnixMilli()
	id := strconv.FormatInt(ms, 10)
	for l.IndexOf(id) >= 0 {
		ms++
		id = strconv.FormatInt(ms, 10)
	}
	n := Note{ID: id, FolderID: folderID, Timestamp: now.UnixMilli()}

	out := l
	out.Notes = make([]Note, 0, len(l.Notes)+1)
	out.Notes = append(out.Notes, n)
	out.Notes = append(out.Notes, l.Notes...)
	return out, n
}

func (l Library) Update(id string, field Field, value string) Library {
	i := l.IndexOf(id)
	if i < 0 {
		return l
	}
	out := l
	out.Notes = slices.Clone(l.Notes)
	switch field {
	case FieldTitle:
		out.Notes[i].Title = value
	case FieldContent:
		out.Notes[i].Content = value
	case FieldFolder:
		out.Notes[i].FolderID = value
	default:
		return l
	}
	return out
}

// Reorder removes the note at from and reinserts it at to.
func (l Library) Reorder(from, to int) Library {
	n := len(l.Notes)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return l
	}
	moved := l.Notes[from]
	rest := slices.Delete(slices.Clone(l.Notes), from, from+1)
	out := l
	out.Notes = slices.Insert(rest, to, moved)
	return out
}

func (l Library) Move(ids []string, folderID string) Library {
	out := l
	out.Notes = slices.Clone(l.Notes)
	for i := range out.Notes {
		if slices.Contains(ids, out.Notes[i].ID) {
			out.Notes[i].FolderID = folderID
		}
	}
	return out
}

func (l Library) Delete(ids []string) Library {
	out := l
	out.Notes = slices.DeleteFunc(slices.Clone(l.Notes), func(n Note) bool {
		return slices.Contains(ids, n.ID)
	})
	return out
}

// Filter returns the notes in folderID (or every folder for AllFolders)
// whose title or raw content contains query, ignoring case. Content is
// matched as stored, markup included.
func (l Library) Filter(folderID, query string) []Note {
	q := strings.ToLower(query)
	out := make([]Note, 0, len(l.Notes))
	for _, n := range l.Notes {
		if folderID != AllFolders && n.FolderID != folderID {
			continue
		}
		if !strings.Contains(strings.ToLower(n.Title), q) &&
			!strings.Contains(strings.ToLower(n.Content), q) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Import prepends the incoming notes whose ids are not present yet. Existing
// records always win, and so does the first of any duplicates in incoming.
func (l Library) Import(incoming []Note) (Library, int) {
	seen := make(map[string]bool, len(l.Notes)+len(incoming))
	for _, n := range l.Notes {
		seen[n.ID] = true
	}
	fresh := make([]Note, 0, len(incoming))
	for _, n := range incoming {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		fresh = append(fresh, n)
	}
	if len(fresh) == 0 {
		return l, 0
	}
	out := l
	out.Notes = append(fresh, l.Notes...)
	return out, len(fresh)
}

func (l Library) AddFolder(f Folder) Library {
	if _, exists := l.Folder(f.ID); exists {
		return l
	}
	out := l
	out.Folders = append(slices.Clone(l.Folders), f)
	return out
}
