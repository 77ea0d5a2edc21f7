package share

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/electr1fy0/smartnotes/notes"
)

const (
	backupVersion = "v6"
	divider       = "===================="
)

var ErrInvalidBackup = errors.New("share: invalid backup file")

// Envelope is the file written for a partial export.
type Envelope struct {
	Notes      []notes.Note   `json:"notes"`
	Folders    []notes.Folder `json:"folders"`
	ExportDate string         `json:"exportDate"`
}

// Backup is the file written for a full library backup.
type Backup struct {
	Notes     []notes.Note   `json:"notes"`
	Folders   []notes.Folder `json:"folders"`
	Version   string         `json:"version"`
	Timestamp int64          `json:"timestamp"`
}

func title(n notes.Note) string {
	if n.Title == "" {
		return "Untitled"
	}
	return n.Title
}

// JSON renders the raw records, indented.
func JSON(ns []notes.Note) (string, error) {
	if ns == nil {
		ns = []notes.Note{}
	}
	b, err := json.MarshalIndent(ns, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Text renders TITLE blocks separated by a divider line.
func Text(ns []notes.Note) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("TITLE: %s\n%s\n", title(n), n.Content)
	}
	return strings.Join(parts, "\n---\n")
}

// ShareText is the body handed to the system share command.
func ShareText(ns []notes.Note) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = title(n) + "\n" + n.Content
	}
	return strings.Join(parts, "\n\n")
}

func EnvelopeJSON(ns []notes.Note, folders []notes.Folder, now time.Time) ([]byte, error) {
	return json.MarshalIndent(Envelope{
		Notes:      ns,
		Folders:    folders,
		ExportDate: now.UTC().Format("2006-01-02T15:04:05.000Z"),
	}, "", "  ")
}

func BackupJSON(lib notes.Library, now time.Time) ([]byte, error) {
	return json.MarshalIndent(Backup{
		Notes:     lib.Notes,
		Folders:   lib.Folders,
		Version:   backupVersion,
		Timestamp: now.UnixMilli(),
	}, "", "  ")
}

// Archive lists every note with its date and folder name resolved now.
func Archive(lib notes.Library, loc *time.Location) string {
	parts := make([]string, len(lib.Notes))
	for i, n := range lib.Notes {
		parts[i] = fmt.Sprintf("NOTE: %s\nDATE: %s\nFOLDER: %s\n\n%s\n\n%s\n",
			title(n),
			n.Time().In(loc).Format("1/2/2006, 3:04:05 PM"),
			lib.FolderName(n.FolderID),
			n.Content,
			divider,
		)
	}
	return strings.Join(parts, "\n")
}

// ParseImport accepts any JSON object carrying a notes array.
func ParseImport(data []byte) ([]notes.Note, error) {
	var payload struct {
		Notes *[]notes.Note `json:"notes"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if payload.Notes == nil {
		return nil, fmt.Errorf("%w: no notes array", ErrInvalidBackup)
	}
	return *payload.Notes, nil
}

func exportName(now time.Time) string {
	return fmt.Sprintf("SmartNotes_Export_%d.json", now.UnixMilli())
}

func backupName(now time.Time) string {
	return fmt.Sprintf("SmartNotes_Full_Backup_%s.json", now.Format("2006-01-02"))
}

func archiveName(now time.Time) string {
	return fmt.Sprintf("SmartNotes_Text_Archive_%s.txt", now.Format("2006-01-02"))
}
