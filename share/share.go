package share

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/electr1fy0/smartnotes/notes"
)

type Format string

const (
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatDownload Format = "download"
	FormatSystem   Format = "system"
)

type BackupFormat string

const (
	BackupJSONFormat BackupFormat = "json"
	BackupTextFormat BackupFormat = "text"
)

const (
	StatusCopied       = "Copied to clipboard!"
	StatusCopyFailed   = "Failed to copy"
	StatusExported     = "Export downloaded!"
	StatusExportFailed = "Export failed"
	StatusShared       = "Shared!"
	StatusJSONBackup   = "JSON Backup downloaded!"
	StatusTextBackup   = "Text Archive downloaded!"
	StatusBackupFailed = "Backup failed"
	StatusImported     = "Data imported successfully!"
	StatusInvalid      = "Invalid backup file"
)

var ErrShareUnavailable = errors.New("share: no share command configured")

type Clipboard interface {
	WriteAll(text string) error
}

type Sharer interface {
	Share(ctx context.Context, title, text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// CommandSharer hands the text to an external program on stdin, the terminal
// stand-in for a platform share sheet.
type CommandSharer struct {
	Command string
}

func (c CommandSharer) Share(ctx context.Context, title, text string) error {
	fields := strings.Fields(c.Command)
	if len(fields) == 0 {
		return ErrShareUnavailable
	}
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Env = append(os.Environ(), "SMARTNOTES_SHARE_TITLE="+title)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("share command: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

type Exporter struct {
	Clipboard Clipboard
	Sharer    Sharer
	Dir       string
	Location  *time.Location
	Log       zerolog.Logger
}

func (e *Exporter) copy(text string) string {
	if e.Clipboard == nil {
		return StatusCopyFailed
	}
	if err := e.Clipboard.WriteAll(text); err != nil {
		e.Log.Warn().Err(err).Msg("clipboard write failed")
		return StatusCopyFailed
	}
	return StatusCopied
}

func (e *Exporter) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(e.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Share delivers the selected notes in the given format and returns the
// status line to show. It never fails outright: share degrades to the
// clipboard and everything else reports a failure status.
func (e *Exporter) Share(ctx context.Context, format Format, selected []notes.Note, folders []notes.Folder, now time.Time) string {
	if len(selected) == 0 {
		return ""
	}
	switch format {
	case FormatJSON:
		text, err := JSON(selected)
		if err != nil {
			return StatusCopyFailed
		}
		return e.copy(text)
	case FormatText:
		return e.copy(Text(selected))
	case FormatDownload:
		data, err := EnvelopeJSON(selected, folders, now)
		if err == nil {
			var path string
			if path, err = e.write(exportName(now), data); err == nil {
				e.Log.Info().Str("path", path).Int("notes", len(selected)).Msg("export written")
				return StatusExported
			}
		}
		e.Log.Error().Err(err).Msg("export failed")
		return StatusExportFailed
	case FormatSystem:
		text := ShareText(selected)
		if e.Sharer != nil {
			err := e.Sharer.Share(ctx, "My Smart Notes", text)
			if err == nil {
				return StatusShared
			}
			e.Log.Info().Err(err).Msg("share unavailable, falling back to clipboard")
		}
		return e.copy(text)
	}
	return ""
}

// Backup writes the whole library and returns the status line and file path.
func (e *Exporter) Backup(format BackupFormat, lib notes.Library, now time.Time) (string, string, error) {
	loc := e.Location
	if loc == nil {
		loc = time.Local
	}

	var (
		name   string
		data   []byte
		status string
		err    error
	)
	switch format {
	case BackupTextFormat:
		name, data, status = archiveName(now), []byte(Archive(lib, loc)), StatusTextBackup
	default:
		name, status = backupName(now), StatusJSONBackup
		if data, err = BackupJSON(lib, now); err != nil {
			return StatusBackupFailed, "", err
		}
	}

	path, err := e.write(name, data)
	if err != nil {
		e.Log.Error().Err(err).Msg("backup failed")
		return StatusBackupFailed, "", fmt.Errorf("write backup: %w", err)
	}
	e.Log.Info().Str("path", path).Int("notes", len(lib.Notes)).Msg("backup written")
	return status, path, nil
}

// ReadImport reads a backup file. The error is ErrInvalidBackup for
// anything that is not a JSON object with a notes array.
func ReadImport(path string) ([]notes.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return ParseImport(data)
}
