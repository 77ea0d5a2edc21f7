package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/electr1fy0/smartnotes/notes"
)

const (
	KeyNotes   = "smart-notes"
	KeyFolders = "smart-folders"
	KeyTheme   = "smart-theme"

	themeDark  = "dark"
	themeLight = "light"
)

// Snapshot is everything that survives a restart.
type Snapshot struct {
	Library notes.Library
	Dark    bool
}

func Defaults(now time.Time) Snapshot {
	return Snapshot{
		Library: notes.Library{
			Notes: []notes.Note{{
				ID:        "1",
				Title:     "Welcome",
				Content:   "This is your AI-powered workspace.",
				FolderID:  notes.DefaultFolderID,
				Timestamp: now.UnixMilli(),
			}},
			Folders: []notes.Folder{notes.DefaultFolder()},
		},
		Dark: true,
	}
}

// Persister mirrors the whole library into a KV after every change.
type Persister struct {
	kv  KV
	log zerolog.Logger
}

func NewPersister(kv KV, log zerolog.Logger) *Persister {
	return &Persister{kv: kv, log: log}
}

// Load reads each key independently. A missing or unreadable key falls back
// to its default; Load itself never fails.
func (p *Persister) Load(now time.Time) Snapshot {
	snap := Defaults(now)

	var ns []notes.Note
	if p.read(KeyNotes, &ns) && ns != nil {
		snap.Library.Notes = ns
	}
	var fs []notes.Folder
	if p.read(KeyFolders, &fs) && fs != nil {
		snap.Library.Folders = fs
	}

	theme, err := p.kv.Get(KeyTheme)
	switch {
	case err == nil:
		snap.Dark = string(theme) == themeDark
	case !errors.Is(err, ErrNotFound):
		p.log.Warn().Err(err).Str("key", KeyTheme).Msg("theme unreadable, using default")
	}
	return snap
}

func (p *Persister) read(key string, v any) bool {
	data, err := p.kv.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("stored value unreadable, using default")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("stored value corrupt, using default")
		return false
	}
	return true
}

// Save writes all three keys. Every key is attempted even if one fails.
func (p *Persister) Save(s Snapshot) error {
	theme := themeLight
	if s.Dark {
		theme = themeDark
	}
	notesJSON, err := json.Marshal(nonNil(s.Library.Notes))
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	foldersJSON, err := json.Marshal(nonNil(s.Library.Folders))
	if err != nil {
		return fmt.Errorf("encode folders: %w", err)
	}

	errs := []error{
		p.write(KeyNotes, notesJSON),
		p.write(KeyFolders, foldersJSON),
		p.write(KeyTheme, []byte(theme)),
	}
	return errors.Join(errs...)
}

func (p *Persister) write(key string, value []byte) error {
	if err := p.kv.Set(key, value); err != nil {
		p.log.Error().Err(err).Str("key", key).Msg("persist failed")
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (p *Persister) Close() error {
	return p.kv.Close()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
