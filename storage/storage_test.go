package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electr1fy0/smartnotes/crypto"
	"github.com/electr1fy0/smartnotes/notes"
)

type kvFactory func(t *testing.T) KV

func factories() map[string]kvFactory {
	return map[string]kvFactory{
		"FileKV": func(t *testing.T) KV {
			kv, err := NewFileKV(t.TempDir(), "")
			require.NoError(t, err)
			return kv
		},
		"SealedFileKV": func(t *testing.T) KV {
			kv, err := NewFileKV(t.TempDir(), "passphrase")
			require.NoError(t, err)
			return kv
		},
		"SQLiteKV": func(t *testing.T) KV {
			kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "notes.db"))
			require.NoError(t, err)
			return kv
		},
	}
}

func runForAllKVs(t *testing.T, fn func(t *testing.T, kv KV)) {
	for name, factory := range factories() {
		t.Run(name, func(t *testing.T) {
			kv := factory(t)
			defer kv.Close()
			fn(t, kv)
		})
	}
}

func TestKVGetSet(t *testing.T) {
	runForAllKVs(t, func(t *testing.T, kv KV) {
		_, err := kv.Get("missing")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, kv.Set("k", []byte("one")))
		require.NoError(t, kv.Set("k", []byte("two")))
		got, err := kv.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "two", string(got))
	})
}

func TestLoadDefaults(t *testing.T) {
	now := time.UnixMilli(1234)
	runForAllKVs(t, func(t *testing.T, kv KV) {
		snap := NewPersister(kv, zerolog.Nop()).Load(now)
		assert.Equal(t, Defaults(now), snap)
		assert.True(t, snap.Dark)
		require.Len(t, snap.Library.Notes, 1)
		assert.Equal(t, "Welcome", snap.Library.Notes[0].Title)
		assert.Equal(t, notes.DefaultFolderID, snap.Library.Folders[0].ID)
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	runForAllKVs(t, func(t *testing.T, kv KV) {
		p := NewPersister(kv, zerolog.Nop())
		want := Snapshot{
			Library: notes.Library{
				Notes:   []notes.Note{{ID: "7", Title: "T", Content: "<b>x</b>", FolderID: "f", Timestamp: 99}},
				Folders: []notes.Folder{notes.DefaultFolder(), {ID: "f", Name: "F", Color: "#000"}},
			},
			Dark: false,
		}
		require.NoError(t, p.Save(want))
		assert.Equal(t, want, p.Load(time.Now()))
	})
}

func TestEmptyLibraryStaysEmpty(t *testing.T) {
	runForAllKVs(t, func(t *testing.T, kv KV) {
		p := NewPersister(kv, zerolog.Nop())
		require.NoError(t, p.Save(Snapshot{Dark: true}))

		snap := p.Load(time.Now())
		assert.Empty(t, snap.Library.Notes)
		assert.Empty(t, snap.Library.Folders)
	})
}

func TestCorruptKeysFallBackIndependently(t *testing.T) {
	runForAllKVs(t, func(t *testing.T, kv KV) {
		require.NoError(t, kv.Set(KeyNotes, []byte("{not json")))
		require.NoError(t, kv.Set(KeyFolders, []byte(`[{"id":"x","name":"X","color":"red"}]`)))
		require.NoError(t, kv.Set(KeyTheme, []byte("sepia")))

		snap := NewPersister(kv, zerolog.Nop()).Load(time.UnixMilli(1))

		assert.Equal(t, "Welcome", snap.Library.Notes[0].Title)
		assert.Equal(t, []notes.Folder{{ID: "x", Name: "X", Color: "red"}}, snap.Library.Folders)
		assert.False(t, snap.Dark)
	})
}

func TestSealedFileIsNotPlaintext(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir, "pw")
	require.NoError(t, err)
	require.NoError(t, kv.Set(KeyNotes, []byte(`[{"title":"diary"}]`)))

	raw, err := os.ReadFile(filepath.Join(dir, KeyNotes+".json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "diary")

	wrong, err := NewFileKV(dir, "other")
	require.NoError(t, err)
	snap := NewPersister(wrong, zerolog.Nop()).Load(time.UnixMilli(1))
	assert.Equal(t, "Welcome", snap.Library.Notes[0].Title)
}

func TestSQLiteCreatesMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not", "yet", "notes.db")

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set("k", []byte("v")))
	assert.FileExists(t, path)
}

func countDerivations(t *testing.T) (fresh, derived *int) {
	fresh, derived = new(int), new(int)
	origNew, origDerive := newKey, deriveKey
	newKey = func(pass string) (*crypto.Key, error) {
		*fresh++
		return origNew(pass)
	}
	deriveKey = func(pass string, salt []byte) (*crypto.Key, error) {
		*derived++
		return origDerive(pass, salt)
	}
	t.Cleanup(func() { newKey, deriveKey = origNew, origDerive })
	return fresh, derived
}

func TestSealedSavesDeriveKeyOnce(t *testing.T) {
	fresh, derived := countDerivations(t)
	dir := t.TempDir()

	kv, err := NewFileKV(dir, "pw")
	require.NoError(t, err)
	p := NewPersister(kv, zerolog.Nop())
	snap := Defaults(time.UnixMilli(1))
	for i := 0; i < 10; i++ {
		snap.Library.Notes[0].Content = strings.Repeat("x", i)
		require.NoError(t, p.Save(snap))
	}
	assert.Equal(t, 1, *fresh)
	assert.Zero(t, *derived)

	reopened, err := NewFileKV(dir, "pw")
	require.NoError(t, err)
	p = NewPersister(reopened, zerolog.Nop())
	got := p.Load(time.UnixMilli(2))
	assert.Equal(t, "xxxxxxxxx", got.Library.Notes[0].Content)
	assert.Equal(t, 1, *derived, "all keys share one salt")

	require.NoError(t, p.Save(got))
	assert.Equal(t, 1, *fresh, "writes reuse the key read back")
	assert.Equal(t, 1, *derived)
}
