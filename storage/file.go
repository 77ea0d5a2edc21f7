package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/electr1fy0/smartnotes/crypto"
)

// swapped in tests to count key derivations
var (
	newKey    = crypto.NewKey
	deriveKey = crypto.DeriveKey
)

// FileKV keeps one file per key under dir. With a passphrase set, values are
// sealed before they touch the disk. Derived keys are cached by salt, so the
// passphrase is stretched once per store rather than on every write.
type FileKV struct {
	dir        string
	passphrase string

	mu    sync.Mutex
	write *crypto.Key
	keys  map[string]*crypto.Key
}

func NewFileKV(dir, passphrase string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileKV{dir: dir, passphrase: passphrase, keys: map[string]*crypto.Key{}}, nil
}

// keyFor returns the key for salt, deriving it on first use. The first key
// seen also becomes the write key so later writes share its salt.
func (f *FileKV) keyFor(salt []byte) (*crypto.Key, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if k, ok := f.keys[string(salt)]; ok {
		return k, nil
	}
	k, err := deriveKey(f.passphrase, salt)
	if err != nil {
		return nil, err
	}
	f.keys[string(salt)] = k
	if f.write == nil {
		f.write = k
	}
	return k, nil
}

func (f *FileKV) writeKey() (*crypto.Key, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.write != nil {
		return f.write, nil
	}
	k, err := newKey(f.passphrase)
	if err != nil {
		return nil, err
	}
	f.write = k
	f.keys[string(k.Salt())] = k
	return k, nil
}

func (f *FileKV) path(key string) string {
	name := strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(key)
	return filepath.Join(f.dir, name+".json")
}

func (f *FileKV) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if f.passphrase == "" {
		return data, nil
	}

	var sealed crypto.Sealed
	if err := json.Unmarshal(data, &sealed); err != nil {
		return nil, fmt.Errorf("decode sealed %s: %w", key, err)
	}
	k, err := f.keyFor(sealed.Salt)
	if err != nil {
		return nil, err
	}
	return k.Open(sealed)
}

func (f *FileKV) Set(key string, value []byte) error {
	data := value
	if f.passphrase != "" {
		k, err := f.writeKey()
		if err != nil {
			return fmt.Errorf("seal %s: %w", key, err)
		}
		sealed, err := k.Seal(value)
		if err != nil {
			return fmt.Errorf("seal %s: %w", key, err)
		}
		if data, err = json.Marshal(sealed); err != nil {
			return err
		}
	}

	// write then rename so a crash never leaves half a file behind
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path(key))
}

func (f *FileKV) Close() error { return nil }
