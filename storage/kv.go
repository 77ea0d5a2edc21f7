package storage

import "errors"

// ErrNotFound is returned by KV.Get for keys that were never written.
var ErrNotFound = errors.New("storage: key not found")

// KV is a flat string-keyed blob store. Every write replaces the whole value.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}
