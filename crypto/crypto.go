package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100_000
)

var ErrWrongPassphrase = errors.New("crypto: wrong passphrase or corrupt data")

// Sealed is the on-disk form of an encrypted value.
type Sealed struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Key is a passphrase stretched against one salt. Deriving it is the slow
// part; sealing with it only costs a nonce and one AES-GCM pass.
type Key struct {
	salt []byte
	gcm  cipher.AEAD
}

// NewKey derives a key for pass under a fresh random salt.
func NewKey(pass string) (*Key, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("salt: %w", err)
	}
	return DeriveKey(pass, salt)
}

// DeriveKey re-derives the key a value was sealed with.
func DeriveKey(pass string, salt []byte) (*Key, error) {
	key := pbkdf2.Key([]byte(pass), salt, iterations, keySize, sha256.New)
	defer clearBytes(key)
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return &Key{salt: bytes.Clone(salt), gcm: gcm}, nil
}

func (k *Key) Salt() []byte { return bytes.Clone(k.salt) }

func (k *Key) Seal(plaintext []byte) (*Sealed, error) {
	nonce := make([]byte, k.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return &Sealed{
		Salt:       bytes.Clone(k.salt),
		Nonce:      nonce,
		Ciphertext: k.gcm.Seal(nil, nonce, plaintext, nil),
	}, nil
}

func (k *Key) Open(s Sealed) ([]byte, error) {
	if !bytes.Equal(s.Salt, k.salt) || len(s.Nonce) != k.gcm.NonceSize() {
		return nil, ErrWrongPassphrase
	}
	plaintext, err := k.gcm.Open(nil, s.Nonce, s.Ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return gcm, nil
}

// Seal encrypts plaintext with a key derived from pass and a fresh salt.
func Seal(plaintext []byte, pass string) (*Sealed, error) {
	k, err := NewKey(pass)
	if err != nil {
		return nil, err
	}
	return k.Seal(plaintext)
}

func Open(s Sealed, pass string) ([]byte, error) {
	k, err := DeriveKey(pass, s.Salt)
	if err != nil {
		return nil, err
	}
	return k.Open(s)
}

func clearBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
