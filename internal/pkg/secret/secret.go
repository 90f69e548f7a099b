// Package secret seals short credentials (provider API keys) before they
// reach the database and masks them for display.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	nonceSize = 24
	keySize   = 32
	prefix    = "sb1:"
)

var ErrOpen = errors.New("secret: unable to open sealed value")

type Box struct {
	key [keySize]byte
}

// NewBox derives the sealing key from an operator supplied passphrase.
func NewBox(passphrase string) (*Box, error) {
	if strings.TrimSpace(passphrase) == "" {
		return nil, fmt.Errorf("secret key is required")
	}
	return &Box{key: sha256.Sum256([]byte(passphrase))}, nil
}

func (b *Box) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plain), &nonce, &b.key)
	return prefix + base64.StdEncoding.EncodeToString(out), nil
}

func (b *Box) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	if !strings.HasPrefix(sealed, prefix) {
		return "", ErrOpen
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, prefix))
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrOpen
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &b.key)
	if !ok {
		return "", ErrOpen
	}
	return string(plain), nil
}

// Mask keeps the first and last four characters of keys longer than eight.
func Mask(key string) string {
	if key == "" {
		return ""
	}
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	return "********"
}
