package store

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

var errSealed = errors.New("store: cannot open sealed token")

const nonceSize = 24

// sealer encrypts bearer tokens at rest with a key derived from the session
// secret.
type sealer struct {
	key [32]byte
}

func newSealer(secret string) sealer {
	return sealer{key: sha256.Sum256([]byte("stock-admin/session-token\x00" + secret))}
}

func (s sealer) seal(plain string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key), nil
}

func (s sealer) open(box []byte) (string, error) {
	if len(box) < nonceSize+secretbox.Overhead {
		return "", errSealed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", errSealed
	}
	return string(plain), nil
}
