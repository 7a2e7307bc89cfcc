// Package aead adapts the Ascon-128 cipher to the crypto/cipher.AEAD
// interface.
package aead

import (
	"crypto/cipher"

	"github.com/codahale/ascon128"
)

// New returns a new cipher.AEAD instance using Ascon-128 with the given
// 16-byte key.
func New(key []byte) (cipher.AEAD, error) {
	if len(key) != ascon128.KeySize {
		return nil, ascon128.ErrKeySize
	}
	a := new(aead)
	copy(a.key[:], key)
	return a, nil
}

type aead struct {
	key [ascon128.KeySize]byte
}

func (a *aead) NonceSize() int {
	return ascon128.NonceSize
}

func (a *aead) Overhead() int {
	return ascon128.TagSize
}

func (a *aead) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	ret, err := ascon128.Seal(dst, a.key[:], nonce, additionalData, plaintext)
	if err != nil {
		panic("ascon128/aead: invalid nonce size")
	}
	return ret
}

func (a *aead) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != ascon128.NonceSize {
		panic("ascon128/aead: invalid nonce size")
	}
	return ascon128.Open(dst, a.key[:], nonce, additionalData, ciphertext)
}

var _ cipher.AEAD = (*aead)(nil)
