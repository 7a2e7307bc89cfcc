package ascon128

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"

	"github.com/codahale/ascon128/internal/mem"
)

const (
	// KeySize is the size of an Ascon-128 key in bytes.
	KeySize = 16
	// NonceSize is the size of an Ascon-128 nonce in bytes.
	NonceSize = 16
	// TagSize is the number of bytes added to the plaintext by Seal.
	TagSize = 16
	// BlockSize is the duplex rate in bytes.
	BlockSize = 8
)

var (
	// ErrInvalidCiphertext is returned when a ciphertext is invalid or has
	// been decrypted with the wrong key, nonce, or associated data.
	ErrInvalidCiphertext = errors.New("ascon128: invalid ciphertext")
	// ErrKeySize is returned when the key is not KeySize bytes long.
	ErrKeySize = errors.New("ascon128: invalid key size")
	// ErrNonceSize is returned when the nonce is not NonceSize bytes long.
	ErrNonceSize = errors.New("ascon128: invalid nonce size")
)

// Seal encrypts and authenticates plaintext, authenticates additionalData,
// and appends the ciphertext and a TagSize-byte tag to dst, returning the
// resulting slice.
func Seal(dst, key, nonce, additionalData, plaintext []byte) ([]byte, error) {
	k0, k1, n0, n1, err := loadKeyNonce(key, nonce)
	if err != nil {
		return nil, err
	}

	var d duplex
	d.initialize(k0, k1, n0, n1)
	absorbAdditionalData(&d, additionalData)

	ret, out := mem.SliceForAppend(dst, len(plaintext)+TagSize)
	ciphertext, tag := out[:len(plaintext)], out[len(plaintext):]

	for len(plaintext) >= BlockSize {
		d.absorb(binary.BigEndian.Uint64(plaintext))
		binary.BigEndian.PutUint64(ciphertext, d.squeeze())
		d.permute()
		plaintext = plaintext[BlockSize:]
		ciphertext = ciphertext[BlockSize:]
	}

	// The final block is always padded, even when the plaintext is empty or
	// a multiple of the block size. No permutation follows it.
	d.absorb(padBlock(plaintext))
	for i := range plaintext {
		ciphertext[i] = byte(d.squeeze() >> (56 - 8*i))
	}

	t0, t1 := d.finalize(k0, k1)
	binary.BigEndian.PutUint64(tag[:8], t0)
	binary.BigEndian.PutUint64(tag[8:], t1)
	d.clear()
	return ret, nil
}

// Open decrypts and verifies ciphertext, which must end with a TagSize-byte
// tag, and appends the plaintext to dst, returning the resulting slice. If
// verification fails, the decrypted output is zeroed and
// ErrInvalidCiphertext is returned.
func Open(dst, key, nonce, additionalData, ciphertext []byte) ([]byte, error) {
	k0, k1, n0, n1, err := loadKeyNonce(key, nonce)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < TagSize {
		return nil, ErrInvalidCiphertext
	}

	ret, plaintext := mem.SliceForAppend(dst, len(ciphertext)-TagSize)
	ciphertext, receivedTag := ciphertext[:len(plaintext)], ciphertext[len(plaintext):]
	out := plaintext

	var d duplex
	d.initialize(k0, k1, n0, n1)
	absorbAdditionalData(&d, additionalData)

	for len(ciphertext) >= BlockSize {
		c := binary.BigEndian.Uint64(ciphertext)
		binary.BigEndian.PutUint64(plaintext, d.squeeze()^c)
		d.setRate(c)
		d.permute()
		ciphertext = ciphertext[BlockSize:]
		plaintext = plaintext[BlockSize:]
	}

	// Final partial block: the decrypted bytes replace the head of the rate,
	// and the padding bit is flipped after them. No permutation follows.
	var buf [BlockSize]byte
	binary.BigEndian.PutUint64(buf[:], d.squeeze())
	for i := range ciphertext {
		plaintext[i] = buf[i] ^ ciphertext[i]
		buf[i] = ciphertext[i]
	}
	buf[len(ciphertext)] ^= 0x80
	d.setRate(binary.BigEndian.Uint64(buf[:]))

	t0, t1 := d.finalize(k0, k1)
	var expectedTag [TagSize]byte
	binary.BigEndian.PutUint64(expectedTag[:8], t0)
	binary.BigEndian.PutUint64(expectedTag[8:], t1)
	d.clear()

	if subtle.ConstantTimeCompare(receivedTag, expectedTag[:]) == 0 {
		clear(out)
		return nil, ErrInvalidCiphertext
	}
	return ret, nil
}

// absorbAdditionalData absorbs the associated data blocks (none if it's
// empty) and flips the domain separation bit.
func absorbAdditionalData(d *duplex, additionalData []byte) {
	if len(additionalData) > 0 {
		for len(additionalData) >= BlockSize {
			d.absorb(binary.BigEndian.Uint64(additionalData))
			d.permute()
			additionalData = additionalData[BlockSize:]
		}
		d.absorb(padBlock(additionalData))
		d.permute()
	}
	d.separateDomains()
}

// padBlock assembles a final partial block of fewer than BlockSize bytes,
// appending the 0x80 padding byte and zero-filling the rest.
func padBlock(p []byte) uint64 {
	var buf [BlockSize]byte
	n := copy(buf[:], p)
	buf[n] = 0x80
	return binary.BigEndian.Uint64(buf[:])
}

func loadKeyNonce(key, nonce []byte) (k0, k1, n0, n1 uint64, err error) {
	if len(key) != KeySize {
		return 0, 0, 0, 0, ErrKeySize
	}
	if len(nonce) != NonceSize {
		return 0, 0, 0, 0, ErrNonceSize
	}
	return binary.BigEndian.Uint64(key), binary.BigEndian.Uint64(key[8:]),
		binary.BigEndian.Uint64(nonce), binary.BigEndian.Uint64(nonce[8:]), nil
}
