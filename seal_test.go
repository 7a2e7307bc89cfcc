package ascon128_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/codahale/ascon128"
)

func sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

// The published Ascon-128 (v1.2) known-answer vector for an empty message
// and empty associated data: the ciphertext is the tag alone.
func TestSeal_KnownAnswer(t *testing.T) {
	key := sequence(16)
	nonce := sequence(16)

	ciphertext, err := ascon128.Seal(nil, key, nonce, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := hex.EncodeToString(ciphertext), "e355159f292911f794cb1432a0103a8a"; got != want {
		t.Errorf("Seal(key, nonce, nil, nil) = %s, want %s", got, want)
	}

	plaintext, err := ascon128.Open(nil, key, nonce, nil, ciphertext)
	if err != nil {
		t.Fatal(err)
	}
	if len(plaintext) != 0 {
		t.Errorf("Open = %x, want empty", plaintext)
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := sequence(16)
	nonce := sequence(16)

	for _, adLen := range []int{0, 1, 7, 8, 9, 16, 63, 256} {
		for _, ptLen := range []int{0, 1, 7, 8, 9, 15, 16, 17, 64, 65, 256} {
			ad, pt := sequence(adLen), sequence(ptLen)

			ciphertext, err := ascon128.Seal(nil, key, nonce, ad, pt)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := len(ciphertext), ptLen+ascon128.TagSize; got != want {
				t.Fatalf("adLen=%d ptLen=%d: len(ciphertext) = %d, want %d", adLen, ptLen, got, want)
			}

			plaintext, err := ascon128.Open(nil, key, nonce, ad, ciphertext)
			if err != nil {
				t.Fatalf("adLen=%d ptLen=%d: Open: %v", adLen, ptLen, err)
			}
			if !bytes.Equal(plaintext, pt) {
				t.Errorf("adLen=%d ptLen=%d: Open = %x, want %x", adLen, ptLen, plaintext, pt)
			}
		}
	}
}

// Flipping any single bit of the ciphertext or the tag must fail
// verification.
func TestOpen_TamperSensitivity(t *testing.T) {
	key := sequence(16)
	nonce := sequence(16)
	ad := sequence(11)
	pt := sequence(21)

	ciphertext, err := ascon128.Seal(nil, key, nonce, ad, pt)
	if err != nil {
		t.Fatal(err)
	}

	for i := range len(ciphertext) * 8 {
		tampered := bytes.Clone(ciphertext)
		tampered[i/8] ^= 1 << (i % 8)

		if _, err := ascon128.Open(nil, key, nonce, ad, tampered); err != ascon128.ErrInvalidCiphertext {
			t.Errorf("bit %d: Open = %v, want ErrInvalidCiphertext", i, err)
		}
	}
}

func TestOpen_WrongAssociatedData(t *testing.T) {
	key := sequence(16)
	nonce := sequence(16)

	ciphertext, err := ascon128.Seal(nil, key, nonce, []byte("ad one"), []byte("message"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ascon128.Open(nil, key, nonce, []byte("ad two"), ciphertext); err != ascon128.ErrInvalidCiphertext {
		t.Errorf("Open with wrong AD = %v, want ErrInvalidCiphertext", err)
	}
}

func TestOpen_ZeroesPlaintextOnFailure(t *testing.T) {
	key := sequence(16)
	nonce := sequence(16)
	pt := sequence(24)

	ciphertext, err := ascon128.Seal(nil, key, nonce, nil, pt)
	if err != nil {
		t.Fatal(err)
	}
	ciphertext[0] ^= 1

	dst := make([]byte, 0, len(pt))
	if _, err := ascon128.Open(dst, key, nonce, nil, ciphertext); err != ascon128.ErrInvalidCiphertext {
		t.Fatalf("Open = %v, want ErrInvalidCiphertext", err)
	}
	if !bytes.Equal(dst[:len(pt)], make([]byte, len(pt))) {
		t.Errorf("unverified plaintext not zeroed: %x", dst[:len(pt)])
	}
}

func TestSealOpen_ArgumentErrors(t *testing.T) {
	key := sequence(16)
	nonce := sequence(16)

	if _, err := ascon128.Seal(nil, key[:15], nonce, nil, nil); err != ascon128.ErrKeySize {
		t.Errorf("Seal with short key = %v, want ErrKeySize", err)
	}
	if _, err := ascon128.Seal(nil, key, nonce[:15], nil, nil); err != ascon128.ErrNonceSize {
		t.Errorf("Seal with short nonce = %v, want ErrNonceSize", err)
	}
	if _, err := ascon128.Open(nil, key, nonce, nil, sequence(15)); err != ascon128.ErrInvalidCiphertext {
		t.Errorf("Open with short ciphertext = %v, want ErrInvalidCiphertext", err)
	}
}

func BenchmarkSeal(b *testing.B) {
	key := sequence(16)
	nonce := sequence(16)
	pt := sequence(1024)
	dst := make([]byte, 0, len(pt)+ascon128.TagSize)

	b.SetBytes(int64(len(pt)))
	for b.Loop() {
		if _, err := ascon128.Seal(dst, key, nonce, nil, pt); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOpen(b *testing.B) {
	key := sequence(16)
	nonce := sequence(16)
	ciphertext, err := ascon128.Seal(nil, key, nonce, nil, sequence(1024))
	if err != nil {
		b.Fatal(err)
	}
	dst := make([]byte, 0, len(ciphertext))

	b.SetBytes(1024)
	for b.Loop() {
		if _, err := ascon128.Open(dst, key, nonce, nil, ciphertext); err != nil {
			b.Fatal(err)
		}
	}
}
