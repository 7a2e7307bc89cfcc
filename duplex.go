package ascon128

import (
	"encoding/binary"
	"fmt"

	"github.com/codahale/ascon128/internal/ascon"
)

// iv is the Ascon-128 initialization constant: a 128-bit key, a 64-bit rate,
// pa=12, and pb=6.
const iv = 0x80400c0600000000

// A duplex owns the 320-bit cipher state. Word 0 is the rate, the only word
// ever XORed with input or read as output. Words 1 through 4 are the
// capacity, touched only by the permutation and the two key injection points
// in initialize and finalize.
type duplex struct {
	s ascon.State
}

// initialize sets the state to IV‖K‖N, applies the 12-round permutation, and
// injects the key into the last two capacity words.
func (d *duplex) initialize(k0, k1, n0, n1 uint64) {
	d.s = ascon.State{iv, k0, k1, n0, n1}
	ascon.Permute12(&d.s)
	d.s[3] ^= k0
	d.s[4] ^= k1
}

// absorb XORs a fully assembled (possibly padded) block into the rate.
func (d *duplex) absorb(block uint64) {
	d.s[0] ^= block
}

// squeeze reads the rate word.
func (d *duplex) squeeze() uint64 {
	return d.s[0]
}

// setRate replaces the rate word with a ciphertext block, the substitution
// step of the duplex encrypt/decrypt discipline.
func (d *duplex) setRate(block uint64) {
	d.s[0] = block
}

// separateDomains flips the domain separation bit between the associated
// data and message phases.
func (d *duplex) separateDomains() {
	d.s[4] ^= 1
}

// finalize injects the key into the first two capacity words, applies the
// 12-round permutation, and returns the two tag words.
func (d *duplex) finalize(k0, k1 uint64) (t0, t1 uint64) {
	d.s[1] ^= k0
	d.s[2] ^= k1
	ascon.Permute12(&d.s)
	return d.s[3] ^ k0, d.s[4] ^ k1
}

// permute applies the 6-round permutation between rate blocks.
func (d *duplex) permute() {
	ascon.Permute6(&d.s)
}

// clear zeroizes the state.
func (d *duplex) clear() {
	d.s = ascon.State{}
}

// String renders the state as rate^capacity hex.
func (d *duplex) String() string {
	var b [40]byte
	for i, w := range d.s {
		binary.BigEndian.PutUint64(b[i*8:], w)
	}
	return fmt.Sprintf("%x^%x", b[:8], b[8:])
}

var _ fmt.Stringer = (*duplex)(nil)
