// Package ascon implements the Ascon permutation over a 320-bit state of
// five 64-bit lanes.
package ascon

import "math/bits"

// State is the 320-bit permutation state. Lane 0 is the rate word of the
// Ascon-128 duplex; lanes 1 through 4 are the capacity.
type State [5]uint64

var constants = [12]uint64{ //nolint:gochecknoglobals // round constants
	0xf0, 0xe1, 0xd2, 0xc3, 0xb4, 0xa5, 0x96, 0x87, 0x78, 0x69, 0x5a, 0x4b,
}

// Permute12 applies the 12-round permutation p^a to the state.
func Permute12(s *State) {
	permute(s, 0)
}

// Permute6 applies the 6-round permutation p^b to the state. It uses the
// last six round constants, so Permute6 and Permute12 end on the same
// constant.
func Permute6(s *State) {
	permute(s, 6)
}

func permute(s *State, start int) {
	x0, x1, x2, x3, x4 := s[0], s[1], s[2], s[3], s[4]

	for i := start; i < len(constants); i++ {
		x0, x1, x2, x3, x4 = round(x0, x1, x2, x3, x4, constants[i])
	}

	s[0] = x0
	s[1] = x1
	s[2] = x2
	s[3] = x3
	s[4] = x4
}

func round(x0, x1, x2, x3, x4, c uint64) (uint64, uint64, uint64, uint64, uint64) {
	// Addition of constant
	x2 ^= c

	// Substitution layer, bitsliced across all 64 lanes
	x0 ^= x4
	x4 ^= x3
	x2 ^= x1

	t0 := ^x0 & x1
	t1 := ^x1 & x2
	t2 := ^x2 & x3
	t3 := ^x3 & x4
	t4 := ^x4 & x0

	x0 ^= t1
	x1 ^= t2
	x2 ^= t3
	x3 ^= t4
	x4 ^= t0

	x1 ^= x0
	x0 ^= x4
	x3 ^= x2
	x2 = ^x2

	// Linear diffusion layer
	x0 ^= bits.RotateLeft64(x0, -19) ^ bits.RotateLeft64(x0, -28)
	x1 ^= bits.RotateLeft64(x1, -61) ^ bits.RotateLeft64(x1, -39)
	x2 ^= bits.RotateLeft64(x2, -1) ^ bits.RotateLeft64(x2, -6)
	x3 ^= bits.RotateLeft64(x3, -10) ^ bits.RotateLeft64(x3, -17)
	x4 ^= bits.RotateLeft64(x4, -7) ^ bits.RotateLeft64(x4, -41)

	return x0, x1, x2, x3, x4
}
