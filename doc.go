// Package ascon128 implements the Ascon-128 authenticated cipher as a duplex
// construction over the 320-bit Ascon permutation.
//
// Two surfaces are provided. Seal and Open process a whole message at once,
// and the aead subpackage adapts them to [crypto/cipher.AEAD]. Engine exposes
// the same cipher as a byte-granular stepper with ready/valid backpressure,
// the shape of the hardware I/O boundary the construction was designed for:
// the caller feeds the key, the nonce, the associated data, and the message
// one byte at a time, draining each output byte as it becomes available. Both
// surfaces produce bit-identical ciphertexts and tags.
//
// Keys, nonces, and tags are 16 bytes; the duplex rate is 8 bytes. Key and
// nonce bytes are consumed most-significant-byte first, matching the official
// Ascon test vectors.
package ascon128
