package ascon128

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
)

// Mode is the direction of an Engine operation.
type Mode uint8

const (
	// Encrypt consumes plaintext bytes and produces ciphertext bytes and a
	// tag.
	Encrypt Mode = iota
	// Decrypt consumes ciphertext bytes and produces plaintext bytes. With
	// verify enabled, it then consumes the 16 tag bytes and checks them.
	Decrypt
)

var (
	// ErrNotReady is returned when the engine cannot accept an input byte
	// (an output byte is pending, or the phase produces no input) or has no
	// output byte available. It is not fatal; the operation resumes once the
	// caller drains or supplies the other side of the handshake.
	ErrNotReady = errors.New("ascon128: engine not ready")
	// ErrPhase is returned when the engine is driven outside its phase
	// discipline. The engine zeroizes itself and returns to idle; a fresh
	// Start is required.
	ErrPhase = errors.New("ascon128: invalid phase transition")
	// ErrInvalidLength is returned by Start for negative lengths.
	ErrInvalidLength = errors.New("ascon128: invalid length")
	// ErrInvalidMode is returned by Start when verify is requested for an
	// encrypt operation.
	ErrInvalidMode = errors.New("ascon128: verify requires decrypt mode")
)

type enginePhase uint8

const (
	phaseIdle enginePhase = iota
	phaseLoadKey
	phaseLoadNonce
	phaseAbsorbAAD
	phaseProcessData
	phaseVerifyTag
	phaseEmitTag
	phaseDone
)

// An Engine is the byte-granular streaming rendition of Ascon-128: a
// ready/valid handshake over 8-bit input and output ports, sequenced by an
// internal phase machine.
//
// One operation runs from Start to completion. The caller supplies, in
// order: 16 key bytes, 16 nonce bytes, the associated data, and the message,
// one byte per WriteByte. Each message byte makes one output byte available,
// which must be read before the next byte is accepted. After the message, an
// encrypt operation (and a decrypt without verify) emits the 16 tag bytes;
// a decrypt with verify instead consumes 16 tag bytes and resolves the
// comparison. Message lengths are signaled out of band via Start, since the
// byte stream alone does not delimit associated data from message.
//
// Plaintext streamed out during a verifying decrypt is unverified until
// Complete reports true with a nil Err; per the AEAD contract, the caller
// must not release it beforehand.
//
// All secret-dependent registers are zeroized on completion, on tag
// mismatch, on phase violations, and on Reset.
//
// Engine instances are not concurrent-safe.
type Engine struct {
	d      duplex
	k0, k1 uint64

	mode   Mode
	verify bool
	phase  enginePhase

	aadRemaining  int
	dataRemaining int

	// buf assembles the key, the nonce, and the supplied tag; bufLen also
	// counts the bytes of the current rate block in the AAD and data phases.
	buf    [16]byte
	bufLen int

	// block accumulates the ciphertext word of the current data block.
	block uint64

	outByte  byte
	outReady bool

	tag    [TagSize]byte
	tagPos int

	complete bool
	err      error
}

// NewEngine returns an idle Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Start begins a new operation: mode and verify select the direction,
// aadLen and dataLen are the associated-data and message lengths in bytes.
// The engine then expects the key via WriteByte.
//
// Starting while an operation is in flight is a phase violation: the engine
// zeroizes itself and returns ErrPhase, and Start must be called again.
func (e *Engine) Start(mode Mode, aadLen, dataLen int, verify bool) error {
	if e.phase != phaseIdle && e.phase != phaseDone {
		e.Reset()
		return ErrPhase
	}
	if aadLen < 0 || dataLen < 0 {
		return ErrInvalidLength
	}
	if verify && mode != Decrypt {
		return ErrInvalidMode
	}

	e.Reset()
	e.mode = mode
	e.verify = verify
	e.aadRemaining = aadLen
	e.dataRemaining = dataLen
	e.phase = phaseLoadKey
	return nil
}

// Reset aborts any operation in flight and zeroizes the key, the nonce, the
// cipher state, and the tag. The engine returns to idle.
func (e *Engine) Reset() {
	*e = Engine{}
}

// InputReady reports whether the engine will accept a WriteByte.
func (e *Engine) InputReady() bool {
	if e.err != nil || e.outReady {
		return false
	}
	switch e.phase {
	case phaseLoadKey, phaseLoadNonce, phaseAbsorbAAD, phaseProcessData, phaseVerifyTag:
		return true
	default:
		return false
	}
}

// OutputReady reports whether an output byte is available via ReadByte.
func (e *Engine) OutputReady() bool {
	return e.err == nil && (e.outReady || e.phase == phaseEmitTag)
}

// Complete reports whether the operation has finished. After a verifying
// decrypt, Err must be inspected before trusting any output.
func (e *Engine) Complete() bool {
	return e.complete
}

// Err returns the sticky error status of the current operation, if any.
func (e *Engine) Err() error {
	return e.err
}

// WriteByte feeds one input byte to the engine. It returns ErrNotReady,
// without consuming the byte, while an output byte is pending.
func (e *Engine) WriteByte(b byte) error {
	if e.err != nil {
		return e.err
	}
	if e.outReady || e.phase == phaseEmitTag {
		return ErrNotReady
	}

	switch e.phase {
	case phaseLoadKey:
		e.buf[e.bufLen] = b
		e.bufLen++
		if e.bufLen == KeySize {
			e.k0 = binary.BigEndian.Uint64(e.buf[:8])
			e.k1 = binary.BigEndian.Uint64(e.buf[8:16])
			e.clearBuf()
			e.phase = phaseLoadNonce
		}

	case phaseLoadNonce:
		e.buf[e.bufLen] = b
		e.bufLen++
		if e.bufLen == NonceSize {
			n0 := binary.BigEndian.Uint64(e.buf[:8])
			n1 := binary.BigEndian.Uint64(e.buf[8:16])
			e.clearBuf()
			e.d.initialize(e.k0, e.k1, n0, n1)
			if e.aadRemaining > 0 {
				e.phase = phaseAbsorbAAD
			} else {
				// Empty associated data absorbs nothing, but the domain
				// separation bit is always flipped.
				e.d.separateDomains()
				e.startData()
			}
		}

	case phaseAbsorbAAD:
		e.aadRemaining--
		e.buf[e.bufLen] = b
		e.bufLen++
		if e.bufLen == BlockSize {
			e.d.absorb(binary.BigEndian.Uint64(e.buf[:BlockSize]))
			e.d.permute()
			e.clearBuf()
		}
		if e.aadRemaining == 0 {
			// The final block is always padded; when the length is a
			// multiple of the block size this is a padding-only block.
			e.d.absorb(padBlock(e.buf[:e.bufLen]))
			e.d.permute()
			e.clearBuf()
			e.d.separateDomains()
			e.startData()
		}

	case phaseProcessData:
		e.dataRemaining--
		shift := 56 - 8*e.bufLen
		r := byte(e.d.squeeze() >> shift)

		// The output byte is rate XOR input in both directions; the byte
		// substituted into the rate is always the ciphertext byte.
		e.outByte = r ^ b
		e.outReady = true
		c := b
		if e.mode == Encrypt {
			c = r ^ b
		}
		e.block |= uint64(c) << shift
		e.bufLen++

		switch {
		case e.bufLen == BlockSize:
			e.d.setRate(e.block)
			e.block = 0
			e.bufLen = 0
			e.d.permute()
			if e.dataRemaining == 0 {
				// Full final block: a padding-only block follows it.
				e.d.absorb(0x80 << 56)
				e.finishData()
			}
		case e.dataRemaining == 0:
			// Partial final block: the ciphertext bytes replace the head of
			// the rate and the padding bit is flipped after them. No
			// permutation follows.
			mask := ^uint64(0) << (64 - 8*e.bufLen)
			x := (e.block & mask) | (e.d.squeeze() &^ mask)
			x ^= 0x80 << (56 - 8*e.bufLen)
			e.d.setRate(x)
			e.block = 0
			e.bufLen = 0
			e.finishData()
		}

	case phaseVerifyTag:
		e.buf[e.bufLen] = b
		e.bufLen++
		if e.bufLen == TagSize {
			ok := subtle.ConstantTimeCompare(e.buf[:TagSize], e.tag[:]) == 1
			e.clearBuf()
			e.tag = [TagSize]byte{}
			e.phase = phaseDone
			e.complete = true
			if !ok {
				e.err = ErrInvalidCiphertext
				return ErrInvalidCiphertext
			}
		}

	default:
		// Idle or Done: no operation is consuming input.
		e.Reset()
		return ErrPhase
	}

	return nil
}

// ReadByte drains one output byte from the engine.
func (e *Engine) ReadByte() (byte, error) {
	if e.err != nil {
		return 0, e.err
	}

	if e.outReady {
		b := e.outByte
		e.outByte = 0
		e.outReady = false
		return b, nil
	}

	if e.phase == phaseEmitTag {
		b := e.tag[e.tagPos]
		e.tagPos++
		if e.tagPos == TagSize {
			e.tag = [TagSize]byte{}
			e.tagPos = 0
			e.phase = phaseDone
			e.complete = true
		}
		return b, nil
	}

	return 0, ErrNotReady
}

// startData enters the data phase, handling the zero-length message (a
// single padding-only block, then finalization) immediately.
func (e *Engine) startData() {
	e.phase = phaseProcessData
	if e.dataRemaining == 0 {
		e.d.absorb(0x80 << 56)
		e.finishData()
	}
}

// finishData computes the tag, zeroizes the cipher state and key, and
// selects the tag phase: consume-and-compare for a verifying decrypt,
// emission otherwise.
func (e *Engine) finishData() {
	t0, t1 := e.d.finalize(e.k0, e.k1)
	binary.BigEndian.PutUint64(e.tag[:8], t0)
	binary.BigEndian.PutUint64(e.tag[8:], t1)
	e.d.clear()
	e.k0 = 0
	e.k1 = 0

	if e.mode == Decrypt && e.verify {
		e.phase = phaseVerifyTag
	} else {
		e.phase = phaseEmitTag
	}
}

func (e *Engine) clearBuf() {
	e.buf = [16]byte{}
	e.bufLen = 0
}
