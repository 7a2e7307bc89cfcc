package ascon128 //nolint:testpackage // testing zeroization internals

import (
	"testing"

	"github.com/codahale/ascon128/internal/ascon"
)

// feed drives n bytes of b into the engine, draining any output in between.
func feed(t *testing.T, e *Engine, b byte, n int) {
	t.Helper()
	for range n {
		for !e.InputReady() {
			if _, err := e.ReadByte(); err != nil {
				t.Fatal(err)
			}
		}
		if err := e.WriteByte(b); err != nil {
			t.Fatal(err)
		}
	}
}

func TestEngine_ResetHygiene(t *testing.T) {
	// Number of input bytes to supply before resetting, one per phase:
	// mid-key, mid-nonce, mid-AAD, mid-data, and mid-tag-verification.
	for _, bytesIn := range []int{0, 7, 16 + 9, 32 + 3, 32 + 8 + 5, 32 + 8 + 24 + 2} {
		e := NewEngine()
		if err := e.Start(Decrypt, 8, 24, true); err != nil {
			t.Fatal(err)
		}
		feed(t, e, 0x5a, bytesIn)

		e.Reset()

		if *e != (Engine{}) {
			t.Errorf("after reset at byte %d, engine = %+v, want zero", bytesIn, *e)
		}

		// The next operation must not observe any residue.
		if err := e.Start(Encrypt, 0, 0, false); err != nil {
			t.Errorf("start after reset: %v", err)
		}
	}
}

func TestEngine_ZeroizesSecretsBeforeTagEmission(t *testing.T) {
	e := NewEngine()
	if err := e.Start(Encrypt, 0, 0, false); err != nil {
		t.Fatal(err)
	}
	feed(t, e, 0x01, 32) // key and nonce

	// The tag is pending, but the cipher state and key are already gone.
	if !e.OutputReady() {
		t.Fatal("expected tag output")
	}
	if e.d.s != (ascon.State{}) {
		t.Errorf("cipher state = %v, want all zero", e.d.s)
	}
	if e.k0 != 0 || e.k1 != 0 {
		t.Errorf("key = %#x, %#x, want zero", e.k0, e.k1)
	}
}

func TestEngine_PhaseViolationZeroizes(t *testing.T) {
	e := NewEngine()
	if err := e.Start(Encrypt, 0, 8, false); err != nil {
		t.Fatal(err)
	}
	feed(t, e, 0x42, 32+4)

	if err := e.Start(Encrypt, 0, 8, false); err != ErrPhase {
		t.Fatalf("mid-operation start = %v, want ErrPhase", err)
	}
	if *e != (Engine{}) {
		t.Errorf("after phase violation, engine = %+v, want zero", *e)
	}
}
