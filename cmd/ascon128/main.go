// Command ascon128 encrypts or decrypts a stream from stdin to stdout with
// the Ascon-128 engine, driving the byte-wide handshake directly.
package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/codahale/ascon128"
)

var log = logrus.New() //nolint:gochecknoglobals // process-wide logger

func main() {
	log.SetOutput(os.Stderr)

	var keyHex, nonceHex, adHex string
	var noVerify bool

	root := &cobra.Command{
		Use:           "ascon128",
		Short:         "Ascon-128 authenticated encryption",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&keyHex, "key", "", "128-bit key (hex)")
	root.PersistentFlags().StringVar(&nonceHex, "nonce", "", "128-bit nonce (hex)")
	root.PersistentFlags().StringVar(&adHex, "ad", "", "associated data (hex)")

	encrypt := &cobra.Command{
		Use:   "encrypt",
		Short: "encrypt stdin to stdout, appending the tag",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(ascon128.Encrypt, keyHex, nonceHex, adHex, false)
		},
	}

	decrypt := &cobra.Command{
		Use:   "decrypt",
		Short: "decrypt stdin to stdout, verifying the trailing tag",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(ascon128.Decrypt, keyHex, nonceHex, adHex, noVerify)
		},
	}
	decrypt.Flags().BoolVar(&noVerify, "no-verify", false, "skip tag verification")

	root.AddCommand(encrypt, decrypt)
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(mode ascon128.Mode, keyHex, nonceHex, adHex string, noVerify bool) error {
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != ascon128.KeySize {
		return fmt.Errorf("--key must be %d hex-encoded bytes", ascon128.KeySize)
	}
	nonce, err := hex.DecodeString(nonceHex)
	if err != nil || len(nonce) != ascon128.NonceSize {
		return fmt.Errorf("--nonce must be %d hex-encoded bytes", ascon128.NonceSize)
	}
	ad, err := hex.DecodeString(adHex)
	if err != nil {
		return fmt.Errorf("--ad must be hex-encoded: %w", err)
	}

	if mode == ascon128.Decrypt && noVerify {
		log.Warn("tag not verified; output is unauthenticated")
	}
	return process(mode, key, nonce, ad, noVerify, os.Stdin, os.Stdout)
}

// process reads the whole input, drives one engine operation over it, and
// writes the output. A verifying decrypt stages all plaintext in memory and
// releases none of it unless the tag checks out.
func process(mode ascon128.Mode, key, nonce, ad []byte, noVerify bool, in io.Reader, stdout io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	// Decryption input always carries a trailing tag; --no-verify only skips
	// the comparison.
	verify := mode == ascon128.Decrypt && !noVerify
	var tag []byte
	if mode == ascon128.Decrypt {
		if len(data) < ascon128.TagSize {
			return ascon128.ErrInvalidCiphertext
		}
		data, tag = data[:len(data)-ascon128.TagSize], data[len(data)-ascon128.TagSize:]
		if !verify {
			tag = nil
		}
	}

	bw := bufio.NewWriter(stdout)
	var pending bytes.Buffer
	var out io.ByteWriter = bw
	if verify {
		out = &pending
	}

	e := ascon128.NewEngine()
	if err := e.Start(mode, len(ad), len(data), verify); err != nil {
		return err
	}

	// The first len(data) output bytes are the message; the rest is the
	// emitted tag, which is kept for encryption and discarded for an
	// unverified decryption.
	emitted := 0
	sink := func(b byte) error {
		keep := emitted < len(data) || mode == ascon128.Encrypt
		emitted++
		if keep {
			return out.WriteByte(b)
		}
		return nil
	}

	for _, in := range [][]byte{key, nonce, ad, data, tag} {
		for _, b := range in {
			for !e.InputReady() {
				ob, err := e.ReadByte()
				if err != nil {
					return err
				}
				if err := sink(ob); err != nil {
					return err
				}
			}
			if err := e.WriteByte(b); err != nil {
				return err
			}
		}
	}

	for !e.Complete() {
		ob, err := e.ReadByte()
		if err != nil {
			return err
		}
		if err := sink(ob); err != nil {
			return err
		}
	}

	if err := e.Err(); err != nil {
		return err
	}
	if verify {
		if _, err := bw.Write(pending.Bytes()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
