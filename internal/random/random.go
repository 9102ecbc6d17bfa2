/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package random seeds the generators used to deal boards and pick room
// codes.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// NewSeed reads a 64-bit seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}

// New returns a PCG generator seeded from crypto/rand. A fixed seed gives a
// repeatable generator instead.
func New(seed ...uint64) (*rand.Rand, error) {
	if len(seed) > 0 {
		return rand.New(rand.NewPCG(seed[0], seed[0]^0x9e3779b97f4a7c15)), nil
	}

	hi, err := NewSeed()
	if err != nil {
		return nil, err
	}
	lo, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return rand.New(rand.NewPCG(hi, lo)), nil
}
