// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

// Package rng derives the per-iteration random stream of a Monte Carlo run.
// A stream is fully determined by a (seed, iteration) pair and can be
// snapshotted and restored so that several samplers draw identical numbers.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/exp/rand"
)

// stateSize is the length of a serialised PCG state.
const stateSize = 16

// Snapshot is an opaque copy of the state of a Stream.
type Snapshot []byte

// Stream is the single source of randomness of one iteration. It implements
// rand.Source so gonum distributions can sample from it directly. A Stream is
// not safe for concurrent use.
type Stream struct {
	src *rand.PCGSource
	rg  *rand.Rand
}

// New returns the stream for iteration of a run seeded with seed. The PCG
// state is the BLAKE2b digest of both numbers, hence neighbouring iterations
// get unrelated streams.
func New(seed, iteration uint64) *Stream {
	var in [16]byte
	binary.BigEndian.PutUint64(in[:8], seed)
	binary.BigEndian.PutUint64(in[8:], iteration)
	digest := blake2b.Sum256(in[:])
	s, err := fromState(digest[:stateSize])
	if err != nil {
		panic(fmt.Sprintf("rng: cannot initialise stream; %v", err))
	}
	return s
}

// NewUnseeded returns a stream seeded from the operating system. Its output
// cannot be reproduced.
func NewUnseeded() (*Stream, error) {
	var state [stateSize]byte
	if _, err := crand.Read(state[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return fromState(state[:])
}

func fromState(state []byte) (*Stream, error) {
	src := &rand.PCGSource{}
	if err := src.UnmarshalBinary(state); err != nil {
		return nil, err
	}
	return &Stream{src: src, rg: rand.New(src)}, nil
}

// Uint64 returns the next raw 64-bit value of the stream.
func (s *Stream) Uint64() uint64 {
	return s.src.Uint64()
}

// Seed resets the stream to the state derived from seed alone.
func (s *Stream) Seed(seed uint64) {
	s.src.Seed(seed)
}

// Uniform draws a value in [0,1).
func (s *Stream) Uniform() float64 {
	return s.rg.Float64()
}

// UniformN draws n values in [0,1).
func (s *Stream) UniformN(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = s.rg.Float64()
	}
	return res
}

// StandardNormal draws a value from N(0,1).
func (s *Stream) StandardNormal() float64 {
	return s.rg.NormFloat64()
}

// StandardNormalN draws n values from N(0,1).
func (s *Stream) StandardNormalN(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = s.rg.NormFloat64()
	}
	return res
}

// Snapshot captures the current state of the stream.
func (s *Stream) Snapshot() Snapshot {
	// MarshalBinary of a PCG source never fails
	state, _ := s.src.MarshalBinary()
	return state
}

// Restore rewinds the stream to a state captured by Snapshot.
func (s *Stream) Restore(snapshot Snapshot) error {
	if len(snapshot) != stateSize {
		return fmt.Errorf("invalid stream snapshot of %d bytes", len(snapshot))
	}
	return s.src.UnmarshalBinary(snapshot)
}
