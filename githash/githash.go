// Copyright 2025 The gitoxide Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package githash provides types for Git object hashes and the hash
// algorithms that produce them.
package githash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/pjbgf/sha1cd"
)

// Size constants for the supported algorithms.
const (
	// SHA1Size is the number of bytes in a SHA-1 hash.
	SHA1Size = 20
	// SHA256Size is the number of bytes in a SHA-256 hash.
	SHA256Size = 32

	maxSize = SHA256Size
)

// Algorithm identifies one of the object hash functions Git supports.
// The zero value is not a valid algorithm: callers select the algorithm
// explicitly rather than relying on a default.
type Algorithm int8

// Supported algorithms.
const (
	// SHA1 is the original 160-bit object format. The implementation
	// detects inputs crafted for the SHAttered collision attack.
	SHA1 Algorithm = 1 + iota
	// SHA256 is the 256-bit object format from the hash function
	// transition.
	SHA256
)

// ParseAlgorithm returns the algorithm with the given name, as used in
// the extensions.objectFormat repository setting.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	default:
		return 0, fmt.Errorf("parse hash algorithm: unknown algorithm %q", name)
	}
}

// IsValid reports whether a is one of the known constants.
func (a Algorithm) IsValid() bool {
	return a == SHA1 || a == SHA256
}

// String returns the algorithm name ("sha1" or "sha256").
func (a Algorithm) String() string {
	switch a {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	default:
		return fmt.Sprintf("githash.Algorithm(%d)", int8(a))
	}
}

// Size returns the number of bytes in a digest produced by a.
// It panics if a is not a valid algorithm.
func (a Algorithm) Size() int {
	switch a {
	case SHA1:
		return SHA1Size
	case SHA256:
		return SHA256Size
	default:
		panic("invalid hash algorithm")
	}
}

// New returns a new hash state for the algorithm.
// It panics if a is not a valid algorithm.
func (a Algorithm) New() hash.Hash {
	switch a {
	case SHA1:
		return sha1cd.New()
	case SHA256:
		return sha256.New()
	default:
		panic("invalid hash algorithm")
	}
}

// Sum computes the digest of data.
func (a Algorithm) Sum(data []byte) ObjectID {
	h := a.New()
	h.Write(data)
	id := ObjectID{algo: a}
	h.Sum(id.raw[:0])
	return id
}

// Zero returns the all-zero ID of the algorithm, which never identifies
// a real object.
func (a Algorithm) Zero() ObjectID {
	if !a.IsValid() {
		panic("invalid hash algorithm")
	}
	return ObjectID{algo: a}
}

// NewID copies the raw digest b into an ObjectID. It returns an error
// if len(b) does not match the algorithm's digest size.
func (a Algorithm) NewID(b []byte) (ObjectID, error) {
	if !a.IsValid() {
		return ObjectID{}, fmt.Errorf("new %v hash: invalid algorithm", a)
	}
	if len(b) != a.Size() {
		return ObjectID{}, fmt.Errorf("new %v hash %x: wrong size", a, b)
	}
	id := ObjectID{algo: a}
	copy(id.raw[:], b)
	return id, nil
}

// ParseID parses a hex-encoded digest of the algorithm.
func (a Algorithm) ParseID(s string) (ObjectID, error) {
	if !a.IsValid() {
		return ObjectID{}, fmt.Errorf("parse %v hash: invalid algorithm", a)
	}
	if len(s) != hex.EncodedLen(a.Size()) {
		return ObjectID{}, fmt.Errorf("parse %v hash %q: wrong size", a, s)
	}
	id := ObjectID{algo: a}
	if _, err := hex.Decode(id.raw[:a.Size()], []byte(s)); err != nil {
		return ObjectID{}, fmt.Errorf("parse %v hash %q: %w", a, s, err)
	}
	return id, nil
}

// An ObjectID is the hash of a Git object under a particular algorithm.
// It is an immutable value type: IDs compare equal with == exactly when
// both the algorithm and the digest match. The zero value carries no
// algorithm and identifies nothing.
type ObjectID struct {
	algo Algorithm
	raw  [maxSize]byte
}

// Algorithm returns the algorithm that produced the ID, or zero for the
// zero ObjectID.
func (id ObjectID) Algorithm() Algorithm {
	return id.algo
}

// Size returns the number of bytes in the digest.
func (id ObjectID) Size() int {
	if !id.algo.IsValid() {
		return 0
	}
	return id.algo.Size()
}

// Bytes returns a copy of the raw digest.
func (id ObjectID) Bytes() []byte {
	b := make([]byte, id.Size())
	copy(b, id.raw[:])
	return b
}

// IsZero reports whether the digest is all zeros. This is true for both
// the zero ObjectID and an algorithm's Zero ID.
func (id ObjectID) IsZero() bool {
	return id.raw == [maxSize]byte{}
}

// Equal reports whether two IDs have the same algorithm and digest.
// It is equivalent to == and exists so that packages like
// github.com/google/go-cmp treat ObjectID as a value.
func (id ObjectID) Equal(id2 ObjectID) bool {
	return id == id2
}

// Compare returns -1, 0, or +1 depending on whether id is less than,
// equal to, or greater than id2 in byte order. IDs of different
// algorithms order by algorithm first so that Compare remains a total
// order.
func (id ObjectID) Compare(id2 ObjectID) int {
	if id.algo != id2.algo {
		if id.algo < id2.algo {
			return -1
		}
		return 1
	}
	return bytes.Compare(id.raw[:id.Size()], id2.raw[:id2.Size()])
}

// String returns the hex-encoded digest.
func (id ObjectID) String() string {
	return hex.EncodeToString(id.raw[:id.Size()])
}

// Short returns the first 4 hex-encoded bytes of the digest.
func (id ObjectID) Short() string {
	if id.Size() < 4 {
		return id.String()
	}
	return hex.EncodeToString(id.raw[:4])
}

// MarshalText returns the hex-encoded digest.
func (id ObjectID) MarshalText() ([]byte, error) {
	if !id.algo.IsValid() {
		return nil, fmt.Errorf("marshal git hash: no algorithm")
	}
	buf := make([]byte, hex.EncodedLen(id.Size()))
	hex.Encode(buf, id.raw[:id.Size()])
	return buf, nil
}

// MarshalBinary returns the raw digest as a byte slice.
func (id ObjectID) MarshalBinary() ([]byte, error) {
	if !id.algo.IsValid() {
		return nil, fmt.Errorf("marshal git binary hash: no algorithm")
	}
	return id.Bytes(), nil
}

// Format implements the fmt.Formatter interface.
// Specifically, it ensures that %x does not double-hex-encode the data.
func (id ObjectID) Format(f fmt.State, c rune) {
	bits := id.raw[:id.Size()]
	if prec, ok := f.Precision(); ok && c != 'v' && prec < len(bits) {
		bits = bits[:prec]
	}
	text := make([]byte, hex.EncodedLen(len(bits)))
	hex.Encode(text, bits)

	switch c {
	case 's':
		f.Write(text)
	case 'v':
		if !f.Flag('#') {
			f.Write(text)
			return
		}
		fmt.Fprintf(f, "githash.ObjectID(%v:%s)", id.algo, text)
	case 'x':
		if f.Flag('#') {
			f.Write([]byte("0x"))
		}
		f.Write(text)
	case 'X':
		if f.Flag('#') {
			f.Write([]byte("0X"))
		}
		for i, c := range text {
			if 'a' <= c && c <= 'f' {
				text[i] = c - 'a' + 'A'
			}
		}
		f.Write(text)
	default:
		// Print a wrong type/unknown verb error.
		f.Write([]byte("%!"))
		io.WriteString(f, string(c))
		f.Write([]byte("(githash.ObjectID="))
		f.Write(text)
		f.Write([]byte(")"))
	}
}
