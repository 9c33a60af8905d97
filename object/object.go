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

/*
Package object decodes, builds, encodes, and hashes the four Git object
kinds: blob, tree, commit, and tag. For an overview of the format, see
https://git-scm.com/book/en/v2/Git-Internals-Git-Objects

Decoding produces views (CommitRef, TagRef, TreeRef) whose byte fields
alias the source buffer and remain valid only as long as that buffer
does. Each view promotes to an owned, editable value (Commit, Tag,
Tree) with exactly one copy. Encoding always produces the canonical
byte form used for hashing: tree entries sorted, commit and tag fields
in fixed order.

Every operation in this package is a pure function of its arguments.
The hash algorithm and validation level are passed explicitly, so any
number of calls may run concurrently on independent buffers.
*/
package object

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/caspervonb/gitoxide/githash"
)

// Type is an enumeration of Git object types.
type Type string

// Object types.
const (
	TypeBlob   Type = "blob"
	TypeTree   Type = "tree"
	TypeCommit Type = "commit"
	TypeTag    Type = "tag"
)

// ParseType returns the object type named by s. It returns an error
// matching ErrInvalidObjectKind for any other string.
func ParseType(s string) (Type, error) {
	typ := Type(s)
	if !typ.IsValid() {
		return "", fmt.Errorf("parse git object type %q: %w", s, ErrInvalidObjectKind)
	}
	return typ, nil
}

// IsValid reports whether typ is one of the known constants.
func (typ Type) IsValid() bool {
	return typ == TypeBlob || typ == TypeTree || typ == TypeCommit || typ == TypeTag
}

// An Object is one of the four Git object kinds, either as an owned
// value or a decoded view. MarshalBinary returns the canonical payload
// bytes (without the "<type> <size>\x00" prefix).
type Object interface {
	Type() Type
	MarshalBinary() ([]byte, error)
}

// A Raw is an object payload tagged with its kind, as handed over by an
// object store. Data may be a view over caller-owned storage.
type Raw struct {
	Type Type
	Data []byte
}

// ParseRaw splits a full "<type> <size>\x00<payload>" buffer into a
// Raw view over data. A payload shorter than the declared size is
// reported as an error matching io.ErrUnexpectedEOF, never silently
// truncated.
func ParseRaw(data []byte) (Raw, error) {
	i := bytes.IndexByte(data, 0)
	if i == -1 {
		return Raw{}, fmt.Errorf("parse git object: header: %w", io.ErrUnexpectedEOF)
	}
	var p Prefix
	if err := p.UnmarshalBinary(data[:i+1]); err != nil {
		return Raw{}, fmt.Errorf("parse git object: %w", err)
	}
	payload := data[i+1:]
	if int64(len(payload)) < p.Size {
		return Raw{}, fmt.Errorf("parse git %v: payload is %d bytes, header declares %d: %w", p.Type, len(payload), p.Size, io.ErrUnexpectedEOF)
	}
	if int64(len(payload)) > p.Size {
		return Raw{}, fmt.Errorf("parse git %v: %w: %d bytes of trailing data", p.Type, ErrMalformedHeader, int64(len(payload))-p.Size)
	}
	return Raw{Type: p.Type, Data: payload}, nil
}

// Size returns the payload size in bytes, as declared by the object
// header.
func (r Raw) Size() int64 {
	return int64(len(r.Data))
}

// Clone returns a Raw with its own copy of the payload.
func (r Raw) Clone() Raw {
	data := make([]byte, len(r.Data))
	copy(data, r.Data)
	return Raw{Type: r.Type, Data: data}
}

// ID computes the object ID of the payload under the given algorithm.
func (r Raw) ID(algo githash.Algorithm) (githash.ObjectID, error) {
	return Sum(algo, r.Type, r.Data)
}

// Sum computes the ID of the object with the given type and payload:
// the digest of the payload prefixed with "<type> <size>\x00".
// Identical inputs always produce identical IDs.
func Sum(algo githash.Algorithm, typ Type, data []byte) (githash.ObjectID, error) {
	if !typ.IsValid() {
		return githash.ObjectID{}, fmt.Errorf("hash git object: %w: %q", ErrInvalidObjectKind, typ)
	}
	if !algo.IsValid() {
		return githash.ObjectID{}, fmt.Errorf("hash git %v: invalid hash algorithm", typ)
	}
	h := algo.New()
	h.Write(AppendPrefix(nil, typ, int64(len(data))))
	h.Write(data)
	id, err := algo.NewID(h.Sum(nil))
	if err != nil {
		return githash.ObjectID{}, fmt.Errorf("hash git %v: %w", typ, err)
	}
	return id, nil
}

// SumReader computes the ID of an object whose payload is read from r.
// This includes the Git object prefix as part of the hash input. It
// returns an error if the payload does not match the provided size in
// bytes.
func SumReader(algo githash.Algorithm, typ Type, r io.Reader, size int64) (githash.ObjectID, error) {
	if !typ.IsValid() {
		return githash.ObjectID{}, fmt.Errorf("hash git object: %w: %q", ErrInvalidObjectKind, typ)
	}
	if !algo.IsValid() {
		return githash.ObjectID{}, fmt.Errorf("hash git %v: invalid hash algorithm", typ)
	}
	h := algo.New()
	h.Write(AppendPrefix(nil, typ, size))
	n, err := io.Copy(h, r)
	if err != nil {
		return githash.ObjectID{}, fmt.Errorf("hash git %v: %w", typ, err)
	}
	if n != size {
		return githash.ObjectID{}, fmt.Errorf("hash git %v: wrong size %d (expected %d)", typ, n, size)
	}
	id, err := algo.NewID(h.Sum(nil))
	if err != nil {
		return githash.ObjectID{}, fmt.Errorf("hash git %v: %w", typ, err)
	}
	return id, nil
}

// CheckSum recomputes the ID of the payload under want's algorithm and
// returns an error matching ErrHashMismatch if it differs from want.
func CheckSum(want githash.ObjectID, typ Type, data []byte) error {
	got, err := Sum(want.Algorithm(), typ, data)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("verify git %v: %w: computed %v, expected %v", typ, ErrHashMismatch, got, want)
	}
	return nil
}

// Prefix is a parsed Git object prefix like "blob 42\x00".
type Prefix struct {
	Type Type
	Size int64
}

// MarshalBinary returns the result of AppendPrefix.
func (p Prefix) MarshalBinary() ([]byte, error) {
	if !p.Type.IsValid() {
		return nil, fmt.Errorf("marshal git object prefix: %w: %q", ErrInvalidObjectKind, p.Type)
	}
	if p.Size < 0 {
		return nil, fmt.Errorf("marshal git object prefix: negative size")
	}
	return AppendPrefix(nil, p.Type, p.Size), nil
}

// UnmarshalBinary parses an object prefix.
func (p *Prefix) UnmarshalBinary(data []byte) error {
	if len(data) == 0 || data[len(data)-1] != 0 {
		return fmt.Errorf("unmarshal git object prefix: %w: does not end with NUL", ErrMalformedHeader)
	}
	typeEnd := bytes.IndexByte(data, ' ')
	if typeEnd == -1 {
		return fmt.Errorf("unmarshal git object prefix: %w: missing space", ErrMalformedHeader)
	}
	typ := Type(data[:typeEnd])
	if !typ.IsValid() {
		return fmt.Errorf("unmarshal git object prefix: %w: %q", ErrInvalidObjectKind, typ)
	}
	sizeStart := typeEnd + 1
	sizeEnd := len(data) - 1
	size, err := strconv.ParseInt(string(data[sizeStart:sizeEnd]), 10, 64)
	if err != nil {
		return fmt.Errorf("unmarshal git object prefix: %w: size: %v", ErrMalformedHeader, err)
	}
	if size < 0 {
		return fmt.Errorf("unmarshal git object prefix: %w: negative size", ErrMalformedHeader)
	}
	p.Type = typ
	p.Size = size
	return nil
}

// String returns the prefix without the trailing NUL byte.
func (p Prefix) String() string {
	buf := AppendPrefix(nil, p.Type, p.Size)
	buf = buf[:len(buf)-1]
	return string(buf)
}

// AppendPrefix appends a Git object prefix (e.g. "blob 42\x00")
// to a byte slice.
func AppendPrefix(dst []byte, typ Type, n int64) []byte {
	dst = append(dst, typ...)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, n, 10)
	dst = append(dst, 0)
	return dst
}
