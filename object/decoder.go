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

package object

import (
	"fmt"

	"github.com/caspervonb/gitoxide/githash"
)

// A Decoder turns object payloads into views that alias the input
// buffer. The zero value decodes SHA-1 objects with full verification
// and rich positional errors; it is ready to use, and a Decoder is
// cheap to copy. Decoders hold no state across calls, so one may be
// used from any number of goroutines.
type Decoder struct {
	// Algorithm is the hash algorithm of object IDs appearing inside
	// decoded objects. The zero value means githash.SHA1.
	Algorithm githash.Algorithm
	// Level selects decode-time checking. At LevelVerify, commits and
	// tags must carry their mandatory headers exactly once and tree
	// entries must be in canonical order; at LevelTrust anything that
	// parses is returned as encountered.
	Level Level
	// TerseErrors reports bare error kinds without positional context,
	// trading detail for parsing speed.
	TerseErrors bool
}

func (d Decoder) algorithm() githash.Algorithm {
	if !d.Algorithm.IsValid() {
		return githash.SHA1
	}
	return d.Algorithm
}

// Blob returns the payload as a Blob view without copying.
func (d Decoder) Blob(data []byte) (Blob, error) {
	return Blob(data), nil
}

// Tree wraps a tree payload for lazy entry iteration. The view aliases
// data.
func (d Decoder) Tree(data []byte) (*TreeRef, error) {
	return d.decodeTree(data)
}

// Commit parses a commit payload. The view aliases data.
func (d Decoder) Commit(data []byte) (*CommitRef, error) {
	return d.decodeCommit(data)
}

// Tag parses a tag payload. The view aliases data.
func (d Decoder) Tag(data []byte) (*TagRef, error) {
	return d.decodeTag(data)
}

// Decode dispatches on the object type. The concrete type of the
// returned Object is Blob, *TreeRef, *CommitRef, or *TagRef.
func (d Decoder) Decode(typ Type, data []byte) (Object, error) {
	switch typ {
	case TypeBlob:
		return d.Blob(data)
	case TypeTree:
		return d.Tree(data)
	case TypeCommit:
		return d.Commit(data)
	case TypeTag:
		return d.Tag(data)
	default:
		return nil, fmt.Errorf("decode git object: %w: %q", ErrInvalidObjectKind, typ)
	}
}

// DecodeRaw is shorthand for Decode(r.Type, r.Data).
func (d Decoder) DecodeRaw(r Raw) (Object, error) {
	return d.Decode(r.Type, r.Data)
}
