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
	"github.com/caspervonb/gitoxide/githash"
)

// A Blob is the payload of a Git blob object. It has no internal
// structure: decoding is the identity. A decoded Blob aliases its
// source buffer; use Clone when it must outlive the source.
type Blob []byte

// Type returns TypeBlob.
func (b Blob) Type() Type {
	return TypeBlob
}

// Clone returns an owned copy of the payload.
func (b Blob) Clone() Blob {
	out := make(Blob, len(b))
	copy(out, b)
	return out
}

// MarshalBinary returns the payload verbatim.
func (b Blob) MarshalBinary() ([]byte, error) {
	return b, nil
}

// ID computes the blob's object ID under the given algorithm.
func (b Blob) ID(algo githash.Algorithm) (githash.ObjectID, error) {
	return Sum(algo, TypeBlob, b)
}
