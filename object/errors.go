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
	"errors"
	"fmt"
)

// Error kinds reported by decoding, encoding, and validation. Callers
// classify failures with errors.Is; a truncated buffer additionally
// matches io.ErrUnexpectedEOF.
var (
	// ErrMalformedHeader indicates a header line that does not follow
	// the "key value" grammar, or a missing mandatory header.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrInvalidObjectKind indicates an object type outside
	// blob/tree/commit/tag.
	ErrInvalidObjectKind = errors.New("invalid object kind")
	// ErrInvalidTreeEntryMode indicates a tree entry mode that is not
	// octal or not one of the modes Git writes.
	ErrInvalidTreeEntryMode = errors.New("invalid tree entry mode")
	// ErrUnsortedTree indicates tree entries that are out of canonical
	// order or duplicated.
	ErrUnsortedTree = errors.New("tree entries unsorted or duplicated")
	// ErrInvalidIdentity indicates an author/committer/tagger line that
	// does not follow the "name <email> timestamp offset" grammar.
	ErrInvalidIdentity = errors.New("invalid identity")
	// ErrInvalidTimestamp indicates an identity timestamp or UTC offset
	// that cannot be parsed or is out of range.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrHashMismatch indicates that recomputing an object's ID did not
	// produce the ID the caller expected.
	ErrHashMismatch = errors.New("hash mismatch")
)

// A ParseError reports a decode failure along with where in the object
// payload it occurred. Use errors.Is to match its kind.
type ParseError struct {
	// Kind is one of the sentinel errors above, or io.ErrUnexpectedEOF
	// for a buffer shorter than a field requires.
	Kind error
	// Offset is the byte offset into the object payload at which the
	// failing field starts.
	Offset int
	// Context describes the field being parsed, like
	// "parse git commit: tree".
	Context string
}

func (e *ParseError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%v (offset %d)", e.Kind, e.Offset)
	}
	return fmt.Sprintf("%s: %v (offset %d)", e.Context, e.Kind, e.Offset)
}

// Unwrap returns the error kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// parseError builds the error for a decode failure at the given offset.
// In terse mode only the kind is reported, skipping the formatting cost.
func parseError(terse bool, kind error, offset int, context string, args ...interface{}) error {
	if terse {
		return kind
	}
	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}
	return &ParseError{Kind: kind, Offset: offset, Context: context}
}

// wrapError attaches positional context to an error that already wraps
// one of the sentinel kinds.
func wrapError(terse bool, err error, offset int, context string) error {
	if terse {
		return err
	}
	return &ParseError{Kind: err, Offset: offset, Context: context}
}
