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
	"bytes"
	"fmt"
	"io"
)

// A Header is one "key value" line from a commit or tag header section.
// Headers this package does not interpret are carried through encoding
// verbatim, so objects written by future versions of Git survive a
// decode/encode round trip. A multi-line value is stored with embedded
// newlines; the one-space continuation indentation of the stored form
// is added back on encode.
type Header struct {
	Key   string
	Value []byte
}

// A HeaderRef is a decoded header. Key always aliases the source
// buffer; Value aliases it for single-line values and is owned when
// continuation lines had to be folded.
type HeaderRef struct {
	Key   []byte
	Value []byte
}

// Header copies the referenced bytes into an owned Header.
func (ref HeaderRef) Header() Header {
	value := make([]byte, len(ref.Value))
	copy(value, ref.Value)
	return Header{Key: string(ref.Key), Value: value}
}

// validateHeaderKey reports whether key can be written back as a header
// line.
func validateHeaderKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrMalformedHeader)
	}
	if bytes.ContainsAny([]byte(key), " \n\x00") {
		return fmt.Errorf("%w: key %q contains unsafe characters", ErrMalformedHeader, key)
	}
	return nil
}

// appendHeader appends "key value\n", indenting each continuation line
// of a multi-line value by one space.
func appendHeader(dst []byte, key string, value []byte) []byte {
	dst = append(dst, key...)
	dst = append(dst, ' ')
	for {
		i := bytes.IndexByte(value, '\n')
		if i == -1 {
			dst = append(dst, value...)
			break
		}
		dst = append(dst, value[:i+1]...)
		dst = append(dst, ' ')
		value = value[i+1:]
	}
	dst = append(dst, '\n')
	return dst
}

// A headerScanner steps through the header section of a commit or tag
// payload, one header per call to next. It implements the two-phase
// scan: header lines (with continuation folding) until a blank line,
// then everything after the blank line is the message.
type headerScanner struct {
	src   []byte
	rest  []byte
	terse bool

	key   []byte
	value []byte
	off   int
	done  bool
	err   error
}

func newHeaderScanner(src []byte, terse bool) *headerScanner {
	return &headerScanner{src: src, rest: src, terse: terse}
}

// next advances to the next header line. It returns false when the
// blank line ending the header section has been consumed or an error
// occurred.
func (s *headerScanner) next() bool {
	if s.done || s.err != nil {
		return false
	}
	if len(s.rest) == 0 {
		s.err = parseError(s.terse, io.ErrUnexpectedEOF, len(s.src), "expect blank line after header")
		return false
	}
	if s.rest[0] == '\n' {
		s.rest = s.rest[1:]
		s.done = true
		return false
	}

	s.off = len(s.src) - len(s.rest)
	eol := bytes.IndexByte(s.rest, '\n')
	if eol == -1 {
		s.err = parseError(s.terse, io.ErrUnexpectedEOF, s.off, "unterminated header line")
		return false
	}
	line := s.rest[:eol]
	s.rest = s.rest[eol+1:]

	sp := bytes.IndexByte(line, ' ')
	if sp <= 0 {
		s.err = parseError(s.terse, ErrMalformedHeader, s.off, "header line %q has no key", line)
		return false
	}
	s.key = line[:sp]
	s.value = line[sp+1:]

	// Continuation lines start with a single space. Folding allocates,
	// so the common single-line value keeps aliasing the source.
	owned := false
	for len(s.rest) > 0 && s.rest[0] == ' ' {
		eol := bytes.IndexByte(s.rest, '\n')
		if eol == -1 {
			s.err = parseError(s.terse, io.ErrUnexpectedEOF, len(s.src)-len(s.rest), "unterminated header line")
			return false
		}
		cont := s.rest[1:eol]
		if !owned {
			s.value = append(make([]byte, 0, len(s.value)+1+len(cont)), s.value...)
			owned = true
		}
		s.value = append(s.value, '\n')
		s.value = append(s.value, cont...)
		s.rest = s.rest[eol+1:]
	}
	return true
}

// message returns the bytes after the blank line. It is only meaningful
// once next has returned false without an error.
func (s *headerScanner) message() []byte {
	return s.rest
}
