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
	"strconv"
	"time"
)

// A Time is a point in time as Git records it: seconds since the Unix
// epoch plus the UTC offset that was in effect where the time was
// taken. The offset is presentation-only; Seconds alone orders times.
type Time struct {
	// Seconds since January 1, 1970 UTC.
	Seconds int64
	// Offset from UTC in minutes.
	Offset int16
}

// Unix returns the time as a time.Time carrying the recorded offset as
// a fixed zone.
func (t Time) Unix() time.Time {
	return time.Unix(t.Seconds, 0).In(t.Zone())
}

// Zone returns a fixed time.Location for the recorded offset, named
// after its +HHMM form.
func (t Time) Zone() *time.Location {
	return time.FixedZone(string(appendOffset(nil, t.Offset)), int(t.Offset)*60)
}

// String formats the time the way Git stores it, like "1594510150 -0700".
func (t Time) String() string {
	return string(t.appendTo(nil))
}

func (t Time) appendTo(dst []byte) []byte {
	dst = strconv.AppendInt(dst, t.Seconds, 10)
	dst = append(dst, ' ')
	return appendOffset(dst, t.Offset)
}

// appendOffset appends the offset in Git's fixed five-character form:
// an explicit sign, two hour digits, two minute digits.
func appendOffset(dst []byte, offset int16) []byte {
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	h, m := offset/60, offset%60
	return append(dst, sign, '0'+byte(h/10), '0'+byte(h%10), '0'+byte(m/10), '0'+byte(m%10))
}

// parseOffset parses a five-character UTC offset like "-0700" into
// minutes.
func parseOffset(src []byte) (int16, error) {
	if len(src) != 5 {
		return 0, fmt.Errorf("parse UTC offset %q: %w: wrong length", src, ErrInvalidTimestamp)
	}
	var sign int16
	switch src[0] {
	case '-':
		sign = -1
	case '+':
		sign = 1
	default:
		return 0, fmt.Errorf("parse UTC offset %q: %w: must start with plus or minus sign", src, ErrInvalidTimestamp)
	}
	for _, b := range src[1:] {
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("parse UTC offset %q: %w: must have 4 digits after sign", src, ErrInvalidTimestamp)
		}
	}
	hours := int16(src[1]-'0')*10 + int16(src[2]-'0')
	minutes := int16(src[3]-'0')*10 + int16(src[4]-'0')
	return sign * (hours*60 + minutes), nil
}

// An Identity attributes an object to a person: the author or committer
// of a commit, or the tagger of a tag.
type Identity struct {
	Name  string
	Email string
	When  Time
}

// ParseIdentity parses an identity line like
// "Octocat <octocat@example.com> 1594510150 -0700".
func ParseIdentity(data []byte) (Identity, error) {
	ref, err := parseIdentityRef(data)
	if err != nil {
		return Identity{}, err
	}
	return ref.Identity(), nil
}

// String formats the name and email like "Octocat <octocat@example.com>".
func (id Identity) String() string {
	return id.Name + " <" + id.Email + ">"
}

// appendTo formats the identity in the manner Git expects.
func (id Identity) appendTo(dst []byte) []byte {
	dst = append(dst, id.Name...)
	dst = append(dst, " <"...)
	dst = append(dst, id.Email...)
	dst = append(dst, "> "...)
	return id.When.appendTo(dst)
}

// validate reports the first grammar problem with the identity, or nil.
func (id Identity) validate() error {
	if id.Name != string(bytes.TrimSpace([]byte(id.Name))) {
		return fmt.Errorf("%w: name %q has surrounding whitespace", ErrInvalidIdentity, id.Name)
	}
	if bytes.ContainsAny([]byte(id.Name), "<>\n\x00") {
		return fmt.Errorf("%w: name %q contains unsafe characters", ErrInvalidIdentity, id.Name)
	}
	if bytes.ContainsAny([]byte(id.Email), "<>\n\x00") {
		return fmt.Errorf("%w: email %q contains unsafe characters", ErrInvalidIdentity, id.Email)
	}
	if id.When.Seconds < 0 {
		return fmt.Errorf("%w: negative timestamp %d", ErrInvalidTimestamp, id.When.Seconds)
	}
	if off := id.When.Offset; off <= -24*60 || off >= 24*60 {
		return fmt.Errorf("%w: UTC offset %d minutes out of range", ErrInvalidTimestamp, off)
	}
	return nil
}

// An IdentityRef is a decoded identity whose name and email alias the
// source buffer.
type IdentityRef struct {
	Name  []byte
	Email []byte
	When  Time
}

// Identity copies the referenced bytes into an owned Identity.
func (ref IdentityRef) Identity() Identity {
	return Identity{
		Name:  string(ref.Name),
		Email: string(ref.Email),
		When:  ref.When,
	}
}

// parseIdentityRef splits an identity line. Landmarks are found from
// the end of the line, since the name may contain almost anything.
// The splitting follows Git's split_ident_line: a missing or unclosed
// email bracket leaves Email empty rather than failing, so that decoded
// views can expose non-conforming bytes for inspection.
func parseIdentityRef(line []byte) (IdentityRef, error) {
	timestampEnd := bytes.LastIndexByte(line, ' ')
	if timestampEnd == -1 {
		return IdentityRef{}, fmt.Errorf("%w: no timestamp", ErrInvalidIdentity)
	}
	offsetStart := timestampEnd + 1
	userEnd := bytes.LastIndexByte(line[:timestampEnd], ' ')
	if userEnd == -1 {
		return IdentityRef{}, fmt.Errorf("%w: no timestamp", ErrInvalidIdentity)
	}
	timestampStart := userEnd + 1

	seconds, err := strconv.ParseInt(string(line[timestampStart:timestampEnd]), 10, 64)
	if err != nil {
		return IdentityRef{}, fmt.Errorf("parse timestamp: %w: %v", ErrInvalidTimestamp, err)
	}
	offset, err := parseOffset(line[offsetStart:])
	if err != nil {
		return IdentityRef{}, err
	}

	ref := IdentityRef{When: Time{Seconds: seconds, Offset: offset}}
	user := line[:userEnd]
	nameEnd := bytes.IndexByte(user, '<')
	if nameEnd == -1 {
		ref.Name = bytes.TrimSpace(user)
		return ref, nil
	}
	emailStart := nameEnd + 1
	emailEnd := bytes.IndexByte(user[emailStart:], '>')
	if emailEnd == -1 {
		ref.Name = bytes.TrimSpace(user)
		return ref, nil
	}
	ref.Name = bytes.TrimRight(user[:nameEnd], " ")
	ref.Email = user[emailStart : emailStart+emailEnd]
	return ref, nil
}
