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
	"strings"

	"github.com/caspervonb/gitoxide/githash"
)

/*
The tag object is the least documented of all the Git objects.

Reference parser: https://github.com/git/git/blob/6da43d937ca96d277556fa92c5a664fb1cbcc8ac/tag.c#L134-L206

Tag signatures are encoded as ASCII-armored detached signatures appended
to the message: https://github.com/git/git/blob/21bf933928c02372633b88aa6c4d9d71271d42b3/builtin/tag.c#L129-L132
*/

// A Tag is an owned, editable Git tag object. These are referred to as
// "annotated tags" in the Git documentation.
type Tag struct {
	// ObjectID is the ID of the object that the tag refers to.
	ObjectID githash.ObjectID
	// ObjectType is the type of the object that the tag refers to.
	ObjectType Type

	// Name is the name of the tag.
	Name string

	// Tagger identifies the person who created the tag and when.
	// Tags written by ancient versions of Git may not carry one.
	Tagger *Identity

	// ExtraHeaders holds headers this package does not interpret, in
	// the order they were encountered.
	ExtraHeaders []Header

	// Message is the tag message.
	Message string

	// If Signature is not empty, it is the ASCII-armored detached
	// signature that followed the message.
	Signature []byte
}

// ParseTag deserializes a tag in the Git object format using SHA-1
// object IDs and full verification, returning an owned value. Use a
// Decoder to select another algorithm or a borrowing view.
func ParseTag(data []byte) (*Tag, error) {
	ref, err := Decoder{}.Tag(data)
	if err != nil {
		return nil, err
	}
	return ref.Tag(), nil
}

// Type returns TypeTag.
func (t *Tag) Type() Type {
	return TypeTag
}

// Summary returns the first line of the message.
func (t *Tag) Summary() string {
	i := strings.IndexByte(t.Message, '\n')
	if i == -1 {
		return t.Message
	}
	return t.Message[:i]
}

// MarshalBinary serializes the tag into its canonical byte form:
// object, type, tag, tagger if present, extra headers in stored order,
// a blank line, the message, then the signature.
func (t *Tag) MarshalBinary() ([]byte, error) {
	if !t.ObjectID.Algorithm().IsValid() {
		return nil, fmt.Errorf("marshal git tag: object: %w: ID has no algorithm", ErrMalformedHeader)
	}
	dst := appendHeader(nil, headerObject, hexAppend(nil, t.ObjectID))
	if !t.ObjectType.IsValid() {
		return nil, fmt.Errorf("marshal git tag: %w: object type %q", ErrInvalidObjectKind, t.ObjectType)
	}
	dst = appendHeader(dst, headerType, []byte(t.ObjectType))
	if strings.ContainsAny(t.Name, "\n\x00") {
		return nil, fmt.Errorf("marshal git tag: name %q contains unsafe characters", t.Name)
	}
	dst = appendHeader(dst, headerTag, []byte(t.Name))
	if t.Tagger != nil {
		var err error
		if dst, err = appendIdentityHeader(dst, headerTagger, *t.Tagger); err != nil {
			return nil, fmt.Errorf("marshal git tag: %w", err)
		}
	}
	for _, h := range t.ExtraHeaders {
		if err := validateHeaderKey(h.Key); err != nil {
			return nil, fmt.Errorf("marshal git tag: header: %w", err)
		}
		dst = appendHeader(dst, h.Key, h.Value)
	}
	dst = append(dst, '\n')
	dst = append(dst, t.Message...)
	dst = append(dst, t.Signature...)
	return dst, nil
}

// ID computes the tag's object ID under the given algorithm.
func (t *Tag) ID(algo githash.Algorithm) (githash.ObjectID, error) {
	data, err := t.MarshalBinary()
	if err != nil {
		return githash.ObjectID{}, err
	}
	return Sum(algo, TypeTag, data)
}

// A TagRef is a decoded tag whose byte fields alias the buffer it was
// decoded from. It is valid only as long as that buffer is.
type TagRef struct {
	ObjectID     githash.ObjectID
	ObjectType   Type
	Name         []byte
	Tagger       *IdentityRef
	ExtraHeaders []HeaderRef
	Message      []byte
	Signature    []byte
}

// Tag copies the referenced bytes into an owned Tag.
func (ref *TagRef) Tag() *Tag {
	t := &Tag{
		ObjectID:   ref.ObjectID,
		ObjectType: ref.ObjectType,
		Name:       string(ref.Name),
		Message:    string(ref.Message),
	}
	if ref.Tagger != nil {
		tagger := ref.Tagger.Identity()
		t.Tagger = &tagger
	}
	if len(ref.ExtraHeaders) > 0 {
		t.ExtraHeaders = make([]Header, 0, len(ref.ExtraHeaders))
		for _, h := range ref.ExtraHeaders {
			t.ExtraHeaders = append(t.ExtraHeaders, h.Header())
		}
	}
	if len(ref.Signature) > 0 {
		t.Signature = append([]byte(nil), ref.Signature...)
	}
	return t
}

// Type returns TypeTag.
func (ref *TagRef) Type() Type {
	return TypeTag
}

// Summary returns the first line of the message.
func (ref *TagRef) Summary() []byte {
	i := bytes.IndexByte(ref.Message, '\n')
	if i == -1 {
		return ref.Message
	}
	return ref.Message[:i]
}

// MarshalBinary re-encodes the view into canonical bytes.
func (ref *TagRef) MarshalBinary() ([]byte, error) {
	return ref.Tag().MarshalBinary()
}

// decodeTag parses a tag payload. The returned view aliases data.
func (d Decoder) decodeTag(data []byte) (*TagRef, error) {
	algo := d.algorithm()
	ref := new(TagRef)
	var seen struct {
		object, typ, tag, tagger bool
	}
	s := newHeaderScanner(data, d.TerseErrors)
	for s.next() {
		switch string(s.key) {
		case headerObject:
			if seen.object && d.Level == LevelVerify {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git tag: duplicate object header")
			}
			seen.object = true
			id, err := algo.ParseID(string(s.value))
			if err != nil {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git tag: object: %v", err)
			}
			ref.ObjectID = id
		case headerType:
			if seen.typ && d.Level == LevelVerify {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git tag: duplicate type header")
			}
			seen.typ = true
			typ, err := ParseType(string(s.value))
			if err != nil {
				return nil, parseError(d.TerseErrors, ErrInvalidObjectKind, s.off, "parse git tag: type %q", s.value)
			}
			ref.ObjectType = typ
		case headerTag:
			if seen.tag && d.Level == LevelVerify {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git tag: duplicate tag header")
			}
			seen.tag = true
			ref.Name = s.value
		case headerTagger:
			if seen.tagger && d.Level == LevelVerify {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git tag: duplicate tagger header")
			}
			seen.tagger = true
			id, err := parseIdentityRef(s.value)
			if err != nil {
				return nil, wrapError(d.TerseErrors, err, s.off, "parse git tag: tagger")
			}
			ref.Tagger = &id
		default:
			ref.ExtraHeaders = append(ref.ExtraHeaders, HeaderRef{Key: s.key, Value: s.value})
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if d.Level == LevelVerify {
		switch {
		case !seen.object:
			return nil, parseError(d.TerseErrors, ErrMalformedHeader, 0, "parse git tag: object: missing")
		case !seen.typ:
			return nil, parseError(d.TerseErrors, ErrMalformedHeader, 0, "parse git tag: type: missing")
		case !seen.tag:
			return nil, parseError(d.TerseErrors, ErrMalformedHeader, 0, "parse git tag: name: missing")
		}
	}
	ref.Message, ref.Signature = splitSignature(s.message())
	return ref, nil
}

var signatureMarkers = [][]byte{
	[]byte("-----BEGIN PGP SIGNATURE-----"),
	[]byte("-----BEGIN SSH SIGNATURE-----"),
	[]byte("-----BEGIN PGP MESSAGE-----"),
}

// splitSignature separates a trailing ASCII-armored signature block
// from the message. The block must start at the beginning of a line;
// everything from there to the end of the payload is the signature.
func splitSignature(msg []byte) (message, sig []byte) {
	for _, marker := range signatureMarkers {
		if bytes.HasPrefix(msg, marker) {
			return msg[:0], msg
		}
		i := bytes.LastIndex(msg, append([]byte("\n"), marker...))
		if i != -1 {
			return msg[:i+1], msg[i+1:]
		}
	}
	return msg, nil
}
