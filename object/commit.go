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

// Recognized commit header keys. Anything else lands in ExtraHeaders.
const (
	headerTree      = "tree"
	headerParent    = "parent"
	headerAuthor    = "author"
	headerCommitter = "committer"
	headerEncoding  = "encoding"
	headerGPGSig    = "gpgsig"
	headerTagger    = "tagger"
	headerObject    = "object"
	headerType      = "type"
	headerTag       = "tag"
)

// A Commit is an owned, editable Git commit object.
type Commit struct {
	// Tree is the ID of the commit's tree object.
	Tree githash.ObjectID
	// Parents are the IDs of the commit's parents, in order.
	Parents []githash.ObjectID

	// Author identifies the person who wrote the change and when.
	Author Identity
	// Committer identifies the person who committed the change and when.
	Committer Identity

	// Encoding names the character encoding of Message when it is not
	// UTF-8. It is usually empty.
	Encoding string
	// If GPGSignature is not empty, then it is the ASCII-armored
	// signature of the commit.
	GPGSignature []byte
	// ExtraHeaders holds headers this package does not interpret, in
	// the order they were encountered. Keys may repeat.
	ExtraHeaders []Header

	// Message is the commit message.
	Message string
}

// ParseCommit deserializes a commit in the Git object format using
// SHA-1 object IDs and full verification, returning an owned value.
// Use a Decoder to select another algorithm or a borrowing view.
func ParseCommit(data []byte) (*Commit, error) {
	ref, err := Decoder{}.Commit(data)
	if err != nil {
		return nil, err
	}
	return ref.Commit(), nil
}

// Type returns TypeCommit.
func (c *Commit) Type() Type {
	return TypeCommit
}

// Summary returns the first line of the message.
func (c *Commit) Summary() string {
	i := strings.IndexByte(c.Message, '\n')
	if i == -1 {
		return c.Message
	}
	return c.Message[:i]
}

// MarshalBinary serializes the commit into its canonical byte form:
// tree, parents in stored order, author, committer, encoding if
// present, signature if present, extra headers in stored order, a
// blank line, then the message.
func (c *Commit) MarshalBinary() ([]byte, error) {
	if !c.Tree.Algorithm().IsValid() {
		return nil, fmt.Errorf("marshal git commit: tree: %w: ID has no algorithm", ErrMalformedHeader)
	}
	dst := appendHeader(nil, headerTree, hexAppend(nil, c.Tree))
	for i, par := range c.Parents {
		if par.Algorithm() != c.Tree.Algorithm() {
			return nil, fmt.Errorf("marshal git commit: parent %d: %w: hash algorithm differs from tree", i, ErrMalformedHeader)
		}
		dst = appendHeader(dst, headerParent, hexAppend(nil, par))
	}
	var err error
	if dst, err = appendIdentityHeader(dst, headerAuthor, c.Author); err != nil {
		return nil, fmt.Errorf("marshal git commit: %w", err)
	}
	if dst, err = appendIdentityHeader(dst, headerCommitter, c.Committer); err != nil {
		return nil, fmt.Errorf("marshal git commit: %w", err)
	}
	if c.Encoding != "" {
		if strings.ContainsAny(c.Encoding, " \n\x00") {
			return nil, fmt.Errorf("marshal git commit: encoding %q contains unsafe characters", c.Encoding)
		}
		dst = appendHeader(dst, headerEncoding, []byte(c.Encoding))
	}
	if len(c.GPGSignature) > 0 {
		dst = appendHeader(dst, headerGPGSig, c.GPGSignature)
	}
	for _, h := range c.ExtraHeaders {
		if err := validateHeaderKey(h.Key); err != nil {
			return nil, fmt.Errorf("marshal git commit: header: %w", err)
		}
		dst = appendHeader(dst, h.Key, h.Value)
	}
	dst = append(dst, '\n')
	dst = append(dst, c.Message...)
	return dst, nil
}

// ID computes the commit's object ID under the given algorithm. The
// IDs the commit references must use the same algorithm.
func (c *Commit) ID(algo githash.Algorithm) (githash.ObjectID, error) {
	data, err := c.MarshalBinary()
	if err != nil {
		return githash.ObjectID{}, err
	}
	return Sum(algo, TypeCommit, data)
}

func appendIdentityHeader(dst []byte, key string, id Identity) ([]byte, error) {
	if err := id.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	dst = append(dst, key...)
	dst = append(dst, ' ')
	dst = id.appendTo(dst)
	dst = append(dst, '\n')
	return dst, nil
}

func hexAppend(dst []byte, id githash.ObjectID) []byte {
	const digits = "0123456789abcdef"
	for _, b := range id.Bytes() {
		dst = append(dst, digits[b>>4], digits[b&0xf])
	}
	return dst
}

// A CommitRef is a decoded commit whose byte fields alias the buffer it
// was decoded from. It is valid only as long as that buffer is.
type CommitRef struct {
	Tree         githash.ObjectID
	Parents      []githash.ObjectID
	Author       IdentityRef
	Committer    IdentityRef
	Encoding     []byte
	GPGSignature []byte
	ExtraHeaders []HeaderRef
	Message      []byte
}

// Commit copies the referenced bytes into an owned Commit. This is the
// single copy made when promoting a decoded view for editing or for
// outliving the source buffer.
func (ref *CommitRef) Commit() *Commit {
	c := &Commit{
		Tree:      ref.Tree,
		Author:    ref.Author.Identity(),
		Committer: ref.Committer.Identity(),
		Encoding:  string(ref.Encoding),
		Message:   string(ref.Message),
	}
	if len(ref.Parents) > 0 {
		c.Parents = append([]githash.ObjectID(nil), ref.Parents...)
	}
	if len(ref.GPGSignature) > 0 {
		c.GPGSignature = append([]byte(nil), ref.GPGSignature...)
	}
	if len(ref.ExtraHeaders) > 0 {
		c.ExtraHeaders = make([]Header, 0, len(ref.ExtraHeaders))
		for _, h := range ref.ExtraHeaders {
			c.ExtraHeaders = append(c.ExtraHeaders, h.Header())
		}
	}
	return c
}

// Type returns TypeCommit.
func (ref *CommitRef) Type() Type {
	return TypeCommit
}

// Summary returns the first line of the message.
func (ref *CommitRef) Summary() []byte {
	i := bytes.IndexByte(ref.Message, '\n')
	if i == -1 {
		return ref.Message
	}
	return ref.Message[:i]
}

// MarshalBinary re-encodes the view into canonical bytes.
func (ref *CommitRef) MarshalBinary() ([]byte, error) {
	return ref.Commit().MarshalBinary()
}

// decodeCommit parses a commit payload. The returned view aliases data.
func (d Decoder) decodeCommit(data []byte) (*CommitRef, error) {
	algo := d.algorithm()
	ref := new(CommitRef)
	var seen struct {
		tree, author, committer, encoding, gpgsig bool
	}
	s := newHeaderScanner(data, d.TerseErrors)
	for s.next() {
		switch string(s.key) {
		case headerTree:
			if seen.tree && d.Level == LevelVerify {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git commit: duplicate tree header")
			}
			seen.tree = true
			id, err := algo.ParseID(string(s.value))
			if err != nil {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git commit: tree: %v", err)
			}
			ref.Tree = id
		case headerParent:
			id, err := algo.ParseID(string(s.value))
			if err != nil {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git commit: parent %d: %v", len(ref.Parents), err)
			}
			ref.Parents = append(ref.Parents, id)
		case headerAuthor:
			if seen.author && d.Level == LevelVerify {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git commit: duplicate author header")
			}
			seen.author = true
			id, err := parseIdentityRef(s.value)
			if err != nil {
				return nil, wrapError(d.TerseErrors, err, s.off, "parse git commit: author")
			}
			ref.Author = id
		case headerCommitter:
			if seen.committer && d.Level == LevelVerify {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git commit: duplicate committer header")
			}
			seen.committer = true
			id, err := parseIdentityRef(s.value)
			if err != nil {
				return nil, wrapError(d.TerseErrors, err, s.off, "parse git commit: committer")
			}
			ref.Committer = id
		case headerEncoding:
			if seen.encoding && d.Level == LevelVerify {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git commit: duplicate encoding header")
			}
			seen.encoding = true
			ref.Encoding = s.value
		case headerGPGSig:
			if seen.gpgsig && d.Level == LevelVerify {
				return nil, parseError(d.TerseErrors, ErrMalformedHeader, s.off, "parse git commit: duplicate gpgsig header")
			}
			seen.gpgsig = true
			ref.GPGSignature = s.value
		default:
			ref.ExtraHeaders = append(ref.ExtraHeaders, HeaderRef{Key: s.key, Value: s.value})
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if d.Level == LevelVerify {
		switch {
		case !seen.tree:
			return nil, parseError(d.TerseErrors, ErrMalformedHeader, 0, "parse git commit: tree: missing")
		case !seen.author:
			return nil, parseError(d.TerseErrors, ErrMalformedHeader, 0, "parse git commit: author: missing")
		case !seen.committer:
			return nil, parseError(d.TerseErrors, ErrMalformedHeader, 0, "parse git commit: committer: missing")
		}
	}
	ref.Message = s.message()
	return ref, nil
}
