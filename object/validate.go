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
	"strings"
)

// Level selects how rigorously objects are checked. The zero value is
// LevelVerify, so the strict behavior is the default and the fast path
// is an explicit opt-in.
type Level int8

const (
	// LevelVerify runs every format check.
	LevelVerify Level = iota
	// LevelTrust skips checks, for reading from storage that has
	// already been verified.
	LevelTrust
)

// String returns "verify" or "trust".
func (l Level) String() string {
	switch l {
	case LevelVerify:
		return "verify"
	case LevelTrust:
		return "trust"
	default:
		return fmt.Sprintf("object.Level(%d)", int8(l))
	}
}

// Validate checks the commit's format invariants: identity grammar,
// timestamp range, header key grammar, and that every referenced ID
// carries the same hash algorithm. At LevelTrust it checks nothing.
// All problems found are reported in one joined error. Whether the
// referenced tree and parents exist is a question for the object
// store, not for this package.
func (c *Commit) Validate(level Level) error {
	if level == LevelTrust {
		return nil
	}
	var errs []error
	if !c.Tree.Algorithm().IsValid() {
		errs = append(errs, fmt.Errorf("tree: %w: ID has no algorithm", ErrMalformedHeader))
	}
	for i, par := range c.Parents {
		if par.Algorithm() != c.Tree.Algorithm() {
			errs = append(errs, fmt.Errorf("parent %d: %w: hash algorithm differs from tree", i, ErrMalformedHeader))
		}
	}
	if err := c.Author.validate(); err != nil {
		errs = append(errs, fmt.Errorf("author: %w", err))
	}
	if err := c.Committer.validate(); err != nil {
		errs = append(errs, fmt.Errorf("committer: %w", err))
	}
	if c.Encoding != "" && strings.ContainsAny(c.Encoding, " \n\x00") {
		errs = append(errs, fmt.Errorf("encoding: %w: %q contains unsafe characters", ErrMalformedHeader, c.Encoding))
	}
	for _, h := range c.ExtraHeaders {
		if err := validateHeaderKey(h.Key); err != nil {
			errs = append(errs, fmt.Errorf("header: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("validate git commit: %w", errors.Join(errs...))
	}
	return nil
}

// Validate checks the tag's format invariants. At LevelTrust it checks
// nothing.
func (t *Tag) Validate(level Level) error {
	if level == LevelTrust {
		return nil
	}
	var errs []error
	if !t.ObjectID.Algorithm().IsValid() {
		errs = append(errs, fmt.Errorf("object: %w: ID has no algorithm", ErrMalformedHeader))
	}
	if !t.ObjectType.IsValid() {
		errs = append(errs, fmt.Errorf("type: %w: %q", ErrInvalidObjectKind, t.ObjectType))
	}
	if t.Name == "" {
		errs = append(errs, fmt.Errorf("name: %w: empty", ErrMalformedHeader))
	} else if strings.ContainsAny(t.Name, "\n\x00") {
		errs = append(errs, fmt.Errorf("name: %w: %q contains unsafe characters", ErrMalformedHeader, t.Name))
	}
	if t.Tagger != nil {
		if err := t.Tagger.validate(); err != nil {
			errs = append(errs, fmt.Errorf("tagger: %w", err))
		}
	}
	for _, h := range t.ExtraHeaders {
		if err := validateHeaderKey(h.Key); err != nil {
			errs = append(errs, fmt.Errorf("header: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("validate git tag: %w", errors.Join(errs...))
	}
	return nil
}

// Validate checks that the tree is in canonical order with unique
// names, that entry names contain no separator or NUL, and that every
// mode is one Git writes. At LevelTrust it checks nothing.
func (tree Tree) Validate(level Level) error {
	if level == LevelTrust {
		return nil
	}
	var errs []error
	for i, ent := range tree {
		if err := ent.validate(); err != nil {
			errs = append(errs, err)
		}
		if !ent.Mode.IsValid() {
			errs = append(errs, fmt.Errorf("entry %q: %w: %v", ent.Name, ErrInvalidTreeEntryMode, ent.Mode))
		}
		if i > 0 {
			if c := tree.entryCompare(i-1, i); c > 0 {
				errs = append(errs, fmt.Errorf("entry %q: %w: out of order", ent.Name, ErrUnsortedTree))
			} else if c == 0 {
				errs = append(errs, fmt.Errorf("entry %q: %w: duplicate", ent.Name, ErrUnsortedTree))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("validate git tree: %w", errors.Join(errs...))
	}
	return nil
}

// Validate on a blob never fails: a blob is opaque.
func (b Blob) Validate(Level) error {
	return nil
}

// Validate promotes the view and validates it.
func (ref *CommitRef) Validate(level Level) error {
	if level == LevelTrust {
		return nil
	}
	return ref.Commit().Validate(level)
}

// Validate promotes the view and validates it.
func (ref *TagRef) Validate(level Level) error {
	if level == LevelTrust {
		return nil
	}
	return ref.Tag().Validate(level)
}

// Validate decodes every entry and validates the result.
func (ref *TreeRef) Validate(level Level) error {
	if level == LevelTrust {
		return nil
	}
	tree, err := ref.Tree()
	if err != nil {
		return err
	}
	return tree.Validate(level)
}
