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
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/caspervonb/gitoxide/githash"
)

// A Tree is an owned Git tree object: a flat list of files in a
// directory. The canonical encoding keeps entries sorted by name with
// no duplicates; an edited tree may transiently be out of order, and
// MarshalBinary re-sorts. The zero value is an empty tree.
type Tree []*TreeEntry

// ParseTree deserializes a tree in the Git object format using SHA-1
// object IDs and full verification, returning an owned value. Use a
// Decoder to select another algorithm, skip the sortedness check, or
// iterate lazily.
func ParseTree(src []byte) (Tree, error) {
	ref, err := Decoder{}.Tree(src)
	if err != nil {
		return nil, err
	}
	return ref.Tree()
}

// Type returns TypeTree.
func (tree Tree) Type() Type {
	return TypeTree
}

// MarshalBinary serializes the tree into the Git tree object format,
// sorting entries into canonical order first. It returns an error if
// the tree contains duplicate names, an entry name contains a NUL or
// path separator, or the entry IDs do not share one hash algorithm.
func (tree Tree) MarshalBinary() ([]byte, error) {
	sorted := tree
	if !sort.SliceIsSorted(tree, func(i, j int) bool { return tree.entryCompare(i, j) < 0 }) {
		sorted = append(Tree(nil), tree...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted.entryCompare(i, j) < 0 })
	}
	var dst []byte
	var algo githash.Algorithm
	for i, ent := range sorted {
		if err := ent.validate(); err != nil {
			return nil, fmt.Errorf("marshal git tree: %w", err)
		}
		if i == 0 {
			algo = ent.ObjectID.Algorithm()
		} else if ent.ObjectID.Algorithm() != algo {
			return nil, fmt.Errorf("marshal git tree: entry %q: hash algorithm differs from first entry", ent.Name)
		}
		if i > 0 && sorted.entryCompare(i-1, i) == 0 {
			return nil, fmt.Errorf("marshal git tree: %w: duplicate entry %q", ErrUnsortedTree, ent.Name)
		}
		dst = ent.appendTo(dst)
	}
	return dst, nil
}

// ID computes the tree's object ID under the given algorithm.
func (tree Tree) ID(algo githash.Algorithm) (githash.ObjectID, error) {
	data, err := tree.MarshalBinary()
	if err != nil {
		return githash.ObjectID{}, err
	}
	return Sum(algo, TypeTree, data)
}

// String formats the tree in an ASCII-clean debugging format.
func (tree Tree) String() string {
	sb := new(strings.Builder)
	for i, ent := range tree {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(ent.String())
	}
	return sb.String()
}

// Search returns the entry with the given name in the tree or nil if
// not found. It may return incorrect results if the tree is not sorted.
func (tree Tree) Search(name string) *TreeEntry {
	// The canonical order depends on whether an entry is a directory,
	// which the caller's name alone does not tell us. Probe both.
	for _, dir := range [2]bool{false, true} {
		i := sort.Search(len(tree), func(i int) bool {
			return compareEntryNames(tree[i].Name, tree[i].Mode.IsDir(), name, dir) >= 0
		})
		if i < len(tree) && tree[i].Name == name {
			return tree[i]
		}
	}
	return nil
}

// Len returns the number of entries in the tree.
func (tree Tree) Len() int {
	return len(tree)
}

// Less reports whether the i'th entry sorts before the j'th entry in
// canonical order.
func (tree Tree) Less(i, j int) bool {
	return tree.entryCompare(i, j) < 0
}

// Swap swaps the i'th entry with the j'th entry.
func (tree Tree) Swap(i, j int) {
	tree[i], tree[j] = tree[j], tree[i]
}

func (tree Tree) entryCompare(i, j int) int {
	return compareEntryNames(tree[i].Name, tree[i].Mode.IsDir(), tree[j].Name, tree[j].Mode.IsDir())
}

// Sort sorts the tree in place into canonical order, returning an
// error if there are any duplicates.
func (tree Tree) Sort() error {
	sort.Stable(tree)
	for i := range tree {
		if i == 0 {
			continue
		}
		if tree.entryCompare(i-1, i) == 0 {
			return fmt.Errorf("sort git tree: %w: found duplicate %q", ErrUnsortedTree, tree[i].Name)
		}
	}
	return nil
}

// compareEntryNames implements the canonical tree entry order: a
// byte-wise comparison of names in which a directory is compared as if
// its name carried a trailing slash. "foo.txt" therefore sorts before
// a "foo" directory, and a "foo" file before both.
func compareEntryNames(name1 string, dir1 bool, name2 string, dir2 bool) int {
	n := len(name1)
	if len(name2) < n {
		n = len(name2)
	}
	if c := strings.Compare(name1[:n], name2[:n]); c != 0 {
		return c
	}
	c1, c2 := 0, 0
	switch {
	case len(name1) > n:
		c1 = int(name1[n])
	case dir1:
		c1 = '/'
	}
	switch {
	case len(name2) > n:
		c2 = int(name2[n])
	case dir2:
		c2 = '/'
	}
	return c1 - c2
}

// A TreeEntry represents a single file in a Git tree object.
type TreeEntry struct {
	Name     string
	Mode     Mode
	ObjectID githash.ObjectID
}

func (ent *TreeEntry) validate() error {
	if ent.Name == "" {
		return fmt.Errorf("entry with empty name")
	}
	if strings.ContainsAny(ent.Name, "/\x00") {
		return fmt.Errorf("entry name %q contains separator or NUL", ent.Name)
	}
	if !ent.ObjectID.Algorithm().IsValid() {
		return fmt.Errorf("entry %q: object ID has no algorithm", ent.Name)
	}
	return nil
}

// appendTo formats the entry in the manner Git expects.
func (ent *TreeEntry) appendTo(dst []byte) []byte {
	dst = strconv.AppendUint(dst, uint64(ent.Mode), 8)
	dst = append(dst, ' ')
	dst = append(dst, ent.Name...)
	dst = append(dst, 0)
	dst = append(dst, ent.ObjectID.Bytes()...)
	return dst
}

// String formats the entry in an ASCII-clean format similar to the Git
// tree object format.
func (ent *TreeEntry) String() string {
	sb := new(strings.Builder)
	sb.WriteString(ent.Mode.String())
	sb.WriteByte(' ')
	sb.WriteString(ent.Name)
	sb.WriteByte(' ')
	sb.WriteString(ent.ObjectID.String())
	return sb.String()
}

// A TreeRef is an undecoded tree payload. Its entries are decoded
// lazily through Iter, so a consumer that stops early never pays for
// parsing the remainder of the buffer.
type TreeRef struct {
	data  []byte
	algo  githash.Algorithm
	terse bool
}

// Iter returns a fresh iterator positioned before the first entry.
// The sequence restarts from the beginning on every call.
func (ref *TreeRef) Iter() *TreeIter {
	return &TreeIter{src: ref.data, rest: ref.data, algo: ref.algo, terse: ref.terse}
}

// Tree decodes every entry into an owned Tree, in encountered order.
func (ref *TreeRef) Tree() (Tree, error) {
	var tree Tree
	it := ref.Iter()
	for it.Next() {
		tree = append(tree, it.Entry().TreeEntry())
	}
	if it.Err() != nil {
		return nil, it.Err()
	}
	return tree, nil
}

// Type returns TypeTree.
func (ref *TreeRef) Type() Type {
	return TypeTree
}

// MarshalBinary re-encodes the tree into canonical bytes, sorting
// entries that were decoded out of order.
func (ref *TreeRef) MarshalBinary() ([]byte, error) {
	tree, err := ref.Tree()
	if err != nil {
		return nil, err
	}
	return tree.MarshalBinary()
}

// A TreeEntryRef is a decoded tree entry whose name aliases the source
// buffer.
type TreeEntryRef struct {
	Name     []byte
	Mode     Mode
	ObjectID githash.ObjectID
}

// TreeEntry copies the referenced bytes into an owned entry.
func (ent TreeEntryRef) TreeEntry() *TreeEntry {
	return &TreeEntry{
		Name:     string(ent.Name),
		Mode:     ent.Mode,
		ObjectID: ent.ObjectID,
	}
}

// A TreeIter advances through tree entries one
// "<mode> <name>\x00<raw-id>" record at a time.
type TreeIter struct {
	src   []byte
	rest  []byte
	algo  githash.Algorithm
	terse bool
	ent   TreeEntryRef
	err   error
}

// Next parses the next entry. It returns false at the end of the
// payload or on a malformed record; Err distinguishes the two.
func (it *TreeIter) Next() bool {
	if it.err != nil || len(it.rest) == 0 {
		return false
	}
	off := len(it.src) - len(it.rest)
	src := it.rest

	modeEnd := bytes.IndexByte(src, ' ')
	if modeEnd == -1 {
		it.err = parseError(it.terse, io.ErrUnexpectedEOF, off, "parse git tree: entry mode")
		return false
	}
	mode, err := strconv.ParseUint(string(src[:modeEnd]), 8, 32)
	if err != nil {
		it.err = parseError(it.terse, ErrInvalidTreeEntryMode, off, "parse git tree: entry mode %q", src[:modeEnd])
		return false
	}

	nameStart := modeEnd + 1
	nameEnd := bytes.IndexByte(src[nameStart:], 0)
	if nameEnd == -1 {
		it.err = parseError(it.terse, io.ErrUnexpectedEOF, off+nameStart, "parse git tree: entry name")
		return false
	}
	nameEnd += nameStart

	idStart := nameEnd + 1
	idEnd := idStart + it.algo.Size()
	if idEnd > len(src) {
		it.err = parseError(it.terse, io.ErrUnexpectedEOF, off+idStart, "parse git tree: entry object ID")
		return false
	}
	id, err := it.algo.NewID(src[idStart:idEnd])
	if err != nil {
		it.err = parseError(it.terse, io.ErrUnexpectedEOF, off+idStart, "parse git tree: entry object ID: %v", err)
		return false
	}

	it.ent = TreeEntryRef{Name: src[nameStart:nameEnd], Mode: Mode(mode), ObjectID: id}
	it.rest = src[idEnd:]
	return true
}

// Entry returns the entry parsed by the last successful call to Next.
func (it *TreeIter) Entry() TreeEntryRef {
	return it.ent
}

// Err returns the first malformed-record error encountered, if any.
func (it *TreeIter) Err() error {
	return it.err
}

// decodeTree wraps a tree payload. At LevelVerify the whole payload is
// scanned up front so that structural errors and canonical-order
// violations surface immediately; at LevelTrust entries are only
// parsed as the caller iterates.
func (d Decoder) decodeTree(data []byte) (*TreeRef, error) {
	ref := &TreeRef{data: data, algo: d.algorithm(), terse: d.TerseErrors}
	if d.Level == LevelTrust {
		return ref, nil
	}
	it := ref.Iter()
	var prevName string
	var prevDir bool
	for i := 0; it.Next(); i++ {
		ent := it.Entry()
		name := string(ent.Name)
		if i > 0 && compareEntryNames(prevName, prevDir, name, ent.Mode.IsDir()) >= 0 {
			off := len(data) - len(it.rest)
			return nil, parseError(d.TerseErrors, ErrUnsortedTree, off, "parse git tree: entry %q out of order", name)
		}
		prevName, prevDir = name, ent.Mode.IsDir()
	}
	if it.Err() != nil {
		return nil, it.Err()
	}
	return ref, nil
}

// Mode references:
// https://stackoverflow.com/a/8347325
// https://github.com/git/git/blob/0ef60afdd4416345b16b5c4d8d0558a08d680bc5/compat/vcbuild/include/unistd.h#L71-L96
// https://en.wikibooks.org/wiki/C_Programming/POSIX_Reference/sys/stat.h

// Mode is a tree entry file mode. It is similar to os.FileMode, but is
// limited to a specific set of modes.
type Mode uint32

// Git tree entry modes.
const (
	// ModePlain indicates a non-executable file.
	ModePlain Mode = 0o100644
	// ModeExecutable indicates an executable file.
	ModeExecutable Mode = 0o100755
	// ModeDir indicates a subdirectory.
	ModeDir Mode = 0o040000
	// ModeSymlink indicates a symbolic link.
	ModeSymlink Mode = 0o120000
	// ModeGitlink indicates a Git submodule.
	ModeGitlink Mode = 0o160000

	// ModePlainGroupWritable indicates a non-executable file.
	// This is equivalent to ModePlain, but was sometimes generated by
	// older versions of Git.
	ModePlainGroupWritable Mode = 0o100664
)

// Mode bits
const (
	typeMask    Mode = 0o170000 // S_IFMT
	regularFile Mode = 0o100000 // S_IFREG
)

// IsValid reports whether m is one of the modes Git writes.
func (m Mode) IsValid() bool {
	switch m {
	case ModePlain, ModeExecutable, ModeDir, ModeSymlink, ModeGitlink, ModePlainGroupWritable:
		return true
	default:
		return false
	}
}

// IsRegular reports whether m describes a file.
func (m Mode) IsRegular() bool {
	return m&typeMask == regularFile
}

// IsDir reports whether m describes a directory.
func (m Mode) IsDir() bool {
	return m&typeMask == ModeDir
}

// IsSymlink reports whether m describes a symbolic link.
func (m Mode) IsSymlink() bool {
	return m&typeMask == ModeSymlink
}

// IsGitlink reports whether m describes a Git submodule.
func (m Mode) IsGitlink() bool {
	return m&typeMask == ModeGitlink
}

// String formats the mode as zero-padded octal.
func (m Mode) String() string {
	return fmt.Sprintf("%06o", uint32(m))
}

// Format implements fmt.Formatter to make %x and %X format the number
// rather than the string.
func (m Mode) Format(f fmt.State, c rune) {
	if c == 'v' && f.Flag('#') {
		fmt.Fprintf(f, "object.Mode(%O)", uint32(m))
		return
	}

	format := new(strings.Builder)
	format.WriteString("%")
	for _, flag := range "+-# 0" {
		if f.Flag(int(flag)) {
			format.WriteRune(flag)
		}
	}
	if width, ok := f.Width(); ok {
		format.Write(strconv.AppendInt(nil, int64(width), 10))
	}
	if prec, ok := f.Precision(); ok {
		format.WriteString(".")
		format.Write(strconv.AppendInt(nil, int64(prec), 10))
	}
	format.WriteRune(c)
	switch c {
	case 's', 'q', 'v':
		fmt.Fprintf(f, format.String(), m.String())
	default:
		fmt.Fprintf(f, format.String(), uint32(m))
	}
}

// FileMode converts the Git mode into an os.FileMode, if possible.
func (m Mode) FileMode() (f os.FileMode, ok bool) {
	perm := os.FileMode(m & 0o000777)
	switch m & typeMask {
	case regularFile:
		return perm, true
	case ModeDir:
		return os.ModeDir | perm, true
	case ModeSymlink:
		return os.ModeSymlink | perm, true
	default:
		return 0, false
	}
}
