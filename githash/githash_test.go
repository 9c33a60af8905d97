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

package githash

import (
	"bytes"
	"encoding"
	"fmt"
	"strings"
	"testing"
)

// Verify that ObjectID implements the various encoding interfaces.
var (
	_ fmt.Stringer             = ObjectID{}
	_ fmt.Formatter            = ObjectID{}
	_ encoding.TextMarshaler   = ObjectID{}
	_ encoding.BinaryMarshaler = ObjectID{}
)

func idLiteral(a Algorithm, s string) ObjectID {
	id, err := a.ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func TestAlgorithm(t *testing.T) {
	tests := []struct {
		a    Algorithm
		name string
		size int
	}{
		{SHA1, "sha1", 20},
		{SHA256, "sha256", 32},
	}
	for _, test := range tests {
		if got := test.a.String(); got != test.name {
			t.Errorf("%v.String() = %q; want %q", test.a, got, test.name)
		}
		if got := test.a.Size(); got != test.size {
			t.Errorf("%v.Size() = %d; want %d", test.a, got, test.size)
		}
		if got := test.a.New().Size(); got != test.size {
			t.Errorf("%v.New().Size() = %d; want %d", test.a, got, test.size)
		}
		if !test.a.IsValid() {
			t.Errorf("%v.IsValid() = false; want true", test.a)
		}
		got, err := ParseAlgorithm(test.name)
		if got != test.a || err != nil {
			t.Errorf("ParseAlgorithm(%q) = %v, %v; want %v, <nil>", test.name, got, err, test.a)
		}
	}
	if Algorithm(0).IsValid() {
		t.Error("Algorithm(0).IsValid() = true; want false")
	}
	if _, err := ParseAlgorithm("md5"); err == nil {
		t.Error("ParseAlgorithm(\"md5\") did not return an error")
	}
}

func TestSum(t *testing.T) {
	// Digests of the empty string under each algorithm.
	tests := []struct {
		a    Algorithm
		data string
		want string
	}{
		{SHA1, "", "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{SHA1, "Hello, World!\n", "60fde9c2310b0d4cad4dab8d126b04387efba289"},
		{SHA256, "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}
	for _, test := range tests {
		if got := test.a.Sum([]byte(test.data)); got.String() != test.want {
			t.Errorf("%v.Sum(%q) = %v; want %s", test.a, test.data, got, test.want)
		}
	}
}

func TestObjectID(t *testing.T) {
	tests := []struct {
		id    ObjectID
		s     string
		short string
	}{
		{
			id:    SHA1.Zero(),
			s:     "0000000000000000000000000000000000000000",
			short: "00000000",
		},
		{
			id:    idLiteral(SHA1, "0123456789abcdef0123456789abcdef01234567"),
			s:     "0123456789abcdef0123456789abcdef01234567",
			short: "01234567",
		},
		{
			id:    idLiteral(SHA256, "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
			s:     "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
			short: "01234567",
		},
	}
	for _, test := range tests {
		if got := test.id.String(); got != test.s {
			t.Errorf("ObjectID(%x).String() = %q; want %q", test.id, got, test.s)
		}
		if got := test.id.Short(); got != test.short {
			t.Errorf("ObjectID(%x).Short() = %q; want %q", test.id, got, test.short)
		}
		if got, err := test.id.MarshalText(); err != nil || string(got) != test.s {
			t.Errorf("ObjectID(%x).MarshalText() = %q, %v; want %q, <nil>", test.id, got, err, test.s)
		}
		if got, err := test.id.MarshalBinary(); err != nil || !bytes.Equal(got, test.id.Bytes()) {
			t.Errorf("ObjectID(%x).MarshalBinary() = %#v, %v; want %#v, <nil>", test.id, got, err, test.id.Bytes())
		}
		if got, want := len(test.id.Bytes()), test.id.Algorithm().Size(); got != want {
			t.Errorf("len(ObjectID(%x).Bytes()) = %d; want %d", test.id, got, want)
		}
	}

	t.Run("Format", func(t *testing.T) {
		for _, test := range tests {
			// Don't want to overspecify this, but is nice to see the output.
			t.Logf("%%#v = %#v", test.id)

			formatTests := []struct {
				format string
				want   string
			}{
				{"%x", test.s},
				{"%.4x", test.s[:8]},
				{"%#x", "0x" + test.s},
				{"%X", strings.ToUpper(test.s)},
				{"%#X", "0X" + strings.ToUpper(test.s)},
				{"%s", test.s},
				{"%v", test.s},
			}
			for _, ftest := range formatTests {
				if got := fmt.Sprintf(ftest.format, test.id); got != ftest.want {
					t.Errorf("fmt.Sprintf(%q, %x) = %q; want %q", ftest.format, test.id, got, ftest.want)
				}
			}
		}
	})
}

func TestParseID(t *testing.T) {
	tests := []struct {
		a       Algorithm
		s       string
		wantErr bool
	}{
		{a: SHA1, s: "", wantErr: true},
		{a: SHA1, s: "0000000000000000000000000000000000000000"},
		{a: SHA1, s: "0123456789abcdef0123456789abcdef01234567"},
		{a: SHA1, s: "0123456789abcdef0123456789abcdef0123456", wantErr: true},
		{a: SHA1, s: "0123456789abcdef0123456789abcdef012345678", wantErr: true},
		{a: SHA1, s: "xyzzy6789abcdef0123456789abcdef012345678", wantErr: true},
		{a: SHA1, s: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", wantErr: true},
		{a: SHA256, s: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"},
		{a: SHA256, s: "0123456789abcdef0123456789abcdef01234567", wantErr: true},
		{a: Algorithm(0), s: "0123456789abcdef0123456789abcdef01234567", wantErr: true},
	}
	for _, test := range tests {
		got, err := test.a.ParseID(test.s)
		if test.wantErr {
			if err == nil {
				t.Errorf("%v.ParseID(%q) = %v, <nil>; want error", test.a, test.s, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%v.ParseID(%q): %v", test.a, test.s, err)
			continue
		}
		if got.String() != test.s {
			t.Errorf("%v.ParseID(%q).String() = %q", test.a, test.s, got)
		}
		if got.Algorithm() != test.a {
			t.Errorf("%v.ParseID(%q).Algorithm() = %v", test.a, test.s, got.Algorithm())
		}
	}
}

func TestCompare(t *testing.T) {
	a := idLiteral(SHA1, "0000000000000000000000000000000000000001")
	b := idLiteral(SHA1, "0000000000000000000000000000000000000002")
	c := idLiteral(SHA256, "0000000000000000000000000000000000000000000000000000000000000001")
	tests := []struct {
		id1, id2 ObjectID
		want     int
	}{
		{a, a, 0},
		{a, b, -1},
		{b, a, 1},
		{a, c, -1},
		{c, a, 1},
	}
	for _, test := range tests {
		if got := test.id1.Compare(test.id2); got != test.want {
			t.Errorf("ObjectID(%x).Compare(%x) = %d; want %d", test.id1, test.id2, got, test.want)
		}
	}
	if !SHA1.Zero().IsZero() {
		t.Error("SHA1.Zero().IsZero() = false; want true")
	}
	if a.IsZero() {
		t.Errorf("ObjectID(%x).IsZero() = true; want false", a)
	}
}
