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
	"encoding"
	"errors"
	"testing"

	"github.com/caspervonb/gitoxide/githash"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var (
	_ encoding.BinaryMarshaler = new(Tag)
	_ Object                   = new(Tag)
	_ Object                   = new(TagRef)
)

const tagSignature = "-----BEGIN PGP SIGNATURE-----\n" +
	"\n" +
	"iQFKBAABCgA0FiEEYgNdCHSMg5RI+sbvbZzOZkxbGOQFAl8jJN0WHHJvc3NAem9t\n" +
	"YmllemVuLmNvbQAKCRBtnM5mTFsY5NcbB/9qXplW0V1mSWSNuupQBf8fSY5vSwbO\n" +
	"=YJpy\n" +
	"-----END PGP SIGNATURE-----\n"

var gitTagTests = []struct {
	name   string
	id     string
	data   string
	parsed *Tag
}{
	{
		name: "Simple",
		id:   "849af6e9d6058a33b4f6485ee71ad42c295c4f4c",
		data: "object aff248747f6a94066967a75e30a5b025816a6aef\n" +
			"type commit\n" +
			"tag v1.0.0\n" +
			"tagger Ross Light <ross@zombiezen.com> 1594510150 -0700\n" +
			"\n" +
			"First release.\n",
		parsed: &Tag{
			ObjectID:   hashLiteral("aff248747f6a94066967a75e30a5b025816a6aef"),
			ObjectType: TypeCommit,
			Name:       "v1.0.0",
			Tagger:     identityPtr("Ross Light", "ross@zombiezen.com", 1594510150, -7*60),
			Message:    "First release.\n",
		},
	},
	{
		name: "Signed",
		id:   "87a46ceece7156a3a505be170885cdabf40e83a7",
		data: "object aff248747f6a94066967a75e30a5b025816a6aef\n" +
			"type commit\n" +
			"tag v1.0.0\n" +
			"tagger Ross Light <ross@zombiezen.com> 1594510150 -0700\n" +
			"\n" +
			"First release.\n" +
			tagSignature,
		parsed: &Tag{
			ObjectID:   hashLiteral("aff248747f6a94066967a75e30a5b025816a6aef"),
			ObjectType: TypeCommit,
			Name:       "v1.0.0",
			Tagger:     identityPtr("Ross Light", "ross@zombiezen.com", 1594510150, -7*60),
			Message:    "First release.\n",
			Signature:  []byte(tagSignature),
		},
	},
	{
		// Tags written by ancient versions of Git carry no tagger.
		name: "NoTagger",
		id:   "665127058b7ada4279768900323f5af31a6a1a78",
		data: "object aff248747f6a94066967a75e30a5b025816a6aef\n" +
			"type commit\n" +
			"tag v0.1\n" +
			"\n" +
			"old tag\n",
		parsed: &Tag{
			ObjectID:   hashLiteral("aff248747f6a94066967a75e30a5b025816a6aef"),
			ObjectType: TypeCommit,
			Name:       "v0.1",
			Message:    "old tag\n",
		},
	},
}

func identityPtr(name, email string, seconds int64, offset int16) *Identity {
	id := identityLiteral(name, email, seconds, offset)
	return &id
}

func TestParseTag(t *testing.T) {
	for _, test := range gitTagTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseTag([]byte(test.data))
			if err != nil {
				t.Fatal("Error:", err)
			}
			if diff := cmp.Diff(test.parsed, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("tag (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTagMarshalBinary(t *testing.T) {
	for _, test := range gitTagTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.parsed.MarshalBinary()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.data, string(got)); diff != "" {
				t.Errorf("binary (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTagID(t *testing.T) {
	for _, test := range gitTagTests {
		t.Run(test.name, func(t *testing.T) {
			want := hashLiteral(test.id)
			got, err := test.parsed.ID(githash.SHA1)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("ID(SHA1) = %v; want %v", got, want)
			}
		})
	}
}

func TestTagRoundTrip(t *testing.T) {
	for _, test := range gitTagTests {
		t.Run(test.name, func(t *testing.T) {
			ref, err := Decoder{}.Tag([]byte(test.data))
			if err != nil {
				t.Fatal("Error:", err)
			}
			got, err := ref.MarshalBinary()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.data, string(got)); diff != "" {
				t.Errorf("round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitSignature(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		message string
		sig     string
	}{
		{
			name:    "NoSignature",
			msg:     "First release.\n",
			message: "First release.\n",
		},
		{
			name:    "PGP",
			msg:     "First release.\n" + tagSignature,
			message: "First release.\n",
			sig:     tagSignature,
		},
		{
			name: "SSH",
			msg: "release\n-----BEGIN SSH SIGNATURE-----\nabc\n" +
				"-----END SSH SIGNATURE-----\n",
			message: "release\n",
			sig:     "-----BEGIN SSH SIGNATURE-----\nabc\n-----END SSH SIGNATURE-----\n",
		},
		{
			name:    "EmptyMessage",
			msg:     tagSignature,
			message: "",
			sig:     tagSignature,
		},
		{
			// A marker in the middle of a line is message text.
			name:    "MarkerMidLine",
			msg:     "see -----BEGIN PGP SIGNATURE----- for details\n",
			message: "see -----BEGIN PGP SIGNATURE----- for details\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			message, sig := splitSignature([]byte(test.msg))
			if string(message) != test.message {
				t.Errorf("message = %q; want %q", message, test.message)
			}
			if string(sig) != test.sig {
				t.Errorf("sig = %q; want %q", sig, test.sig)
			}
		})
	}
}

func TestParseTagErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind error
	}{
		{
			name: "MissingObject",
			data: "type commit\ntag v1\n\nhi\n",
			kind: ErrMalformedHeader,
		},
		{
			name: "MissingType",
			data: "object aff248747f6a94066967a75e30a5b025816a6aef\ntag v1\n\nhi\n",
			kind: ErrMalformedHeader,
		},
		{
			name: "MissingName",
			data: "object aff248747f6a94066967a75e30a5b025816a6aef\ntype commit\n\nhi\n",
			kind: ErrMalformedHeader,
		},
		{
			name: "BadObjectType",
			data: "object aff248747f6a94066967a75e30a5b025816a6aef\ntype bolb\ntag v1\n\nhi\n",
			kind: ErrInvalidObjectKind,
		},
		{
			name: "ShortObjectID",
			data: "object aff2487\ntype commit\ntag v1\n\nhi\n",
			kind: ErrMalformedHeader,
		},
		{
			name: "BadTagger",
			data: "object aff248747f6a94066967a75e30a5b025816a6aef\ntype commit\ntag v1\n" +
				"tagger nope\n\nhi\n",
			kind: ErrInvalidIdentity,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseTag([]byte(test.data))
			if err == nil {
				t.Fatal("ParseTag did not return an error")
			}
			t.Log("Error:", err)
			if !errors.Is(err, test.kind) {
				t.Errorf("errors.Is(err, %v) = false", test.kind)
			}
		})
	}

	// A trusting decode exposes whatever headers are present.
	t.Run("TrustMissingHeaders", func(t *testing.T) {
		ref, err := Decoder{Level: LevelTrust}.Tag([]byte("tag v1\n\nhi\n"))
		if err != nil {
			t.Fatal("Error:", err)
		}
		if got, want := string(ref.Name), "v1"; got != want {
			t.Errorf("Name = %q; want %q", got, want)
		}
		if ref.ObjectType != "" {
			t.Errorf("ObjectType = %q; want empty", ref.ObjectType)
		}
	})
}

func TestTagSummary(t *testing.T) {
	tag := &Tag{Message: "First release.\n\nDetails follow.\n"}
	if got, want := tag.Summary(), "First release."; got != want {
		t.Errorf("Summary() = %q; want %q", got, want)
	}
}
