package naming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "short name is unchanged",
			input: "metal/plate01.png",
			want:  "metal/plate01.png",
		},
		{
			name:  "backslashes and outer slashes are normalised",
			input: `\materials\metal\plate01.vmt/`,
			want:  "materials/metal/plate01.vmt",
		},
		{
			name:  "long directory is replaced by a digest",
			input: "materials/models/props_c17/furniture_upholstery001a/furniture_upholstery001a_normal.png",
			want:  "~Oih90an3/furniture_upholstery001a_normal.png",
		},
		{
			name:  "different discarded prefix gives a different digest",
			input: "materials/models/props_c17/furniture_upholstery001b/furniture_upholstery001a_normal.png",
			want:  "~VBb_cdkm/furniture_upholstery001a_normal.png",
		},
		{
			name:  "whole directories are kept when they fit",
			input: "materials/models/props_junk/garbage_collection/set01/trash_can.png",
			want:  "~NOyTYmKw/props_junk/garbage_collection/set01/trash_can.png",
		},
		{
			name:  "partial leading segment is discarded",
			input: "verylongdirectorynamewithoutanyslashesatallwhatsoever/inner/x.png",
			want:  "~pQSwlZIu/inner/x.png",
		},
		{
			name:  "oversized basename keeps only the extension",
			input: strings.Repeat("a", 70) + ".png",
			want:  "~D1xsTnQL.png",
		},
		{
			name:  "oversized basename under a directory",
			input: "dir/" + strings.Repeat("b", 60) + ".tga",
			want:  "~SNk3qcR-.tga",
		},
		{
			name:  "long basename with nothing kept from the directory",
			input: "materials/nature/blendrockground001a/rockground001_a_really_long_texture_name.png",
			want:  "~7HOmDIBp/rockground001_a_really_long_texture_name.png",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			got := Truncate(tc.input, DefaultMaxLength)

			// --- Assert ---
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, len([]rune(got)), DefaultMaxLength)
		})
	}
}

func TestTruncate_Deterministic(t *testing.T) {
	t.Parallel()

	name := "materials/models/props_junk/garbage_collection/set01/trash_bin.png"
	first := Truncate(name, DefaultMaxLength)
	second := Truncate(name, DefaultMaxLength)

	assert.Equal(t, first, second)
	assert.Equal(t, "~NOyTYmKw/props_junk/garbage_collection/set01/trash_bin.png", first)
}

func TestTruncate_CountsCharactersNotBytes(t *testing.T) {
	t.Parallel()

	// 30 two-byte characters fit a limit of 30 characters.
	name := strings.Repeat("é", 30)
	assert.Equal(t, name, Truncate(name, 30))
}

func TestTruncate_FitsAtMinMaxLength(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"materials/models/props_c17/furniture_upholstery001a_normal.png",
		"a/b/c/d/e/f/g/h/i/j/k/l/m/n.tga",
		"materials/" + strings.Repeat("x", 40),
	}

	for _, in := range inputs {
		got := Truncate(in, MinMaxLength)
		assert.LessOrEqual(t, runeLen(got), MinMaxLength, "Truncate(%q) = %q", in, got)
	}
}

func TestHashed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1B2M2Y8A", hashed(""))
	assert.Equal(t, "kAFQmDzS", hashed("abc"))
}

func TestSplitExt(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		wantStem string
		wantExt  string
	}{
		{"a/b.png", "a/b", ".png"},
		{"a/b.tar.gz", "a/b.tar", ".gz"},
		{"a/.hidden", "a/.hidden", ""},
		{"a.b/c", "a.b/c", ""},
	}

	for _, tc := range testCases {
		stem, ext := splitExt(tc.input)
		assert.Equal(t, tc.wantStem, stem, tc.input)
		assert.Equal(t, tc.wantExt, ext, tc.input)
	}
}
