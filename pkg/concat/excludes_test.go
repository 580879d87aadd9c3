package concat

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcludeSetAddIsIdempotent(t *testing.T) {
	s := NewExcludeSet(nil)

	s.Add("*.log")
	s.Add("*.log")
	s.Add("*.log")

	assert.Equal(t, 1, s.Len())
}

func TestExcludeSetEmptyPatternIgnored(t *testing.T) {
	s := NewExcludeSet(nil)
	s.Add("")
	assert.Equal(t, 0, s.Len())
}

func TestExcludeSetMatchesFullPath(t *testing.T) {
	s := NewExcludeSet(nil)
	s.Add("build/*")

	assert.True(t, s.Matches("build/out.o"))
	assert.True(t, s.Matches("build/deep/nested/out.o"))
	assert.False(t, s.Matches("src/main.go"))
}

func TestExcludeSetMatchesBasename(t *testing.T) {
	s := NewExcludeSet(nil)
	s.Add("*.log")

	assert.True(t, s.Matches("k.log"))
	assert.True(t, s.Matches("a/b/c/server.log"))
	assert.False(t, s.Matches("server.log.txt"))
}

func TestExcludeSetQuestionMark(t *testing.T) {
	s := NewExcludeSet(nil)
	s.Add("temp?.txt")

	assert.True(t, s.Matches("temp1.txt"))
	assert.True(t, s.Matches("tempX.txt"))
	assert.False(t, s.Matches("temp.txt"))
	assert.False(t, s.Matches("temp12.txt"))
}

func TestExcludeSetSeparatorNormalization(t *testing.T) {
	s := NewExcludeSet(nil)
	s.Add("docs/readme.md")

	assert.True(t, s.Matches(filepath.Join("docs", "readme.md")))
}

func TestExcludeSetCaseFolding(t *testing.T) {
	s := NewExcludeSet(nil)
	s.caseFold = true
	s.Add("*.LOG")

	assert.True(t, s.Matches("server.log"))
	assert.True(t, s.Matches("SERVER.LOG"))
}

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"*", "anything", true},
		{"*", "", true},
		{"a*c", "abc", true},
		{"a*c", "ac", true},
		{"a*c", "abd", false},
		{"*.txt", "note.txt", true},
		{"*.txt", "note.txt.bak", false},
		{"a?c", "abc", true},
		{"a?c", "ac", false},
		{"**", "x/y/z", true},
		{"exact", "exact", true},
		{"exact", "exac", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, matchPattern(tc.pattern, tc.input),
			"pattern %q against %q", tc.pattern, tc.input)
	}
}
