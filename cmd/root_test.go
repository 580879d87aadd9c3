package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseFromEnv(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"0", false},
		{"no", false},
		{"yes", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Setenv("FCONCAT_VERBOSE", tc.value)
		assert.Equal(t, tc.want, verboseFromEnv(), "FCONCAT_VERBOSE=%q", tc.value)
	}
}
