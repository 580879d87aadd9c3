package concat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	cases := []struct {
		size uint64
		want string
	}{
		{0, "0 B"},
		{8, "8 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1234, "1.21 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatSize(tc.size), "size %d", tc.size)
	}
}
