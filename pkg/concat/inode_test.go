package concat

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInodeTrackerAddAndContains(t *testing.T) {
	tr := NewInodeTracker()

	assert.False(t, tr.Contains(1, 42))
	assert.True(t, tr.Add(1, 42))
	assert.True(t, tr.Contains(1, 42))

	// Duplicate insert reports a loop and does not mutate.
	assert.False(t, tr.Add(1, 42))
	assert.True(t, tr.Contains(1, 42))

	// Same inode on another device is distinct.
	assert.True(t, tr.Add(2, 42))
}

func TestInodeTrackerReset(t *testing.T) {
	tr := NewInodeTracker()
	tr.Add(1, 1)
	tr.Add(1, 2)

	tr.Reset()

	assert.False(t, tr.Contains(1, 1))
	assert.False(t, tr.Contains(1, 2))
	assert.True(t, tr.Add(1, 1))
}

func TestFileID(t *testing.T) {
	dir := t.TempDir()
	f := dir + "/f"
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	info, err := os.Stat(f)
	require.NoError(t, err)

	dev, ino, ok := fileID(info)
	require.True(t, ok)
	assert.NotZero(t, ino)

	// The same file yields the same pair.
	again, err := os.Stat(f)
	require.NoError(t, err)
	dev2, ino2, ok2 := fileID(again)
	require.True(t, ok2)
	assert.Equal(t, dev, dev2)
	assert.Equal(t, ino, ino2)
}
