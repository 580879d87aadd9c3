// File: pkg/concat/binary.go
package concat

import (
	"errors"
	"io"
	"os"
)

// binarySampleSize bounds the header sample used for classification.
const binarySampleSize = 8192

// ClassifyFile reports whether the file at path looks binary by sampling
// up to binarySampleSize bytes from its head. The caller's I/O state is
// untouched; an open or read failure means the file is unreadable.
func ClassifyFile(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, binarySampleSize)
	n, err := file.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	return IsBinaryData(buffer[:n]), nil
}

// IsBinaryData applies the classification heuristic to a sampled buffer:
// any NUL byte, more than 10% non-whitespace control characters, or more
// than 75% high-bit bytes means binary. Empty buffers are text.
func IsBinaryData(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	var nulls, control, highBit int
	for _, b := range data {
		switch {
		case b == 0:
			nulls++
		case b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\f' && b != '\v':
			control++
		case b > 0x7f:
			highBit++
		}
	}

	if nulls > 0 {
		return true
	}
	if control > len(data)/10 {
		return true
	}
	// Allow dense multi-byte sequences so UTF-8 text stays text.
	if highBit > len(data)*3/4 {
		return true
	}

	return false
}
