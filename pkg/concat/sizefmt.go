// File: pkg/concat/sizefmt.go
package concat

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatSize renders a byte count in human-readable units. Plain bytes
// print as integers, larger units with two decimals.
func FormatSize(size uint64) string {
	value := float64(size)
	unit := 0
	for value >= 1024.0 && unit < len(sizeUnits)-1 {
		value /= 1024.0
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", size, sizeUnits[0])
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[unit])
}
