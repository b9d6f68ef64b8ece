// Package text formats byte amounts for the size reports.
package text

import "fmt"

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatByteAmount renders size with the largest unit that keeps the value
// above one, e.g. "12.5 MB".
func FormatByteAmount(size int64) string {
	result := float64(size)
	unit := 0
	for unit < len(byteUnits)-1 && result >= 1024 {
		result /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %v", result, byteUnits[unit])
}

// FormatMegabyteAmount renders size in MB with two decimals, the shape the
// before/after database size report uses.
func FormatMegabyteAmount(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/1024/1024)
}
