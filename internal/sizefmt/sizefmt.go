// Package sizefmt renders byte counts as human-readable strings for tidy.
package sizefmt

import "fmt"

// units lists the 1024-based unit suffixes in ascending order.
// PB is the ceiling: anything larger is still rendered in PB.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatSize converts a byte count into a string such as "1.50 KB".
// It picks the largest unit for which the scaled value stays below 1024
// and always renders exactly two decimal places.
func FormatSize(bytes float64) string {
	value, unit := Scale(bytes)
	return fmt.Sprintf("%.2f %s", value, units[unit])
}

// Scale divides bytes by 1024 until it drops below 1024 or the last unit
// is reached. It returns the scaled value and the index of the chosen unit.
func Scale(bytes float64) (float64, int) {
	size := bytes
	for i := 0; i < len(units)-1; i++ {
		if size < 1024.0 {
			return size, i
		}
		size /= 1024.0
	}
	return size, len(units) - 1
}

// UnitName returns the suffix for a unit index returned by Scale.
func UnitName(index int) string {
	if index < 0 || index >= len(units) {
		return ""
	}
	return units[index]
}

// FormatFolderSize renders a folder total the way the folder summary shows it:
// megabytes below 1000 MB, gigabytes from there on.
func FormatFolderSize(bytes int64) string {
	sizeMB := float64(bytes) / (1024 * 1024)
	if sizeMB < 1000 {
		return fmt.Sprintf("%.2f MB", sizeMB)
	}
	return fmt.Sprintf("%.2f GB", sizeMB/1024)
}
