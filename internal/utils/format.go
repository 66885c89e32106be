package utils

import (
	"fmt"
	"time"
)

const sizeUnits = "KMGTPE"

// FormatFileSize renders an object size in binary units, e.g. "1.5 GB". Negative sizes render as "0 B".
func FormatFileSize(size int64) string {
	if size < 1024 {
		if size < 0 {
			size = 0
		}
		return fmt.Sprintf("%d B", size)
	}

	value := float64(size)
	exp := -1
	for value >= 1024 && exp < len(sizeUnits)-1 {
		value /= 1024
		exp++
	}
	return fmt.Sprintf("%.1f %cB", value, sizeUnits[exp])
}

// FormatTTL renders a link lifetime in its largest whole unit: "45s", "15m", "2h", "7d".
// Durations that do not divide evenly fall back to seconds.
func FormatTTL(d time.Duration) string {
	secs := int64(d / time.Second)
	switch {
	case secs <= 0:
		return "0s"
	case secs%86400 == 0:
		return fmt.Sprintf("%dd", secs/86400)
	case secs%3600 == 0:
		return fmt.Sprintf("%dh", secs/3600)
	case secs%60 == 0:
		return fmt.Sprintf("%dm", secs/60)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
