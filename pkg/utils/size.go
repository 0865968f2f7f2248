package utils

import (
	"fmt"
	"math"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatFileSize formats a byte count with decimal (1000-based) units and
// three fractional digits, e.g. 1500000 -> "1.500 MB".
func FormatFileSize(size int64) string {
	if size == 0 {
		return "0 B"
	}

	const unit = 1000
	exp := 0
	for n := size; (n >= unit || n <= -unit) && exp < len(sizeUnits)-1; n /= unit {
		exp++
	}

	return fmt.Sprintf("%.3f %s", float64(size)/math.Pow(unit, float64(exp)), sizeUnits[exp])
}
