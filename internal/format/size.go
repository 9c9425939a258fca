package format

import "strconv"

// FormatSize converts bytes to a human-readable string.
func FormatSize(bytes int64) string {
	const units = "KMGTPE"
	const unit = 1024
	if bytes < unit {
		return strconv.FormatInt(bytes, 10) + "B"
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= 1000; n /= unit {
		div *= unit
		exp++
	}
	if exp >= len(units) {
		return "NaN"
	}
	value := float64(bytes) / float64(div)
	return strconv.FormatFloat(value, 'f', 1, 64) + string(units[exp]) + "B"
}
