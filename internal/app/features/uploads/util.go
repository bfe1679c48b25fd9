// internal/app/features/uploads/util.go
package uploads

import "strconv"

// FormatFileSize renders n bytes for upload messages: "812 B", "4.2 KB",
// "5.0 MB". Sizes past a megabyte stay in MB.
func FormatFileSize(n int64) string {
	if n < 1<<10 {
		return strconv.FormatInt(n, 10) + " B"
	}
	unit, div := "KB", float64(1<<10)
	if n >= 1<<20 {
		unit, div = "MB", float64(1<<20)
	}
	return strconv.FormatFloat(float64(n)/div, 'f', 1, 64) + " " + unit
}
