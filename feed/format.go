package feed

import "time"

// FormatCreatedAt renders a post timestamp for display. A zero timestamp
// means the document has not been confirmed by the store yet, which renders
// as "just now" rather than a blank.
func FormatCreatedAt(ms int64) string {
	if ms == 0 {
		return "just now"
	}
	return time.UnixMilli(ms).Format("Jan 2, 2006, 3:04 PM")
}
