package crawl

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash returns the xxhash of content as 16 hex digits.
// The manifest stores it so unchanged pages can be recognised across runs.
func ComputeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

func computeHash(content string) string { return ComputeHash(content) }

// ShortURL drops the scheme and, when the rest is longer than maxLen, keeps
// its tail behind a "..." marker.
func ShortURL(rawURL string, maxLen int) string {
	s := rawURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	switch {
	case maxLen <= 0:
		return ""
	case len(s) <= maxLen:
		return s
	case maxLen <= 3:
		return s[len(s)-maxLen:]
	}
	return "..." + s[len(s)-maxLen+3:]
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}
