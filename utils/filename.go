package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// SanitizeFileName replaces everything outside [a-zA-Z0-9_-] with underscores
// and collapses the result so it is safe as a storage object name.
func SanitizeFileName(name string) string {
	s := unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "listino"
	}
	return s
}

// BuildPDFFileName derives the storage object name for a rendered price list
// from its name and a creation timestamp. The timestamp makes concurrent
// uploads practically collision-free without any cross-request locking.
func BuildPDFFileName(priceListName string, now time.Time) string {
	return fmt.Sprintf("%s_%s.pdf", SanitizeFileName(priceListName), now.Format("20060102_150405"))
}
