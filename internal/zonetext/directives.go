package zonetext

import (
	"strconv"
	"strings"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

// FirstOrigin returns the argument of the first $ORIGIN directive in text, fully qualified,
// or "" when there is none.
func FirstOrigin(text string) string {
	for _, ll := range logicalLines(text) {
		parts := strings.Fields(ll.text)
		if len(parts) >= 2 && strings.EqualFold(parts[0], "$ORIGIN") { //nolint:mnd
			return zone.NormalizeOrigin(parts[1])
		}
	}

	return ""
}

// StripIncludes blanks every $INCLUDE line so the canonical parser never sees one. Line
// numbering is preserved.
func StripIncludes(text string) string {
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if isInclude(line) {
			lines[i] = ""
		}
	}

	return strings.Join(lines, "\n")
}

// PrependTTL returns text with a $TTL directive in front of it.
func PrependTTL(text string, ttl uint32) string {
	return "$TTL " + strconv.FormatUint(uint64(ttl), 10) + "\n" + text
}

func isInclude(line string) bool {
	fields := strings.Fields(stripComment(line))

	return len(fields) > 0 && strings.EqualFold(fields[0], "$INCLUDE")
}
