package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const numberPadRune = 'X'

// GenerateEstimateNumber derives a human-readable estimate identifier in the
// form "<II>-<YYYYMMDD>-<SS>": two client initials (padded with 'X'), the
// creation date, and a two-digit sequence unique among identifiers sharing
// the same initials+date prefix.
//
// now is injected so callers control the date segment; the function itself
// performs no I/O and is deterministic in its inputs.
//
// Known limitation: the sequence wraps modulo 100, so the 101st estimate for
// the same initials on the same day collides with the first.
func GenerateEstimateNumber(clientName string, existingIDs []string, now time.Time) string {
	initials := clientInitials(clientName)
	dateStr := now.Format("20060102")
	prefix := initials + "-" + dateStr

	highest := -1
	for _, id := range existingIDs {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		parts := strings.Split(id, "-")
		if len(parts) != 3 {
			continue
		}
		seq, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}

	next := (highest + 1) % 100
	return fmt.Sprintf("%s-%s-%02d", initials, dateStr, next)
}

// clientInitials takes the first rune of each whitespace-separated token,
// upper-cased, truncated or padded with 'X' to exactly two characters.
func clientInitials(clientName string) string {
	initials := make([]rune, 0, 2)
	for _, token := range strings.Fields(clientName) {
		for _, r := range token {
			initials = append(initials, unicode.ToUpper(r))
			break
		}
		if len(initials) == 2 {
			break
		}
	}
	for len(initials) < 2 {
		initials = append(initials, numberPadRune)
	}
	return string(initials)
}
