package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DefaultIDPrefix is the prefix of generated invoice IDs
	DefaultIDPrefix = "BL"

	// DefaultFirstID is returned when no invoice has been saved yet
	DefaultFirstID = "BL-25-12-01"

	idDelimiter = "-"
)

// NextInvoiceID derives the next sequential invoice ID in the form PREFIX-YY-MM-NN.
//
// The counter NN is the largest numeric suffix found across all existing IDs plus
// one, regardless of the year and month those IDs carry, so numbering keeps
// climbing across month boundaries. YY and MM always come from now. When there
// are no existing IDs, defaultID is returned unchanged.
func NextInvoiceID(prefix, defaultID string, existing []string, now time.Time) string {
	if len(existing) == 0 {
		return defaultID
	}

	maxNum := 0
	for _, id := range existing {
		parts := strings.Split(id, idDelimiter)
		num, ok := leadingInt(parts[len(parts)-1])
		if ok && num > maxNum {
			maxNum = num
		}
	}

	return fmt.Sprintf("%s-%02d-%02d-%02d", prefix, now.Year()%100, int(now.Month()), maxNum+1)
}

// leadingInt parses the leading decimal digits of s after optional
// whitespace and sign. Trailing garbage is ignored.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		if n > (math.MaxInt-9)/10 {
			return 0, false
		}
		n = n*10 + int(c-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}
