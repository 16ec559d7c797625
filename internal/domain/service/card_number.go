package service

import (
	"fmt"
	"strings"
)

// FormatCardNumber renders the display-only member card number
// "YEAR WW00 0000 NNNN". A missing or non-positive member number prints as 1.
func FormatCardNumber(year int, wilaya string, memberNumber *int) string {
	n := 1
	if memberNumber != nil && *memberNumber > 0 {
		n = *memberNumber
	}
	if len(wilaya) < 2 {
		wilaya = strings.Repeat("0", 2-len(wilaya)) + wilaya
	}
	return fmt.Sprintf("%d %s00 0000 %04d", year, wilaya, n)
}
