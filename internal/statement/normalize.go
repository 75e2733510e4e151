package statement

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	isoDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// NormalizeDate converts recognized date spellings into YYYY-MM-DD.
// Already-ISO dates pass through unchanged; M/D/YYYY is zero-padded and
// reassembled. Anything else is returned verbatim, never an error, so
// downstream month grouping must treat non-ISO strings as unparseable.
func NormalizeDate(raw string) string {
	if isoDate.MatchString(raw) {
		return raw
	}
	if m := slashDate.FindStringSubmatch(raw); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], pad2(m[1]), pad2(m[2]))
	}
	return raw
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// ParseAmount converts an amount cell into a signed value. Currency
// symbols, thousands separators, and surrounding whitespace are stripped.
// When parenNegative is set, a parenthesized amount like (123.45) is the
// dialect's negative convention and yields a negated value; in any other
// dialect parentheses are not accounting notation and the cell is
// unparseable.
func ParseAmount(cell string, parenNegative bool) (float64, error) {
	s := strings.TrimSpace(cell)

	negative := false
	if parenNegative {
		negative = strings.Contains(s, "(")
		s = strings.NewReplacer("(", "", ")", "").Replace(s)
	}
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q: %w", cell, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite amount %q", cell)
	}
	if negative {
		v = -v
	}
	return v, nil
}
