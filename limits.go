package pagescope

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

const (
	DefaultPerPage      = 25
	FirstPage           = 1
	DefaultPageParam    = "page"
	DefaultPerPageParam = "per_page"
)

// NormalizePage coerces a loosely typed page number. Anything that cannot be
// read as an integer, and any value below 1, becomes FirstPage.
func NormalizePage(page any) int {
	n, ok := toInt(page)
	if !ok || n < FirstPage {
		return FirstPage
	}

	return n
}

// normalizePerPage coerces a loosely typed per-page value. ok is false when
// the value must be ignored: nil, negative numbers and strings without
// leading digits. Strings are read up to the first non-digit, so "10abc" is
// 10. An explicit zero is returned as is.
func normalizePerPage(perPage any) (int, bool) {
	n, ok := toInt(perPage)
	if !ok || n < 0 {
		return 0, false
	}

	return n, true
}

// normalizeCap coerces an optional upper bound. Non-positive and non-numeric
// values mean "no cap".
func normalizeCap(limit any) (int, bool) {
	n, ok := toInt(limit)
	if !ok || n <= 0 {
		return 0, false
	}

	return n, true
}

func toInt(v any) (int, bool) {
	switch vt := v.(type) {
	case nil, bool:
		return 0, false
	case *int:
		if vt == nil {
			return 0, false
		}
		return *vt, true
	case string:
		return leadingInt(vt)
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}

	return n, true
}

// leadingInt reads the base 10 integer at the start of s and ignores whatever
// follows it. cast would read "010" as octal and reject "10abc".
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}

	return n, true
}
