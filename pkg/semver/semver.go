// Package semver compares loosely formatted dotted version strings such as
// "0.2", "v10.0.1", "10.0-alpha.0" or "10.*".
//
// Every component is stripped of anything that is not a digit or '*'. A
// component that cleans to "*" is a wildcard and matches any value at that
// position. When a version ends in a wildcard, the wildcard also covers every
// position past its end; otherwise missing positions compare as 0.
package semver

import (
	"math"
	"strconv"
	"strings"
)

const wildcard = "*"

// Compare returns -1 if a < b, 0 if they are equal, and 1 if a > b.
func Compare(a, b string) int {
	va, vb := parse(a), parse(b)

	n := max(len(va), len(vb))
	for i := 0; i < n; i++ {
		if va.isWild(i) || vb.isWild(i) {
			continue
		}
		x, y := va.value(i), vb.value(i)
		if x > y {
			return 1
		}
		if x < y {
			return -1
		}
	}
	return 0
}

// LessThan reports whether a < b.
func LessThan(a, b string) bool { return Compare(a, b) < 0 }

// GreaterThan reports whether a > b.
func GreaterThan(a, b string) bool { return Compare(a, b) > 0 }

// Equal reports whether a and b compare equal.
func Equal(a, b string) bool { return Compare(a, b) == 0 }

type version []string

func parse(v string) version {
	parts := strings.Split(v, ".")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	out := make(version, len(parts))
	for i, p := range parts {
		out[i] = clean(p)
	}
	return out
}

// clean drops every rune that is not a digit or '*'. Empty results become "0".
func clean(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '*' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

func (v version) isWild(i int) bool {
	if len(v) == 0 {
		return false
	}
	if i >= len(v) {
		i = len(v) - 1
	}
	return v[i] == wildcard
}

func (v version) value(i int) uint64 {
	if i >= len(v) {
		return 0
	}
	digits := strings.ReplaceAll(v[i], wildcard, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		// only overflow is possible here
		return math.MaxUint64
	}
	return n
}
