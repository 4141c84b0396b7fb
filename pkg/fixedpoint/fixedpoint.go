// Package fixedpoint converts between decimal strings and the scaled int64
// representation used by the archive formats. The scale is fixed at 10^8 for
// every price and size field, so it is a package constant rather than
// per-value state.
package fixedpoint

import (
	"math"
	"strings"
)

const (
	// Decimals is the number of fractional digits carried by a fixed-point value.
	Decimals = 8
	// Scale is the multiplier between a decimal value and its int64 encoding.
	Scale = 100_000_000
)

// FromDecimal parses a decimal string (optional sign, integer part, optional
// fractional part of up to Decimals digits) into its scaled int64 encoding.
// It returns false on malformed input, more than Decimals fractional digits,
// or overflow. It never panics.
func FromDecimal(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" || (hasFrac && fracPart == "") {
		return 0, false
	}
	if len(fracPart) > Decimals {
		return 0, false
	}

	// The magnitude accumulates in uint64 so the negative range keeps its
	// extra value: the limit is MaxInt64 for positives and MaxInt64+1 when
	// the sign is negative.
	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}

	var mag uint64
	for i := 0; i < len(intPart); i++ {
		d := intPart[i]
		if d < '0' || d > '9' {
			return 0, false
		}
		if mag > (math.MaxUint64-uint64(d-'0'))/10 {
			return 0, false
		}
		mag = mag*10 + uint64(d-'0')
	}

	var frac uint64
	for i := 0; i < len(fracPart); i++ {
		d := fracPart[i]
		if d < '0' || d > '9' {
			return 0, false
		}
		frac = frac*10 + uint64(d-'0')
	}
	for i := len(fracPart); i < Decimals; i++ {
		frac *= 10
	}

	if mag > (limit-frac)/Scale {
		return 0, false
	}
	mag = mag*Scale + frac

	if neg {
		if mag == limit {
			return math.MinInt64, true
		}
		return -int64(mag), true
	}
	return int64(mag), true
}

// ToDecimal formats a scaled int64 back into its canonical decimal string:
// no decimal point for whole values, trailing fractional zeros trimmed.
// ToDecimal(2_538_100_000) returns "25.381".
func ToDecimal(v int64) string {
	var sb strings.Builder
	mag := uint64(v)
	if v < 0 {
		sb.WriteByte('-')
		mag = -uint64(v)
	}

	writeUint(&sb, mag/Scale)

	frac := mag % Scale
	if frac == 0 {
		return sb.String()
	}

	var digits [Decimals]byte
	for i := Decimals - 1; i >= 0; i-- {
		digits[i] = byte('0' + frac%10)
		frac /= 10
	}
	n := Decimals
	for digits[n-1] == '0' {
		n--
	}
	sb.WriteByte('.')
	sb.Write(digits[:n])
	return sb.String()
}

func writeUint(sb *strings.Builder, u uint64) {
	if u >= 10 {
		writeUint(sb, u/10)
	}
	sb.WriteByte(byte('0' + u%10))
}
