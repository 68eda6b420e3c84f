package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the inferred type of a cell.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is a loosely typed cell. Numeric-looking text is coerced to a number,
// so identifiers such as "007" come back from String() as "7"; use Raw() when
// the original text matters.
type Value struct {
	kind Kind
	raw  string
	num  float64
	b    bool
}

// numericPattern mirrors the dynamic typing rule used by common browser CSV
// parsers: optional sign, digits with optional fraction, optional exponent.
var numericPattern = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

const maxSafeInteger = 1 << 53

// Infer builds a Value from raw cell text.
func Infer(raw string) Value {
	switch {
	case raw == "":
		return Value{kind: KindNull}
	case raw == "true" || raw == "TRUE":
		return Value{kind: KindBool, raw: raw, b: true}
	case raw == "false" || raw == "FALSE":
		return Value{kind: KindBool, raw: raw}
	}
	if numericPattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && f > -maxSafeInteger && f < maxSafeInteger {
			return Value{kind: KindNumber, raw: raw, num: f}
		}
	}
	return Value{kind: KindString, raw: raw}
}

// StringValue wraps text without inference.
func StringValue(s string) Value {
	if s == "" {
		return Value{kind: KindNull}
	}
	return Value{kind: KindString, raw: s}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) Raw() string { return v.raw }
func (v Value) Float() float64 { return v.num }
func (v Value) Bool() bool { return v.b }
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// String re-stringifies the inferred value.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindNumber:
		if math.Trunc(v.num) == v.num && math.Abs(v.num) < 1e21 {
			return strconv.FormatFloat(v.num, 'f', -1, 64)
		}
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return v.raw
	}
}

// Text returns the trimmed string form, or "" for null and blank values.
func (v Value) Text() string {
	return strings.TrimSpace(v.String())
}

// MarshalText lets encoders emit the re-stringified form.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
