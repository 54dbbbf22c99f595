package bepinex

import (
	"slices"
	"strconv"
	"strings"
)

// FlagsMarker is the comment line BepInEx writes above multi-choice entries.
const FlagsMarker = "# Multiple values can be set at the same time by separating them with , (e.g. Debug, Warning)"

// Setting type names as they appear after "# Setting type: ".
const (
	TypeBoolean = "Boolean"
	TypeString  = "String"
	TypeInt32   = "Int32"
	TypeSingle  = "Single"
)

// Value is a typed setting value. The set of implementations is closed:
// Bool, String, Int, Float, Enum and Flags.
type Value interface {
	isValue()
}

// Range is a half-open numeric interval [Min, Max).
type Range[T int32 | float32] struct {
	Min T `json:"start"`
	Max T `json:"end"`
}

// Bool is a boolean setting.
type Bool bool

// String is a free-text setting.
type String string

// Int is a 32-bit integer setting with an optional range.
type Int struct {
	Value int32         `json:"value"`
	Range *Range[int32] `json:"range"`
}

// Float is a single-precision setting with an optional range.
type Float struct {
	Value float32         `json:"value"`
	Range *Range[float32] `json:"range"`
}

// Enum is a single choice out of Options.
type Enum struct {
	Index   int      `json:"index"`
	Options []string `json:"options"`
}

// Flags is any number of choices out of Options. The JSON key keeps the
// "indicies" spelling the launcher UI reads.
type Flags struct {
	Indices []int    `json:"indicies"`
	Options []string `json:"options"`
}

func (Bool) isValue()   {}
func (String) isValue() {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (Enum) isValue()   {}
func (Flags) isValue()  {}

// Kind returns the variant name of v: Bool, String, Int, Float, Enum or Flags.
func Kind(v Value) string {
	switch v.(type) {
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Enum:
		return "Enum"
	case Flags:
		return "Flags"
	default:
		return ""
	}
}

// TypeName returns the "# Setting type:" name used when rendering v.
// Enums and flags are stored by BepInEx as strings.
func TypeName(v Value) string {
	switch v.(type) {
	case Bool:
		return TypeBoolean
	case Int:
		return TypeInt32
	case Float:
		return TypeSingle
	default:
		return TypeString
	}
}

// FormatValue renders v the way it appears to the right of "name = ".
func FormatValue(v Value) string {
	switch val := v.(type) {
	case Bool:
		return strconv.FormatBool(bool(val))
	case String:
		return strings.ReplaceAll(string(val), "\n", `\n`)
	case Int:
		return strconv.FormatInt(int64(val.Value), 10)
	case Float:
		return formatFloat(val.Value)
	case Enum:
		if val.Index < 0 || val.Index >= len(val.Options) {
			return ""
		}
		return val.Options[val.Index]
	case Flags:
		if len(val.Indices) == 0 {
			return "0"
		}
		names := make([]string, 0, len(val.Indices))
		for _, i := range val.Indices {
			if i >= 0 && i < len(val.Options) {
				names = append(names, val.Options[i])
			}
		}
		return strings.Join(names, ", ")
	default:
		return ""
	}
}

// options returns the option list of enum-like values.
func options(v Value) ([]string, bool) {
	switch val := v.(type) {
	case Enum:
		return val.Options, true
	case Flags:
		return val.Options, true
	default:
		return nil, false
	}
}

// rangeText returns the bounds of a numeric value's range, if any.
func rangeText(v Value) (string, string, bool) {
	switch val := v.(type) {
	case Int:
		if val.Range != nil {
			return strconv.FormatInt(int64(val.Range.Min), 10), strconv.FormatInt(int64(val.Range.Max), 10), true
		}
	case Float:
		if val.Range != nil {
			return formatFloat(val.Range.Min), formatFloat(val.Range.Max), true
		}
	}
	return "", "", false
}

// formatFloat always uses a dot decimal separator and the shortest
// representation that parses back to the same float32.
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// cloneValue copies the slices held by enum-like values.
func cloneValue(v Value) Value {
	switch val := v.(type) {
	case Int:
		if val.Range != nil {
			r := *val.Range
			val.Range = &r
		}
		return val
	case Float:
		if val.Range != nil {
			r := *val.Range
			val.Range = &r
		}
		return val
	case Enum:
		val.Options = slices.Clone(val.Options)
		return val
	case Flags:
		val.Indices = slices.Clone(val.Indices)
		val.Options = slices.Clone(val.Options)
		return val
	default:
		return v
	}
}
