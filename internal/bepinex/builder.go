package bepinex

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// entryBuilder accumulates the comment block above one entry line.
// It is reset after every entry line.
type entryBuilder struct {
	description []string
	typeName    string
	defaultText *string
	options     []string
	isFlags     bool
	rangeMin    string
	rangeMax    string
	hasRange    bool
}

func (b *entryBuilder) reset() {
	*b = entryBuilder{}
}

// comment records one "# " metadata line (without its "# " prefix).
// Unknown fields are ignored.
func (b *entryBuilder) comment(meta string) {
	switch {
	case strings.HasPrefix(meta, "Setting type: "):
		b.typeName = strings.TrimPrefix(meta, "Setting type: ")
	case strings.HasPrefix(meta, "Default value: "):
		text := strings.TrimPrefix(meta, "Default value: ")
		b.defaultText = &text
	case meta == "Default value:":
		b.defaultText = nil
	case strings.HasPrefix(meta, "Acceptable values: "):
		b.options = strings.Split(strings.TrimPrefix(meta, "Acceptable values: "), ", ")
	case strings.HasPrefix(meta, "Acceptable value range: From "):
		bounds := strings.TrimPrefix(meta, "Acceptable value range: From ")
		if lo, hi, ok := strings.Cut(bounds, " to "); ok {
			b.rangeMin, b.rangeMax, b.hasRange = lo, hi, true
		}
	}
}

// build resolves the pending state plus the entry line into an Entry.
func (b *entryBuilder) build(name, raw string) (Entry, error) {
	typeName := b.typeName
	if typeName == "" {
		typeName = inferTypeName(raw)
	}

	entry := Entry{
		Name:        name,
		Description: strings.Join(b.description, "\n"),
	}

	if b.defaultText != nil {
		def, err := b.resolve(*b.defaultText, typeName)
		if err != nil {
			return Entry{}, fmt.Errorf("default value of %q: %w", name, err)
		}
		entry.Default = def
	}

	value, err := b.resolve(raw, typeName)
	if err != nil {
		return Entry{}, fmt.Errorf("value of %q: %w", name, err)
	}
	entry.Value = value

	return entry, nil
}

func (b *entryBuilder) resolve(text, typeName string) (Value, error) {
	if b.options != nil {
		return parseEnumLike(text, slices.Clone(b.options), b.isFlags), nil
	}
	return parseSimple(text, typeName, b.rangeMin, b.rangeMax, b.hasRange)
}

// inferTypeName guesses a setting type from the first character of raw.
// The rest of the text is not checked.
func inferTypeName(raw string) string {
	if raw == "" {
		return TypeString
	}
	switch c := raw[0]; {
	case c >= '0' && c <= '9':
		if strings.Contains(raw, ".") {
			return TypeSingle
		}
		return TypeInt32
	case c == 't' || c == 'f':
		return TypeBoolean
	default:
		return TypeString
	}
}

func parseEnumLike(text string, options []string, isFlags bool) Value {
	if isFlags {
		indices := []int{}
		for _, token := range strings.Split(text, ", ") {
			if i := slices.Index(options, token); i >= 0 {
				indices = append(indices, i)
			}
		}
		return Flags{Indices: indices, Options: options}
	}

	// Unknown choices fall back to the first option so stale files still load.
	index := slices.Index(options, text)
	if index < 0 {
		index = 0
	}
	return Enum{Index: index, Options: options}
}

func parseSimple(text, typeName, rangeMin, rangeMax string, hasRange bool) (Value, error) {
	switch typeName {
	case TypeBoolean:
		return parseBool(text)
	case TypeInt32, "Number":
		value, err := parseInt32(text)
		if err != nil {
			return nil, err
		}
		v := Int{Value: value}
		if hasRange {
			lo, err := parseInt32(rangeMin)
			if err != nil {
				return nil, fmt.Errorf("range: %w", err)
			}
			hi, err := parseInt32(rangeMax)
			if err != nil {
				return nil, fmt.Errorf("range: %w", err)
			}
			v.Range = &Range[int32]{Min: lo, Max: hi}
		}
		return v, nil
	case TypeSingle, "Double":
		value, err := parseFloat32(text)
		if err != nil {
			return nil, err
		}
		v := Float{Value: value}
		if hasRange {
			lo, err := parseFloat32(rangeMin)
			if err != nil {
				return nil, fmt.Errorf("range: %w", err)
			}
			hi, err := parseFloat32(rangeMax)
			if err != nil {
				return nil, fmt.Errorf("range: %w", err)
			}
			v.Range = &Range[float32]{Min: lo, Max: hi}
		}
		return v, nil
	default:
		return String(strings.ReplaceAll(text, `\n`, "\n")), nil
	}
}

func parseBool(text string) (Bool, error) {
	switch t := strings.TrimSpace(text); {
	case strings.EqualFold(t, "true"):
		return true, nil
	case strings.EqualFold(t, "false"):
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", text)
	}
}

func parseInt32(text string) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", text, err)
	}
	return int32(n), nil
}

// parseFloat32 accepts a comma as the decimal separator.
func parseFloat32(text string) (float32, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	f, err := strconv.ParseFloat(normalized, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", text, err)
	}
	return float32(f), nil
}

// ParseValue reads text as a value shaped like like: same type, options
// and range. A nil like infers the type from text.
//
// Unlike Parse, ParseValue rejects choices missing from an enum's or a
// flag set's options instead of falling back to the first option.
func ParseValue(text string, like Value) (Value, error) {
	var b entryBuilder
	switch val := like.(type) {
	case nil:
		b.typeName = inferTypeName(text)
	case Enum:
		b.options = nonNil(val.Options)
		if !slices.Contains(b.options, text) {
			return nil, unknownOption(text, b.options)
		}
	case Flags:
		b.options = nonNil(val.Options)
		b.isFlags = true
		if text != "" && text != "0" {
			for _, token := range strings.Split(text, ", ") {
				if !slices.Contains(b.options, token) {
					return nil, unknownOption(token, b.options)
				}
			}
		}
	default:
		b.typeName = TypeName(like)
		b.rangeMin, b.rangeMax, b.hasRange = rangeText(like)
	}
	return b.resolve(text, b.typeName)
}

func unknownOption(choice string, options []string) error {
	return fmt.Errorf("unknown option %q (acceptable values: %s)", choice, strings.Join(options, ", "))
}

func nonNil(options []string) []string {
	if options == nil {
		return []string{}
	}
	return options
}
