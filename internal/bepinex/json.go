package bepinex

import (
	"encoding/json"
	"fmt"
)

// taggedValue is the JSON shape of a Value: {"type": "Int", "data": {...}}.
type taggedValue struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalValue encodes v with its variant tag.
func MarshalValue(v Value) ([]byte, error) {
	kind := Kind(v)
	if kind == "" {
		return nil, fmt.Errorf("unknown value type %T", v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(taggedValue{Type: kind, Data: data})
}

// UnmarshalValue decodes a tagged value produced by MarshalValue.
func UnmarshalValue(data []byte) (Value, error) {
	var tv taggedValue
	if err := json.Unmarshal(data, &tv); err != nil {
		return nil, err
	}

	var v Value
	var err error
	switch tv.Type {
	case "Bool":
		var b Bool
		err = json.Unmarshal(tv.Data, &b)
		v = b
	case "String":
		var s String
		err = json.Unmarshal(tv.Data, &s)
		v = s
	case "Int":
		var n Int
		err = json.Unmarshal(tv.Data, &n)
		v = n
	case "Float":
		var n Float
		err = json.Unmarshal(tv.Data, &n)
		v = n
	case "Enum":
		var e Enum
		err = json.Unmarshal(tv.Data, &e)
		v = e
	case "Flags":
		var fl Flags
		err = json.Unmarshal(tv.Data, &fl)
		v = fl
	default:
		return nil, fmt.Errorf("unknown value type %q", tv.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", tv.Type, err)
	}
	return v, nil
}

type entryJSON struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Default     json.RawMessage `json:"default"`
	Value       json.RawMessage `json:"value"`
}

// MarshalJSON implements json.Marshaler.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{Name: e.Name, Default: json.RawMessage("null")}
	if e.Description != "" {
		out.Description = &e.Description
	}

	if e.Default != nil {
		def, err := MarshalValue(e.Default)
		if err != nil {
			return nil, fmt.Errorf("entry %q default: %w", e.Name, err)
		}
		out.Default = def
	}

	value, err := MarshalValue(e.Value)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", e.Name, err)
	}
	out.Value = value

	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var in entryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	entry := Entry{Name: in.Name}
	if in.Description != nil {
		entry.Description = *in.Description
	}

	if len(in.Default) > 0 && string(in.Default) != "null" {
		def, err := UnmarshalValue(in.Default)
		if err != nil {
			return fmt.Errorf("entry %q default: %w", in.Name, err)
		}
		entry.Default = def
	}

	value, err := UnmarshalValue(in.Value)
	if err != nil {
		return fmt.Errorf("entry %q: %w", in.Name, err)
	}
	entry.Value = value

	*e = entry
	return nil
}
