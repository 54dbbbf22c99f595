// Package toml provides a TOML format handler for exported settings trees.
package toml

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/bepcfg/internal/format"
	"github.com/thirteen37/bepcfg/internal/path"
)

// Handler implements format.Handler for TOML files.
type Handler struct{}

// New creates a new TOML handler.
func New() *Handler {
	return &Handler{}
}

// Parse reads TOML bytes and returns an *orderedmap.OrderedMap.
// Key order from the original TOML document is preserved.
func (h *Handler) Parse(data []byte, opts format.ParseOptions) (any, error) {
	if opts.StripComments {
		return nil, fmt.Errorf("strip-comments is not supported for TOML format")
	}

	var raw map[string]any
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return convertToOrderedMapWithMeta(raw, meta, nil), nil
}

// convertToOrderedMapWithMeta recursively converts map[string]any to *orderedmap.OrderedMap
// using TOML metadata to preserve key order.
func convertToOrderedMapWithMeta(v any, meta toml.MetaData, prefix []string) any {
	switch val := v.(type) {
	case map[string]any:
		result := orderedmap.New()
		for _, k := range keysInOrder(meta, prefix, val) {
			childPrefix := append(slices.Clone(prefix), k)
			result.Set(k, convertToOrderedMapWithMeta(val[k], meta, childPrefix))
		}
		return result
	case []map[string]any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = convertToOrderedMapWithMeta(item, meta, prefix)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = convertToOrderedMapWithMeta(item, meta, prefix)
		}
		return result
	default:
		return val
	}
}

// keysInOrder returns map keys in document order using TOML metadata.
func keysInOrder(meta toml.MetaData, prefix []string, m map[string]any) []string {
	var ordered []string
	for _, key := range meta.Keys() {
		if len(key) != len(prefix)+1 || !slices.Equal(key[:len(prefix)], prefix) {
			continue
		}
		k := key[len(prefix)]
		if _, ok := m[k]; ok && !slices.Contains(ordered, k) {
			ordered = append(ordered, k)
		}
	}

	// Keys the metadata does not mention go last, sorted.
	var rest []string
	for k := range m {
		if !slices.Contains(ordered, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(ordered, rest...)
}

// Serialize writes the tree to formatted TOML bytes. Top-level scalars come
// first, then one table per section in tree order. Keys inside a table are
// sorted by the encoder.
func (h *Handler) Serialize(tree any, opts format.SerializeOptions) ([]byte, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = opts.Indent

	om := format.ToOrderedMapPtr(tree)
	if om == nil {
		if err := encoder.Encode(convertToRegularMap(tree)); err != nil {
			return nil, fmt.Errorf("failed to serialize TOML: %w", err)
		}
		return buf.Bytes(), nil
	}

	scalars := make(map[string]any)
	var tables []string
	for _, k := range om.Keys() {
		v, _ := om.Get(k)
		if format.ToOrderedMapPtr(v) != nil {
			tables = append(tables, k)
			continue
		}
		scalars[k] = convertToRegularMap(v)
	}

	if len(scalars) > 0 {
		if err := encoder.Encode(scalars); err != nil {
			return nil, fmt.Errorf("failed to serialize TOML: %w", err)
		}
	}
	for _, k := range tables {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		v, _ := om.Get(k)
		if err := encoder.Encode(map[string]any{k: convertToRegularMap(v)}); err != nil {
			return nil, fmt.Errorf("failed to serialize TOML table %q: %w", k, err)
		}
	}

	return buf.Bytes(), nil
}

// convertToRegularMap recursively converts *orderedmap.OrderedMap to map[string]any.
func convertToRegularMap(v any) any {
	if om := format.ToOrderedMapPtr(v); om != nil {
		result := make(map[string]any)
		for _, k := range om.Keys() {
			child, _ := om.Get(k)
			result[k] = convertToRegularMap(child)
		}
		return result
	}
	if list, ok := v.([]any); ok {
		result := make([]any, len(list))
		for i, item := range list {
			result[i] = convertToRegularMap(item)
		}
		return result
	}
	return v
}

// GetPath extracts a value at the given path, supporting wildcards.
func (h *Handler) GetPath(tree any, p path.Path) (any, bool) {
	return format.GetTreePath(tree, p)
}

// SetPath sets a value at the given path, supporting wildcards.
// Creates intermediate maps as needed.
func (h *Handler) SetPath(tree any, p path.Path, value any) error {
	return format.SetTreePath(tree, p, value)
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
