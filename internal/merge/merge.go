// Package merge combines a managed settings tree with the one on disk.
package merge

import (
	"reflect"
	"slices"

	"github.com/iancoleman/orderedmap"
	"github.com/rs/zerolog/log"
	"github.com/thirteen37/bepcfg/internal/bepinex"
	"github.com/thirteen37/bepcfg/internal/format"
	"github.com/thirteen37/bepcfg/internal/path"
)

// Merge combines a managed settings tree with the current one,
// preserving values at user-owned paths from current.
//
// Algorithm:
// 1. Start with a deep copy of managed
// 2. For each preserved path:
//   - If the path exists in current, copy that value to result
//   - If the path doesn't exist in current, keep managed value
//
// A "*" segment is expanded against the keys of current, so every section
// keeps its own value. Expanded paths are only overlaid where managed has
// them too. Values that result rejects (for example an option the managed
// entry no longer accepts) are logged and the managed value is kept.
//
// Trees may be *bepinex.FileData (with the cfg handler) or ordered maps.
func Merge(handler format.Handler, managed, current any, paths []path.Path) any {
	// Deep copy managed to avoid modifying original
	result := deepCopy(managed)

	// If no current config, just return managed
	// Note: We check for typed nil (e.g., (*orderedmap.OrderedMap)(nil))
	// because interface comparison with nil may fail for typed nil pointers
	if isNilValue(current) {
		return result
	}

	// For each preserved path, overlay value from current if it exists
	for _, p := range paths {
		wildcard := slices.Contains(p.Segments(), path.Wildcard)
		for _, segments := range expand(current, p.Segments()) {
			concrete := path.NewArrayPath(segments)
			val, ok := handler.GetPath(current, concrete)
			if !ok {
				continue
			}
			if _, ok := handler.GetPath(result, concrete); wildcard && !ok {
				continue
			}
			if err := handler.SetPath(result, concrete, val); err != nil {
				log.Debug().Err(err).Str("path", concrete.String()).Msg("Keeping managed value")
			}
		}
	}

	return result
}

// expand resolves "*" segments against the keys present in tree. Settings
// documents only take a wildcard in the section position.
func expand(tree any, segments []string) [][]string {
	doc, ok := tree.(*bepinex.FileData)
	if !ok {
		return expandTree(tree, segments, nil)
	}
	if len(segments) == 0 || segments[0] != path.Wildcard {
		return [][]string{segments}
	}

	out := make([][]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		out = append(out, slices.Concat([]string{s.Name}, segments[1:]))
	}
	return out
}

func expandTree(node any, rest, prefix []string) [][]string {
	if len(rest) == 0 {
		return [][]string{prefix}
	}

	om := format.ToOrderedMapPtr(node)
	if rest[0] != path.Wildcard {
		var child any
		if om != nil {
			child, _ = om.Get(rest[0])
		}
		return expandTree(child, rest[1:], slices.Concat(prefix, rest[:1]))
	}

	if om == nil {
		return nil
	}
	var out [][]string
	for _, key := range om.Keys() {
		child, _ := om.Get(key)
		out = append(out, expandTree(child, rest[1:], slices.Concat(prefix, []string{key}))...)
	}
	return out
}

// deepCopy creates a deep copy of a value.
// Works with settings documents and the ordered maps and slices of exported trees.
func deepCopy(v any) any {
	switch val := v.(type) {
	case *bepinex.FileData:
		return val.Clone()
	case *orderedmap.OrderedMap:
		result := orderedmap.New()
		for _, k := range val.Keys() {
			v, _ := val.Get(k)
			result.Set(k, deepCopy(v))
		}
		return result
	case orderedmap.OrderedMap:
		result := orderedmap.New()
		for _, k := range val.Keys() {
			v, _ := val.Get(k)
			result.Set(k, deepCopy(v))
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = deepCopy(v)
		}
		return result
	default:
		// Primitives (string, float64, bool, nil) are immutable
		return val
	}
}

// isNilValue checks if v is nil, including typed nil pointers inside interfaces.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
