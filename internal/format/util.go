package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/bepcfg/internal/path"
)

// ToOrderedMapPtr converts both value and pointer types of OrderedMap to a pointer.
// Returns nil if the value is not an OrderedMap.
func ToOrderedMapPtr(v any) *orderedmap.OrderedMap {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		return val
	case orderedmap.OrderedMap:
		return &val
	default:
		return nil
	}
}

// ScalarText converts a tree leaf to the text form used in settings files.
// Lists are joined with ", " the way flag sets are written.
func ScalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = ScalarText(item)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(val, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// GetTreePath extracts a value from nested ordered maps.
// A "*" segment matches the first key that leads to a value.
func GetTreePath(tree any, p path.Path) (any, bool) {
	return getPathWithWildcard(tree, p.Segments(), 0)
}

func getPathWithWildcard(current any, segments []string, idx int) (any, bool) {
	if idx >= len(segments) {
		return current, true
	}

	segment := segments[idx]
	om := ToOrderedMapPtr(current)
	if om == nil {
		return nil, false
	}

	if segment == path.Wildcard {
		for _, key := range om.Keys() {
			val, _ := om.Get(key)
			if result, ok := getPathWithWildcard(val, segments, idx+1); ok {
				return result, true
			}
		}
		return nil, false
	}

	val, exists := om.Get(segment)
	if !exists {
		return nil, false
	}
	return getPathWithWildcard(val, segments, idx+1)
}

// SetTreePath sets a value in nested ordered maps, creating intermediate
// maps as needed. A "*" segment applies to every existing key.
func SetTreePath(tree any, p path.Path, value any) error {
	segments := p.Segments()
	if len(segments) == 0 {
		return fmt.Errorf("empty path")
	}
	return setPathWithWildcard(tree, segments, 0, value)
}

func setPathWithWildcard(current any, segments []string, idx int, value any) error {
	om := ToOrderedMapPtr(current)
	if om == nil {
		return fmt.Errorf("cannot navigate into non-map value")
	}

	segment := segments[idx]
	isLast := idx == len(segments)-1

	if segment == path.Wildcard {
		for _, key := range om.Keys() {
			if isLast {
				om.Set(key, value)
				continue
			}
			next, err := childMap(om, key)
			if err != nil {
				continue
			}
			// Keep going with the remaining keys even if one fails.
			_ = setPathWithWildcard(next, segments, idx+1, value)
		}
		return nil
	}

	if isLast {
		om.Set(segment, value)
		return nil
	}

	if _, exists := om.Get(segment); !exists {
		om.Set(segment, orderedmap.New())
	}
	next, err := childMap(om, segment)
	if err != nil {
		return err
	}
	return setPathWithWildcard(next, segments, idx+1, value)
}

// childMap returns om[key] as a pointer, storing the pointer back when the
// child was decoded as an OrderedMap value so new keys are not lost.
func childMap(om *orderedmap.OrderedMap, key string) (*orderedmap.OrderedMap, error) {
	val, _ := om.Get(key)
	switch v := val.(type) {
	case *orderedmap.OrderedMap:
		return v, nil
	case orderedmap.OrderedMap:
		ptr := &v
		om.Set(key, ptr)
		return ptr, nil
	default:
		return nil, fmt.Errorf("path segment %q is not a map", key)
	}
}
