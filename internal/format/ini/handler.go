// Package ini provides an INI format handler for exported settings trees.
package ini

import (
	"bytes"
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/bepcfg/internal/format"
	"github.com/thirteen37/bepcfg/internal/path"
	"gopkg.in/ini.v1"
)

// Handler implements format.Handler for INI files.
type Handler struct{}

// New creates a new INI handler.
func New() *Handler {
	return &Handler{}
}

// loadOptions keeps '#' and ';' inside values, which settings text may contain.
var loadOptions = ini.LoadOptions{IgnoreInlineComment: true}

// Parse reads INI bytes and returns an *orderedmap.OrderedMap.
// Structure: {"section": {"key": "value"}}
// Global keys (before any section) are stored under the empty string key "".
func (h *Handler) Parse(data []byte, opts format.ParseOptions) (any, error) {
	if opts.StripComments {
		return nil, fmt.Errorf("strip-comments is not supported for INI format")
	}

	cfg, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse INI: %w", err)
	}

	result := orderedmap.New()
	for _, section := range cfg.Sections() {
		sectionName := section.Name()
		// ini.v1 uses "DEFAULT" for global section, we use ""
		if sectionName == ini.DefaultSection {
			sectionName = ""
		}

		sectionMap := orderedmap.New()
		for _, key := range section.Keys() {
			sectionMap.Set(key.Name(), key.Value())
		}

		if len(sectionMap.Keys()) > 0 || sectionName != "" {
			result.Set(sectionName, sectionMap)
		}
	}

	return result, nil
}

// Serialize writes the tree to formatted INI bytes.
// Non-string leaves are written with format.ScalarText.
func (h *Handler) Serialize(tree any, opts format.SerializeOptions) ([]byte, error) {
	om := format.ToOrderedMapPtr(tree)
	if om == nil {
		return nil, fmt.Errorf("tree is not an ordered map")
	}

	cfg := ini.Empty(loadOptions)

	for _, sectionName := range om.Keys() {
		sectionVal, _ := om.Get(sectionName)
		sectionMap := format.ToOrderedMapPtr(sectionVal)
		if sectionMap == nil {
			return nil, fmt.Errorf("section %q is not a map", sectionName)
		}

		var section *ini.Section
		if sectionName == "" {
			section = cfg.Section(ini.DefaultSection)
		} else {
			var err error
			section, err = cfg.NewSection(sectionName)
			if err != nil {
				return nil, fmt.Errorf("failed to create section %q: %w", sectionName, err)
			}
		}

		for _, keyName := range sectionMap.Keys() {
			keyVal, _ := sectionMap.Get(keyName)
			if _, err := section.NewKey(keyName, format.ScalarText(keyVal)); err != nil {
				return nil, fmt.Errorf("failed to create key %q: %w", keyName, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize INI: %w", err)
	}

	return buf.Bytes(), nil
}

// GetPath extracts a value at the given path, supporting wildcards.
// INI paths are limited to ["section", "key"] format (max 2 segments).
// Wildcard "*" can be used for section or key and returns the first match.
func (h *Handler) GetPath(tree any, p path.Path) (any, bool) {
	segments := p.Segments()
	if len(segments) == 0 || len(segments) > 2 {
		return nil, false
	}

	om := format.ToOrderedMapPtr(tree)
	if om == nil {
		return nil, false
	}

	for _, sectionName := range matchKeys(om, segments[0]) {
		sectionVal, _ := om.Get(sectionName)
		if len(segments) == 1 {
			return sectionVal, true
		}

		sectionMap := format.ToOrderedMapPtr(sectionVal)
		if sectionMap == nil {
			continue
		}
		for _, keyName := range matchKeys(sectionMap, segments[1]) {
			val, _ := sectionMap.Get(keyName)
			return val, true
		}
	}
	return nil, false
}

// SetPath sets a value at the given path, supporting wildcards.
// INI paths are limited to ["section", "key"] format (max 2 segments).
// Values are converted to strings (INI only supports strings).
func (h *Handler) SetPath(tree any, p path.Path, value any) error {
	segments := p.Segments()
	if len(segments) == 0 || len(segments) > 2 {
		return fmt.Errorf("INI paths must have 1 or 2 segments, got %d", len(segments))
	}

	om := format.ToOrderedMapPtr(tree)
	if om == nil {
		return fmt.Errorf("tree is not an ordered map")
	}

	sectionSegment := segments[0]
	if sectionSegment != path.Wildcard {
		if _, exists := om.Get(sectionSegment); !exists {
			om.Set(sectionSegment, orderedmap.New())
		}
	}

	for _, sectionName := range matchKeys(om, sectionSegment) {
		if len(segments) == 1 {
			om.Set(sectionName, value)
			continue
		}

		sectionVal, _ := om.Get(sectionName)
		sectionMap := format.ToOrderedMapPtr(sectionVal)
		if sectionMap == nil {
			if sectionSegment == path.Wildcard {
				continue
			}
			return fmt.Errorf("section %q is not a map", sectionName)
		}

		text := format.ScalarText(value)
		if segments[1] == path.Wildcard {
			for _, keyName := range sectionMap.Keys() {
				sectionMap.Set(keyName, text)
			}
		} else {
			sectionMap.Set(segments[1], text)
		}
		// Sections decoded as values are copies; store the pointer back.
		om.Set(sectionName, sectionMap)
	}
	return nil
}

// matchKeys returns the keys of om selected by segment.
func matchKeys(om *orderedmap.OrderedMap, segment string) []string {
	if segment == path.Wildcard {
		return om.Keys()
	}
	if _, ok := om.Get(segment); ok {
		return []string{segment}
	}
	return nil
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
