package cfg

import (
	"fmt"
	"strconv"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/bepcfg/internal/bepinex"
	"github.com/thirteen37/bepcfg/internal/format"
)

// Tree exports doc as {section: {entry: scalar}} in document order.
// Booleans, strings, integers and floats keep their type; an enum becomes
// its option name and a flag set becomes a list of option names.
func Tree(doc *bepinex.FileData) *orderedmap.OrderedMap {
	tree := orderedmap.New()
	for _, s := range doc.Sections {
		entries := orderedmap.New()
		for _, e := range s.Entries {
			entries.Set(e.Name, scalar(e.Value))
		}
		tree.Set(s.Name, entries)
	}
	return tree
}

func scalar(v bepinex.Value) any {
	switch val := v.(type) {
	case bepinex.Bool:
		return bool(val)
	case bepinex.String:
		return string(val)
	case bepinex.Int:
		return int64(val.Value)
	case bepinex.Float:
		// Go through the shortest float32 text so 0.1 stays 0.1.
		f, _ := strconv.ParseFloat(bepinex.FormatValue(val), 64)
		return f
	case bepinex.Flags:
		names := make([]any, 0, len(val.Indices))
		for _, i := range val.Indices {
			if i >= 0 && i < len(val.Options) {
				names = append(names, val.Options[i])
			}
		}
		return names
	default:
		return bepinex.FormatValue(v)
	}
}

// Apply imports a tree produced by Tree (or decoded from JSON, TOML or
// INI) into doc. Each leaf is converted to text and parsed with the type,
// options and range of the existing entry. Missing sections and entries
// are created. doc is left unchanged when any leaf fails.
func Apply(doc *bepinex.FileData, tree any) error {
	om := format.ToOrderedMapPtr(tree)
	if om == nil {
		return fmt.Errorf("tree is not an ordered map (got %T)", tree)
	}

	work := doc.Clone()
	for _, sectionName := range om.Keys() {
		sectionVal, _ := om.Get(sectionName)
		entries := format.ToOrderedMapPtr(sectionVal)
		if sectionName == "" || entries == nil {
			return fmt.Errorf("key %q at top level: %w", sectionName, bepinex.ErrNoSection)
		}

		if _, ok := work.Section(sectionName); !ok {
			work.Sections = append(work.Sections, bepinex.Section{Name: sectionName})
		}
		for _, entryName := range entries.Keys() {
			v, _ := entries.Get(entryName)
			if _, err := work.SetEntryText(sectionName, entryName, format.ScalarText(v)); err != nil {
				return fmt.Errorf("%s.%s: %w", sectionName, entryName, err)
			}
		}
	}

	*doc = *work
	return nil
}
