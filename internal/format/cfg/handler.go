// Package cfg adapts BepInEx settings documents to format.Handler, so
// they can be merged and converted like any other tree.
package cfg

import (
	"errors"
	"fmt"

	"github.com/thirteen37/bepcfg/internal/bepinex"
	"github.com/thirteen37/bepcfg/internal/format"
	"github.com/thirteen37/bepcfg/internal/path"
)

// Handler implements format.Handler for *.cfg files.
// Trees are *bepinex.FileData. Paths are [section] or [section, entry],
// and the section segment may be "*".
type Handler struct{}

// New creates a new settings-file handler.
func New() *Handler {
	return &Handler{}
}

// Parse reads settings text and returns a *bepinex.FileData.
func (h *Handler) Parse(data []byte, opts format.ParseOptions) (any, error) {
	if opts.StripComments {
		return nil, fmt.Errorf("strip-comments is not supported for cfg format")
	}
	return bepinex.Parse(string(data))
}

// Serialize renders the document in canonical form.
func (h *Handler) Serialize(tree any, opts format.SerializeOptions) ([]byte, error) {
	doc, err := document(tree)
	if err != nil {
		return nil, err
	}
	return []byte(bepinex.Write(doc)), nil
}

// GetPath returns the *bepinex.Section for a one-segment path or the
// entry's bepinex.Value for a two-segment path.
func (h *Handler) GetPath(tree any, p path.Path) (any, bool) {
	doc, err := document(tree)
	if err != nil {
		return nil, false
	}

	segments := p.Segments()
	if len(segments) == 0 || len(segments) > 2 {
		return nil, false
	}

	for _, s := range matchSections(doc, segments[0]) {
		if len(segments) == 1 {
			return s, true
		}
		if e, ok := s.Entry(segments[1]); ok {
			return e.Value, true
		}
	}
	return nil, false
}

// SetPath stores value at p, creating the section and entry when absent.
//
// A bepinex.Value replacing an existing entry is coerced to that entry's
// type, options and range. Other scalars are converted to text and parsed
// the same way. A one-segment path takes a bepinex.Section and replaces
// the whole section.
func (h *Handler) SetPath(tree any, p path.Path, value any) error {
	doc, err := document(tree)
	if err != nil {
		return err
	}

	segments := p.Segments()
	if len(segments) == 0 || len(segments) > 2 {
		return fmt.Errorf("cfg paths must have 1 or 2 segments, got %d", len(segments))
	}

	if len(segments) == 1 {
		return setSection(doc, segments[0], value)
	}

	sectionName, entryName := segments[0], segments[1]
	if sectionName != path.Wildcard {
		return setEntry(doc, sectionName, entryName, value)
	}

	var errs []error
	for _, s := range matchSections(doc, path.Wildcard) {
		if _, ok := s.Entry(entryName); !ok {
			continue
		}
		if err := setEntry(doc, s.Name, entryName, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func setEntry(doc *bepinex.FileData, section, entry string, value any) error {
	v, ok := value.(bepinex.Value)
	if !ok {
		if _, err := doc.SetEntryText(section, entry, format.ScalarText(value)); err != nil {
			return fmt.Errorf("%s.%s: %w", section, entry, err)
		}
		return nil
	}

	if e, exists := doc.Lookup(section, entry); exists {
		coerced, err := bepinex.ParseValue(bepinex.FormatValue(v), e.Value)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", section, entry, err)
		}
		v = coerced
	}
	doc.SetEntry(section, entry, v)
	return nil
}

func setSection(doc *bepinex.FileData, name string, value any) error {
	var src bepinex.Section
	switch s := value.(type) {
	case bepinex.Section:
		src = s
	case *bepinex.Section:
		if s == nil {
			return fmt.Errorf("section %q: nil section", name)
		}
		src = *s
	default:
		return fmt.Errorf("section %q: cannot set %T as a section", name, value)
	}

	targets := matchSections(doc, name)
	if len(targets) == 0 && name != path.Wildcard {
		doc.Sections = append(doc.Sections, bepinex.Section{Name: name})
		targets = matchSections(doc, name)
	}
	for _, t := range targets {
		replacement := cloneSection(src)
		replacement.Name = t.Name
		*t = replacement
	}
	return nil
}

// cloneSection copies s so the result shares no slices with its source.
func cloneSection(s bepinex.Section) bepinex.Section {
	doc := &bepinex.FileData{Sections: []bepinex.Section{s}}
	return doc.Clone().Sections[0]
}

func matchSections(doc *bepinex.FileData, name string) []*bepinex.Section {
	if name != path.Wildcard {
		if s, ok := doc.Section(name); ok {
			return []*bepinex.Section{s}
		}
		return nil
	}
	out := make([]*bepinex.Section, len(doc.Sections))
	for i := range doc.Sections {
		out[i] = &doc.Sections[i]
	}
	return out
}

func document(tree any) (*bepinex.FileData, error) {
	doc, ok := tree.(*bepinex.FileData)
	if !ok || doc == nil {
		return nil, fmt.Errorf("tree is not a settings document (got %T)", tree)
	}
	return doc, nil
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
