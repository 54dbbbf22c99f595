// Package bepinex reads and writes BepInEx plugin settings files (*.cfg).
//
// A settings file is a list of bracketed sections holding "name = value"
// entries. Each entry is preceded by "##" description lines and "# "
// metadata comments carrying its type, default value, acceptable values
// and numeric range. Parse turns the text into a FileData; Write renders
// a FileData back into canonical text. Comments are regenerated from the
// typed fields, so a parse/write cycle preserves every entry's metadata
// while normalising hand-edited formatting.
package bepinex

// Metadata identifies the plugin that generated a settings file.
type Metadata struct {
	ModName    string `json:"mod_name"`
	ModVersion string `json:"mod_version"`
	ModGUID    string `json:"mod_guid"`
}

// FileData is a parsed settings file.
type FileData struct {
	Metadata *Metadata `json:"metadata"`
	Sections []Section `json:"sections"`
}

// Section is a bracketed group of entries.
type Section struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Entry is one setting. A nil Default means the file declares no default.
type Entry struct {
	Name        string
	Description string
	Default     Value
	Value       Value
}

// Section returns the section with the given name.
func (f *FileData) Section(name string) (*Section, bool) {
	for i := range f.Sections {
		if f.Sections[i].Name == name {
			return &f.Sections[i], true
		}
	}
	return nil, false
}

// Entry returns the entry with the given name.
func (s *Section) Entry(name string) (*Entry, bool) {
	for i := range s.Entries {
		if s.Entries[i].Name == name {
			return &s.Entries[i], true
		}
	}
	return nil, false
}

// Lookup returns the entry at section/entry.
func (f *FileData) Lookup(section, entry string) (*Entry, bool) {
	s, ok := f.Section(section)
	if !ok {
		return nil, false
	}
	return s.Entry(entry)
}

// SetEntry replaces the value of section/entry, appending the section
// and the entry when they do not exist yet. New entries carry no
// description and no default. An existing default whose kind differs
// from value is dropped.
func (f *FileData) SetEntry(section, entry string, value Value) {
	s, ok := f.Section(section)
	if !ok {
		f.Sections = append(f.Sections, Section{Name: section})
		s = &f.Sections[len(f.Sections)-1]
	}

	if e, ok := s.Entry(entry); ok {
		if e.Default != nil && Kind(e.Default) != Kind(value) {
			e.Default = nil
		}
		e.Value = value
		return
	}
	s.Entries = append(s.Entries, Entry{Name: entry, Value: value})
}

// SetEntryText parses text using the type, options and range of the
// existing entry and stores the result. Missing entries are created with
// a type inferred from text.
func (f *FileData) SetEntryText(section, entry, text string) (Value, error) {
	var like Value
	if e, ok := f.Lookup(section, entry); ok {
		like = e.Value
	}

	value, err := ParseValue(text, like)
	if err != nil {
		return nil, &ParseError{Kind: KindCoercion, Err: err}
	}
	f.SetEntry(section, entry, value)
	return value, nil
}

// Clone returns a deep copy of f.
func (f *FileData) Clone() *FileData {
	if f == nil {
		return nil
	}

	out := &FileData{}
	if f.Metadata != nil {
		m := *f.Metadata
		out.Metadata = &m
	}
	if f.Sections != nil {
		out.Sections = make([]Section, len(f.Sections))
	}
	for i, s := range f.Sections {
		cs := Section{Name: s.Name}
		if s.Entries != nil {
			cs.Entries = make([]Entry, len(s.Entries))
		}
		for j, e := range s.Entries {
			ce := e
			if e.Default != nil {
				ce.Default = cloneValue(e.Default)
			}
			ce.Value = cloneValue(e.Value)
			cs.Entries[j] = ce
		}
		out.Sections[i] = cs
	}
	return out
}
