package ini

import (
	"strings"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/bepcfg/internal/bepinex"
	"github.com/thirteen37/bepcfg/internal/format"
	"github.com/thirteen37/bepcfg/internal/format/cfg"
	"github.com/thirteen37/bepcfg/internal/path"
)

const settingsCfg = `[General]

# Setting type: Boolean
# Default value: true
Enabled = false

# Setting type: Int32
# Default value: 4
# Acceptable value range: From 1 to 8
MaxPlayers = 8

[Audio]

# Setting type: Single
# Default value: 1
Volume = 0.25

[Logging]

# Setting type: String
# Default value: Info
# Acceptable values: Debug, Info, Warning, Error
Level = Warning

# Setting type: String
# Default value: 0
# Acceptable values: Debug, Info, Warning, Error
# Multiple values can be set at the same time by separating them with , (e.g. Debug, Warning)
Channels = Debug, Error
`

// settingsTree builds {section: {entry: text}} the way Parse returns it.
func settingsTree() *orderedmap.OrderedMap {
	general := orderedmap.New()
	general.Set("Enabled", "true")
	general.Set("Name", "Player")

	audio := orderedmap.New()
	audio.Set("Volume", "0.5")
	audio.Set("Enabled", "false")

	tree := orderedmap.New()
	tree.Set("General", general)
	tree.Set("Audio", audio)
	return tree
}

func TestHandler_Parse(t *testing.T) {
	h := New()

	tests := []struct {
		name     string
		input    string
		wantKeys []string
		wantErr  bool
	}{
		{
			name:     "settings section",
			input:    "[General]\nEnabled = true",
			wantKeys: []string{"General"},
		},
		{
			name:     "sections in file order",
			input:    "[Logging]\nLevel = Info\n\n[General]\nEnabled = true",
			wantKeys: []string{"Logging", "General"},
		},
		{
			name:     "keys before any section",
			input:    "Version = 2\n\n[General]\nEnabled = true",
			wantKeys: []string{"", "General"},
		},
		{
			name:     "empty file",
			input:    "",
			wantKeys: []string{},
		},
		{
			name:    "unclosed section",
			input:   "[General\nEnabled = true",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Parse([]byte(tt.input), format.ParseOptions{})
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			om, ok := got.(*orderedmap.OrderedMap)
			if !ok {
				t.Errorf("Parse() returned %T, want *orderedmap.OrderedMap", got)
				return
			}
			gotKeys := om.Keys()
			if len(gotKeys) != len(tt.wantKeys) {
				t.Errorf("Parse() got %d keys (%v), want %d (%v)", len(gotKeys), gotKeys, len(tt.wantKeys), tt.wantKeys)
				return
			}
			for i, k := range gotKeys {
				if k != tt.wantKeys[i] {
					t.Errorf("Parse() key[%d] = %q, want %q", i, k, tt.wantKeys[i])
				}
			}
		})
	}
}

func TestHandler_Parse_StripCommentsError(t *testing.T) {
	h := New()

	_, err := h.Parse([]byte("[General]\nEnabled = true"), format.ParseOptions{StripComments: true})
	if err == nil {
		t.Error("Parse() with StripComments should return error for INI")
	}
}

func TestHandler_Parse_SettingsText(t *testing.T) {
	h := New()

	input := `[Logging]
Level = Warning
Channels = Debug, Error

[Display]
Color = #FF0000
Separator = a ; b
Volume = 0.25
`

	tree, err := h.Parse([]byte(input), format.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		section, entry string
		want           string
	}{
		{"Logging", "Level", "Warning"},
		{"Logging", "Channels", "Debug, Error"},
		{"Display", "Color", "#FF0000"},
		{"Display", "Separator", "a ; b"},
		{"Display", "Volume", "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.section+"."+tt.entry, func(t *testing.T) {
			got, found := h.GetPath(tree, path.NewEntryPath(tt.section, tt.entry))
			if !found || got != tt.want {
				t.Errorf("GetPath() = %v, %v, want %q", got, found, tt.want)
			}
		})
	}
}

func TestHandler_GetPath(t *testing.T) {
	h := New()
	tree := settingsTree()

	tests := []struct {
		name      string
		path      []string
		want      any
		wantFound bool
	}{
		{name: "entry", path: []string{"General", "Name"}, want: "Player", wantFound: true},
		{name: "missing section", path: []string{"Video", "Width"}, wantFound: false},
		{name: "missing entry", path: []string{"General", "Width"}, wantFound: false},
		{name: "wildcard section takes first match", path: []string{"*", "Enabled"}, want: "true", wantFound: true},
		{name: "wildcard section skips sections without the entry", path: []string{"*", "Volume"}, want: "0.5", wantFound: true},
		{name: "wildcard entry", path: []string{"Audio", "*"}, want: "0.5", wantFound: true},
		{name: "deeper than an entry", path: []string{"General", "Name", "First"}, wantFound: false},
		{name: "empty path", path: []string{}, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := h.GetPath(tree, path.NewArrayPath(tt.path))
			if found != tt.wantFound {
				t.Errorf("GetPath() found = %v, want %v", found, tt.wantFound)
				return
			}
			if found && got != tt.want {
				t.Errorf("GetPath() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("whole section", func(t *testing.T) {
		got, found := h.GetPath(tree, path.NewArrayPath([]string{"Audio"}))
		om := format.ToOrderedMapPtr(got)
		if !found || om == nil {
			t.Fatalf("GetPath() = %T, %v, want a section map", got, found)
		}
		if keys := om.Keys(); len(keys) != 2 || keys[0] != "Volume" || keys[1] != "Enabled" {
			t.Errorf("GetPath() section keys = %v, want [Volume Enabled]", keys)
		}
	})
}

func TestHandler_SetPath(t *testing.T) {
	h := New()

	// Leaves as cfg.Tree exports them.
	tests := []struct {
		name  string
		path  []string
		value any
		want  string
	}{
		{name: "bool", path: []string{"General", "Enabled"}, value: false, want: "false"},
		{name: "int", path: []string{"General", "MaxPlayers"}, value: int64(8), want: "8"},
		{name: "float", path: []string{"Audio", "Volume"}, value: 0.25, want: "0.25"},
		{name: "enum option", path: []string{"Logging", "Level"}, value: "Warning", want: "Warning"},
		{name: "flag list", path: []string{"Logging", "Channels"}, value: []any{"Debug", "Error"}, want: "Debug, Error"},
		{name: "empty flag list", path: []string{"Logging", "Mask"}, value: []any{}, want: ""},
		{name: "new section", path: []string{"Video", "Width"}, value: int64(1920), want: "1920"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := settingsTree()
			p := path.NewArrayPath(tt.path)

			if err := h.SetPath(tree, p, tt.value); err != nil {
				t.Fatalf("SetPath() error = %v", err)
			}
			got, found := h.GetPath(tree, p)
			if !found || got != tt.want {
				t.Errorf("GetPath() after SetPath() = %v, %v, want %q", got, found, tt.want)
			}
		})
	}
}

func TestHandler_SetPath_Errors(t *testing.T) {
	h := New()

	tests := []struct {
		name string
		tree any
		path []string
	}{
		{name: "empty path", tree: settingsTree(), path: []string{}},
		{name: "deeper than an entry", tree: settingsTree(), path: []string{"General", "Name", "First"}},
		{name: "not an ordered map", tree: map[string]any{}, path: []string{"General", "Name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.SetPath(tt.tree, path.NewArrayPath(tt.path), "x"); err == nil {
				t.Error("SetPath() should return an error")
			}
		})
	}

	t.Run("entry under a scalar section", func(t *testing.T) {
		tree := orderedmap.New()
		tree.Set("General", "flat")
		if err := h.SetPath(tree, path.NewEntryPath("General", "Name"), "x"); err == nil {
			t.Error("SetPath() should reject an entry under a non-map section")
		}
	})
}

func TestHandler_SetPath_Wildcard(t *testing.T) {
	h := New()

	t.Run("entry in every section", func(t *testing.T) {
		tree := settingsTree()
		if err := h.SetPath(tree, path.NewEntryPath("*", "Enabled"), true); err != nil {
			t.Fatalf("SetPath() error = %v", err)
		}
		for _, section := range []string{"General", "Audio"} {
			got, _ := h.GetPath(tree, path.NewEntryPath(section, "Enabled"))
			if got != "true" {
				t.Errorf("SetPath() %s.Enabled = %v, want 'true'", section, got)
			}
		}
	})

	t.Run("every entry of a section", func(t *testing.T) {
		tree := settingsTree()
		if err := h.SetPath(tree, path.NewEntryPath("Audio", "*"), 0); err != nil {
			t.Fatalf("SetPath() error = %v", err)
		}
		for _, entry := range []string{"Volume", "Enabled"} {
			got, _ := h.GetPath(tree, path.NewEntryPath("Audio", entry))
			if got != "0" {
				t.Errorf("SetPath() Audio.%s = %v, want '0'", entry, got)
			}
		}
		if got, _ := h.GetPath(tree, path.NewEntryPath("General", "Name")); got != "Player" {
			t.Errorf("SetPath() changed General.Name to %v", got)
		}
	})

	t.Run("skips scalar sections", func(t *testing.T) {
		tree := settingsTree()
		tree.Set("Version", "2")
		if err := h.SetPath(tree, path.NewEntryPath("*", "Enabled"), false); err != nil {
			t.Errorf("SetPath() error = %v", err)
		}
	})
}

func TestHandler_SetPath_SectionValue(t *testing.T) {
	h := New()

	// Sections decoded by value must not lose new entries.
	tree := orderedmap.New()
	tree.Set("General", *orderedmap.New())

	if err := h.SetPath(tree, path.NewEntryPath("General", "Name"), "Alice"); err != nil {
		t.Fatalf("SetPath() error = %v", err)
	}
	got, found := h.GetPath(tree, path.NewEntryPath("General", "Name"))
	if !found || got != "Alice" {
		t.Errorf("GetPath() = %v, %v, want 'Alice'", got, found)
	}
}

func TestHandler_Serialize_SettingsTree(t *testing.T) {
	h := New()

	doc, err := bepinex.Parse(settingsCfg)
	if err != nil {
		t.Fatalf("bepinex.Parse() error = %v", err)
	}

	data, err := h.Serialize(cfg.Tree(doc), format.SerializeOptions{})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	output := string(data)
	if g, a, l := strings.Index(output, "[General]"), strings.Index(output, "[Audio]"), strings.Index(output, "[Logging]"); g < 0 || !(g < a && a < l) {
		t.Errorf("Serialize() sections out of order:\n%s", output)
	}

	tree, err := h.Parse(data, format.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := map[[2]string]string{
		{"General", "Enabled"}:    "false",
		{"General", "MaxPlayers"}: "8",
		{"Audio", "Volume"}:       "0.25",
		{"Logging", "Level"}:      "Warning",
		{"Logging", "Channels"}:   "Debug, Error",
	}
	for p, w := range want {
		got, found := h.GetPath(tree, path.NewEntryPath(p[0], p[1]))
		if !found || got != w {
			t.Errorf("%s.%s = %v, %v, want %q", p[0], p[1], got, found, w)
		}
	}

	// The exported text parses back into the same document.
	restored := doc.Clone()
	for _, s := range restored.Sections {
		for _, e := range s.Entries {
			if _, err := restored.SetEntryText(s.Name, e.Name, bepinex.FormatValue(e.Default)); err != nil {
				t.Fatalf("reset %s.%s: %v", s.Name, e.Name, err)
			}
		}
	}
	if err := cfg.Apply(restored, tree); err != nil {
		t.Fatalf("cfg.Apply() error = %v", err)
	}
	if bepinex.Write(restored) != bepinex.Write(doc) {
		t.Errorf("Apply(Parse(Serialize(Tree))) =\n%s\nwant\n%s", bepinex.Write(restored), bepinex.Write(doc))
	}
}

func TestHandler_Serialize_KeepsCommentCharacters(t *testing.T) {
	h := New()

	display := orderedmap.New()
	display.Set("Color", "#FF0000")
	display.Set("Separator", "a ; b")
	tree := orderedmap.New()
	tree.Set("Display", display)

	data, err := h.Serialize(tree, format.SerializeOptions{})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	reparsed, err := h.Parse(data, format.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	for _, entry := range []string{"Color", "Separator"} {
		want, _ := display.Get(entry)
		got, _ := h.GetPath(reparsed, path.NewEntryPath("Display", entry))
		if got != want {
			t.Errorf("round trip %s = %v, want %v (output %q)", entry, got, want, data)
		}
	}
}

func TestHandler_Serialize_GlobalKeys(t *testing.T) {
	h := New()

	input := "Version = 2\n\n[General]\nEnabled = true\n"
	tree, err := h.Parse([]byte(input), format.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	data, err := h.Serialize(tree, format.SerializeOptions{})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	output := string(data)
	if v, g := strings.Index(output, "Version"), strings.Index(output, "[General]"); v < 0 || v > g {
		t.Errorf("Serialize() global key should precede sections:\n%s", output)
	}
}

func TestHandler_Serialize_Rejects(t *testing.T) {
	h := New()

	flat := orderedmap.New()
	flat.Set("Enabled", true)

	tests := []struct {
		name string
		tree any
	}{
		{name: "top-level scalar", tree: flat},
		{name: "not an ordered map", tree: map[string]any{"General": map[string]any{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.Serialize(tt.tree, format.SerializeOptions{}); err == nil {
				t.Error("Serialize() should return an error")
			}
		})
	}
}
