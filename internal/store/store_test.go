package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirteen37/bepcfg/internal/bepinex"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func TestSafeRelPath(t *testing.T) {
	tests := []struct {
		rel     string
		wantErr bool
	}{
		{rel: "com.example.mod.cfg"},
		{rel: "Author/Mod/settings.cfg"},
		{rel: "", wantErr: true},
		{rel: "/etc/passwd", wantErr: true},
		{rel: "../outside.cfg", wantErr: true},
		{rel: "nested/../../outside.cfg", wantErr: true},
		{rel: "./here.cfg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			err := SafeRelPath(tt.rel)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsafePath)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.cfg", "")
	writeFile(t, dir, "a.cfg", "")
	writeFile(t, dir, "Sub/Dir/c.cfg", "")

	files, err := New(dir).List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Sub/Dir/c.cfg", "a.cfg", "b.cfg"}, files)
}

func TestStore_List_MissingDir(t *testing.T) {
	files, err := New(filepath.Join(t.TempDir(), "missing")).List()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestStore_ListForMod(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Notest.LethalPractice.cfg", "")
	writeFile(t, dir, "com.sigurd.csync.cfg", "")
	writeFile(t, dir, "BepInEx.cfg", "")

	s := New(dir)

	files, err := s.ListForMod("notest", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Notest.LethalPractice.cfg"}, files)

	files, err = s.ListForMod("Someone", "CSYNC")
	require.NoError(t, err)
	assert.Equal(t, []string{"com.sigurd.csync.cfg"}, files)

	// An empty argument is ignored rather than matching every path.
	files, err = s.ListForMod("", "")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestStore_ReadAndWrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mod.cfg", "[General]\n\n# Setting type: Boolean\n# Default value: true\nEnabled = false\n")

	s := New(dir)
	doc, err := s.Read("mod.cfg")
	require.NoError(t, err)
	e, ok := doc.Lookup("General", "Enabled")
	require.True(t, ok)
	assert.Equal(t, bepinex.Bool(false), e.Value)

	require.NoError(t, s.Write("copy/mod.cfg", doc))
	text, err := s.ReadText("copy/mod.cfg")
	require.NoError(t, err)
	assert.Equal(t, bepinex.Write(doc), text)

	_, err = s.Read("../mod.cfg")
	assert.ErrorIs(t, err, ErrUnsafePath)
	_, err = s.Read("missing.cfg")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_Read_ParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.cfg", "Orphan = 1\n")

	_, err := New(dir).Read("bad.cfg")
	assert.ErrorIs(t, err, bepinex.ErrNoSection)
}

func TestStore_SetEntry(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		dir := t.TempDir()
		s := New(dir)

		require.NoError(t, s.SetEntry("Author/new.cfg", "General", "Enabled", bepinex.Bool(true)))

		text, err := s.ReadText("Author/new.cfg")
		require.NoError(t, err)
		assert.Equal(t, "[General]\n\n# Setting type: Boolean\n# Default value:\nEnabled = true\n", text)
	})

	t.Run("existing file keeps other entries", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "mod.cfg", "[General]\n\n## Keep me.\n# Setting type: String\n# Default value: x\nName = x\n")
		s := New(dir)

		require.NoError(t, s.SetEntry("mod.cfg", "Audio", "Volume", bepinex.Float{Value: 0.5}))

		doc, err := s.Read("mod.cfg")
		require.NoError(t, err)
		name, _ := doc.Lookup("General", "Name")
		assert.Equal(t, "Keep me.", name.Description)
		volume, _ := doc.Lookup("Audio", "Volume")
		assert.Equal(t, bepinex.Float{Value: 0.5}, volume.Value)
	})

	t.Run("unsafe path", func(t *testing.T) {
		err := New(t.TempDir()).SetEntry("../x.cfg", "S", "E", bepinex.Bool(true))
		assert.ErrorIs(t, err, ErrUnsafePath)
	})
}

func TestStore_SetEntryText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mod.cfg", "[General]\n\n# Setting type: Int32\n# Default value: 5\n# Acceptable value range: From 0 to 10\nCount = 5\n")
	s := New(dir)

	v, err := s.SetEntryText("mod.cfg", "General", "Count", "8")
	require.NoError(t, err)
	assert.Equal(t, bepinex.Int{Value: 8, Range: &bepinex.Range[int32]{Min: 0, Max: 10}}, v)

	_, err = s.SetEntryText("mod.cfg", "General", "Count", "many")
	var perr *bepinex.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, bepinex.KindCoercion, perr.Kind)

	doc, err := s.Read("mod.cfg")
	require.NoError(t, err)
	count, _ := doc.Lookup("General", "Count")
	assert.Equal(t, int32(8), count.Value.(bepinex.Int).Value, "failed edit must not touch the file")
}
