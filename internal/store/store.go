// Package store reads and writes settings files under the shared config
// directory that every launcher profile links to.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/thirteen37/bepcfg/internal/bepinex"
	"golang.org/x/text/cases"
)

// ErrUnsafePath is returned for paths that would leave the store directory.
var ErrUnsafePath = errors.New("invalid path")

// Store is a directory of settings files addressed by slash-separated
// relative paths.
type Store struct {
	Dir string
}

// New creates a Store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// SafeRelPath reports an error unless rel is a relative path made only of
// plain names (no root, volume, "." or "..").
func SafeRelPath(rel string) error {
	if rel == "" || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" || strings.HasPrefix(filepath.ToSlash(rel), "/") {
		return fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "." || part == ".." {
			return fmt.Errorf("%w: %q", ErrUnsafePath, rel)
		}
	}
	return nil
}

// Path returns the filesystem path of rel inside the store.
func (s *Store) Path(rel string) (string, error) {
	if err := SafeRelPath(rel); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, filepath.FromSlash(rel)), nil
}

// List returns every regular file under the store as sorted
// slash-separated relative paths. A missing directory lists nothing.
func (s *Store) List() ([]string, error) {
	var out []string
	err := filepath.WalkDir(s.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == s.Dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(s.Dir, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.Dir, err)
	}

	slices.Sort(out)
	log.Debug().Str("dir", s.Dir).Int("count", len(out)).Msg("Listed settings files")
	return out, nil
}

// ListForMod returns the files whose path mentions dev or name, ignoring
// case. Empty arguments match nothing.
func (s *Store) ListForMod(dev, name string) ([]string, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	var needles []string
	for _, n := range []string{dev, name} {
		if n != "" {
			needles = append(needles, fold.String(n))
		}
	}

	var out []string
	for _, rel := range all {
		folded := fold.String(rel)
		if slices.ContainsFunc(needles, func(n string) bool { return strings.Contains(folded, n) }) {
			out = append(out, rel)
		}
	}
	return out, nil
}

// ReadText returns the raw contents of rel.
func (s *Store) ReadText(rel string) (string, error) {
	p, err := s.Path(rel)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("failed to read settings file: %w", err)
	}
	return string(data), nil
}

// Read parses rel as a settings file.
func (s *Store) Read(rel string) (*bepinex.FileData, error) {
	text, err := s.ReadText(rel)
	if err != nil {
		return nil, err
	}
	doc, err := bepinex.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	return doc, nil
}

// readOrEmpty parses rel, treating a missing file as an empty document.
func (s *Store) readOrEmpty(rel string) (*bepinex.FileData, error) {
	doc, err := s.Read(rel)
	if errors.Is(err, fs.ErrNotExist) {
		return &bepinex.FileData{}, nil
	}
	return doc, err
}

// Write renders doc into rel, creating parent directories.
func (s *Store) Write(rel string, doc *bepinex.FileData) error {
	p, err := s.Path(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(p, []byte(bepinex.Write(doc)), 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	log.Info().Str("file", rel).Int("sections", len(doc.Sections)).Msg("Wrote settings file")
	return nil
}

// SetEntry stores value at section/entry of rel and writes the file back.
// A missing file starts out empty; the section and entry are created when
// absent.
func (s *Store) SetEntry(rel, section, entry string, value bepinex.Value) error {
	return s.update(rel, section, entry, func(doc *bepinex.FileData) error {
		doc.SetEntry(section, entry, value)
		return nil
	})
}

// SetEntryText parses text with the existing entry's type, options and
// range, stores it, and writes the file back.
func (s *Store) SetEntryText(rel, section, entry, text string) (bepinex.Value, error) {
	var value bepinex.Value
	err := s.update(rel, section, entry, func(doc *bepinex.FileData) error {
		var err error
		value, err = doc.SetEntryText(section, entry, text)
		return err
	})
	return value, err
}

func (s *Store) update(rel, section, entry string, apply func(*bepinex.FileData) error) error {
	if err := SafeRelPath(rel); err != nil {
		return err
	}

	doc, err := s.readOrEmpty(rel)
	if err != nil {
		return err
	}

	logger := log.With().Str("file", rel).Str("section", section).Str("entry", entry).Logger()
	if _, ok := doc.Lookup(section, entry); !ok {
		logger.Debug().Msg("Creating entry")
	}

	if err := apply(doc); err != nil {
		return fmt.Errorf("%s [%s] %s: %w", rel, section, entry, err)
	}
	return s.Write(rel, doc)
}
