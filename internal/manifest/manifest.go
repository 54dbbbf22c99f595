// Package manifest reads the manifest.json shipped with every installed
// Thunderstore package.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Manifest is the package metadata of an installed mod.
type Manifest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	VersionNumber string   `json:"version_number"`
	Dependencies  []string `json:"dependencies"`
	WebsiteURL    string   `json:"website_url"`
}

// File names looked up by ReadDir, in order. Disabled mods keep their
// manifest under the ".old" name.
var fileNames = []string{"manifest.json", "manifest.json.old"}

// Read loads a manifest file.
func Read(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filename, err)
	}
	return &m, nil
}

// ReadDir loads the manifest of the mod installed in modDir.
func ReadDir(modDir string) (*Manifest, error) {
	for _, name := range fileNames {
		p := filepath.Join(modDir, name)
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat manifest: %w", err)
		}
		return Read(p)
	}
	return nil, fmt.Errorf("manifest.json not found under %s: %w", modDir, fs.ErrNotExist)
}
