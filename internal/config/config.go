// Package config handles the bepcfg profile: where the shared settings
// directory lives and which entries belong to the user.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/thirteen37/bepcfg/internal/path"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultProfile is the profile file name used when none is given.
	DefaultProfile = "bepcfg.yml"

	// DefaultConfigDir is where BepInEx keeps plugin settings, relative to
	// the game or profile directory.
	DefaultConfigDir = "BepInEx/config"
)

// Profile represents the bepcfg.yml profile file.
type Profile struct {
	// ConfigDir is the shared settings directory.
	ConfigDir string `yaml:"config_dir"`

	// Preserve is a list of user-owned paths, each [section] or
	// [section, entry]. Merges keep the current value at these paths.
	Preserve [][]string `yaml:"preserve,omitempty"`
}

// Default returns the profile used when no profile file exists.
func Default() *Profile {
	return &Profile{ConfigDir: DefaultConfigDir}
}

// Load reads a Profile from a file. A missing file yields Default.
func Load(filename string) (*Profile, error) {
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", filename).Msg("No profile found, using defaults")
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", filename, err)
	}

	return p, nil
}

// Save writes the Profile to a file, creating its directory.
func (p *Profile) Save(filename string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	return nil
}

// Validate checks that the settings directory is set and every preserved
// path addresses a section or an entry.
func (p *Profile) Validate() error {
	if p.ConfigDir == "" {
		return fmt.Errorf("config_dir is required")
	}
	for i, segments := range p.Preserve {
		if err := ValidatePath(segments); err != nil {
			return fmt.Errorf("preserve[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidatePath checks that segments is [section] or [section, entry]
// with no empty segment.
func ValidatePath(segments []string) error {
	if len(segments) == 0 || len(segments) > 2 {
		return fmt.Errorf("path must be [section] or [section, entry], got %d segments", len(segments))
	}
	if slices.Contains(segments, "") {
		return fmt.Errorf("path %q has an empty segment", segments)
	}
	return nil
}

// GetPaths returns the preserved paths as path.Path objects.
func (p *Profile) GetPaths() []path.Path {
	result := make([]path.Path, len(p.Preserve))
	for i, segments := range p.Preserve {
		result[i] = path.NewArrayPath(segments)
	}
	return result
}

// AddPath adds a preserved path.
// Returns true if the path was added, false if it already exists.
func (p *Profile) AddPath(segments []string) bool {
	if slices.ContainsFunc(p.Preserve, func(existing []string) bool {
		return slices.Equal(existing, segments)
	}) {
		return false
	}
	p.Preserve = append(p.Preserve, segments)
	return true
}

// RemovePath removes a preserved path.
// Returns true if the path was removed, false if it wasn't found.
func (p *Profile) RemovePath(segments []string) bool {
	i := slices.IndexFunc(p.Preserve, func(existing []string) bool {
		return slices.Equal(existing, segments)
	})
	if i < 0 {
		return false
	}
	p.Preserve = slices.Delete(p.Preserve, i, i+1)
	return true
}

// Env holds overrides read from the environment and an optional .env file.
type Env struct {
	ConfigDir string
	Profile   string
}

// LoadEnv reads BEPCFG_CONFIG_DIR and BEPCFG_PROFILE, loading .env first
// when it exists. Variables already set in the environment win.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return Env{
		ConfigDir: getEnv("BEPCFG_CONFIG_DIR", ""),
		Profile:   getEnv("BEPCFG_PROFILE", DefaultProfile),
	}
}

// ApplyEnv overrides profile fields set in env.
func (p *Profile) ApplyEnv(env Env) {
	if env.ConfigDir != "" {
		p.ConfigDir = env.ConfigDir
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
