package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// File holds the raw values read from the configuration file. Keys are flat
// camelCase. A File is one input layer for Resolve; it is never consumed
// directly by processing code.
type File struct {
	LogLevel                  *int    `toml:"logLevel"`
	MkvmergePath              string  `toml:"mkvmergePath"`
	MkvpropeditPath           string  `toml:"mkvpropeditPath"`
	AtomicParsleyPath         string  `toml:"atomicParsleyPath"`
	SetDefaultSubtitle        *bool   `toml:"setDefaultSubtitle"`
	ForceDefaultFirstSubtitle *bool   `toml:"forceDefaultFirstSubtitle"`
	SetDefaultAudio           *bool   `toml:"setDefaultAudio"`
	ClearAudio                *bool   `toml:"clearAudio"`
	UseSystemLocale           *bool   `toml:"useSystemLocale"`
	Language                  string  `toml:"language"`
	OnlyMkv                   *bool   `toml:"onlyMkv"`
	OnlyMp4                   *bool   `toml:"onlyMp4"`
	Stdout                    *bool   `toml:"stdout"`
	StdoutOnly                *bool   `toml:"stdoutOnly"`
	CacheEnabled              *bool   `toml:"cacheEnabled"`
	CachePath                 string  `toml:"cachePath"`
	LogFilePath               string  `toml:"logFilePath"`
}

// DefaultDir returns the per-user configuration directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, "cattywampus"), nil
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadFile reads the configuration file at path, or the default location when
// path is empty. A missing default file yields an empty File; a missing
// explicit file is an error.
func LoadFile(path string) (File, string, error) {
	explicit := strings.TrimSpace(path) != ""

	resolved := strings.TrimSpace(path)
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return File{}, "", err
		}
		resolved = defaultPath
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return File{}, resolved, nil
		}
		return File{}, "", fmt.Errorf("read config %s: %w", resolved, err)
	}

	var cfg File
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return File{}, "", fmt.Errorf("parse config %s: %w", resolved, err)
	}
	return cfg, resolved, nil
}

// CreateSample writes a sample configuration file to the specified location.
// Existing files are left untouched.
func CreateSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
