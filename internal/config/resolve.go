package config

import (
	"errors"
	"fmt"

	"github.com/Taco-Comovilla/cattywampus/internal/language"
	"github.com/Taco-Comovilla/cattywampus/internal/locale"
	"github.com/Taco-Comovilla/cattywampus/internal/logging"
)

// ErrInvalid marks fatal configuration errors. The run aborts before any
// file is touched when Resolve returns an error wrapping it.
var ErrInvalid = errors.New("invalid configuration")

// Settings is the resolved, immutable configuration for one run. It is built
// exactly once by Resolve and passed by value to every component.
type Settings struct {
	LogLevel    int
	LogFilePath string
	Stdout      bool
	StdoutOnly  bool

	MkvmergePath      string
	MkvpropeditPath   string
	AtomicParsleyPath string

	SetDefaultSubtitle        bool
	ForceDefaultFirstSubtitle bool
	SetDefaultAudio           bool
	ClearAudio                bool

	UseSystemLocale bool
	// Language is the effective selection language after locale detection
	// and fallback. The zero tag disables language-dependent rules.
	Language language.Tag

	OnlyMkv bool
	OnlyMp4 bool

	DryRun bool

	CacheEnabled bool
	CachePath    string
}

// Overrides carries the command-line layer. Nil pointer fields were not set
// on the command line and fall through to the config file, then to the
// built-in default, field by field.
type Overrides struct {
	LogLevel                  *int
	LogFilePath               *string
	Stdout                    *bool
	StdoutOnly                *bool
	MkvmergePath              *string
	MkvpropeditPath           *string
	AtomicParsleyPath         *string
	SetDefaultSubtitle        *bool
	ForceDefaultFirstSubtitle *bool
	SetDefaultAudio           *bool
	ClearAudio                *bool
	UseSystemLocale           *bool
	Language                  *string
	OnlyMkv                   *bool
	OnlyMp4                   *bool
	DryRun                    *bool
	CacheEnabled              *bool
	CachePath                 *string
}

// LocaleDetector reports the system's preferred language. Tests substitute
// deterministic detectors; production code uses locale.Detect.
type LocaleDetector func() (string, error)

// Resolve merges the command-line, config-file, and default layers into one
// Settings value and validates the result.
func Resolve(overrides Overrides, file File, detect LocaleDetector) (Settings, error) {
	if detect == nil {
		detect = locale.Detect
	}

	s := Settings{
		LogLevel:                  pick(overrides.LogLevel, file.LogLevel, logging.LevelInfo),
		LogFilePath:               pickString(overrides.LogFilePath, file.LogFilePath, ""),
		Stdout:                    pick(overrides.Stdout, file.Stdout, false),
		StdoutOnly:                pick(overrides.StdoutOnly, file.StdoutOnly, false),
		MkvmergePath:              pickString(overrides.MkvmergePath, file.MkvmergePath, ""),
		MkvpropeditPath:           pickString(overrides.MkvpropeditPath, file.MkvpropeditPath, ""),
		AtomicParsleyPath:         pickString(overrides.AtomicParsleyPath, file.AtomicParsleyPath, ""),
		SetDefaultSubtitle:        pick(overrides.SetDefaultSubtitle, file.SetDefaultSubtitle, false),
		ForceDefaultFirstSubtitle: pick(overrides.ForceDefaultFirstSubtitle, file.ForceDefaultFirstSubtitle, false),
		SetDefaultAudio:           pick(overrides.SetDefaultAudio, file.SetDefaultAudio, false),
		ClearAudio:                pick(overrides.ClearAudio, file.ClearAudio, false),
		UseSystemLocale:           pick(overrides.UseSystemLocale, file.UseSystemLocale, true),
		OnlyMkv:                   pick(overrides.OnlyMkv, file.OnlyMkv, false),
		OnlyMp4:                   pick(overrides.OnlyMp4, file.OnlyMp4, false),
		DryRun:                    pick(overrides.DryRun, nil, false),
		CacheEnabled:              pick(overrides.CacheEnabled, file.CacheEnabled, false),
		CachePath:                 pickString(overrides.CachePath, file.CachePath, ""),
	}

	if !logging.ValidLevel(s.LogLevel) {
		return Settings{}, fmt.Errorf("%w: logLevel %d not in {10, 20, 30, 40, 50}", ErrInvalid, s.LogLevel)
	}
	if s.OnlyMkv && s.OnlyMp4 {
		return Settings{}, fmt.Errorf("%w: onlyMkv and onlyMp4 cannot both be enabled", ErrInvalid)
	}

	tag, err := effectiveLanguage(overrides, file, detect, &s)
	if err != nil {
		return Settings{}, err
	}
	s.Language = tag

	return s, nil
}

// effectiveLanguage works out which language drives track selection.
// A command-line language wins outright and disables locale detection.
// Otherwise locale detection runs when enabled and falls back silently to
// the configured language; an empty result leaves the zero tag, turning
// language-dependent rules into no-ops.
func effectiveLanguage(overrides Overrides, file File, detect LocaleDetector, s *Settings) (language.Tag, error) {
	if overrides.Language != nil {
		s.UseSystemLocale = false
		tag, err := language.Parse(*overrides.Language)
		if err != nil {
			return language.Tag{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		return tag, nil
	}

	configured, err := language.Parse(file.Language)
	if err != nil {
		return language.Tag{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if s.UseSystemLocale {
		if detected, err := detect(); err == nil {
			if tag, err := language.Parse(detected); err == nil && !tag.IsZero() {
				return tag, nil
			}
		}
	}
	return configured, nil
}

func pick[T any](cli *T, file *T, def T) T {
	if cli != nil {
		return *cli
	}
	if file != nil {
		return *file
	}
	return def
}

func pickString(cli *string, file string, def string) string {
	if cli != nil {
		return *cli
	}
	if file != "" {
		return file
	}
	return def
}
