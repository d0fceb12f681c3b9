// Package locale detects the operating system's preferred language.
package locale

import (
	"errors"
	"os"
	"runtime"
	"strings"
)

// ErrUnavailable indicates no usable locale could be detected. Callers fall
// back to their configured language.
var ErrUnavailable = errors.New("system locale unavailable")

// Environment variables consulted on Unix-like systems, in precedence order.
var envVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// Detect returns the system's preferred language as a bare primary subtag
// (e.g. "en" from "en_US.UTF-8"). Detection is best-effort: on platforms
// without locale environment variables, or when only C/POSIX locales are
// configured, ErrUnavailable is returned.
func Detect() (string, error) {
	return detect(os.Getenv)
}

func detect(getenv func(string) string) (string, error) {
	if runtime.GOOS == "windows" {
		// Windows exposes the user locale through the registry and Win32
		// calls, not the POSIX environment. Treat it as undetectable and
		// let the configured language take over.
		return "", ErrUnavailable
	}

	for _, name := range envVars {
		value := strings.TrimSpace(getenv(name))
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		if lang := primarySubtag(value); lang != "" {
			return lang, nil
		}
	}
	return "", ErrUnavailable
}

// primarySubtag reduces locale spellings like "en_US.UTF-8", "en_US",
// "en-US", and "en" to the leading language code.
func primarySubtag(value string) string {
	if i := strings.IndexByte(value, '.'); i >= 0 {
		value = value[:i]
	}
	if i := strings.IndexByte(value, '_'); i >= 0 {
		value = value[:i]
	}
	if i := strings.IndexByte(value, '-'); i >= 0 {
		value = value[:i]
	}
	value = strings.ToLower(strings.TrimSpace(value))
	if len(value) < 2 {
		return ""
	}
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return ""
		}
	}
	return value
}
