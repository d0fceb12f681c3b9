// Package tools locates and inspects the external binaries cattywampus
// drives: mkvmerge, mkvpropedit, and AtomicParsley.
package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Binary names as installed by mkvtoolnix and AtomicParsley packages.
const (
	Mkvmerge      = "mkvmerge"
	Mkvpropedit   = "mkvpropedit"
	AtomicParsley = "AtomicParsley"
)

// ErrNotFound indicates a tool could not be located anywhere.
var ErrNotFound = errors.New("tool not found")

// commonDirs are install locations searched after PATH. Package managers
// like Homebrew and MacPorts are not always on the PATH available to
// desktop-integration contexts.
var commonDirs = []string{
	"/opt/homebrew/bin",
	"/usr/local/bin",
	"/usr/bin",
	"/opt/local/bin",
}

// Resolve locates a tool binary. A configured value takes precedence: an
// absolute path is verified directly, any other value is treated as a name.
// Names are looked up on PATH first, then in common install directories.
func Resolve(configured, name string) (string, error) {
	candidate := strings.TrimSpace(configured)
	if candidate == "" {
		candidate = name
	}

	if filepath.IsAbs(candidate) {
		if isExecutable(candidate) {
			return candidate, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, candidate)
	}

	if found, err := exec.LookPath(candidate); err == nil {
		return found, nil
	}

	for _, dir := range commonDirs {
		full := filepath.Join(dir, candidate)
		if isExecutable(full) {
			return full, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, candidate)
}

// Version queries a tool's version string with a short timeout. Failures
// return an empty string: version reporting is informational only.
func Version(ctx context.Context, path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "--version")
	output, err := cmd.CombinedOutput()
	if err != nil && len(output) == 0 {
		return ""
	}
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return ""
	}
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.TrimSpace(trimmed)
}

// Status reports the availability of one tool.
type Status struct {
	Name      string
	Path      string
	Version   string
	Available bool
}

// Check resolves every tool and gathers availability plus version details
// for diagnostics output.
func Check(ctx context.Context, mkvmergePath, mkvpropeditPath, parsleyPath string) []Status {
	requirements := []struct {
		name       string
		configured string
	}{
		{Mkvmerge, mkvmergePath},
		{Mkvpropedit, mkvpropeditPath},
		{AtomicParsley, parsleyPath},
	}

	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{Name: req.name}
		if path, err := Resolve(req.configured, req.name); err == nil {
			status.Path = path
			status.Available = true
			status.Version = Version(ctx, path)
		}
		results = append(results, status)
	}
	return results
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
