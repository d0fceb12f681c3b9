package dispatch

import (
	"bufio"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Taco-Comovilla/cattywampus/internal/logging"
	"github.com/Taco-Comovilla/cattywampus/internal/media"
)

// CollectPaths merges command-line path arguments with an optional path-list
// file and removes duplicates while preserving first-seen order. Paths from
// the list file that do not exist are logged and dropped; a missing list
// file itself is an error.
func CollectPaths(args []string, inputFile string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	all := append([]string{}, args...)

	if strings.TrimSpace(inputFile) != "" {
		fromFile, err := readPathList(inputFile, logger)
		if err != nil {
			return nil, err
		}
		all = append(all, fromFile...)
	}

	seen := make(map[string]struct{}, len(all))
	unique := make([]string, 0, len(all))
	for _, path := range all {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		unique = append(unique, path)
	}

	if dropped := len(all) - len(unique); dropped > 0 {
		logger.Debug("removed duplicate paths", logging.Int("count", dropped))
	}
	return unique, nil
}

// readPathList reads newline-separated paths. Blank lines and lines starting
// with # are skipped.
func readPathList(inputFile string, logger *slog.Logger) ([]string, error) {
	file, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("open input file %s: %w", inputFile, err)
	}
	defer file.Close()

	var paths []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		abs, err := filepath.Abs(line)
		if err != nil {
			abs = line
		}
		if _, err := os.Stat(abs); err != nil {
			logger.Warn("path from input file does not exist",
				logging.Int("line", lineNum),
				logging.String("path", line),
			)
			continue
		}
		paths = append(paths, abs)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input file %s: %w", inputFile, err)
	}
	return paths, nil
}

// expand resolves directory arguments into the supported media files they
// contain, walking recursively. Files found inside directories are included
// only when their extension is supported; everything else in a directory is
// ignored silently, matching how explicit folder processing behaves.
func expand(paths []string, logger *slog.Logger) []string {
	var out []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			out = append(out, path)
			continue
		}
		walkErr := filepath.WalkDir(path, func(entry string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("cannot read directory entry",
					logging.String("path", entry),
					logging.Error(err),
				)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if media.Classify(entry) != media.ContainerUnsupported {
				out = append(out, entry)
			}
			return nil
		})
		if walkErr != nil {
			logger.Warn("directory walk failed",
				logging.String("path", path),
				logging.Error(walkErr),
			)
		}
	}
	return out
}
