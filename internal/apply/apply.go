package apply

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Taco-Comovilla/cattywampus/internal/logging"
	"github.com/Taco-Comovilla/cattywampus/internal/plan"
)

// Mutation failure classification.
var (
	ErrBinaryNotFound   = errors.New("editing tool not found")
	ErrToolFailed       = errors.New("editing tool failed")
	ErrPermissionDenied = errors.New("permission denied")
)

type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Applier executes mutation plans by driving the external editing tools.
// MKV files are edited in place with mkvpropedit; MP4 files have their
// metadata atoms cleared with AtomicParsley. All edits for one file go into
// a single tool invocation.
type Applier struct {
	propedit string
	parsley  string
	logger   *slog.Logger
	run      runner
}

// New constructs an applier around the resolved tool binaries. Either binary
// may be empty when the corresponding container family is filtered out.
func New(propeditBinary, parsleyBinary string, logger *slog.Logger) *Applier {
	return &Applier{
		propedit: strings.TrimSpace(propeditBinary),
		parsley:  strings.TrimSpace(parsleyBinary),
		logger:   logging.NewComponentLogger(logger, "apply"),
		run:      defaultRunner,
	}
}

// WithRunner injects a custom command runner for tests.
func (a *Applier) WithRunner(r runner) {
	if a != nil && r != nil {
		a.run = r
	}
}

// MKVArgs builds the mkvpropedit argument vector realizing the plan.
// mkvpropedit numbers tracks from 1 in file order, while plans carry the
// 0-based identifiers mkvmerge reports; the offset is applied here.
func MKVArgs(path string, p plan.Plan) []string {
	args := []string{"-q", path}

	if p.ClearTitle {
		args = append(args, "-d", "title")
	}
	for _, nc := range p.NameClears {
		args = append(args, "-e", trackSelector(nc.TrackID), "-d", "name")
	}
	if p.ResetVideoLanguage >= 0 {
		args = append(args, "-e", trackSelector(p.ResetVideoLanguage), "-s", "language=und")
	}
	for _, entry := range p.Entries {
		selector := trackSelector(entry.TrackID)
		if entry.Enabled != nil {
			args = append(args, "-e", selector, "-s", "flag-enabled="+flagValue(*entry.Enabled))
		}
		if entry.Default != nil {
			args = append(args, "-e", selector, "-s", "flag-default="+flagValue(*entry.Default))
		}
	}
	return args
}

// MP4Args builds the AtomicParsley argument vector that clears the title and
// description atoms in place.
func MP4Args(path string) []string {
	return []string{path, "--title", "", "--description", "", "--preventOptimizing", "--overWrite"}
}

// ApplyMKV realizes the plan against one MKV file. Empty plans return
// immediately without invoking the tool.
func (a *Applier) ApplyMKV(ctx context.Context, path string, p plan.Plan) error {
	if p.IsEmpty() {
		return nil
	}
	if a.propedit == "" {
		return fmt.Errorf("%w: mkvpropedit", ErrBinaryNotFound)
	}

	args := MKVArgs(path, p)
	a.logger.Debug("running mkvpropedit",
		logging.String(logging.FieldFile, path),
		logging.Int("operations", p.Operations()),
	)
	output, err := a.run(ctx, a.propedit, args...)
	if err != nil {
		return classifyRunError(err, output)
	}
	return nil
}

// ApplyMP4 clears the metadata atoms of one MP4 file.
func (a *Applier) ApplyMP4(ctx context.Context, path string) error {
	if a.parsley == "" {
		return fmt.Errorf("%w: AtomicParsley", ErrBinaryNotFound)
	}

	a.logger.Debug("running AtomicParsley", logging.String(logging.FieldFile, path))
	output, err := a.run(ctx, a.parsley, MP4Args(path)...)
	if err != nil {
		return classifyRunError(err, output)
	}
	return nil
}

func trackSelector(id int) string {
	return "track:" + strconv.Itoa(id+1)
}

func flagValue(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func classifyRunError(err error, output []byte) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return fmt.Errorf("%w: %w", ErrBinaryNotFound, err)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = strings.TrimSpace(string(exitErr.Stderr))
		}
		if strings.Contains(strings.ToLower(detail), "permission denied") {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, detail)
		}
		if detail != "" {
			return fmt.Errorf("%w: exit code %d: %s", ErrToolFailed, exitErr.ExitCode(), detail)
		}
		return fmt.Errorf("%w: exit code %d", ErrToolFailed, exitErr.ExitCode())
	}
	return fmt.Errorf("%w: %w", ErrToolFailed, err)
}

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
