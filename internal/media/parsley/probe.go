package parsley

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Taco-Comovilla/cattywampus/internal/logging"
)

// Probe failure classification.
var (
	ErrBinaryNotFound  = errors.New("AtomicParsley binary not found")
	ErrMalformedOutput = errors.New("AtomicParsley output malformed")
	ErrToolFailed      = errors.New("AtomicParsley failed")
)

// Metadata holds the whole-file atoms cattywampus cares about. MP4
// containers carry no per-track default/enabled flag model, so the probe
// stops at file-level tags.
type Metadata struct {
	Title       string
	Description string
}

// IsEmpty reports whether neither atom carries a value.
func (m Metadata) IsEmpty() bool {
	return m.Title == "" && m.Description == ""
}

var (
	titleAtom = regexp.MustCompile(`Atom "©nam" contains:\s*(.*)`)
	descAtom  = regexp.MustCompile(`Atom "desc" contains:\s*(.*)`)
)

type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober reads MP4 metadata atoms with AtomicParsley's text listing mode.
type Prober struct {
	binary string
	logger *slog.Logger
	run    runner
}

// NewProber constructs a prober around the resolved AtomicParsley binary.
func NewProber(binary string, logger *slog.Logger) *Prober {
	return &Prober{
		binary: strings.TrimSpace(binary),
		logger: logging.NewComponentLogger(logger, "atomicparsley"),
		run:    defaultRunner,
	}
}

// WithRunner injects a custom command runner for tests.
func (p *Prober) WithRunner(r runner) {
	if p != nil && r != nil {
		p.run = r
	}
}

// Probe runs `AtomicParsley <path> -t` and extracts the title and
// description atoms.
func (p *Prober) Probe(ctx context.Context, path string) (Metadata, error) {
	if p.binary == "" {
		return Metadata{}, ErrBinaryNotFound
	}

	output, err := p.run(ctx, p.binary, path, "-t")
	if err != nil {
		return Metadata{}, classifyRunError(err, output)
	}

	var meta Metadata
	for _, line := range strings.Split(string(output), "\n") {
		if m := titleAtom.FindStringSubmatch(line); m != nil {
			meta.Title = strings.TrimSpace(m[1])
		} else if m := descAtom.FindStringSubmatch(line); m != nil {
			meta.Description = strings.TrimSpace(m[1])
		}
	}
	p.logger.Debug("metadata read",
		logging.String(logging.FieldFile, path),
		logging.Bool("has_metadata", !meta.IsEmpty()),
	)
	return meta, nil
}

func classifyRunError(err error, output []byte) error {
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
		if detail != "" {
			return fmt.Errorf("%w: exit code %d: %s", ErrToolFailed, exitErr.ExitCode(), detail)
		}
		return fmt.Errorf("%w: exit code %d", ErrToolFailed, exitErr.ExitCode())
	}
	return fmt.Errorf("%w: %w", ErrToolFailed, err)
}

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}
