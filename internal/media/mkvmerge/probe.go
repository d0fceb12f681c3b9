package mkvmerge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/Taco-Comovilla/cattywampus/internal/logging"
	"github.com/Taco-Comovilla/cattywampus/internal/media"
)

// Probe failure classification.
var (
	ErrBinaryNotFound  = errors.New("mkvmerge binary not found")
	ErrMalformedOutput = errors.New("mkvmerge output malformed")
	ErrToolFailed      = errors.New("mkvmerge failed")
)

// identify mirrors the subset of mkvmerge -J output the prober consumes.
type identify struct {
	Container struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"container"`
	Tracks []identifyTrack `json:"tracks"`
}

type identifyTrack struct {
	ID         int    `json:"id"`
	Type       string `json:"type"`
	Codec      string `json:"codec"`
	Properties struct {
		CodecID      string `json:"codec_id"`
		Language     string `json:"language"`
		LanguageIETF string `json:"language_ietf"`
		TrackName    string `json:"track_name"`
		DefaultTrack bool   `json:"default_track"`
		EnabledTrack *bool  `json:"enabled_track"`
		ForcedTrack  bool   `json:"forced_track"`
		Number       int    `json:"number"`
	} `json:"properties"`
}

// runner executes the inspector and returns its stdout.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober inspects MKV containers with mkvmerge's JSON identification mode.
type Prober struct {
	binary string
	logger *slog.Logger
	run    runner
}

// NewProber constructs a prober around the resolved mkvmerge binary.
func NewProber(binary string, logger *slog.Logger) *Prober {
	return &Prober{
		binary: strings.TrimSpace(binary),
		logger: logging.NewComponentLogger(logger, "mkvmerge"),
		run:    defaultRunner,
	}
}

// WithRunner injects a custom command runner for tests.
func (p *Prober) WithRunner(r runner) {
	if p != nil && r != nil {
		p.run = r
	}
}

// Probe runs `mkvmerge -J <path>` and converts the identification output into
// an ordered TrackSet. Track order is the order mkvmerge reports, which is
// container order.
func (p *Prober) Probe(ctx context.Context, path string) (media.TrackSet, error) {
	if p.binary == "" {
		return media.TrackSet{}, ErrBinaryNotFound
	}

	started := time.Now()
	output, err := p.run(ctx, p.binary, "-J", path)
	if err != nil {
		return media.TrackSet{}, classifyRunError(err, output)
	}
	p.logger.Debug("identification finished",
		logging.String(logging.FieldFile, path),
		logging.Duration("elapsed", time.Since(started)),
	)

	var parsed identify
	if err := json.Unmarshal(output, &parsed); err != nil {
		return media.TrackSet{}, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	ts := media.TrackSet{Title: parsed.Container.Properties.Title}
	ts.Tracks = make([]media.Track, 0, len(parsed.Tracks))
	for _, t := range parsed.Tracks {
		enabled := true
		if t.Properties.EnabledTrack != nil {
			enabled = *t.Properties.EnabledTrack
		}
		ts.Tracks = append(ts.Tracks, media.Track{
			ID:       t.ID,
			Kind:     kindOf(t.Type),
			Language: trackLanguage(t),
			Name:     t.Properties.TrackName,
			Default:  t.Properties.DefaultTrack,
			Enabled:  enabled,
			Codec:    t.Properties.CodecID,
		})
	}
	return ts, nil
}

// kindOf maps mkvmerge's type strings onto the track model. Anything
// unrecognized becomes TrackOther rather than a probe failure.
func kindOf(value string) media.TrackKind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "video":
		return media.TrackVideo
	case "audio":
		return media.TrackAudio
	case "subtitles":
		return media.TrackSubtitle
	default:
		return media.TrackOther
	}
}

// trackLanguage prefers the IETF tag over the legacy ISO 639-2 field, the
// same precedence mkvmerge itself applies.
func trackLanguage(t identifyTrack) string {
	if lang := strings.TrimSpace(t.Properties.LanguageIETF); lang != "" && lang != "und" {
		return lang
	}
	return strings.TrimSpace(t.Properties.Language)
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
