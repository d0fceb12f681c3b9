package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/Taco-Comovilla/cattywampus/internal/apply"
	"github.com/Taco-Comovilla/cattywampus/internal/config"
	"github.com/Taco-Comovilla/cattywampus/internal/logging"
	"github.com/Taco-Comovilla/cattywampus/internal/media"
	"github.com/Taco-Comovilla/cattywampus/internal/media/parsley"
	"github.com/Taco-Comovilla/cattywampus/internal/plan"
)

// MKVProber inspects an MKV container and returns its ordered track list.
type MKVProber interface {
	Probe(ctx context.Context, path string) (media.TrackSet, error)
}

// MP4Prober reads the whole-file metadata atoms of an MP4 container.
type MP4Prober interface {
	Probe(ctx context.Context, path string) (parsley.Metadata, error)
}

// Applier realizes mutation plans against files.
type Applier interface {
	ApplyMKV(ctx context.Context, path string, p plan.Plan) error
	ApplyMP4(ctx context.Context, path string) error
}

// History is the optional processed-file cache.
type History interface {
	IsCurrent(ctx context.Context, path string) (bool, error)
	Record(ctx context.Context, path string) error
	Forget(ctx context.Context, path string) error
}

// Dispatcher routes each input file through probe, plan, and apply. Files
// are processed sequentially and independently: a failure is recorded and
// the run continues with the next file.
type Dispatcher struct {
	settings  config.Settings
	logger    *slog.Logger
	mkvProber MKVProber
	mp4Prober MP4Prober
	applier   Applier
	history   History
}

// New constructs a dispatcher. history may be nil when the cache is
// disabled.
func New(settings config.Settings, logger *slog.Logger, mkvProber MKVProber, mp4Prober MP4Prober, applier Applier, history History) *Dispatcher {
	return &Dispatcher{
		settings:  settings,
		logger:    logging.NewComponentLogger(logger, "dispatch"),
		mkvProber: mkvProber,
		mp4Prober: mp4Prober,
		applier:   applier,
		history:   history,
	}
}

// Run processes the candidate paths and aggregates per-file results.
// Directory arguments are expanded to the supported files they contain.
// Cancellation stops the run before the next file begins; the file being
// processed is allowed to finish so no edit is left half-applied beyond
// what the external tool itself guarantees.
func (d *Dispatcher) Run(ctx context.Context, paths []string) Summary {
	started := time.Now()
	candidates := expand(paths, d.logger)

	summary := Summary{Results: make([]Result, 0, len(candidates))}
	for _, path := range candidates {
		if ctx.Err() != nil {
			d.logger.Warn("run cancelled", logging.Int("remaining", len(candidates)-len(summary.Results)))
			break
		}
		summary.Results = append(summary.Results, d.processOne(ctx, path))
	}
	summary.Elapsed = time.Since(started)
	return summary
}

func (d *Dispatcher) processOne(ctx context.Context, path string) Result {
	started := time.Now()
	result := Result{Path: path, Container: media.Classify(path)}

	switch result.Container {
	case media.ContainerUnsupported:
		result.Outcome = OutcomeSkipped
		result.Reason = SkipUnsupportedType
	case media.ContainerMKV:
		if d.settings.OnlyMp4 {
			result.Outcome = OutcomeSkipped
			result.Reason = SkipFilteredByType
		}
	case media.ContainerMP4:
		if d.settings.OnlyMkv {
			result.Outcome = OutcomeSkipped
			result.Reason = SkipFilteredByType
		}
	}
	if result.Outcome == OutcomeSkipped {
		d.logger.Debug("skipping file",
			logging.String(logging.FieldFile, path),
			logging.String("reason", result.Reason.String()),
		)
		result.Elapsed = time.Since(started)
		return result
	}

	// Stat before anything touches the path: the advisory lock below
	// creates its target, so a typo'd argument must fail here instead of
	// leaving an empty file behind.
	if _, err := os.Stat(path); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("stat file: %w", err)
		result.Elapsed = time.Since(started)
		d.logger.Error("file not accessible",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return result
	}

	if d.history != nil {
		current, err := d.history.IsCurrent(ctx, path)
		if err != nil {
			d.logger.Warn("cache lookup failed",
				logging.String(logging.FieldFile, path),
				logging.Error(err),
			)
		} else if current {
			result.Outcome = OutcomeSkipped
			result.Reason = SkipUpToDate
			result.Elapsed = time.Since(started)
			d.logger.Debug("skipping unchanged file", logging.String(logging.FieldFile, path))
			return result
		}
	}

	// Advisory lock so two concurrent runs never edit the same file in
	// place at once.
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err == nil && !locked {
		err = fmt.Errorf("file is locked by another process")
	}
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		result.Elapsed = time.Since(started)
		d.logger.Error("cannot lock file",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return result
	}
	defer func() {
		_ = lock.Unlock()
	}()

	var mutations int
	switch result.Container {
	case media.ContainerMKV:
		mutations, err = d.processMKV(ctx, path)
	case media.ContainerMP4:
		mutations, err = d.processMP4(ctx, path)
	}
	result.Elapsed = time.Since(started)

	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		// The tool may have landed some edits before failing; drop any
		// cache entry so the next run revisits the file.
		if d.history != nil {
			if forgetErr := d.history.Forget(ctx, path); forgetErr != nil {
				d.logger.Warn("cache invalidation failed",
					logging.String(logging.FieldFile, path),
					logging.Error(forgetErr),
				)
			}
		}
		d.logger.Error("processing failed",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return result
	}

	result.Outcome = OutcomeMutated
	result.Mutations = mutations
	if d.history != nil && !d.settings.DryRun {
		if err := d.history.Record(ctx, path); err != nil {
			d.logger.Warn("cache update failed",
				logging.String(logging.FieldFile, path),
				logging.Error(err),
			)
		}
	}
	d.logger.Info("processing finished",
		logging.String(logging.FieldFile, path),
		logging.Int("mutations", mutations),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result
}

func (d *Dispatcher) processMKV(ctx context.Context, path string) (int, error) {
	d.logger.Info("processing MKV file", logging.String(logging.FieldFile, path))

	trackSet, err := d.mkvProber.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	logTracks(d.logger, trackSet)

	p := plan.Build(d.settings, trackSet)
	if p.IsEmpty() {
		d.logger.Debug("nothing to change", logging.String(logging.FieldFile, path))
		return 0, nil
	}

	if d.settings.DryRun {
		d.logger.Info("dry run: would execute mkvpropedit",
			logging.String(logging.FieldFile, path),
			logging.String("args", strings.Join(apply.MKVArgs(path, p), " ")),
		)
		return p.Operations(), nil
	}

	if err := d.applier.ApplyMKV(ctx, path, p); err != nil {
		return 0, err
	}
	return p.Operations(), nil
}

func (d *Dispatcher) processMP4(ctx context.Context, path string) (int, error) {
	d.logger.Info("processing MP4 file", logging.String(logging.FieldFile, path))

	meta, err := d.mp4Prober.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	if meta.IsEmpty() {
		d.logger.Debug("no metadata found in file", logging.String(logging.FieldFile, path))
		return 0, nil
	}

	mutations := 0
	if meta.Title != "" {
		mutations++
	}
	if meta.Description != "" {
		mutations++
	}

	if d.settings.DryRun {
		d.logger.Info("dry run: would execute AtomicParsley",
			logging.String(logging.FieldFile, path),
			logging.String("args", strings.Join(apply.MP4Args(path), " ")),
		)
		return mutations, nil
	}

	if err := d.applier.ApplyMP4(ctx, path); err != nil {
		return 0, err
	}
	return mutations, nil
}

func logTracks(logger *slog.Logger, ts media.TrackSet) {
	if ts.Title != "" {
		logger.Debug("container title", logging.String("title", ts.Title))
	}
	for _, t := range ts.Tracks {
		logger.Debug("probed track",
			logging.Int("id", t.ID),
			logging.String("kind", t.Kind.String()),
			logging.String("language", t.Language),
			logging.Bool("default", t.Default),
			logging.Bool("enabled", t.Enabled),
			logging.String("codec", t.Codec),
		)
	}
}
