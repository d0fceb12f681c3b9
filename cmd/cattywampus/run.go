package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Taco-Comovilla/cattywampus/internal/apply"
	"github.com/Taco-Comovilla/cattywampus/internal/config"
	"github.com/Taco-Comovilla/cattywampus/internal/dispatch"
	"github.com/Taco-Comovilla/cattywampus/internal/history"
	"github.com/Taco-Comovilla/cattywampus/internal/logging"
	"github.com/Taco-Comovilla/cattywampus/internal/media/mkvmerge"
	"github.com/Taco-Comovilla/cattywampus/internal/media/parsley"
	"github.com/Taco-Comovilla/cattywampus/internal/tools"
)

// errRunFailed maps per-file failures to a non-zero process exit without
// re-printing details already logged.
var errRunFailed = errors.New("completed with errors")

func runClean(cmd *cobra.Command, flags *rootFlags, args []string) error {
	if len(args) == 0 && flags.inputFile == "" {
		return errors.New("provide file/folder paths or use --input to specify a path list")
	}

	fileCfg, cfgPath, err := config.LoadFile(flags.configPath)
	if err != nil {
		return err
	}

	settings, err := config.Resolve(buildOverrides(cmd.Flags(), flags), fileCfg, nil)
	if err != nil {
		return err
	}

	logger, err := newLogger(settings, cfgPath)
	if err != nil {
		return err
	}
	logger = logger.With(logging.String(logging.FieldRunID, uuid.NewString()))

	logger.Info("beginning run", logging.Bool("dry_run", settings.DryRun))
	logSettings(logger, settings)

	paths, err := dispatch.CollectPaths(args, flags.inputFile, logger)
	if err != nil {
		return err
	}
	logger.Debug("processing paths", logging.Int("count", len(paths)))

	mkvmergeBin, mkvpropeditBin, parsleyBin := resolveTools(cmd, settings, logger)
	if mkvmergeBin == "" && mkvpropeditBin == "" && parsleyBin == "" {
		return errors.New("neither mkvtoolnix nor AtomicParsley found; install one or set a tool path")
	}

	var store dispatch.History
	if settings.CacheEnabled {
		cachePath := settings.CachePath
		if cachePath == "" {
			cachePath, err = history.DefaultPath()
			if err != nil {
				return err
			}
		}
		s, err := history.Open(cachePath)
		if err != nil {
			return fmt.Errorf("open processed-file cache: %w", err)
		}
		defer s.Close()
		store = s
	}

	dispatcher := dispatch.New(
		settings,
		logger,
		mkvmerge.NewProber(mkvmergeBin, logger),
		parsley.NewProber(parsleyBin, logger),
		apply.New(mkvpropeditBin, parsleyBin, logger),
		store,
	)

	summary := dispatcher.Run(cmd.Context(), paths)
	reportSummary(cmd, logger, summary)
	logger.Info("ending run", logging.Duration("elapsed", summary.Elapsed))

	if summary.Failed() {
		return errRunFailed
	}
	return cmd.Context().Err()
}

// buildOverrides converts changed command-line flags into the CLI layer for
// config resolution. Unchanged flags stay nil so the config file and the
// built-in defaults can take over field by field.
func buildOverrides(fs *pflag.FlagSet, flags *rootFlags) config.Overrides {
	o := config.Overrides{}
	if fs.Changed("loglevel") {
		o.LogLevel = &flags.logLevel
	}
	if fs.Changed("logfile") {
		o.LogFilePath = &flags.logFilePath
	}
	if fs.Changed("stdout") {
		o.Stdout = &flags.stdout
	}
	if fs.Changed("stdout-only") {
		o.StdoutOnly = &flags.stdoutOnly
	}
	if fs.Changed("mkvmerge-path") {
		o.MkvmergePath = &flags.mkvmergePath
	}
	if fs.Changed("mkvpropedit-path") {
		o.MkvpropeditPath = &flags.mkvpropeditPath
	}
	if fs.Changed("atomicparsley-path") {
		o.AtomicParsleyPath = &flags.atomicParsleyPath
	}
	if fs.Changed("set-default") {
		o.SetDefaultSubtitle = &flags.setDefault
	}
	if fs.Changed("default-first") {
		o.ForceDefaultFirstSubtitle = &flags.defaultFirst
	}
	if fs.Changed("set-default-audio") {
		o.SetDefaultAudio = &flags.setDefaultAudio
	}
	if fs.Changed("clear-audio") {
		o.ClearAudio = &flags.clearAudio
	}
	if fs.Changed("use-system-locale") {
		o.UseSystemLocale = &flags.useSystemLocale
	}
	if fs.Changed("language") {
		o.Language = &flags.lang
	}
	if fs.Changed("only-mkv") {
		o.OnlyMkv = &flags.onlyMkv
	}
	if fs.Changed("only-mp4") {
		o.OnlyMp4 = &flags.onlyMp4
	}
	if fs.Changed("dry-run") {
		o.DryRun = &flags.dryRun
	}
	if fs.Changed("cache") {
		o.CacheEnabled = &flags.cacheEnabled
	}
	if fs.Changed("cache-path") {
		o.CachePath = &flags.cachePath
	}
	return o
}

// newLogger builds the run logger. By default output goes to a log file
// next to the configuration file; --stdout mirrors it to the console and
// --stdout-only suppresses the file entirely.
func newLogger(settings config.Settings, cfgPath string) (*slog.Logger, error) {
	var outputs []string
	if !settings.StdoutOnly {
		logPath := settings.LogFilePath
		if logPath == "" && cfgPath != "" {
			logPath = filepath.Join(filepath.Dir(cfgPath), "cattywampus.log")
		}
		if logPath != "" {
			outputs = append(outputs, logPath)
		}
	}
	if settings.Stdout || settings.StdoutOnly {
		outputs = append(outputs, "stdout")
	}
	if len(outputs) == 0 {
		outputs = append(outputs, "stderr")
	}
	return logging.New(logging.Options{
		Level:       settings.LogLevel,
		Format:      "console",
		OutputPaths: outputs,
	})
}

func resolveTools(cmd *cobra.Command, settings config.Settings, logger *slog.Logger) (mkvmergeBin, mkvpropeditBin, parsleyBin string) {
	for _, status := range tools.Check(cmd.Context(), settings.MkvmergePath, settings.MkvpropeditPath, settings.AtomicParsleyPath) {
		if !status.Available {
			logger.Debug("tool not found", logging.String(logging.FieldTool, status.Name))
			continue
		}
		logger.Debug("tool resolved",
			logging.String(logging.FieldTool, status.Name),
			logging.String("path", status.Path),
			logging.String("version", status.Version),
		)
		switch status.Name {
		case tools.Mkvmerge:
			mkvmergeBin = status.Path
		case tools.Mkvpropedit:
			mkvpropeditBin = status.Path
		case tools.AtomicParsley:
			parsleyBin = status.Path
		}
	}
	return mkvmergeBin, mkvpropeditBin, parsleyBin
}

func logSettings(logger *slog.Logger, settings config.Settings) {
	logger.Debug("options",
		logging.Int("logLevel", settings.LogLevel),
		logging.String("language", settings.Language.String()),
		logging.Bool("useSystemLocale", settings.UseSystemLocale),
		logging.Bool("setDefaultSubtitle", settings.SetDefaultSubtitle),
		logging.Bool("forceDefaultFirstSubtitle", settings.ForceDefaultFirstSubtitle),
		logging.Bool("setDefaultAudio", settings.SetDefaultAudio),
		logging.Bool("clearAudio", settings.ClearAudio),
		logging.Bool("onlyMkv", settings.OnlyMkv),
		logging.Bool("onlyMp4", settings.OnlyMp4),
		logging.Bool("dryRun", settings.DryRun),
		logging.Bool("cacheEnabled", settings.CacheEnabled),
	)
}
