package main

import (
	"github.com/spf13/cobra"
)

// rootFlags holds every command-line flag value. Which flags were actually
// set is read back through pflag's Changed tracking so unset flags fall
// through to the config file.
type rootFlags struct {
	configPath string
	inputFile  string

	logLevel          int
	logFilePath       string
	stdout            bool
	stdoutOnly        bool
	mkvmergePath      string
	mkvpropeditPath   string
	atomicParsleyPath string
	setDefault        bool
	defaultFirst      bool
	setDefaultAudio   bool
	clearAudio        bool
	useSystemLocale   bool
	lang              string
	onlyMkv           bool
	onlyMp4           bool
	dryRun            bool
	cacheEnabled      bool
	cachePath         string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "cattywampus [paths...]",
		Short:         "Video metadata cleaner",
		Long:          "Removes extraneous container metadata from MKV and MP4 files and normalizes which audio/subtitle track is marked default.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, flags, args)
		},
	}

	registerFlags(rootCmd, flags)

	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newToolsCommand(flags))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func registerFlags(rootCmd *cobra.Command, flags *rootFlags) {
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (TOML)")

	pf := rootCmd.Flags()
	pf.StringVarP(&flags.inputFile, "input", "i", "", "Read file paths from a text file, one per line")
	pf.BoolVarP(&flags.dryRun, "dry-run", "d", false, "Show what would be done without modifying files")
	pf.IntVarP(&flags.logLevel, "loglevel", "g", 20, "Log level (10=DEBUG, 20=INFO, 30=WARNING, 40=ERROR, 50=CRITICAL)")
	pf.StringVarP(&flags.logFilePath, "logfile", "l", "", "Log file location")
	pf.BoolVarP(&flags.stdout, "stdout", "S", false, "Mirror log output to stdout")
	pf.BoolVarP(&flags.stdoutOnly, "stdout-only", "T", false, "Log to stdout only, suppressing the log file")
	pf.StringVarP(&flags.mkvmergePath, "mkvmerge-path", "M", "", "Path to the mkvmerge binary")
	pf.StringVarP(&flags.mkvpropeditPath, "mkvpropedit-path", "P", "", "Path to the mkvpropedit binary")
	pf.StringVarP(&flags.atomicParsleyPath, "atomicparsley-path", "A", "", "Path to the AtomicParsley binary")
	pf.BoolVarP(&flags.setDefault, "set-default", "s", false, "Mark the first subtitle track matching the language as default")
	pf.BoolVarP(&flags.defaultFirst, "default-first", "f", false, "Mark the first subtitle track as default, ignoring language")
	pf.BoolVar(&flags.setDefaultAudio, "set-default-audio", false, "Mark the first audio track matching the language as default")
	pf.BoolVarP(&flags.clearAudio, "clear-audio", "a", false, "Also delete audio track names in MKV files")
	pf.BoolVar(&flags.useSystemLocale, "use-system-locale", true, "Detect the selection language from the system locale")
	pf.StringVarP(&flags.lang, "language", "L", "", "Selection language (BCP 47 tag, e.g. \"en\")")
	pf.BoolVar(&flags.onlyMkv, "only-mkv", false, "Process only MKV files")
	pf.BoolVar(&flags.onlyMp4, "only-mp4", false, "Process only MP4/M4V files")
	pf.BoolVar(&flags.cacheEnabled, "cache", false, "Skip files that have not changed since the last run")
	pf.StringVar(&flags.cachePath, "cache-path", "", "Processed-file cache location")
}
