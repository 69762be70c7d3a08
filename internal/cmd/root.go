package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/CompassSecurity/binstrings/internal/cmd/docs"
	"github.com/CompassSecurity/binstrings/internal/cmd/flags"
	"github.com/CompassSecurity/binstrings/pkg/config"
	"github.com/CompassSecurity/binstrings/pkg/format"
	"github.com/CompassSecurity/binstrings/pkg/runner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version information - set via ldflags during build
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	rootCmd       = newRootCmd()
	JsonLogoutput bool
	LogFile       string
	LogColor      bool
	LogDebug      bool
	LogLevel      string
	ConfigFile    string

	logFile *os.File
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "binstrings [flags] [file...]",
		Short: "Print the printable character sequences in files",
		Long: `Binstrings prints every sequence of at least --bytes printable characters found in the given files,
or in standard input when no file (or "-") is given. Strings are printed to stdout, logs go to stderr.

Multi-byte encodings are selected with --encoding, UTF-8 aware scanning with --unicode.
With --data only the loadable data sections of ELF, Mach-O and PE files are scanned.

Every flag can also be set in the scan section of a config file or via BINSTRINGS_SCAN_* environment variables.`,
		Example: `binstrings -n 8 -t x /bin/ls
cat firmware.bin | binstrings -e l
binstrings -u escape -f *.so`,
		Version:       getVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(cmd); err != nil {
				return err
			}
			setGlobalLogLevel(cmd)
			return loadConfigFile()
		},
		RunE: runStrings,
	}

	flags.AddScanFlags(cmd)

	cmd.AddGroup(&cobra.Group{ID: "Helper", Title: "Various Helper Commands"})
	cmd.AddCommand(docs.NewDocsCmd(cmd))

	cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file path (YAML, JSON, or TOML). Example: ~/.config/binstrings/binstrings.yaml")
	cmd.PersistentFlags().BoolVarP(&JsonLogoutput, "json", "", false, "Use JSON as log output format")
	cmd.PersistentFlags().StringVarP(&LogFile, "logfile", "l", "", "Log output to a file")
	cmd.PersistentFlags().BoolVarP(&LogDebug, "verbose", "v", false, "Enable debug logging (shortcut for --log-level=debug)")
	cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Set log level globally (debug, info, warn, error). Example: --log-level=warn")
	cmd.PersistentFlags().BoolVar(&LogColor, "color", true, "Enable colored log output (auto-disabled when using --logfile or when stderr is not a terminal)")

	cmd.SetVersionTemplate(`{{.Version}}
`)

	return cmd
}

func Execute() error {
	return rootCmd.Execute()
}

// getVersion returns the version string in the format: version (commit) built on date
func getVersion() string {
	return Version
}

func runStrings(cmd *cobra.Command, args []string) error {
	if err := config.BindCommandFlags(cmd, flags.ConfigPrefix, nil); err != nil {
		return err
	}

	opts, err := flags.ResolveRunnerOptions()
	if err != nil {
		return err
	}
	opts.Color = isTerminal(cmd.OutOrStdout())
	log.Debug().
		Str("config", config.ConfigFileUsed()).
		Int("minLength", opts.Scan.MinLength).
		Str("encoding", opts.Scan.Encoding.String()).
		Str("unicode", opts.Scan.Display.String()).
		Bool("dataOnly", opts.DataOnly).
		Msg("Resolved scan options")

	r, err := runner.New(cmd.OutOrStdout(), opts)
	if err != nil {
		return err
	}
	return r.Run(args, cmd.InOrStdin())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type CustomWriter struct {
	Writer *os.File
}

func (cw *CustomWriter) Write(p []byte) (n int, err error) {
	originalLen := len(p)

	if bytes.HasSuffix(p, []byte("\n")) {
		p = bytes.TrimSuffix(p, []byte("\n"))
	}

	// necessary as to: https://github.com/rs/zerolog/blob/master/log.go#L474
	newlineChars := []byte("\n")
	if runtime.GOOS == "windows" {
		newlineChars = []byte("\n\r")
	}

	modified := append(p, newlineChars...)

	written, err := cw.Writer.Write(modified)
	if err != nil {
		return 0, err
	}

	if written != len(modified) {
		return 0, io.ErrShortWrite
	}

	return originalLen, nil
}

// initLogger sends logs to stderr, or to --logfile, so stdout only carries strings.
func initLogger(cmd *cobra.Command) error {
	CloseLogger()

	defaultOut := &CustomWriter{Writer: os.Stderr}
	colorEnabled := LogColor
	colorChanged := cmd != nil && cmd.Root().PersistentFlags().Changed("color")

	if LogFile != "" {
		// #nosec G304 - User-provided log file path via --logfile flag, user controls their own filesystem
		f, err := os.OpenFile(
			LogFile,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			format.FileUserReadWrite,
		)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		defaultOut = &CustomWriter{Writer: f}

		if !colorChanged {
			colorEnabled = false
		}
	} else if !colorChanged && !isTerminal(os.Stderr) {
		colorEnabled = false
	}

	if JsonLogoutput {
		log.Logger = zerolog.New(defaultOut).With().Timestamp().Logger()
		return nil
	}

	output := zerolog.ConsoleWriter{
		Out:         defaultOut,
		TimeFormat:  time.RFC3339,
		NoColor:     !colorEnabled,
		FormatLevel: formatLevel(colorEnabled),
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return nil
}

// CloseLogger closes the --logfile target, if any, and falls back to stderr.
func CloseLogger() {
	if logFile == nil {
		return
	}
	log.Logger = zerolog.New(&CustomWriter{Writer: os.Stderr}).With().Timestamp().Logger()
	_ = logFile.Close()
	logFile = nil
}

func formatLevel(colorEnabled bool) zerolog.Formatter {
	return func(i interface{}) string {
		level, ok := i.(string)
		if !ok {
			return ""
		}

		if !colorEnabled {
			return level
		}

		switch level {
		case "trace":
			return "\x1b[90m" + level + "\x1b[0m"
		case "debug":
			return level
		case "info":
			return "\x1b[32m" + level + "\x1b[0m"
		case "warn":
			return "\x1b[33m" + level + "\x1b[0m"
		case "error", "fatal", "panic":
			return "\x1b[31m" + level + "\x1b[0m"
		default:
			return level
		}
	}
}

func setGlobalLogLevel(cmd *cobra.Command) {
	if LogLevel != "" {
		switch LogLevel {
		case "trace":
			zerolog.SetGlobalLevel(zerolog.TraceLevel)
			log.Trace().Msg("Log level set to trace (explicit)")
		case "debug":
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
			log.Debug().Msg("Log level set to debug (explicit)")
		case "info":
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		case "warn":
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		case "error":
			zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		default:
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			log.Warn().Str("logLevelSpecified", LogLevel).Msg("Invalid log level, defaulting to info")
		}
		return
	}

	if LogDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("Log level set to debug (-v)")
		return
	}

	// strings on stdout are the output, keep stderr quiet unless asked
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

// loadConfigFile loads the configuration from a file if specified or searches the standard locations
func loadConfigFile() error {
	if err := config.InitializeViper(ConfigFile); err != nil {
		return fmt.Errorf("failed to load configuration file: %w", err)
	}
	return nil
}
