package flags

import (
	"fmt"

	"github.com/CompassSecurity/binstrings/pkg/config"
	"github.com/CompassSecurity/binstrings/pkg/render"
	"github.com/CompassSecurity/binstrings/pkg/runner"
	"github.com/CompassSecurity/binstrings/pkg/scanner"
	"github.com/CompassSecurity/binstrings/pkg/symbol"
	"github.com/spf13/cobra"
)

// ConfigPrefix is the config section the scan flags are bound to.
const ConfigPrefix = "scan"

// AddScanFlags adds the strings(1) compatible scanning flags.
// Values are read back through the config layer, see ResolveRunnerOptions.
func AddScanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolP("all", "a", false, "Scan the whole file (default, --data takes precedence)")
	f.BoolP("data", "d", false, "Only scan the initialized, loaded data sections of object files")
	f.BoolP("print-file-name", "f", false, "Print the name of the file before each string")
	f.IntP("bytes", "n", scanner.MinStringLength, "Minimum number of characters of a printed string")
	f.StringP("radix", "t", "", "Print the offset of each string in the given radix (o, d, x)")
	f.BoolP("octal", "o", false, "Print offsets in octal, same as --radix=o")
	f.BoolP("include-all-whitespace", "w", false, "Treat all whitespace as part of a string, not only space and tab")
	f.StringP("encoding", "e", "s", "Character encoding: s = 7-bit, S = 8-bit, b/l = 16-bit big/little endian, B/L = 32-bit big/little endian")
	f.StringP("unicode", "u", "default", "UTF-8 handling: default, show, invalid, hex, escape, highlight (or the first letter)")
	f.StringP("output-separator", "s", scanner.DefaultSeparator, "String printed after each string instead of a newline")
}

// ResolveRunnerOptions builds runner options from the merged flag, env, config file and default values.
func ResolveRunnerOptions() (runner.Options, error) {
	cfg, err := config.UnmarshalConfig()
	if err != nil {
		return runner.Options{}, err
	}
	sc := cfg.Scan

	opts := runner.Options{
		Scan: scanner.Options{
			MinLength:            sc.Bytes,
			IncludeAllWhitespace: sc.IncludeAllWhitespace,
			Separator:            sc.OutputSeparator,
			PrintFileName:        sc.PrintFileName,
		},
		DataOnly: sc.Data,
	}

	if opts.Scan.Encoding, err = symbol.ParseEncoding(sc.Encoding); err != nil {
		return runner.Options{}, fmt.Errorf("--encoding: %w", err)
	}
	if opts.Scan.Display, err = render.ParseDisplayMode(sc.Unicode); err != nil {
		return runner.Options{}, fmt.Errorf("--unicode: %w", err)
	}

	switch {
	case sc.Radix != "":
		if opts.Scan.Radix, err = render.ParseRadix(sc.Radix); err != nil {
			return runner.Options{}, fmt.Errorf("--radix: %w", err)
		}
		opts.Scan.PrintOffset = true
	case sc.Octal:
		opts.Scan.Radix = render.Octal
		opts.Scan.PrintOffset = true
	}

	if err := opts.Scan.Validate(); err != nil {
		return runner.Options{}, err
	}

	return opts, nil
}
