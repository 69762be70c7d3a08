// Package runner feeds files, object file sections and standard input
// through a scanner and reports inputs that could not be scanned.
package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/CompassSecurity/binstrings/pkg/objfile"
	"github.com/CompassSecurity/binstrings/pkg/scanner"
	"github.com/CompassSecurity/binstrings/pkg/symbol"
	"github.com/docker/go-units"
	"github.com/rs/zerolog/log"
)

// StdinName is the file name reported for standard input.
const StdinName = "<stdin>"

var (
	ErrInputFailed = errors.New("one or more inputs could not be scanned")
	ErrNoSuchFile  = errors.New("no such file")
	ErrIsDirectory = errors.New("is a directory")
)

type Options struct {
	Scan scanner.Options
	// DataOnly restricts object files to their loadable data sections.
	DataOnly bool
	// Color enables terminal escapes for highlighted characters.
	Color bool
}

type Runner struct {
	out     *bufio.Writer
	opts    Options
	scanner *scanner.Scanner
}

func New(out io.Writer, opts Options) (*Runner, error) {
	w := bufio.NewWriter(out)
	s, err := scanner.New(opts.Scan, w, opts.Color)
	if err != nil {
		return nil, err
	}
	return &Runner{out: w, opts: opts, scanner: s}, nil
}

// Run scans paths in order, or stdin when there are none. A path of "-"
// also reads stdin. Inputs that fail are logged and skipped; a failing
// output aborts the run.
func (r *Runner) Run(paths []string, stdin io.Reader) error {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	failed := 0
	for _, path := range paths {
		err := r.scanInput(path, stdin)
		if flushErr := r.out.Flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("%w: %w", scanner.ErrOutput, flushErr)
		}
		if err == nil {
			continue
		}

		if errors.Is(err, scanner.ErrOutput) {
			log.Error().Err(err).Str("file", path).Msg("Failed writing output, aborting")
			return err
		}
		log.Error().Err(err).Str("file", path).Msg("Skipping input")
		failed++
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d failed", ErrInputFailed, failed, len(paths))
	}
	return nil
}

func (r *Runner) scanInput(path string, stdin io.Reader) error {
	if path == "-" {
		log.Debug().Msg("Scanning standard input")
		return r.scanner.Scan(StdinName, 0, symbol.NewStreamSource(stdin))
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNoSuchFile
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return ErrIsDirectory
	}
	log.Debug().Str("file", path).Str("size", units.HumanSize(float64(info.Size()))).Msg("Scanning file")

	if r.opts.DataOnly {
		return r.scanObject(path)
	}

	// #nosec G304 - Reading user-provided input files is the purpose of the tool
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return r.scanner.Scan(path, 0, symbol.NewStreamSource(bufio.NewReader(f)))
}

// scanObject scans the data sections of an object file at their load
// addresses. Anything that is not an object, or has no such sections, is
// scanned whole.
func (r *Runner) scanObject(path string) error {
	// #nosec G304 - Reading user-provided input files is the purpose of the tool
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	kind, sections, err := objfile.DataSections(data)
	switch {
	case errors.Is(err, objfile.ErrNotObject):
		log.Debug().Str("file", path).Msg("File is not an object, scanning whole file")
	case err != nil:
		log.Warn().Err(err).Str("file", path).Str("format", kind.String()).Msg("Cannot parse object file, scanning whole file")
	case len(sections) == 0:
		log.Debug().Str("file", path).Str("format", kind.String()).Msg("No data sections, scanning whole file")
	default:
		for _, s := range sections {
			log.Debug().
				Str("file", path).
				Str("format", kind.String()).
				Str("section", s.Name).
				Str("address", fmt.Sprintf("%#x", s.Addr)).
				Str("size", units.HumanSize(float64(len(s.Data)))).
				Msg("Scanning section")
			if err := r.scanner.Scan(path, s.Addr, symbol.NewSliceSource(s.Data)); err != nil {
				return err
			}
		}
		return nil
	}

	return r.scanner.Scan(path, 0, symbol.NewSliceSource(data))
}
