// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert locates JPEG files and turns them into PNGs through a
// codec.Codec. A source path is classified as a file or a directory;
// directories are walked (optionally recursively) and every qualifying file
// is converted as soon as it is found, one at a time.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/jpg2png/internal/codec"
	"github.com/pdiddy/jpg2png/pkg/types"
)

// ErrInvalidQuality is returned by ParseQuality for values that are not an
// integer in 1-100.
var ErrInvalidQuality = errors.New("invalid quality")

// Recorder persists conversion records. The ledger store implements it.
type Recorder interface {
	Record(ctx context.Context, rec types.ConversionRecord) error
}

// Result holds the outcome of a conversion run.
type Result struct {
	Converted int                      `json:"converted" yaml:"converted"`
	Skipped   int                      `json:"skipped" yaml:"skipped"`
	Failed    int                      `json:"failed" yaml:"failed"`
	Records   []types.ConversionRecord `json:"records" yaml:"records"`
}

// Total returns the total number of files processed.
func (r Result) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Converter runs one conversion over a source path. Progress lines go to
// stdout; skip notices and per-file failures go to stderr. A Converter
// accumulates its Result and is meant for a single run.
type Converter struct {
	codec  codec.Codec
	opts   types.ConversionOptions
	stdout io.Writer
	stderr io.Writer

	// Recorder, when set, receives every ConversionRecord.
	Recorder Recorder

	// Logger receives diagnostic output. Nil discards it.
	Logger *log.Logger

	result Result
}

// New creates a Converter that uses c for every file.
func New(c codec.Codec, opts types.ConversionOptions, stdout, stderr io.Writer) *Converter {
	if opts.Quality == 0 {
		opts.Quality = types.DefaultQuality
	}
	return &Converter{
		codec:  c,
		opts:   opts,
		stdout: stdout,
		stderr: stderr,
	}
}

// Result returns the counts and records gathered so far.
func (c *Converter) Result() Result {
	return c.result
}

// Run classifies source and dispatches it. A regular JPEG file is converted;
// any other regular file is reported as skipped; a directory is walked. Only
// a missing or unreadable source, an unsupported file type, or a failed
// directory listing return an error. Per-file conversion failures are
// reported and counted but never returned.
func (c *Converter) Run(ctx context.Context, source string) (Result, error) {
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.result, fmt.Errorf("source path does not exist: %s: %w", source, fs.ErrNotExist)
		}
		return c.result, fmt.Errorf("reading source %s: %w", source, err)
	}

	switch mode := info.Mode(); {
	case mode.IsRegular():
		if IsJPEG(source) {
			c.ConvertFile(ctx, source)
		} else {
			fmt.Fprintf(c.stderr, "Skipping non-JPG file: %s\n", source)
			c.record(ctx, types.ConversionRecord{
				ConversionTask: types.ConversionTask{Source: source},
				Status:         types.ConversionSkipped,
				StartedAt:      time.Now().UTC(),
			})
		}
	case mode.IsDir():
		if err := c.Walk(ctx, source); err != nil {
			return c.result, err
		}
	default:
		return c.result, fmt.Errorf("unsupported file type %s: %s", mode.Type(), source)
	}

	c.logger().Debug("run finished", "source", source,
		"converted", c.result.Converted, "skipped", c.result.Skipped, "failed", c.result.Failed)
	return c.result, nil
}

// Walk converts every qualifying file in dir in enumeration order,
// descending into subdirectories when the Recursive option is set. Other
// files, symbolic links, and (without Recursive) subdirectories are ignored.
// A directory that cannot be listed aborts the walk.
func (c *Converter) Walk(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	c.logger().Debug("walking directory", "dir", dir, "entries", len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.Type().IsRegular():
			if IsJPEG(path) {
				c.ConvertFile(ctx, path)
			}
		case entry.IsDir() && c.opts.Recursive:
			if err := c.Walk(ctx, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// ConvertFile converts one JPEG to PNG and returns the outcome. The output
// directory is created when missing and an existing PNG at the output path
// is overwritten. Failures are written to stderr and reported as
// ConversionFailed.
func (c *Converter) ConvertFile(ctx context.Context, source string) types.ConversionStatus {
	task := types.ConversionTask{
		Source: source,
		Output: OutputPath(source, c.opts.OutputDir),
	}
	rec := types.ConversionRecord{
		ConversionTask: task,
		Quality:        c.opts.Quality,
		Codec:          c.codec.Name(),
		StartedAt:      time.Now().UTC(),
	}

	err := c.convert(ctx, task)
	rec.Duration = time.Since(rec.StartedAt)

	if err != nil {
		fmt.Fprintf(c.stderr, "Failed to convert %s: %v\n", source, err)
		rec.Status = types.ConversionFailed
		rec.Error = err.Error()
	} else {
		c.logger().Debug("converted", "source", source, "output", task.Output, "duration", rec.Duration)
		rec.Status = types.ConversionDone
	}

	c.record(ctx, rec)
	return rec.Status
}

func (c *Converter) convert(ctx context.Context, task types.ConversionTask) error {
	outDir := filepath.Dir(task.Output)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	fmt.Fprintf(c.stdout, "Converting: %s -> %s\n", task.Source, task.Output)

	return c.codec.Convert(ctx, task.Source, task.Output, c.opts.Quality)
}

func (c *Converter) record(ctx context.Context, rec types.ConversionRecord) {
	switch rec.Status {
	case types.ConversionDone:
		c.result.Converted++
	case types.ConversionSkipped:
		c.result.Skipped++
	case types.ConversionFailed:
		c.result.Failed++
	}
	c.result.Records = append(c.result.Records, rec)

	if c.Recorder == nil {
		return
	}
	if err := c.Recorder.Record(ctx, rec); err != nil {
		fmt.Fprintf(c.stderr, "warning: could not record %s: %v\n", rec.Source, err)
	}
}

func (c *Converter) logger() *log.Logger {
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c.Logger
}

// OutputPath returns the PNG path for source: the source base name with a
// .png extension, placed in outputDir or, when outputDir is empty, next to
// the source.
func OutputPath(source, outputDir string) string {
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(outputDir, base+".png")
}

// IsJPEG reports whether path has a .jpg or .jpeg extension, ignoring case.
func IsJPEG(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// ParseQuality parses a quality flag value and checks that it is in 1-100.
func ParseQuality(s string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidQuality, s)
	}
	if q < 1 || q > 100 {
		return 0, fmt.Errorf("%w: %d is outside 1-100", ErrInvalidQuality, q)
	}
	return q, nil
}
