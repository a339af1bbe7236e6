// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/viper"

	"github.com/pdiddy/jpg2png/internal/codec"
	"github.com/pdiddy/jpg2png/internal/convert"
	"github.com/pdiddy/jpg2png/internal/ledger"
	"github.com/pdiddy/jpg2png/pkg/types"
)

const successLine = "Conversion completed successfully!"

// runConvert resolves options from v and converts source. Per-file failures
// are reported by the converter and do not fail the command.
func runConvert(ctx context.Context, v *viper.Viper, source string, stdout, stderr io.Writer) error {
	logger := loggerFromContext(ctx)

	quality, err := convert.ParseQuality(v.GetString("quality"))
	if err != nil {
		return err
	}

	opts := types.ConversionOptions{
		OutputDir: v.GetString("output"),
		Recursive: v.GetBool("recursive"),
		Quality:   quality,
		Codec:     types.CodecName(v.GetString("codec")),
	}

	c, err := codec.New(opts.Codec)
	if err != nil {
		return err
	}
	logger.Debug("codec selected", "codec", c.Name(), "quality", opts.Quality)

	conv := convert.New(c, opts, stdout, stderr)
	conv.Logger = logger

	if path := v.GetString("ledger"); path != "" {
		store, err := ledger.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		conv.Recorder = store
	}

	timer := startRunTimer(logger)
	result, err := conv.Run(ctx, source)
	if err != nil {
		return err
	}
	timer.finish("run complete",
		"converted", result.Converted, "skipped", result.Skipped, "failed", result.Failed)

	if path := v.GetString("report"); path != "" {
		if err := convert.WriteReport(path, source, opts, result); err != nil {
			return err
		}
		logger.Debug("report written", "path", path)
	}

	fmt.Fprintln(stdout, successLine)
	return nil
}
