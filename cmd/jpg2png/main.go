// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the jpg2png CLI. It converts a JPEG
// file, or every JPEG in a directory tree, to PNG.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/jpg2png/pkg/types"
)

// newRootCmd builds the command tree. Each call gets its own viper instance
// so that commands built in tests do not share configuration.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	var (
		cfgFile string
		verbose bool
	)

	root := &cobra.Command{
		Use:   "jpg2png <source>",
		Short: "Convert JPG images to PNG format",
		Long: `jpg2png converts a JPEG file, or every .jpg/.jpeg file in a directory,
to PNG. Files are converted one at a time. Each PNG is written next to its
source unless --output names a destination directory.

A file that fails to convert is reported and the run continues. Use --ledger
to keep a history of attempts and "jpg2png history" to inspect it.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			used, err := initConfig(v, cfgFile)
			if err != nil {
				return err
			}

			level := log.InfoLevel
			if verbose || v.GetBool("verbose") {
				level = log.DebugLevel
			}
			logger := newLogger(stderr, level)
			if used != "" {
				logger.Debug("using config file", "path", used)
			}
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), v, args[0], stdout, stderr)
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(versionTemplate())

	flags := root.Flags()
	flags.StringP("output", "o", "", "output directory for PNG files (default: next to each source)")
	flags.BoolP("recursive", "r", false, "process directories recursively")
	flags.StringP("quality", "q", fmt.Sprint(types.DefaultQuality), "PNG quality (1-100)")
	flags.String("codec", string(types.CodecImaging), "image codec: imaging or magick")
	flags.String("report", "", "write a YAML report of the run to this file")

	persistent := root.PersistentFlags()
	persistent.StringVar(&cfgFile, "config", "", "config file (default: ./jpg2png.yaml or ~/.config/jpg2png/jpg2png.yaml)")
	persistent.String("ledger", "", "SQLite database recording every conversion attempt")
	persistent.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Flag names double as config keys; errors only occur for nil flags.
	_ = v.BindPFlags(flags)
	_ = v.BindPFlags(persistent)

	root.AddCommand(newHistoryCmd(v, stdout))

	return root
}

// initConfig layers the config file and JPG2PNG_* environment variables
// beneath the command-line flags. It returns the config file in use, if any.
// A missing default config file is not an error; a missing --config file is.
func initConfig(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// No SetConfigType: with a type set, viper also matches an
		// extensionless "jpg2png" file, which is the built binary.
		v.SetConfigName("jpg2png")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "jpg2png"))
		}
	}

	v.SetEnvPrefix("JPG2PNG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
