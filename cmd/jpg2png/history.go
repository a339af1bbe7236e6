// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/jpg2png/internal/ledger"
	"github.com/pdiddy/jpg2png/pkg/types"
)

func newHistoryCmd(v *viper.Viper, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List conversion attempts recorded in the ledger",
		Long: `History reads the SQLite ledger written by runs started with --ledger and
lists the recorded attempts, newest first. Filter by outcome with --status
or by part of the source path with --source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, v, stdout)
		},
	}

	cmd.Flags().String("status", "", "filter by outcome: converted, skipped, or failed")
	cmd.Flags().String("source", "", "filter by a substring of the source path")
	cmd.Flags().Int("limit", 0, "maximum records to list (0 = 50)")
	cmd.Flags().Bool("json", false, "output records as JSON")
	cmd.Flags().Bool("summary", false, "print counts per outcome instead of records")

	return cmd
}

func runHistory(cmd *cobra.Command, v *viper.Viper, w io.Writer) error {
	path := v.GetString("ledger")
	if path == "" {
		path = ledger.DefaultPath
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("no ledger at %s: run a conversion with --ledger first", path)
	}

	status, _ := cmd.Flags().GetString("status")
	switch types.ConversionStatus(status) {
	case "", types.ConversionDone, types.ConversionSkipped, types.ConversionFailed:
	default:
		return fmt.Errorf("invalid status %q: must be converted, skipped, or failed", status)
	}
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	summary, _ := cmd.Flags().GetBool("summary")

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	if summary {
		counts, err := store.Counts(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "converted: %d, skipped: %d, failed: %d\n",
			counts[types.ConversionDone], counts[types.ConversionSkipped], counts[types.ConversionFailed])
		return nil
	}

	records, err := store.History(ctx, ledger.QueryOptions{
		Status: types.ConversionStatus(status),
		Source: source,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	if asJSON {
		if records == nil {
			records = []types.ConversionRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSTATUS\tSOURCE\tOUTPUT\tDETAIL")
	for _, r := range records {
		detail := r.Error
		if detail == "" && r.Status == types.ConversionDone {
			detail = r.Duration.Round(time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.Source, r.Output, detail)
	}
	return tw.Flush()
}
