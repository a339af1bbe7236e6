// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/jpg2png/pkg/types"
)

const defaultLimit = 50

// QueryOptions holds filters for History.
type QueryOptions struct {
	// Status filters by outcome.
	Status types.ConversionStatus

	// Source filters by a substring of the source path.
	Source string

	// Limit caps the result count. Zero uses the default of 50.
	Limit int
}

// History returns recorded attempts, newest first.
func (s *Store) History(ctx context.Context, opts QueryOptions) ([]types.ConversionRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT source, output, status, error, quality, codec, started_at, duration_ns
		FROM conversions
		WHERE 1=1`)

	if opts.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(opts.Status))
	}

	if opts.Source != "" {
		qb.WriteString(` AND instr(source, ?) > 0`)
		args = append(args, opts.Source)
	}

	qb.WriteString(` ORDER BY started_at DESC, id DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var records []types.ConversionRecord
	for rows.Next() {
		var (
			rec        types.ConversionRecord
			output     sql.NullString
			status     string
			errMsg     sql.NullString
			quality    sql.NullInt64
			codec      sql.NullString
			startedAt  string
			durationNS sql.NullInt64
		)

		if err := rows.Scan(
			&rec.Source, &output, &status, &errMsg, &quality, &codec, &startedAt, &durationNS,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		rec.Output = output.String
		rec.Status = types.ConversionStatus(status)
		rec.Error = errMsg.String
		rec.Quality = int(quality.Int64)
		rec.Codec = codec.String
		rec.Duration = time.Duration(durationNS.Int64)
		if t, err := time.Parse(timeLayout, startedAt); err == nil {
			rec.StartedAt = t
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// Counts returns the number of recorded attempts per status.
func (s *Store) Counts(ctx context.Context) (map[types.ConversionStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, count(*) FROM conversions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting ledger records: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.ConversionStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		counts[types.ConversionStatus(status)] = n
	}
	return counts, rows.Err()
}
