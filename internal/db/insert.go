package db

import (
	"fmt"
	"strings"

	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultChunkSize is the maximum number of rows serialized into one
// multi-row INSERT statement.
const DefaultChunkSize = 1000

// maxBindParams is the Postgres extended-protocol ceiling on bind
// parameters per statement.
const maxBindParams = 65535

// InsertConfig defines the parameters for a conflict-tolerant bulk insert.
type InsertConfig struct {
	Table        string   // target table (e.g., "edgar.filings")
	Columns      []string // all columns being inserted
	ConflictKeys []string // columns forming the unique constraint; rows hitting it are skipped
	ChunkSize    int      // rows per statement; 0 = DefaultChunkSize
}

// InsertIgnore performs a chunked bulk insert with ON CONFLICT DO NOTHING
// semantics. Each chunk runs in its own transaction; a chunk that fails is
// rolled back and logged, and the remaining chunks still execute, so a
// partial-batch failure never aborts the whole run. Returns the number of
// rows actually inserted (conflicting rows are silently skipped).
func InsertIgnore(ctx context.Context, pool Pool, cfg InsertConfig, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	if len(cfg.Columns) == 0 {
		return 0, eris.New("db: insert: no columns specified")
	}
	if len(cfg.ConflictKeys) == 0 {
		return 0, eris.New("db: insert: no conflict keys specified")
	}

	chunkSize := effectiveChunkSize(cfg)

	log := zap.L().With(zap.String("component", "db.insert"), zap.String("table", cfg.Table))

	var inserted int64
	var failed int

	for start := 0; start < len(rows); start += chunkSize {
		end := min(start+chunkSize, len(rows))
		chunk := rows[start:end]

		n, err := insertChunk(ctx, pool, cfg, chunk)
		if err != nil {
			failed++
			log.Error("chunk insert failed, continuing with remaining chunks",
				zap.Int("rows", len(chunk)),
				zap.Error(err),
			)
			continue
		}
		inserted += n
	}

	if failed > 0 {
		log.Warn("bulk insert finished with failed chunks",
			zap.Int("failed_chunks", failed),
			zap.Int64("inserted", inserted),
		)
	}

	return inserted, nil
}

// effectiveChunkSize returns the rows-per-statement cap. Wide tables
// get a smaller chunk so no statement exceeds the bind parameter limit.
func effectiveChunkSize(cfg InsertConfig) int {
	n := cfg.ChunkSize
	if n <= 0 {
		n = DefaultChunkSize
	}
	if limit := maxBindParams / len(cfg.Columns); n > limit {
		n = limit
	}
	return n
}

func insertChunk(ctx context.Context, pool Pool, cfg InsertConfig, chunk [][]any) (int64, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrapf(err, "db: insert: begin tx for %s", cfg.Table)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	sql, args := buildInsertSQL(cfg, chunk)

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, eris.Wrapf(err, "db: insert: exec for %s", cfg.Table)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrapf(err, "db: insert: commit tx for %s", cfg.Table)
	}

	return tag.RowsAffected(), nil
}

// buildInsertSQL serializes one chunk into a single multi-row
// INSERT ... ON CONFLICT (...) DO NOTHING with positional placeholders.
func buildInsertSQL(cfg InsertConfig, chunk [][]any) (string, []any) {
	nCols := len(cfg.Columns)

	var sb strings.Builder
	args := make([]any, 0, len(chunk)*nCols)

	sb.WriteString("INSERT INTO ")
	sb.WriteString(sanitizeTable(cfg.Table))
	sb.WriteString(" (")
	sb.WriteString(quoteAndJoin(cfg.Columns))
	sb.WriteString(") VALUES ")

	for i, row := range chunk {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := range nCols {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*nCols+j+1)
		}
		sb.WriteString(")")
		args = append(args, row...)
	}

	sb.WriteString(" ON CONFLICT (")
	sb.WriteString(quoteAndJoin(cfg.ConflictKeys))
	sb.WriteString(") DO NOTHING")

	return sb.String(), args
}

// sanitizeTable handles schema-qualified table names like "edgar.filings".
func sanitizeTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

// quoteAndJoin quotes each column name and joins with commas.
func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
