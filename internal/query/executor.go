// Package query runs validated SQL against the TMS or Audit database and
// returns the rows as a Table.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tmsbot/internal/contextutil"
	"tmsbot/internal/sqlguard"
)

// Executor runs validated queries on the database chosen by its Router.
type Executor struct {
	dbs    map[Target]*sql.DB
	router Router
}

// NewExecutor creates an executor over the two connection pools.
func NewExecutor(tms, audit *sql.DB, router Router) *Executor {
	return &Executor{
		dbs:    map[Target]*sql.DB{TargetTMS: tms, TargetAudit: audit},
		router: router,
	}
}

// Run executes q and reads the full result set.
func (e *Executor) Run(ctx context.Context, q sqlguard.Query) (Table, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if q.IsZero() {
		return Table{}, fmt.Errorf("query was not validated")
	}

	target := e.router.RouteFor(q.String())
	db, ok := e.dbs[target]
	if !ok || db == nil {
		return Table{}, fmt.Errorf("no database configured for %s", target)
	}

	start := time.Now()
	rows, err := db.QueryContext(ctx, q.String())
	if err != nil {
		logger.ErrorContext(ctx, "query failed", "target", target, "error", err)
		return Table{}, err
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return Table{}, fmt.Errorf("query columns: %w", err)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return Table{}, fmt.Errorf("scan row: %w", err)
		}
		resultRows = append(resultRows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("iterate rows: %w", err)
	}

	logger.InfoContext(ctx, "query executed",
		"target", target,
		"columns", len(columns),
		"rows", len(resultRows),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return Table{Columns: uniqueColumns(columns), Rows: resultRows}, nil
}

// Ping checks the connection to the target database.
func (e *Executor) Ping(ctx context.Context, target Target) error {
	db, ok := e.dbs[target]
	if !ok || db == nil {
		return fmt.Errorf("no database configured for %s", target)
	}
	return db.PingContext(ctx)
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}
