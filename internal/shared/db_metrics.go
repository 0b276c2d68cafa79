package shared

import (
	"context"
	"database/sql"
	"time"
)

// MetricsDB wraps *sql.DB and counts operations. A nil AppMetrics disables
// counting, which is what tests use.
type MetricsDB struct {
	db      *sql.DB
	metrics *AppMetrics
}

func NewMetricsDB(db *sql.DB, metrics *AppMetrics) *MetricsDB {
	return &MetricsDB{
		db:      db,
		metrics: metrics,
	}
}

func (m *MetricsDB) record(ctx context.Context, operation string) {
	if m.metrics != nil {
		m.metrics.RecordDatabaseOperation(ctx, operation)
	}
}

func (m *MetricsDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.record(ctx, "query_row")
	return m.db.QueryRowContext(ctx, query, args...)
}

func (m *MetricsDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	m.record(ctx, "query")
	return m.db.QueryContext(ctx, query, args...)
}

func (m *MetricsDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	m.record(ctx, "exec")
	return m.db.ExecContext(ctx, query, args...)
}

func (m *MetricsDB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return m.db.PrepareContext(ctx, query)
}

func (m *MetricsDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	m.record(ctx, "begin_tx")
	return m.db.BeginTx(ctx, opts)
}

func (m *MetricsDB) Close() error {
	return m.db.Close()
}

func (m *MetricsDB) PingContext(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *MetricsDB) SetMaxOpenConns(n int) {
	m.db.SetMaxOpenConns(n)
}

func (m *MetricsDB) SetMaxIdleConns(n int) {
	m.db.SetMaxIdleConns(n)
}

func (m *MetricsDB) SetConnMaxLifetime(d time.Duration) {
	m.db.SetConnMaxLifetime(d)
}

func (m *MetricsDB) Stats() sql.DBStats {
	return m.db.Stats()
}
