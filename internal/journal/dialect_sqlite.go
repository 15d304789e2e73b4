package journal

import (
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteDialect implements Dialect for the modernc.org/sqlite driver.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string                   { return "sqlite" }
func (d *SQLiteDialect) Placeholder(position int) string      { return "?" }
func (d *SQLiteDialect) SupportsLastInsertID() bool           { return true }
func (d *SQLiteDialect) ReturningClause(column string) string { return "" }
func (d *SQLiteDialect) GooseDialect() goose.Dialect          { return goose.DialectSQLite3 }
func (d *SQLiteDialect) MigrationsDir() string                { return "sqlite" }

// InitStatements enables WAL and waits on locks instead of failing immediately.
func (d *SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}
