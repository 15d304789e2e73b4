package journal

import (
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// PostgresDialect implements Dialect for the lib/pq driver.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string              { return "postgres" }
func (d *PostgresDialect) Placeholder(position int) string { return fmt.Sprintf("$%d", position) }
func (d *PostgresDialect) SupportsLastInsertID() bool      { return false }
func (d *PostgresDialect) InitStatements() []string        { return nil }
func (d *PostgresDialect) GooseDialect() goose.Dialect     { return goose.DialectPostgres }
func (d *PostgresDialect) MigrationsDir() string           { return "postgres" }

// ReturningClause returns " RETURNING <column>"; lib/pq does not implement LastInsertId.
func (d *PostgresDialect) ReturningClause(column string) string {
	return fmt.Sprintf(" RETURNING %s", column)
}
