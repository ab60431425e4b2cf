package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const auditRunSchema = `
	CREATE TABLE IF NOT EXISTS audit_runs (
		run_id VARCHAR NOT NULL,
		started_at TIMESTAMP NOT NULL,
		hostname VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		violations INTEGER NOT NULL,
		high_count INTEGER NOT NULL,
		medium_count INTEGER NOT NULL,
		low_count INTEGER NOT NULL,
		PRIMARY KEY (run_id, hostname)
	);
`

var bootQueries = []string{
	auditRunSchema,
}

type Settings struct {
	DbPath string
}

// NewDB opens the embedded audit-history database and applies the schema.
func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
