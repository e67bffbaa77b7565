package metadata

import (
	"context"

	"github.com/workgrid/workgrid-studio/internal/db/connection"
	"github.com/workgrid/workgrid-studio/internal/models"
)

// listDatabases returns all non-template database names
func listDatabases(ctx context.Context, pool *connection.Pool) ([]string, error) {
	query := `
		SELECT datname as name
		FROM pg_catalog.pg_database
		WHERE datistemplate = false
		ORDER BY datname;
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	databases := make([]string, 0, len(rows))
	for _, row := range rows {
		databases = append(databases, toString(row["name"]))
	}

	return databases, nil
}

// databaseInfos returns size, object counts and collation per database
func databaseInfos(ctx context.Context, pool *connection.Pool) ([]models.DatabaseInfo, error) {
	query := `
		SELECT
			d.datname as name,
			pg_catalog.pg_database_size(d.datname) as size_bytes,
			d.datcollate as collation
		FROM pg_catalog.pg_database d
		WHERE d.datistemplate = false
		ORDER BY d.datname;
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	infos := make([]models.DatabaseInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, models.DatabaseInfo{
			Name:      toString(row["name"]),
			SizeBytes: toInt64(row["size_bytes"]),
			Collation: toString(row["collation"]),
		})
	}

	// Table and view counts live in the per-database catalogs; the overview
	// fills them in lazily when a database row is selected.
	return infos, nil
}
