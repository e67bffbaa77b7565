package metadata

import (
	"context"

	"github.com/workgrid/workgrid-studio/internal/db/connection"
	"github.com/workgrid/workgrid-studio/internal/models"
)

// listTables returns the user-visible table names of the pool's database
func listTables(ctx context.Context, pool *connection.Pool) ([]string, error) {
	query := `
		SELECT tablename as name
		FROM pg_catalog.pg_tables
		WHERE schemaname NOT IN ('pg_catalog', 'information_schema')
		ORDER BY tablename;
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	tables := make([]string, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, toString(row["name"]))
	}

	return tables, nil
}

// tableInfos returns per-table size, row estimate and type for the overview
func tableInfos(ctx context.Context, pool *connection.Pool) ([]models.TableInfo, error) {
	query := `
		SELECT
			c.relname as name,
			c.reltuples::bigint as row_estimate,
			pg_catalog.pg_total_relation_size(c.oid) as size_bytes,
			CASE c.relkind WHEN 'v' THEN 'VIEW' ELSE 'BASE TABLE' END as table_type,
			obj_description(c.oid) as comment
		FROM pg_catalog.pg_class c
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind IN ('r', 'p', 'v')
		  AND n.nspname NOT IN ('pg_catalog', 'information_schema')
		ORDER BY c.relname;
	`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	infos := make([]models.TableInfo, 0, len(rows))
	for _, row := range rows {
		info := models.TableInfo{
			Name:    toString(row["name"]),
			Type:    toString(row["table_type"]),
			Comment: toString(row["comment"]),
		}
		rowEstimate := toInt64(row["row_estimate"])
		info.Rows = &rowEstimate
		sizeBytes := toInt64(row["size_bytes"])
		info.SizeBytes = &sizeBytes
		infos = append(infos, info)
	}

	return infos, nil
}
