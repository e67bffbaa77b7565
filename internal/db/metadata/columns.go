package metadata

import (
	"context"

	"github.com/workgrid/workgrid-studio/internal/db/connection"
	"github.com/workgrid/workgrid-studio/internal/models"
)

// listColumns retrieves column metadata for a table
func listColumns(ctx context.Context, pool *connection.Pool, table string) ([]models.ColumnInfo, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable,
			c.column_default,
			CASE
				WHEN pk.column_name IS NOT NULL THEN 'PRI'
				WHEN uq.column_name IS NOT NULL THEN 'UNI'
				ELSE ''
			END as key_kind,
			CASE WHEN c.is_identity = 'YES' THEN 'identity' ELSE '' END as extra
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT kcu.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
			  ON kcu.constraint_name = tc.constraint_name
			 AND kcu.table_schema = tc.table_schema
			WHERE tc.table_name = $1 AND tc.constraint_type = 'PRIMARY KEY'
		) pk ON pk.column_name = c.column_name
		LEFT JOIN (
			SELECT kcu.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
			  ON kcu.constraint_name = tc.constraint_name
			 AND kcu.table_schema = tc.table_schema
			WHERE tc.table_name = $1 AND tc.constraint_type = 'UNIQUE'
		) uq ON uq.column_name = c.column_name
		WHERE c.table_name = $1
		ORDER BY c.ordinal_position;
	`

	rows, err := pool.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}

	columns := make([]models.ColumnInfo, 0, len(rows))
	for _, row := range rows {
		col := models.ColumnInfo{
			Name:     toString(row["column_name"]),
			DataType: toString(row["data_type"]),
			Nullable: toString(row["is_nullable"]) == "YES",
			Key:      toString(row["key_kind"]),
			Extra:    toString(row["extra"]),
		}
		if row["column_default"] != nil {
			def := toString(row["column_default"])
			col.Default = &def
		}
		columns = append(columns, col)
	}

	return columns, nil
}
