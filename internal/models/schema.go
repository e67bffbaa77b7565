package models

// ColumnInfo holds metadata about a table column as listed by the schema
// browser. Default is nil when the column has no default value.
type ColumnInfo struct {
	Name     string
	DataType string
	Nullable bool
	Key      string // "PRI", "UNI", "MUL" or ""
	Default  *string
	Extra    string
}

// DatabaseInfo is the overview row shown for a database in the manager view.
type DatabaseInfo struct {
	Name         string
	SizeBytes    int64
	Tables       int64
	Views        int64
	Collation    string
	LastModified *string
}

// TableInfo is the overview row shown for a table in the database view.
type TableInfo struct {
	Name      string
	Rows      *int64
	SizeBytes *int64
	Created   *string
	Updated   *string
	Comment   string
	Type      string // "BASE TABLE" or "VIEW"
}
