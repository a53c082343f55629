package jsoncolumn

import "strings"

// ColumnType returns the native JSON-capable column type for a gorm dialect name,
// or "" when the dialect has none known here.
func ColumnType(dialect string) string {
	switch strings.ToLower(dialect) {
	case "postgres":
		return "JSONB"
	case "mysql", "sqlite":
		return "JSON"
	case "sqlserver":
		return "NVARCHAR(MAX)"
	default:
		return ""
	}
}
