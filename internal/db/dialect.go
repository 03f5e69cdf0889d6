package db

import (
	"fmt"
	"strings"
)

type dialect struct {
	driver       string
	idColumn     string
	floatType    string
	columnsQuery string
}

var dialects = map[string]dialect{
	"postgres": {
		driver:    "postgres",
		idColumn:  "id SERIAL PRIMARY KEY",
		floatType: "DOUBLE PRECISION",
		columnsQuery: `
			SELECT column_name AS name, data_type AS type
			FROM information_schema.columns
			WHERE table_name = ?
			ORDER BY ordinal_position`,
	},
	"sqlite": {
		driver:    "sqlite",
		idColumn:  "id INTEGER PRIMARY KEY AUTOINCREMENT",
		floatType: "REAL",
		columnsQuery: `
			SELECT name, type
			FROM pragma_table_info(?)
			ORDER BY cid`,
	},
}

func dialectFor(driver string) (dialect, error) {
	d, ok := dialects[strings.ToLower(driver)]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return d, nil
}

// column is one row of the driver's column catalog
type column struct {
	Name string `db:"name"`
	Type string `db:"type"`
}

// nonStatColumns are numeric columns that identify a row rather than measure play
var nonStatColumns = map[string]bool{
	"season": true,
	"age":    true,
	"id":     true,
	"stat":   true,
}

func (c column) isNumeric() bool {
	switch strings.ToLower(c.Type) {
	case "integer", "int", "bigint", "smallint", "numeric", "real", "double precision", "float", "double":
		return true
	}
	return false
}

func (c column) isStat() bool {
	return c.isNumeric() && !nonStatColumns[strings.ToLower(c.Name)]
}
