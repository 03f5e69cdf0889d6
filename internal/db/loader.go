package db

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// LoadOptions controls how a CSV export is written to a stats table
type LoadOptions struct {
	// Truncate removes existing rows before loading
	Truncate bool
}

// LoadCSV inserts the rows of a season CSV export into table inside one
// transaction. Header names are matched to table columns case-insensitively
// with spaces read as underscores; unmatched headers are skipped. Empty
// cells and "NA" load as NULL. Returns the number of rows inserted.
func (c *Client) LoadCSV(ctx context.Context, table string, r io.Reader, opts LoadOptions) (int, error) {
	cols, err := c.tableColumns(ctx, table)
	if err != nil {
		return 0, err
	}
	byName := make(map[string]column, len(cols))
	for _, col := range cols {
		byName[strings.ToLower(col.Name)] = col
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}

	// positions of CSV fields that map onto table columns
	var fields []int
	var targets []column
	for i, h := range header {
		name := normalizeHeader(h)
		col, ok := byName[name]
		if !ok || name == "id" {
			slog.Warn("skipping unknown csv column", "table", table, "column", h)
			continue
		}
		fields = append(fields, i)
		targets = append(targets, col)
	}
	if len(targets) == 0 {
		return 0, fmt.Errorf("no csv columns match %s", table)
	}

	names := make([]string, len(targets))
	marks := make([]string, len(targets))
	for i, col := range targets {
		names[i] = col.Name
		marks[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(names, ", "), strings.Join(marks, ", "))

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback()

	if opts.Truncate {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return 0, fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(insert))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return 0, fmt.Errorf("read line %d: %w", line, err)
		}

		args := make([]interface{}, len(targets))
		for i, pos := range fields {
			raw := ""
			if pos < len(record) {
				raw = record[pos]
			}
			value, err := convertCell(raw, targets[i])
			if err != nil {
				return 0, fmt.Errorf("line %d column %s: %w", line, targets[i].Name, err)
			}
			args[i] = value
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert line %d: %w", line, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit load: %w", err)
	}
	return count, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	return strings.ReplaceAll(h, "%", "percentage")
}

func convertCell(raw string, col column) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "NA") {
		return nil, nil
	}
	if !col.isNumeric() {
		return raw, nil
	}

	f, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", raw)
	}
	if strings.Contains(strings.ToLower(col.Type), "int") {
		return int64(math.Round(f)), nil
	}
	return f, nil
}
