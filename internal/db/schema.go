package db

import (
	"context"
	"fmt"
	"strings"
)

type columnKind int

const (
	kindText columnKind = iota
	kindInt
	kindFloat
)

type columnDef struct {
	name string
	kind columnKind
}

// identity columns shared by every stats table
var baseColumns = []columnDef{
	{"player", kindText},
	{"team", kindText},
	{"position", kindText},
	{"season", kindInt},
	{"age", kindInt},
	{"games", kindInt},
	{"games_started", kindInt},
}

// statTables describes the measured columns of each stats table
var statTables = map[string][]columnDef{
	"receiving_stats": {
		{"targets", kindInt},
		{"receptions", kindInt},
		{"yards", kindInt},
		{"touchdowns", kindInt},
		{"first_downs", kindInt},
		{"longest", kindInt},
		{"yards_per_reception", kindFloat},
		{"yards_per_game", kindFloat},
		{"catch_percentage", kindFloat},
		{"fumbles", kindInt},
	},
	"rushing_stats": {
		{"attempts", kindInt},
		{"yards", kindInt},
		{"touchdowns", kindInt},
		{"first_downs", kindInt},
		{"longest", kindInt},
		{"yards_per_attempt", kindFloat},
		{"yards_per_game", kindFloat},
		{"fumbles", kindInt},
	},
	"passing_stats": {
		{"completions", kindInt},
		{"attempts", kindInt},
		{"yards", kindInt},
		{"touchdowns", kindInt},
		{"interceptions", kindInt},
		{"first_downs", kindInt},
		{"longest", kindInt},
		{"completion_percentage", kindFloat},
		{"yards_per_attempt", kindFloat},
		{"passer_rating", kindFloat},
		{"sacks", kindInt},
	},
}

// Migrate creates the stats tables when they do not exist
func (c *Client) Migrate(ctx context.Context) error {
	for _, table := range []string{"receiving_stats", "rushing_stats", "passing_stats"} {
		if _, err := c.db.ExecContext(ctx, c.createTableSQL(table)); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
		index := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_player_season ON %[1]s (player, season)", table)
		if _, err := c.db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("index %s: %w", table, err)
		}
	}
	c.forgetColumns()
	return nil
}

func (c *Client) createTableSQL(table string) string {
	defs := []string{c.dialect.idColumn}
	for _, col := range append(append([]columnDef{}, baseColumns...), statTables[table]...) {
		defs = append(defs, col.name+" "+c.sqlType(col.kind))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(defs, ",\n\t"))
}

func (c *Client) sqlType(kind columnKind) string {
	switch kind {
	case kindInt:
		return "INTEGER"
	case kindFloat:
		return c.dialect.floatType
	default:
		return "TEXT"
	}
}
