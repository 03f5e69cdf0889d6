package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var (
	// ErrInvalidStat is returned when a requested stat is not a numeric column of the table
	ErrInvalidStat = errors.New("invalid stat column")
	// ErrUnknownTable is returned when a table has no columns
	ErrUnknownTable = errors.New("unknown stats table")
)

// StatsDB defines the interface for stats database operations
type StatsDB interface {
	SeasonRows(ctx context.Context, table string, season *int) ([]map[string]interface{}, error)
	SearchPlayers(ctx context.Context, table string, q models.PlayerQuery) ([]models.PlayerRow, error)
	NumericColumns(ctx context.Context, table string) ([]string, error)
	PlayerSeries(ctx context.Context, table, player, stat string) ([]models.SeasonValue, error)
	Scatter(ctx context.Context, table string, q models.ScatterQuery) ([]models.ScatterPoint, error)
	Close() error
	Ping(ctx context.Context) error
}

// Client implements StatsDB over Postgres or SQLite
type Client struct {
	db      *sqlx.DB
	dialect dialect

	mu      sync.Mutex
	columns map[string][]column
}

// NewClient opens a stats DB client for the given driver ("postgres" or "sqlite")
func NewClient(driver, dsn string) (*Client, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if d.driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
	}
	conn.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: conn, dialect: d, columns: make(map[string][]column)}, nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping checks database connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Driver returns the SQL driver name in use
func (c *Client) Driver() string {
	return c.dialect.driver
}

// SeasonRows returns every column of every row for a season, or all seasons when season is nil
func (c *Client) SeasonRows(ctx context.Context, table string, season *int) ([]map[string]interface{}, error) {
	query := fmt.Sprintf("SELECT * FROM %s", table)
	args := []interface{}{}
	if season != nil {
		query += " WHERE season = ?"
		args = append(args, *season)
	}
	query += " ORDER BY season, player"

	rows, err := c.db.QueryxContext(ctx, c.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query season rows: %w", err)
	}
	defer rows.Close()

	result := make([]map[string]interface{}, 0)
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan season row: %w", err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate season rows: %w", err)
	}

	return result, nil
}

// SearchPlayers ranks players by the summed stat within the year window,
// filtered by a case-insensitive substring match
func (c *Client) SearchPlayers(ctx context.Context, table string, q models.PlayerQuery) ([]models.PlayerRow, error) {
	if err := c.validateStats(ctx, table, q.Stat); err != nil {
		return nil, err
	}

	where := []string{"player IS NOT NULL", "LOWER(player) LIKE ?"}
	args := []interface{}{"%" + strings.ToLower(q.Query) + "%"}

	if q.StartYear != nil {
		where = append(where, "season >= ?")
		args = append(args, *q.StartYear)
	}
	if q.EndYear != nil {
		where = append(where, "season <= ?")
		args = append(args, *q.EndYear)
	}

	query := fmt.Sprintf(`
		SELECT player
		FROM %s
		WHERE %s
		GROUP BY player
		ORDER BY SUM(%s) DESC, player ASC
		LIMIT ? OFFSET ?
	`, table, strings.Join(where, " AND "), q.Stat)
	args = append(args, q.Limit, q.Offset)

	players := make([]models.PlayerRow, 0)
	if err := c.db.SelectContext(ctx, &players, c.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}

	return players, nil
}

// NumericColumns returns the stat columns usable as selectors, excluding
// identifier and categorical columns
func (c *Client) NumericColumns(ctx context.Context, table string) ([]string, error) {
	cols, err := c.tableColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cols))
	for _, col := range cols {
		if col.isStat() {
			names = append(names, col.Name)
		}
	}
	return names, nil
}

// PlayerSeries returns one value per season for a player, taking the
// maximum stat value when a season has several rows
func (c *Client) PlayerSeries(ctx context.Context, table, player, stat string) ([]models.SeasonValue, error) {
	if err := c.validateStats(ctx, table, stat); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT season, value
		FROM (
			SELECT season, %[2]s AS value,
			       ROW_NUMBER() OVER (PARTITION BY season ORDER BY %[2]s DESC) AS rn
			FROM %[1]s
			WHERE player = ? AND %[2]s IS NOT NULL
		) ranked
		WHERE rn = 1
		ORDER BY season ASC
	`, table, stat)

	series := make([]models.SeasonValue, 0)
	if err := c.db.SelectContext(ctx, &series, c.db.Rebind(query), player); err != nil {
		return nil, fmt.Errorf("query player series: %w", err)
	}

	return series, nil
}

// Scatter aggregates two stats per player over the year window. Players
// whose aggregate is not positive on both axes are excluded.
func (c *Client) Scatter(ctx context.Context, table string, q models.ScatterQuery) ([]models.ScatterPoint, error) {
	if err := c.validateStats(ctx, table, q.PrimaryStat, q.SecondaryStat); err != nil {
		return nil, err
	}

	fn := "AVG"
	if q.Aggregate == models.AggregateTotal {
		fn = "SUM"
	}

	where := []string{"player IS NOT NULL"}
	args := []interface{}{}
	if q.StartYear != nil {
		where = append(where, "season >= ?")
		args = append(args, *q.StartYear)
	}
	if q.EndYear != nil {
		where = append(where, "season <= ?")
		args = append(args, *q.EndYear)
	}

	query := fmt.Sprintf(`
		SELECT player,
		       %[1]s(%[2]s) AS primary_value,
		       %[1]s(%[3]s) AS secondary_value
		FROM %[4]s
		WHERE %[5]s
		GROUP BY player
		HAVING %[1]s(%[2]s) > 0 AND %[1]s(%[3]s) > 0
		ORDER BY %[1]s(%[2]s) DESC, player ASC
		LIMIT ?
	`, fn, q.PrimaryStat, q.SecondaryStat, table, strings.Join(where, " AND "))
	args = append(args, q.Limit)

	points := make([]models.ScatterPoint, 0)
	if err := c.db.SelectContext(ctx, &points, c.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query scatter: %w", err)
	}

	return points, nil
}

// validateStats rejects any stat that is not a numeric column of table.
// Stat names are interpolated into SQL, so this runs before every such query.
func (c *Client) validateStats(ctx context.Context, table string, stats ...string) error {
	allowed, err := c.NumericColumns(ctx, table)
	if err != nil {
		return err
	}
	for _, stat := range stats {
		found := false
		for _, name := range allowed {
			if name == stat {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrInvalidStat, stat)
		}
	}
	return nil
}

// tableColumns returns the cached column list of a table, loading it on first use
func (c *Client) tableColumns(ctx context.Context, table string) ([]column, error) {
	c.mu.Lock()
	cols, ok := c.columns[table]
	c.mu.Unlock()
	if ok {
		return cols, nil
	}

	cols = make([]column, 0)
	if err := c.db.SelectContext(ctx, &cols, c.db.Rebind(c.dialect.columnsQuery), table); err != nil {
		return nil, fmt.Errorf("query columns of %s: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	c.mu.Lock()
	c.columns[table] = cols
	c.mu.Unlock()
	return cols, nil
}

// forgetColumns drops cached column lists after a schema change
func (c *Client) forgetColumns() {
	c.mu.Lock()
	c.columns = make(map[string][]column)
	c.mu.Unlock()
}
