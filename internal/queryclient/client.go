package queryclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/retry"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

// ErrStatus matches any non-2xx response from the stats API
var ErrStatus = errors.New("unexpected status")

// StatusError reports a non-2xx response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stats API error: status=%d, body=%s", e.StatusCode, e.Body)
}

// Is reports whether target is ErrStatus
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Client handles stats API requests
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *retry.RetryPolicy
}

// New creates a stats API client. Transient failures are retried up to
// retries times; 4xx responses are never retried.
func New(baseURL string, timeout time.Duration, retries int) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: retry.NewRetryPolicy(retries, 200*time.Millisecond),
	}
}

// PlayerSeries fetches one player's per-season values for a stat
func (c *Client) PlayerSeries(ctx context.Context, statType, player, stat string) ([]models.SeasonValue, error) {
	params := url.Values{}
	params.Set("player", player)
	params.Set("stat", stat)

	var rows []map[string]json.Number
	if err := c.get(ctx, fmt.Sprintf("/%s/player-stats", url.PathEscape(statType)), params, &rows); err != nil {
		return nil, err
	}

	series := make([]models.SeasonValue, 0, len(rows))
	for _, row := range rows {
		season, err := row["season"].Int64()
		if err != nil {
			return nil, fmt.Errorf("decoding season for %s: %w", player, err)
		}
		value, err := numberField(row, stat)
		if err != nil {
			return nil, fmt.Errorf("decoding %s for %s: %w", stat, player, err)
		}
		series = append(series, models.SeasonValue{Season: int(season), Value: value})
	}
	return series, nil
}

// Scatter fetches per-player aggregates of two stats
func (c *Client) Scatter(ctx context.Context, statType string, q models.ScatterQuery) ([]models.ScatterPoint, error) {
	params := url.Values{}
	params.Set("primaryStat", q.PrimaryStat)
	params.Set("secondaryStat", q.SecondaryStat)
	if q.StartYear != nil {
		params.Set("startYear", strconv.Itoa(*q.StartYear))
	}
	if q.EndYear != nil {
		params.Set("endYear", strconv.Itoa(*q.EndYear))
	}
	if q.Aggregate != "" {
		params.Set("aggregate", q.Aggregate)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var rows []map[string]interface{}
	if err := c.get(ctx, fmt.Sprintf("/%s/scatter-data", url.PathEscape(statType)), params, &rows); err != nil {
		return nil, err
	}

	points := make([]models.ScatterPoint, 0, len(rows))
	for _, row := range rows {
		player, ok := row["player"].(string)
		if !ok {
			return nil, errors.New("decoding scatter row: missing player")
		}
		primary, err := anyNumber(row[q.PrimaryStat])
		if err != nil {
			return nil, fmt.Errorf("decoding %s for %s: %w", q.PrimaryStat, player, err)
		}
		secondary, err := anyNumber(row[q.SecondaryStat])
		if err != nil {
			return nil, fmt.Errorf("decoding %s for %s: %w", q.SecondaryStat, player, err)
		}
		points = append(points, models.ScatterPoint{Player: player, Primary: primary, Secondary: secondary})
	}
	return points, nil
}

// Players fetches ranked player names for the option lists and search
func (c *Client) Players(ctx context.Context, statType string, q models.PlayerQuery) ([]string, error) {
	params := url.Values{}
	if q.Query != "" {
		params.Set("query", q.Query)
	}
	if q.Stat != "" {
		params.Set("stat", q.Stat)
	}
	if q.StartYear != nil {
		params.Set("startYear", strconv.Itoa(*q.StartYear))
	}
	if q.EndYear != nil {
		params.Set("endYear", strconv.Itoa(*q.EndYear))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	var rows []models.PlayerRow
	if err := c.get(ctx, fmt.Sprintf("/%s/players", url.PathEscape(statType)), params, &rows); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Player)
	}
	return names, nil
}

// NumericColumns fetches the stat columns of a stat type
func (c *Client) NumericColumns(ctx context.Context, statType string) ([]string, error) {
	var cols []string
	if err := c.get(ctx, fmt.Sprintf("/%s/numeric-columns", url.PathEscape(statType)), nil, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// get makes an HTTP GET request with retries and decodes the JSON body into dest
func (c *Client) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	return c.retry.Execute(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, "GET", target, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("making request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
			if resp.StatusCode < 500 {
				return retry.Permanent(statusErr)
			}
			return statusErr
		}

		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return retry.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	})
}

func numberField(row map[string]json.Number, key string) (float64, error) {
	n, ok := row[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	return n.Float64()
}

func anyNumber(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		// Postgres numeric aggregates can arrive as strings
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
