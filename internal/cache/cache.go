// Package cache is a content-addressed store for expensive generation
// responses, with TTL expiry and hit counting.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ziadkadry99/notebase/internal/db"
)

// DefaultTTL is the freshness window applied when none is configured.
const DefaultTTL = 24 * time.Hour

// Stats summarizes cache contents and efficiency.
type Stats struct {
	Total     int     `json:"total"`
	Valid     int     `json:"valid"`
	Expired   int     `json:"expired"`
	TotalHits int     `json:"total_hits"`
	HitRate   float64 `json:"hit_rate"`
}

// ResponseCache caches generation responses keyed by a deterministic
// hash over the exact request payload.
type ResponseCache struct {
	db  *db.DB
	ttl time.Duration
	now func() time.Time
}

// New creates a ResponseCache backed by the given database. A zero ttl
// falls back to DefaultTTL.
func New(database *db.DB, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{db: database, ttl: ttl, now: time.Now}
}

// Key derives the cache key for a request: SHA-256 over a canonical
// JSON serialization of prompt, model, and all call parameters.
// encoding/json sorts map keys, so semantically identical calls hash
// identically regardless of call-site parameter ordering.
func Key(prompt, model string, params map[string]any) string {
	payload := struct {
		Prompt string         `json:"prompt"`
		Model  string         `json:"model"`
		Params map[string]any `json:"params,omitempty"`
	}{Prompt: prompt, Model: model, Params: params}

	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached response for the request, or ok=false both
// when never stored and when stored-but-expired. Expired rows are never
// returned but are not deleted here. A hit increments the row's
// hit_count.
func (c *ResponseCache) Get(ctx context.Context, prompt, model string, params map[string]any) (string, bool, error) {
	key := Key(prompt, model, params)
	now := float64(c.now().UnixNano()) / 1e9

	var response string
	err := c.db.QueryRowContext(ctx, `
		SELECT response FROM response_cache
		WHERE cache_key = ? AND expires_at > ?`, key, now).Scan(&response)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache: %w", err)
	}

	if _, err := c.db.ExecContext(ctx,
		"UPDATE response_cache SET hit_count = hit_count + 1 WHERE cache_key = ?", key); err != nil {
		return "", false, fmt.Errorf("updating hit count: %w", err)
	}

	return response, true, nil
}

// Set stores a response with expires_at = now + ttl. Re-setting the
// same key preserves its accumulated hit_count.
func (c *ResponseCache) Set(ctx context.Context, prompt, model, response string, metadata map[string]any, params map[string]any) error {
	key := Key(prompt, model, params)
	now := float64(c.now().UnixNano()) / 1e9
	expiresAt := now + c.ttl.Seconds()

	var metadataJSON sql.NullString
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("marshalling cache metadata: %w", err)
		}
		metadataJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO response_cache
		(cache_key, response, metadata, created_at, expires_at, hit_count)
		VALUES (?, ?, ?, ?, ?, COALESCE(
			(SELECT hit_count FROM response_cache WHERE cache_key = ?), 0))`,
		key, response, metadataJSON, now, expiresAt, key,
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// SweepExpired physically deletes rows past expiry, returning the count
// removed.
func (c *ResponseCache) SweepExpired(ctx context.Context) (int64, error) {
	now := float64(c.now().UnixNano()) / 1e9
	res, err := c.db.ExecContext(ctx, "DELETE FROM response_cache WHERE expires_at <= ?", now)
	if err != nil {
		return 0, fmt.Errorf("sweeping cache: %w", err)
	}
	return res.RowsAffected()
}

// ClearAll removes every cache row, returning the count removed.
func (c *ResponseCache) ClearAll(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM response_cache")
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}

// GetStats returns cache totals and the overall hit rate.
func (c *ResponseCache) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats

	if err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(hit_count), 0) FROM response_cache").
		Scan(&stats.Total, &stats.TotalHits); err != nil {
		return nil, fmt.Errorf("reading cache stats: %w", err)
	}

	now := float64(c.now().UnixNano()) / 1e9
	if err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM response_cache WHERE expires_at <= ?", now).
		Scan(&stats.Expired); err != nil {
		return nil, fmt.Errorf("reading cache stats: %w", err)
	}

	stats.Valid = stats.Total - stats.Expired
	if stats.Total+stats.TotalHits > 0 {
		stats.HitRate = float64(stats.TotalHits) / float64(stats.Total+stats.TotalHits) * 100
	}
	return &stats, nil
}
