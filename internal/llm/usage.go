package llm

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ziadkadry99/notebase/internal/db"
)

// UsageEntry records one generation call for cost accounting.
type UsageEntry struct {
	ID           string
	Model        string
	Operation    string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Cached       bool
}

// UsageTotals aggregates the usage log.
type UsageTotals struct {
	Calls        int     `json:"calls"`
	CachedCalls  int     `json:"cached_calls"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// UsageLog persists per-call token usage and cost estimates.
type UsageLog struct {
	db *db.DB
}

// NewUsageLog creates a UsageLog backed by the given database.
func NewUsageLog(database *db.DB) *UsageLog {
	return &UsageLog{db: database}
}

// Record inserts a usage entry. If entry.ID is empty a UUID is generated.
// The cost is derived from the price table when not supplied.
func (l *UsageLog) Record(ctx context.Context, entry UsageEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CostUSD == 0 && !entry.Cached {
		entry.CostUSD = EstimateCost(entry.Model, entry.InputTokens, entry.OutputTokens)
	}

	cached := 0
	if entry.Cached {
		cached = 1
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO llm_usage (id, model, operation, input_tokens, output_tokens, cost_usd, cached)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Model, entry.Operation,
		entry.InputTokens, entry.OutputTokens, entry.CostUSD, cached,
	)
	if err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	return nil
}

// Totals returns the aggregated usage across all recorded calls.
func (l *UsageLog) Totals(ctx context.Context) (*UsageTotals, error) {
	var t UsageTotals
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(cached), 0),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0),
		       COALESCE(SUM(cost_usd), 0)
		FROM llm_usage`).
		Scan(&t.Calls, &t.CachedCalls, &t.InputTokens, &t.OutputTokens, &t.CostUSD)
	if err != nil {
		return nil, fmt.Errorf("aggregating usage: %w", err)
	}
	return &t, nil
}
