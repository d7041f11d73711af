package importing

// RowStatus is the terminal state of one imported row
type RowStatus string

const (
	RowStatusCreated   RowStatus = "created"
	RowStatusFailed    RowStatus = "failed"
	RowStatusDuplicate RowStatus = "duplicate"
	// RowStatusPreview marks a dry-run row: mapped and keyed, never submitted
	RowStatusPreview RowStatus = "preview"
)

// RowOutcome is the terminal result of one row, keyed by its input index.
// Failed rows keep the computed payload so an operator can inspect or replay
// the exact request that was attempted.
type RowOutcome struct {
	Index          int           `json:"index"`
	Status         RowStatus     `json:"status"`
	OrderID        int64         `json:"order_id,omitempty"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"`
	Error          string        `json:"error,omitempty"`
	Attempts       int           `json:"attempts,omitempty"`
	Payload        *OrderPayload `json:"payload,omitempty"`
}

// Summary reports aggregate counts for one import run.
// Created + Failed + Duplicates always equals TotalRows on a live run;
// on a dry run every row counts under Previewed instead.
type Summary struct {
	ShopDomain string `json:"shop"`
	TotalRows  int    `json:"total_rows"`
	Created    int    `json:"created"`
	Failed     int    `json:"failed"`
	Duplicates int    `json:"duplicates,omitempty"`
	Previewed  int    `json:"previewed,omitempty"`
}

// Result is the caller-facing output of a whole import run. Results are
// ordered by input row index even though rows finish out of order under
// concurrent submission.
type Result struct {
	Summary Summary      `json:"summary"`
	Results []RowOutcome `json:"results"`
}
