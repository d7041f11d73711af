package importapp

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/importing"
	"github.com/shopbridge/backend/internal/domain/integration"
	"github.com/shopbridge/backend/internal/domain/shared"
	csvimport "github.com/shopbridge/backend/internal/infrastructure/import"
)

// ImportRequest describes one import invocation
type ImportRequest struct {
	Source csvimport.Source
	// DryRun parses, normalizes and maps every row without submitting
	DryRun bool
	// MarkPaid forces every generated order to paid regardless of row status
	MarkPaid bool
}

// ImportServiceConfig carries the per-run constants of the pipeline
type ImportServiceConfig struct {
	ShopDomain    string
	Currency      string
	SentinelEmail string
	DedupeEnabled bool
	DedupeTTL     time.Duration
}

// ImportService runs the CSV-to-orders pipeline: resolve the source, parse
// and normalize rows, map them to order payloads and submit them to the
// platform under bounded concurrency. One bad row never aborts the run.
type ImportService struct {
	cfg      ImportServiceConfig
	sources  *csvimport.Resolver
	orders   integration.OrderAPI
	customer *CustomerResolver
	sched    *Scheduler
	dedupe   shared.IdempotencyStore
	runs     importing.ImportRunRepository
	logger   *zap.Logger
}

// NewImportService wires the pipeline. dedupe and runs may be nil when
// cross-run duplicate suppression or history persistence is disabled.
func NewImportService(
	cfg ImportServiceConfig,
	sources *csvimport.Resolver,
	orders integration.OrderAPI,
	customer *CustomerResolver,
	sched *Scheduler,
	dedupe shared.IdempotencyStore,
	runs importing.ImportRunRepository,
	logger *zap.Logger,
) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		cfg:      cfg,
		sources:  sources,
		orders:   orders,
		customer: customer,
		sched:    sched,
		dedupe:   dedupe,
		runs:     runs,
		logger:   logger,
	}
}

// ImportOrders executes one run end to end and returns the per-row outcomes.
// The returned run record is persisted when a repository is configured.
func (s *ImportService) ImportOrders(ctx context.Context, req ImportRequest) (*importing.Result, *importing.ImportRun, error) {
	run, err := importing.NewImportRun(s.cfg.ShopDomain, sourceType(req.Source), req.Source.FileName, int64(len(req.Source.FileBytes)))
	if err != nil {
		return nil, nil, err
	}
	s.saveRun(ctx, run)

	data, err := s.sources.Resolve(ctx, req.Source)
	if err != nil {
		s.failRun(ctx, run, err)
		return nil, run, err
	}

	rows, err := s.parse(data)
	if err != nil {
		s.failRun(ctx, run, err)
		return nil, run, err
	}

	if err := run.StartProcessing(); err != nil {
		return nil, run, err
	}
	s.saveRun(ctx, run)

	runLogger := s.logger.With(zap.String("run_id", run.ID.String()))
	runLogger.Info("import run started",
		zap.String("source", string(run.Source)),
		zap.Int("rows", len(rows)),
		zap.Bool("dry_run", req.DryRun),
		zap.Bool("mark_paid", req.MarkPaid),
	)

	outcomes := s.processRows(ctx, rows, req, runLogger)

	summary := importing.Summary{
		ShopDomain: s.cfg.ShopDomain,
		TotalRows:  len(outcomes),
	}
	for _, outcome := range outcomes {
		switch outcome.Status {
		case importing.RowStatusCreated:
			summary.Created++
		case importing.RowStatusDuplicate:
			summary.Duplicates++
		case importing.RowStatusPreview:
			summary.Previewed++
		default:
			summary.Failed++
		}
	}

	if err := run.Complete(summary); err != nil {
		return nil, run, err
	}
	s.saveRun(ctx, run)

	runLogger.Info("import run finished",
		zap.Int("created", summary.Created),
		zap.Int("failed", summary.Failed),
		zap.Int("duplicates", summary.Duplicates),
	)

	return &importing.Result{Summary: summary, Results: outcomes}, run, nil
}

// parse reads the CSV into raw rows, skipping blank lines
func (s *ImportService) parse(data []byte) ([]*csvimport.Row, error) {
	parser, err := csvimport.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	return parser.ReadAll()
}

// processRows fans the rows out to goroutines. The scheduler bounds how many
// submissions are in flight; everything before submission is cheap.
func (s *ImportService) processRows(ctx context.Context, rows []*csvimport.Row, req ImportRequest, runLogger *zap.Logger) []importing.RowOutcome {
	outcomes := make([]importing.RowOutcome, len(rows))

	var wg sync.WaitGroup
	for i, raw := range rows {
		wg.Add(1)
		go func(index int, raw *csvimport.Row) {
			defer wg.Done()
			outcomes[index] = s.processRow(ctx, index, raw, req, runLogger)
		}(i, raw)
	}
	wg.Wait()

	return outcomes
}

func (s *ImportService) processRow(ctx context.Context, index int, raw *csvimport.Row, req ImportRequest, runLogger *zap.Logger) importing.RowOutcome {
	row := importing.NormalizeRow(raw.Data)
	key := importing.DeriveIdempotencyKey(row)

	payload := importing.MapRowToOrder(row, importing.MapperConfig{
		Currency:      s.cfg.Currency,
		SentinelEmail: s.cfg.SentinelEmail,
	})
	if req.MarkPaid {
		payload.MarkPaid()
	}
	if payload.IsPaid() {
		payload.AttachPaidTransaction()
	}

	outcome := importing.RowOutcome{
		Index:          index,
		IdempotencyKey: key,
		Payload:        payload,
	}

	if req.DryRun {
		outcome.Status = importing.RowStatusPreview
		return outcome
	}

	if s.cfg.DedupeEnabled && s.dedupe != nil {
		claimed, err := s.dedupe.MarkProcessed(ctx, key, s.cfg.DedupeTTL)
		if err != nil {
			// Dedupe is advisory; the platform-side idempotency key still
			// protects against double submission.
			runLogger.Warn("dedupe check failed", zap.Int("row", index), zap.Error(err))
		} else if !claimed {
			outcome.Status = importing.RowStatusDuplicate
			return outcome
		}
	}

	s.resolveCustomer(ctx, row, payload)

	attempts, err := s.sched.Submit(ctx, func(ctx context.Context) error {
		id, err := s.orders.CreateOrder(ctx, payload, key)
		if err != nil {
			return err
		}
		outcome.OrderID = id
		return nil
	})
	outcome.Attempts = attempts

	if err != nil {
		outcome.Status = importing.RowStatusFailed
		outcome.Error = err.Error()
		runLogger.Warn("row submission failed",
			zap.Int("row", index),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return outcome
	}

	outcome.Status = importing.RowStatusCreated
	runLogger.Debug("row submitted",
		zap.Int("row", index),
		zap.Int64("order_id", outcome.OrderID),
		zap.Int("attempts", attempts),
	)
	return outcome
}

// resolveCustomer swaps the inline customer block for a platform customer id
// when the row carries a usable email. The sentinel address is never resolved;
// it would collapse unrelated anonymous buyers into one customer record.
func (s *ImportService) resolveCustomer(ctx context.Context, row importing.CanonicalRow, payload *importing.OrderPayload) {
	if s.customer == nil {
		return
	}
	email := strings.TrimSpace(row.Email)
	if !importing.IsValidEmail(email) || strings.EqualFold(email, s.cfg.SentinelEmail) {
		return
	}
	first, last := importing.SplitName(row.CustomerName)
	if id, ok := s.customer.Resolve(ctx, email, first, last, row.Phone); ok {
		payload.SetCustomerID(id)
	}
}

// GetRun returns one run's history record
func (s *ImportService) GetRun(ctx context.Context, id string) (*importing.ImportRun, error) {
	if s.runs == nil {
		return nil, shared.ErrNotFound
	}
	runID, err := parseRunID(id)
	if err != nil {
		return nil, err
	}
	return s.runs.FindByID(ctx, runID)
}

// ListRuns returns run history newest first
func (s *ImportService) ListRuns(ctx context.Context, limit, offset int) ([]*importing.ImportRun, int64, error) {
	if s.runs == nil {
		return nil, 0, nil
	}
	return s.runs.List(ctx, limit, offset)
}

func (s *ImportService) saveRun(ctx context.Context, run *importing.ImportRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.Warn("failed to persist import run",
			zap.String("run_id", run.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *ImportService) failRun(ctx context.Context, run *importing.ImportRun, cause error) {
	if err := run.Fail(cause.Error()); err != nil {
		return
	}
	s.saveRun(ctx, run)
}

func parseRunID(id string) (uuid.UUID, error) {
	runID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, shared.NewDomainError("INVALID_RUN_ID", "Run id must be a UUID")
	}
	return runID, nil
}

func sourceType(src csvimport.Source) importing.SourceType {
	switch src.Kind() {
	case "text":
		return importing.SourceText
	case "url":
		return importing.SourceURL
	default:
		return importing.SourceFile
	}
}
