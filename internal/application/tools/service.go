package toolsapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/importing"
	"github.com/shopbridge/backend/internal/domain/integration"
)

// DefaultBatchLimit bounds how many orders one tool invocation touches
const DefaultBatchLimit = 50

// UnfulfilledQuery selects orders with outstanding fulfillment work
const UnfulfilledQuery = "fulfillment_status:unfulfilled"

// Request tunes one bulk tool invocation. Zero values select the default
// query and batch limit.
type Request struct {
	Query          string
	Limit          int
	DryRun         bool
	NotifyCustomer bool
}

// OrderRef identifies one matched order in a report
type OrderRef struct {
	OrderID string `json:"order_id"`
	Name    string `json:"name,omitempty"`
}

// OrderError records why one order could not be processed
type OrderError struct {
	OrderID string `json:"order_id"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// Report aggregates the outcome of one bulk tool invocation. Processed is
// always Succeeded plus Failed; a partially failed batch is still a success
// at the invocation level. Dry runs list the matched orders and touch none.
type Report struct {
	Processed int          `json:"processed"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	DryRun    bool         `json:"dry_run,omitempty"`
	Matched   []OrderRef   `json:"matched,omitempty"`
	Errors    []OrderError `json:"errors,omitempty"`
}

// OrderToolsService runs the operational bulk tools against the platform:
// deleting previously imported orders and fulfilling unfulfilled ones. Each
// order is handled independently so one failure never aborts the batch.
type OrderToolsService struct {
	admin  integration.OrderAdminAPI
	logger *zap.Logger
}

// NewOrderToolsService wires the tools against the platform admin API
func NewOrderToolsService(admin integration.OrderAdminAPI, logger *zap.Logger) *OrderToolsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderToolsService{admin: admin, logger: logger}
}

// DeleteImportedOrders removes orders matching the query, defaulting to the
// import tag. Open orders are closed first since the platform refuses to
// delete open ones.
func (s *OrderToolsService) DeleteImportedOrders(ctx context.Context, req Request) (*Report, error) {
	if req.Query == "" {
		req.Query = "tag:" + importing.ImportTag
	}
	report, err := s.run(ctx, req, s.deleteOne)
	if err != nil {
		return nil, err
	}
	s.logger.Info("imported orders deleted",
		zap.String("query", req.Query),
		zap.Bool("dry_run", req.DryRun),
		zap.Int("processed", report.Processed),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// FulfillUnfulfilledOrders creates fulfillments for every open fulfillment
// order of each matched order.
func (s *OrderToolsService) FulfillUnfulfilledOrders(ctx context.Context, req Request) (*Report, error) {
	if req.Query == "" {
		req.Query = UnfulfilledQuery
	}
	report, err := s.run(ctx, req, func(ctx context.Context, order integration.OrderSummary, req Request) error {
		return s.fulfillOne(ctx, order, req.NotifyCustomer)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("unfulfilled orders fulfilled",
		zap.String("query", req.Query),
		zap.Bool("dry_run", req.DryRun),
		zap.Int("processed", report.Processed),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

type orderAction func(ctx context.Context, order integration.OrderSummary, req Request) error

// run lists matching orders and applies the action to each. Dry runs stop
// after listing.
func (s *OrderToolsService) run(ctx context.Context, req Request, action orderAction) (*Report, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	orders, err := s.admin.ListOrders(ctx, req.Query, limit)
	if err != nil {
		return nil, err
	}

	report := &Report{Processed: len(orders), DryRun: req.DryRun}
	if req.DryRun {
		for _, order := range orders {
			report.Matched = append(report.Matched, OrderRef{OrderID: order.ID, Name: order.Name})
		}
		return report, nil
	}

	for _, order := range orders {
		if err := action(ctx, order, req); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, OrderError{
				OrderID: order.ID,
				Name:    order.Name,
				Message: err.Error(),
			})
			s.logger.Warn("bulk order action failed",
				zap.String("order", order.ID),
				zap.Error(err),
			)
			continue
		}
		report.Succeeded++
	}
	return report, nil
}

func (s *OrderToolsService) deleteOne(ctx context.Context, order integration.OrderSummary, _ Request) error {
	if order.ClosedAt == nil && order.CancelledAt == nil {
		if err := s.admin.CloseOrder(ctx, order.ID); err != nil {
			return err
		}
	}
	_, err := s.admin.DeleteOrder(ctx, order.ID)
	return err
}

func (s *OrderToolsService) fulfillOne(ctx context.Context, order integration.OrderSummary, notifyCustomer bool) error {
	fulfillmentOrders, err := s.admin.ListFulfillmentOrders(ctx, order.ID)
	if err != nil {
		return err
	}
	for _, gid := range fulfillmentOrders {
		if err := s.admin.CreateFulfillment(ctx, gid, notifyCustomer); err != nil {
			return err
		}
	}
	return nil
}
