package toolsapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// stubAdminAPI is a scriptable OrderAdminAPI recording every call
type stubAdminAPI struct {
	orders            []integration.OrderSummary
	listErr           error
	closeErr          map[string]error
	deleteErr         map[string]error
	fulfillmentOrders map[string][]string
	fulfillErr        map[string]error

	lastQuery string
	closed    []string
	deleted   []string
	fulfilled []string
	notified  []bool
}

func newStubAdminAPI(orders ...integration.OrderSummary) *stubAdminAPI {
	return &stubAdminAPI{
		orders:            orders,
		closeErr:          make(map[string]error),
		deleteErr:         make(map[string]error),
		fulfillmentOrders: make(map[string][]string),
		fulfillErr:        make(map[string]error),
	}
}

func (s *stubAdminAPI) ListOrders(ctx context.Context, query string, limit int) ([]integration.OrderSummary, error) {
	s.lastQuery = query
	if s.listErr != nil {
		return nil, s.listErr
	}
	if limit < len(s.orders) {
		return s.orders[:limit], nil
	}
	return s.orders, nil
}

func (s *stubAdminAPI) CloseOrder(ctx context.Context, orderGID string) error {
	if err := s.closeErr[orderGID]; err != nil {
		return err
	}
	s.closed = append(s.closed, orderGID)
	return nil
}

func (s *stubAdminAPI) DeleteOrder(ctx context.Context, orderGID string) (string, error) {
	if err := s.deleteErr[orderGID]; err != nil {
		return "", err
	}
	s.deleted = append(s.deleted, orderGID)
	return orderGID, nil
}

func (s *stubAdminAPI) ListFulfillmentOrders(ctx context.Context, orderGID string) ([]string, error) {
	return s.fulfillmentOrders[orderGID], nil
}

func (s *stubAdminAPI) CreateFulfillment(ctx context.Context, fulfillmentOrderGID string, notifyCustomer bool) error {
	if err := s.fulfillErr[fulfillmentOrderGID]; err != nil {
		return err
	}
	s.fulfilled = append(s.fulfilled, fulfillmentOrderGID)
	s.notified = append(s.notified, notifyCustomer)
	return nil
}

func openOrder(id string) integration.OrderSummary {
	return integration.OrderSummary{ID: id, Name: "#" + id, CreatedAt: time.Now()}
}

func closedOrder(id string) integration.OrderSummary {
	now := time.Now()
	o := openOrder(id)
	o.ClosedAt = &now
	return o
}

func TestDeleteImportedOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("open orders closed before deletion", func(t *testing.T) {
		api := newStubAdminAPI(openOrder("gid/1"), closedOrder("gid/2"))
		svc := NewOrderToolsService(api, nil)

		report, err := svc.DeleteImportedOrders(ctx, Request{})
		require.NoError(t, err)

		assert.Equal(t, "tag:imported-csv", api.lastQuery)
		assert.Equal(t, 2, report.Processed)
		assert.Equal(t, 2, report.Succeeded)
		assert.Equal(t, []string{"gid/1"}, api.closed, "already closed orders skip the close call")
		assert.Equal(t, []string{"gid/1", "gid/2"}, api.deleted)
	})

	t.Run("one failing order does not abort the batch", func(t *testing.T) {
		api := newStubAdminAPI(openOrder("gid/1"), openOrder("gid/2"), openOrder("gid/3"))
		api.deleteErr["gid/2"] = errors.New("order locked")
		svc := NewOrderToolsService(api, nil)

		report, err := svc.DeleteImportedOrders(ctx, Request{Limit: 10})
		require.NoError(t, err)

		assert.Equal(t, 3, report.Processed)
		assert.Equal(t, 2, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, "gid/2", report.Errors[0].OrderID)
		assert.Contains(t, report.Errors[0].Message, "order locked")
	})

	t.Run("close failure counts as order failure", func(t *testing.T) {
		api := newStubAdminAPI(openOrder("gid/1"))
		api.closeErr["gid/1"] = errors.New("close rejected")
		svc := NewOrderToolsService(api, nil)

		report, err := svc.DeleteImportedOrders(ctx, Request{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
		assert.Empty(t, api.deleted, "failed close never reaches delete")
	})

	t.Run("listing failure fails the invocation", func(t *testing.T) {
		api := newStubAdminAPI()
		api.listErr = integration.ErrPlatformUnavailable
		svc := NewOrderToolsService(api, nil)

		_, err := svc.DeleteImportedOrders(ctx, Request{Limit: 10})
		assert.ErrorIs(t, err, integration.ErrPlatformUnavailable)
	})

	t.Run("empty batch reports zero", func(t *testing.T) {
		svc := NewOrderToolsService(newStubAdminAPI(), nil)
		report, err := svc.DeleteImportedOrders(ctx, Request{Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, report.Processed)
	})

	t.Run("dry run lists matches and touches nothing", func(t *testing.T) {
		api := newStubAdminAPI(openOrder("gid/1"), openOrder("gid/2"))
		svc := NewOrderToolsService(api, nil)

		report, err := svc.DeleteImportedOrders(ctx, Request{Limit: 10, DryRun: true})
		require.NoError(t, err)

		assert.True(t, report.DryRun)
		assert.Equal(t, 2, report.Processed)
		assert.Zero(t, report.Succeeded)
		require.Len(t, report.Matched, 2)
		assert.Equal(t, "gid/1", report.Matched[0].OrderID)
		assert.Empty(t, api.closed)
		assert.Empty(t, api.deleted)
	})

	t.Run("custom query overrides the import tag", func(t *testing.T) {
		api := newStubAdminAPI()
		svc := NewOrderToolsService(api, nil)

		_, err := svc.DeleteImportedOrders(ctx, Request{Query: "created_at:<2024-01-01", Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, "created_at:<2024-01-01", api.lastQuery)
	})
}

func TestFulfillUnfulfilledOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("every open fulfillment order fulfilled", func(t *testing.T) {
		api := newStubAdminAPI(openOrder("gid/1"), openOrder("gid/2"))
		api.fulfillmentOrders["gid/1"] = []string{"fo/1a", "fo/1b"}
		api.fulfillmentOrders["gid/2"] = []string{"fo/2a"}
		svc := NewOrderToolsService(api, nil)

		report, err := svc.FulfillUnfulfilledOrders(ctx, Request{Limit: 10, NotifyCustomer: true})
		require.NoError(t, err)

		assert.Equal(t, "fulfillment_status:unfulfilled", api.lastQuery)
		assert.Equal(t, 2, report.Succeeded)
		assert.ElementsMatch(t, []string{"fo/1a", "fo/1b", "fo/2a"}, api.fulfilled)
		for _, notified := range api.notified {
			assert.True(t, notified)
		}
	})

	t.Run("order with no open fulfillment orders succeeds as noop", func(t *testing.T) {
		api := newStubAdminAPI(openOrder("gid/1"))
		svc := NewOrderToolsService(api, nil)

		report, err := svc.FulfillUnfulfilledOrders(ctx, Request{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Succeeded)
		assert.Empty(t, api.fulfilled)
	})

	t.Run("fulfillment failure recorded per order", func(t *testing.T) {
		api := newStubAdminAPI(openOrder("gid/1"), openOrder("gid/2"))
		api.fulfillmentOrders["gid/1"] = []string{"fo/1a"}
		api.fulfillmentOrders["gid/2"] = []string{"fo/2a"}
		api.fulfillErr["fo/2a"] = errors.New("location mismatch")
		svc := NewOrderToolsService(api, nil)

		report, err := svc.FulfillUnfulfilledOrders(ctx, Request{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, "gid/2", report.Errors[0].OrderID)
	})

	t.Run("limit clamps the batch", func(t *testing.T) {
		api := newStubAdminAPI(openOrder("gid/1"), openOrder("gid/2"), openOrder("gid/3"))
		svc := NewOrderToolsService(api, nil)

		report, err := svc.FulfillUnfulfilledOrders(ctx, Request{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, report.Processed)
	})
}
