package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	importapp "github.com/shopbridge/backend/internal/application/importing"
	"github.com/shopbridge/backend/internal/domain/importing"
	"github.com/shopbridge/backend/internal/domain/shared"
	csvimport "github.com/shopbridge/backend/internal/infrastructure/import"
)

type stubImportService struct {
	result  *importing.Result
	run     *importing.ImportRun
	err     error
	lastReq importapp.ImportRequest

	runs    []*importing.ImportRun
	total   int64
	listErr error
	getErr  error
}

func (s *stubImportService) ImportOrders(ctx context.Context, req importapp.ImportRequest) (*importing.Result, *importing.ImportRun, error) {
	s.lastReq = req
	return s.result, s.run, s.err
}

func (s *stubImportService) GetRun(ctx context.Context, id string) (*importing.ImportRun, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.run, nil
}

func (s *stubImportService) ListRuns(ctx context.Context, limit, offset int) ([]*importing.ImportRun, int64, error) {
	return s.runs, s.total, s.listErr
}

func newImportRouter(svc ImportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewImportHandler(svc).RegisterRoutes(api)
	return engine
}

func testRun(t *testing.T) *importing.ImportRun {
	t.Helper()
	run, err := importing.NewImportRun("demo.myshopify.com", importing.SourceText, "", 0)
	require.NoError(t, err)
	return run
}

func okResult() *importing.Result {
	return &importing.Result{
		Summary: importing.Summary{ShopDomain: "demo.myshopify.com", TotalRows: 1, Created: 1},
		Results: []importing.RowOutcome{{Index: 0, Status: importing.RowStatusCreated, OrderID: 1001}},
	}
}

func TestImportOrdersEndpoint(t *testing.T) {
	t.Run("multipart file upload", func(t *testing.T) {
		svc := &stubImportService{result: okResult(), run: testRun(t)}
		engine := newImportRouter(svc)

		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", "orders.csv")
		require.NoError(t, err)
		_, _ = part.Write([]byte("NUM_SERIE,Producto\nSER-1,Camiseta\n"))
		require.NoError(t, writer.WriteField("mark_paid", "true"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/import/orders", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "orders.csv", svc.lastReq.Source.FileName)
		assert.Contains(t, string(svc.lastReq.Source.FileBytes), "SER-1")
		assert.True(t, svc.lastReq.MarkPaid)
		assert.False(t, svc.lastReq.DryRun)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				RunID   string            `json:"run_id"`
				Summary importing.Summary `json:"summary"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, svc.run.ID.String(), resp.Data.RunID)
		assert.Equal(t, 1, resp.Data.Summary.Created)
	})

	t.Run("inline csv text with dry run", func(t *testing.T) {
		svc := &stubImportService{result: okResult(), run: testRun(t)}
		engine := newImportRouter(svc)

		form := url.Values{}
		form.Set("csv_text", "NUM_SERIE\nSER-1\n")
		form.Set("dry_run", "true")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/import/orders", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "NUM_SERIE\nSER-1\n", svc.lastReq.Source.Text)
		assert.True(t, svc.lastReq.DryRun)
	})

	t.Run("missing source maps to bad request", func(t *testing.T) {
		svc := &stubImportService{err: csvimport.ErrNoSource}
		engine := newImportRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/import/orders", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_SOURCE_INVALID")
	})

	t.Run("malformed csv url rejected by validation", func(t *testing.T) {
		svc := &stubImportService{result: okResult()}
		engine := newImportRouter(svc)

		form := url.Values{}
		form.Set("csv_url", "not a url")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/import/orders", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_VALIDATION")
	})
}

func TestRunEndpoints(t *testing.T) {
	t.Run("get run", func(t *testing.T) {
		run := testRun(t)
		svc := &stubImportService{run: run}
		engine := newImportRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/runs/"+run.ID.String(), nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), run.ID.String())
	})

	t.Run("unknown run is 404", func(t *testing.T) {
		svc := &stubImportService{getErr: shared.ErrNotFound}
		engine := newImportRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/runs/3f1c2c1e-0000-0000-0000-000000000000", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad run id is 400", func(t *testing.T) {
		svc := &stubImportService{getErr: shared.NewDomainError("INVALID_RUN_ID", "Run id must be a UUID")}
		engine := newImportRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/runs/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list runs with meta", func(t *testing.T) {
		svc := &stubImportService{runs: []*importing.ImportRun{testRun(t), testRun(t)}, total: 7}
		engine := newImportRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/runs?limit=2&offset=2", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Meta struct {
				Total  int64 `json:"total"`
				Limit  int   `json:"limit"`
				Offset int   `json:"offset"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Limit)
		assert.Equal(t, 2, resp.Meta.Offset)
	})

	t.Run("limit above cap rejected", func(t *testing.T) {
		svc := &stubImportService{}
		engine := newImportRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/import/runs?limit=5000", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
