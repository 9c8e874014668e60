package ledger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(store *fakeStore) http.Handler {
	r := chi.NewRouter()
	NewHandler(testLogger(), newTestService(store)).MountRoutes(r)
	return r
}

func TestAdjustEndpointAppliesChange(t *testing.T) {
	router := newTestRouter(seedStore())

	body := `{"material_no":"P2","change_type":"sale","quantity":-5,"notes":"counter sale"}`
	req := httptest.NewRequest(http.MethodPost, "/inventory/adjust", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var product Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &product))
	require.Equal(t, "P2", product.MaterialNo)
	require.Equal(t, 15, product.QtyOnHand)
}

func TestAdjustEndpointRejectsUnknownChangeType(t *testing.T) {
	router := newTestRouter(seedStore())

	body := `{"material_no":"P2","change_type":"shrinkage","quantity":-1}`
	req := httptest.NewRequest(http.MethodPost, "/inventory/adjust", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdjustEndpointUnknownProductIs404(t *testing.T) {
	router := newTestRouter(seedStore())

	body := `{"material_no":"NOPE","change_type":"sale","quantity":-1}`
	req := httptest.NewRequest(http.MethodPost, "/inventory/adjust", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBulkAdjustEndpointReportsPartialFailure(t *testing.T) {
	router := newTestRouter(seedStore())

	body := `{"adjustments":[
		{"material_no":"P1","change_type":"restock","quantity":3},
		{"material_no":"MISSING","change_type":"sale","quantity":-1},
		{"material_no":"P2","change_type":"sale","quantity":-1}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/inventory/bulk-adjust", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	var resp bulkAdjustResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	require.NotNil(t, resp.Error)
	require.Equal(t, "MISSING", resp.Error.MaterialNo)
	require.Equal(t, 1, resp.Error.Completed)
}

func TestListLogEndpointRejectsNonNumericLimit(t *testing.T) {
	router := newTestRouter(seedStore())

	req := httptest.NewRequest(http.MethodGet, "/inventory/log?limit=abc", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLowStockEndpoint(t *testing.T) {
	router := newTestRouter(seedStore())

	req := httptest.NewRequest(http.MethodGet, "/inventory/low-stock", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var products []Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	require.Len(t, products, 1)
	require.Equal(t, "P1", products[0].MaterialNo)
}
