package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genricycle/internal/config"
	"genricycle/internal/database"
	"genricycle/internal/metrics"
	"genricycle/internal/middlewares"
	"genricycle/internal/routes"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testAPI struct {
	t       *testing.T
	router  *gin.Engine
	backend database.Backend
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	m := metrics.NewService()
	backend := database.NewSQLite(filepath.Join(t.TempDir(), "genricycle.db"), database.WithTracer(m.Tracer()))
	require.NoError(t, backend.Bootstrap(context.Background()))
	return newTestAPIWith(t, backend, m)
}

func newTestAPIWith(t *testing.T, backend database.Backend, m *metrics.Service) *testAPI {
	cfg := config.ServerConfig{Env: "development", CORSOrigins: "*"}
	return &testAPI{t: t, router: routes.NewRouter(cfg, backend, m), backend: backend}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) count(table string) int64 {
	a.t.Helper()
	ctx := context.Background()
	conn, err := a.backend.Connect(ctx)
	require.NoError(a.t, err)
	defer conn.Close(ctx)
	n, err := database.CountRows(ctx, conn, table)
	require.NoError(a.t, err)
	return n
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type envelope struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func TestCatalogHandler(t *testing.T) {
	api := newTestAPI(t)

	t.Run("Should list medicines ordered by name", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/medicines", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		medicines := decode[[]map[string]any](t, rec)
		require.Len(t, medicines, 9)
		assert.Equal(t, "Amoxicillin 500mg Capsules", medicines[0]["name"])
		assert.Equal(t, "Antibiotic", medicines[0]["category_name"])
	})

	t.Run("Should list categories", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/categories", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]map[string]any](t, rec), 8)
	})

	t.Run("Should list doctors", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/doctors", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		doctors := decode[[]map[string]any](t, rec)
		require.Len(t, doctors, 3)
		assert.Equal(t, "Aisha Khan", doctors[0]["name"])
	})

	t.Run("Should join lab names into lab tests", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/lab-tests", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		tests := decode[[]map[string]any](t, rec)
		require.Len(t, tests, 3)
		for _, lt := range tests {
			assert.NotEmpty(t, lt["lab_name"])
			assert.NotEmpty(t, lt["city"])
		}
	})
}

func TestAuthHandler(t *testing.T) {
	api := newTestAPI(t)
	signup := map[string]any{"name": "Asha", "email": "asha@example.com", "password": "pa55word"}

	t.Run("Should sign up and log in", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/signup", signup)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "password_hash")

		rec = api.do(http.MethodPost, "/api/login", map[string]any{"email": "asha@example.com", "password": "pa55word"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode[struct {
			Status string         `json:"status"`
			User   map[string]any `json:"user"`
		}](t, rec)
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "asha@example.com", body.User["email"])
		assert.Equal(t, "Asha", body.User["name"])
		assert.Equal(t, "customer", body.User["role"])
	})

	t.Run("Should reject a duplicate email with 409", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/signup", signup)
		require.Equal(t, http.StatusConflict, rec.Code)
		body := decode[envelope](t, rec)
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "conflict", body.Code)
	})

	t.Run("Should reject a wrong password with 401", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/login", map[string]any{"email": "asha@example.com", "password": "nope-nope"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthorized", decode[envelope](t, rec).Code)
	})

	t.Run("Should reject an unknown email with 401", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/login", map[string]any{"email": "ghost@example.com", "password": "whatever"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Should validate the signup body", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/signup", map[string]any{"email": "not-an-email", "password": "x"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", decode[envelope](t, rec).Code)
	})
}

func TestUserHandler(t *testing.T) {
	api := newTestAPI(t)

	t.Run("Should require the email parameter", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/user", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", decode[envelope](t, rec).Code)
	})

	t.Run("Should return 404 for an unknown email", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/user?email=nobody@example.com", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decode[envelope](t, rec).Code)
	})

	t.Run("Should create then update by email", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/user", map[string]any{"email": "ravi@example.com", "phone": "+91-1"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created := decode[struct {
			Status string         `json:"status"`
			User   map[string]any `json:"user"`
		}](t, rec)
		assert.Equal(t, "created", created.Status)
		assert.Equal(t, "User", created.User["name"])
		assert.Nil(t, created.User["language"])

		rec = api.do(http.MethodPost, "/api/user", map[string]any{
			"email": "ravi@example.com", "name": "Ravi", "language": "hi", "currency": "INR",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decode[struct {
			Status string         `json:"status"`
			User   map[string]any `json:"user"`
		}](t, rec)
		assert.Equal(t, "updated", updated.Status)
		assert.Equal(t, created.User["id"], updated.User["id"])
		assert.Equal(t, "hi", updated.User["language"])

		rec = api.do(http.MethodGet, "/api/user?email=ravi@example.com", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "INR", decode[map[string]any](t, rec)["currency"])
	})

	t.Run("Should return 404 when deleting an unknown email", func(t *testing.T) {
		rec := api.do(http.MethodDelete, "/api/user?email=nobody@example.com", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Should cascade a delete to addresses and orders", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/user", map[string]any{"email": "neha@example.com", "name": "Neha"})
		require.Equal(t, http.StatusCreated, rec.Code)
		rec = api.do(http.MethodPost, "/api/addresses", map[string]any{
			"email": "neha@example.com", "line1": "12 MG Road", "city": "Pune", "pincode": "411001", "is_default": true,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		rec = api.do(http.MethodPost, "/api/orders", map[string]any{
			"email": "neha@example.com", "items": []map[string]any{{"medicine_id": 1, "quantity": 2}},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.EqualValues(t, 1, api.count("addresses"))
		require.EqualValues(t, 1, api.count("order_items"))

		rec = api.do(http.MethodDelete, "/api/user?email=neha@example.com", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Zero(t, api.count("addresses"))
		assert.Zero(t, api.count("orders"))
		assert.Zero(t, api.count("order_items"))
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/user?email=neha@example.com", nil).Code)
	})
}

func TestOrderHandler(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusCreated,
		api.do(http.MethodPost, "/api/user", map[string]any{"email": "buyer@example.com", "name": "Buyer"}).Code)

	t.Run("Should price an order from the catalog", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/medicines", nil)
		medicines := decode[[]map[string]any](t, rec)
		id := medicines[0]["id"]
		price := medicines[0]["price"].(float64)

		rec = api.do(http.MethodPost, "/api/orders", map[string]any{
			"email": "buyer@example.com", "items": []map[string]any{{"medicine_id": id, "quantity": 3}},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		order := decode[map[string]any](t, rec)
		assert.Equal(t, "pending", order["status"])
		assert.InDelta(t, price*3, order["total_amount"].(float64), 0.001)

		rec = api.do(http.MethodGet, "/api/orders?email=buyer@example.com", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		orders := decode[[]map[string]any](t, rec)
		require.Len(t, orders, 1)
		assert.Len(t, orders[0]["items"], 1)
	})

	t.Run("Should reject unknown medicines", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/orders", map[string]any{
			"email": "buyer@example.com", "items": []map[string]any{{"medicine_id": 999, "quantity": 1}},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", decode[envelope](t, rec).Code)
	})

	t.Run("Should return 404 for orders of an unknown user", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/orders?email=ghost@example.com", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Should trim the email query like the user endpoint", func(t *testing.T) {
		require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/user?email=%20buyer@example.com", nil).Code)
		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/addresses?email=%20buyer@example.com", nil).Code)
		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/orders?email=buyer@example.com%20", nil).Code)
	})

	t.Run("Should keep one default address", func(t *testing.T) {
		for _, line := range []string{"First St", "Second St"} {
			rec := api.do(http.MethodPost, "/api/addresses", map[string]any{
				"email": "buyer@example.com", "line1": line, "is_default": true,
			})
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		}
		rec := api.do(http.MethodGet, "/api/addresses?email=buyer@example.com", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		addresses := decode[[]map[string]any](t, rec)
		require.Len(t, addresses, 2)
		assert.Equal(t, "Second St", addresses[0]["line1"])
		assert.Equal(t, true, addresses[0]["is_default"])
		assert.Equal(t, false, addresses[1]["is_default"])
	})
}

func TestSchemaHandler(t *testing.T) {
	api := newTestAPI(t)

	t.Run("Should describe the database", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/db/summary", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		report := decode[struct {
			Engine  string                    `json:"engine"`
			Tables  []string                  `json:"tables"`
			Summary map[string]map[string]any `json:"summary"`
		}](t, rec)
		assert.Equal(t, "sqlite", report.Engine)
		assert.Len(t, report.Tables, len(database.Tables))
		assert.EqualValues(t, 9, report.Summary["medicines"]["row_count"])
		assert.Equal(t, []any{}, report.Summary["orders"]["sample_rows"])
	})

	t.Run("Should render a mermaid diagram", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/db/diagram", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[struct {
			Data struct {
				Mermaid string `json:"mermaid"`
			} `json:"data"`
		}](t, rec)
		assert.Contains(t, body.Data.Mermaid, "erDiagram")
		assert.Contains(t, body.Data.Mermaid, "CATEGORIES ||--o{ MEDICINES")
	})
}

func TestHealthAndMetrics(t *testing.T) {
	t.Run("Should report healthy and tag the request", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(http.MethodGet, "/healthz", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(middlewares.RequestIDHeader))
		assert.Equal(t, "sqlite", decode[map[string]any](t, rec)["engine"])
	})

	t.Run("Should count statements", func(t *testing.T) {
		api := newTestAPI(t)
		api.do(http.MethodGet, "/api/categories", nil)
		rec := api.do(http.MethodGet, "/metrics", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `genricycle_sql_statements_total{engine="sqlite",verb="SELECT"}`)
	})

	t.Run("Should map an unreachable store to 503", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
		api := newTestAPIWith(t, database.NewSQLite(filepath.Join(blocker, "genricycle.db")), metrics.NewService())

		rec := api.do(http.MethodGet, "/healthz", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "internal_error", decode[envelope](t, rec).Code)
	})
}
