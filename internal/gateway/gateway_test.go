package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-checkoutfields/pkg/model"
	"github.com/goliatone/go-checkoutfields/pkg/orderfields"
	"github.com/goliatone/go-checkoutfields/pkg/registry"
)

// grantAll authorizes every capability.
type grantAll struct{}

func (grantAll) Allow(*http.Request, Capability) bool { return true }

// grantNone denies every capability.
type grantNone struct{}

func (grantNone) Allow(*http.Request, Capability) bool { return false }

func newRouter(t *testing.T, caps CapabilityChecker) (chi.Router, *orderfields.MemoryStore) {
	t.Helper()

	registrySvc := registry.New(registry.NewMemoryStore(""))
	orderStore := orderfields.NewMemoryStore()
	orderSvc := orderfields.New(registrySvc, orderStore)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := New(logger, registrySvc, orderSvc, caps, nil)

	router := chi.NewRouter()
	handler.Register(router)
	return router, orderStore
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestMissingCapabilityIsForbidden(t *testing.T) {
	router, _ := newRouter(t, grantNone{})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/fields", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "forbidden", body["error"])
}

func TestSaveAndListFields(t *testing.T) {
	router, _ := newRouter(t, grantAll{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/fields", map[string]any{
		"fields": []model.FieldDefinition{
			{ID: "dietary", Label: "Dietary", Type: model.FieldTypeText, Enabled: true},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Fields saved successfully", body["message"])

	rec = doJSON(t, router, http.MethodGet, "/api/v1/fields", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body = decode(t, rec)
	assert.Equal(t, float64(1), body["count"])
	fields, ok := body["fields"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 1)
}

func TestSaveFieldsValidationFailure(t *testing.T) {
	router, _ := newRouter(t, grantAll{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/fields", map[string]any{
		"fields": []model.FieldDefinition{
			{ID: "", Label: "", Type: model.FieldTypeText},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	violations, ok := body["violations"].([]any)
	require.True(t, ok, "expected violations list, got %v", body)
	assert.NotEmpty(t, violations)
}

func TestSaveFieldsRejectsMalformedBody(t *testing.T) {
	router, _ := newRouter(t, grantAll{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fields", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decode(t, rec)["error"])
}

func TestGetAndDeleteField(t *testing.T) {
	router, _ := newRouter(t, grantAll{})

	doJSON(t, router, http.MethodPost, "/api/v1/fields", map[string]any{
		"fields": []model.FieldDefinition{
			{ID: "dietary", Label: "Dietary", Type: model.FieldTypeText, Enabled: true},
		},
	})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/fields/dietary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/fields/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/fields/dietary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/fields/dietary", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderMetaRoundTrip(t *testing.T) {
	router, orderStore := newRouter(t, grantAll{})
	orderStore.AddOrder("order-7")

	ctx := context.Background()
	require.NoError(t, orderStore.SaveValues(ctx, "order-7", []model.ValueRecord{{
		FieldID: "extra_field", Key: "_extra_field", Value: "ring twice",
		Label: model.DefaultLegacyLabel, Type: model.FieldTypeText,
	}}))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/order-meta/order-7", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "order-7", body["order_id"])
	records, ok := body["custom_fields"].([]any)
	require.True(t, ok)
	require.Len(t, records, 1)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/order-meta/order-7", map[string]any{
		"fields": []orderfields.FieldChange{
			{Key: "_extra_field", Value: "leave at door"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := orderStore.Values(ctx, "order-7")
	require.NoError(t, err)
	assert.Equal(t, "leave at door", stored["_extra_field"].Value)
	require.Len(t, orderStore.Notes("order-7"), 1)
}

func TestOrderMetaUnknownOrder(t *testing.T) {
	router, _ := newRouter(t, grantAll{})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/order-meta/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
