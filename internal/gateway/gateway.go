// Package gateway is the thin HTTP layer over the field registry and the
// order field store. Handlers delegate to the services and translate the
// error taxonomy into JSON responses; authorization is a capability check
// delegated to the host platform.
package gateway

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-checkoutfields/internal/platform/metrics"
	"github.com/goliatone/go-checkoutfields/pkg/model"
	"github.com/goliatone/go-checkoutfields/pkg/orderfields"
)

// Capability names a host-defined permission the gateway requires.
type Capability string

const (
	// CapabilityManageFields guards schema reads and writes (admin UI).
	CapabilityManageFields Capability = "manage_checkout_fields"

	// CapabilityManageOrders guards order value reads and corrections.
	CapabilityManageOrders Capability = "manage_orders"
)

// CapabilityChecker is implemented by the host platform's permission system.
type CapabilityChecker interface {
	Allow(r *http.Request, capability Capability) bool
}

// RegistryService is the slice of the field registry the gateway exposes.
type RegistryService interface {
	List(ctx context.Context) ([]model.FieldDefinition, error)
	Save(ctx context.Context, fields []model.FieldDefinition) ([]model.FieldDefinition, error)
	FieldByID(ctx context.Context, id string) (model.FieldDefinition, error)
	Delete(ctx context.Context, id string) error
}

// OrderService is the slice of the order field store the gateway exposes.
type OrderService interface {
	Get(ctx context.Context, orderID string) ([]model.ValueRecord, error)
	Update(ctx context.Context, orderID string, changes []orderfields.FieldChange) error
}

// Handler wires the REST routes.
type Handler struct {
	logger   *slog.Logger
	registry RegistryService
	orders   OrderService
	caps     CapabilityChecker
	metrics  *metrics.Metrics
}

// New constructs the gateway handler.
func New(logger *slog.Logger, registry RegistryService, orders OrderService, caps CapabilityChecker, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		registry: registry,
		orders:   orders,
		caps:     caps,
		metrics:  m,
	}
}

// Register mounts the versioned API routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.require(CapabilityManageFields))
			r.Get("/fields", h.handleListFields)
			r.Post("/fields", h.handleSaveFields)
			r.Get("/fields/{fieldID}", h.handleGetField)
			r.Delete("/fields/{fieldID}", h.handleDeleteField)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.require(CapabilityManageOrders))
			r.Get("/order-meta/{orderID}", h.handleGetOrderMeta)
			r.Post("/order-meta/{orderID}", h.handleUpdateOrderMeta)
		})
	})
}

func (h *Handler) require(capability Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h.caps == nil || !h.caps.Allow(r, capability) {
				h.logger.Warn("capability denied",
					"capability", string(capability),
					"path", r.URL.Path,
				)
				writeJSON(w, http.StatusForbidden, errorEnvelope{
					Success: false,
					Error:   "forbidden",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
