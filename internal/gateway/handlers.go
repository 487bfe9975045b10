package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-checkoutfields/pkg/model"
	"github.com/goliatone/go-checkoutfields/pkg/orderfields"
)

type saveFieldsRequest struct {
	Fields []model.FieldDefinition `json:"fields"`
}

type updateOrderMetaRequest struct {
	Fields []orderfields.FieldChange `json:"fields"`
}

func (h *Handler) handleListFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.registry.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.observe("list_fields")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"fields":  fields,
		"count":   len(fields),
	})
}

func (h *Handler) handleSaveFields(w http.ResponseWriter, r *http.Request) {
	var req saveFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid save fields request", "error", err)
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	saved, err := h.registry.Save(r.Context(), req.Fields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.observe("save_fields")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Fields saved successfully",
		"fields":  saved,
	})
}

func (h *Handler) handleGetField(w http.ResponseWriter, r *http.Request) {
	field, err := h.registry.FieldByID(r.Context(), chi.URLParam(r, "fieldID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.observe("get_field")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"field":   field,
	})
}

func (h *Handler) handleDeleteField(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Delete(r.Context(), chi.URLParam(r, "fieldID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.observe("delete_field")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Field deleted successfully",
	})
}

func (h *Handler) handleGetOrderMeta(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	records, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.observe("get_order_meta")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"order_id":      orderID,
		"custom_fields": records,
	})
}

func (h *Handler) handleUpdateOrderMeta(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req updateOrderMetaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid order meta request", "order_id", orderID, "error", err)
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	if err := h.orders.Update(r.Context(), orderID, req.Fields); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.observe("update_order_meta")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Order meta updated successfully",
		"order_id": orderID,
	})
}

func (h *Handler) observe(op string) {
	if h.metrics != nil {
		h.metrics.RequestServed(op)
	}
}
