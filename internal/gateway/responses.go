package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-checkoutfields/pkg/apperrors"
)

type errorEnvelope struct {
	Success    bool     `json:"success"`
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError translates the error taxonomy into the JSON envelope. Validation
// responses carry the complete violation list; internal details stay in the
// log, not the response.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)

	envelope := errorEnvelope{Success: false}
	switch {
	case status == http.StatusNotFound:
		envelope.Error = err.Error()
	default:
		if ve, ok := apperrors.IsValidation(err); ok {
			envelope.Error = "validation failed"
			envelope.Violations = ve.Violations
			break
		}
		h.logger.Error("request failed",
			"path", r.URL.Path,
			"error", err,
		)
		envelope.Error = "internal error"
	}

	if h.metrics != nil && status == http.StatusUnprocessableEntity {
		h.metrics.ValidationRejected()
	}
	writeJSON(w, status, envelope)
}
