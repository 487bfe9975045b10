// Package orderfields persists and retrieves per-order field values. It owns
// ValueRecord lifecycle: records are created once at checkout completion,
// mutated only through the audited correction path, and survive any later
// schema edit or deletion.
package orderfields

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-checkoutfields/pkg/apperrors"
	"github.com/goliatone/go-checkoutfields/pkg/fieldtype"
	"github.com/goliatone/go-checkoutfields/pkg/model"
)

// SchemaSource is the slice of the field registry this service consumes.
type SchemaSource interface {
	List(ctx context.Context) ([]model.FieldDefinition, error)
	EnabledForRender(ctx context.Context) ([]model.FieldDefinition, error)
}

// FieldChange is one admin correction: the storage key and its new value.
type FieldChange struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Observer is notified of submission outcomes. The server wires the metrics
// instruments through it; without one the service stays silent.
type Observer interface {
	SubmissionSaved()
	ValidationRejected()
}

// Option configures a Service.
type Option func(*Service)

// WithObserver registers obs for submission outcomes.
func WithObserver(obs Observer) Option {
	return func(s *Service) {
		s.observer = obs
	}
}

// Service is the order field store.
type Service struct {
	schema   SchemaSource
	store    OrderStore
	observer Observer
	now      func() time.Time
}

// New constructs the service. One instance serves the whole process.
func New(schema SchemaSource, store OrderStore, opts ...Option) *Service {
	s := &Service{schema: schema, store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveFromClassicSubmission validates and persists the posted form values for
// an order placed through the server-rendered checkout. Keys that match no
// enabled field are ignored. On any violation nothing is persisted and every
// violation is reported at once.
func (s *Service) SaveFromClassicSubmission(ctx context.Context, orderID string, posted map[string]string) error {
	return s.saveSubmission(ctx, orderID, posted)
}

// SaveFromBlockSubmission applies the same validation and persistence to the
// agent-merged JSON payload of a client-rendered checkout. It runs
// synchronously inside the host's order-creation hook, before the order is
// finalized: the client merge cannot be trusted, so this is the authoritative
// enforcement point for required and per-type rules.
func (s *Service) SaveFromBlockSubmission(ctx context.Context, orderID string, payload []byte) error {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		s.rejected()
		return apperrors.NewValidation("submission payload must be a JSON object")
	}

	values := make(map[string]string, len(data))
	for key, raw := range data {
		if value, ok := scalarString(raw); ok {
			values[key] = value
		}
	}
	return s.saveSubmission(ctx, orderID, values)
}

func (s *Service) saveSubmission(ctx context.Context, orderID string, values map[string]string) error {
	if err := s.requireOrder(ctx, orderID); err != nil {
		return err
	}

	enabled, err := s.schema.EnabledForRender(ctx)
	if err != nil {
		return err
	}

	var violations []string
	for _, field := range enabled {
		value := strings.TrimSpace(values[field.ID])
		if value == "" {
			if field.Required {
				violations = append(violations, fmt.Sprintf("%s is a required field", field.Label))
			}
			continue
		}
		if err := fieldtype.For(field.Type).Validate(field.Label, value); err != nil {
			violations = append(violations, err.Error())
		}
	}
	if len(violations) > 0 {
		s.rejected()
		return apperrors.NewValidation(violations...)
	}

	recs := make([]model.ValueRecord, 0, len(enabled))
	for _, field := range enabled {
		value := values[field.ID]
		if strings.TrimSpace(value) == "" {
			continue
		}
		rec := model.ValueRecord{
			FieldID: field.ID,
			Key:     model.StorageKey(field.ID),
			Value:   fieldtype.For(field.Type).Sanitize(value),
			Label:   field.Label,
			Type:    field.Type,
		}
		if field.ID != model.LegacyFieldID {
			snapshot := field.Clone()
			rec.Definition = &snapshot
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return nil
	}
	if err := s.store.SaveValues(ctx, orderID, recs); err != nil {
		return apperrors.NewPersistence("orderfields: save values", err)
	}
	s.saved()
	return nil
}

// Get returns the order's records in display order: the legacy field first
// when present, then configured fields in registry order. Records with empty
// values are omitted, as are records whose value was never set.
func (s *Service) Get(ctx context.Context, orderID string) ([]model.ValueRecord, error) {
	if err := s.requireOrder(ctx, orderID); err != nil {
		return nil, err
	}

	stored, err := s.store.Values(ctx, orderID)
	if err != nil {
		return nil, apperrors.NewPersistence("orderfields: load values", err)
	}

	var out []model.ValueRecord
	legacyKey := model.StorageKey(model.LegacyFieldID)
	if rec, ok := stored[legacyKey]; ok && rec.Value != "" {
		out = append(out, rec)
	}

	configured, err := s.schema.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, field := range configured {
		if field.ID == "" || field.ID == model.LegacyFieldID {
			continue
		}
		if rec, ok := stored[model.StorageKey(field.ID)]; ok && rec.Value != "" {
			out = append(out, rec)
		}
	}
	return out, nil
}

// HasFields reports whether the order carries any displayable records.
func (s *Service) HasFields(ctx context.Context, orderID string) (bool, error) {
	records, err := s.Get(ctx, orderID)
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

// Update is the admin correction path. Each change is sanitized as plain
// text and persisted under its key, existing snapshots kept; one audit note
// summarises the humanized names of everything changed in the call.
func (s *Service) Update(ctx context.Context, orderID string, changes []FieldChange) error {
	if err := s.requireOrder(ctx, orderID); err != nil {
		return err
	}

	stored, err := s.store.Values(ctx, orderID)
	if err != nil {
		return apperrors.NewPersistence("orderfields: load values", err)
	}

	var (
		recs    []model.ValueRecord
		changed []string
	)
	for _, change := range changes {
		key := strings.TrimSpace(change.Key)
		if key == "" {
			continue
		}

		rec, ok := stored[key]
		if !ok {
			rec = model.ValueRecord{
				FieldID: model.FieldIDFromKey(key),
				Key:     key,
				Label:   model.HumanizeKey(key),
				Type:    model.FieldTypeText,
			}
		}
		rec.Value = fieldtype.SanitizeText(change.Value)

		recs = append(recs, rec)
		changed = append(changed, model.HumanizeKey(key))
	}

	if len(recs) == 0 {
		return nil
	}
	if err := s.store.SaveValues(ctx, orderID, recs); err != nil {
		return apperrors.NewPersistence("orderfields: update values", err)
	}
	note := "Custom fields updated: " + strings.Join(changed, ", ")
	return s.appendNote(ctx, orderID, note)
}

// Delete removes one record and its snapshot, appending an audit note.
func (s *Service) Delete(ctx context.Context, orderID, key string) error {
	if err := s.requireOrder(ctx, orderID); err != nil {
		return err
	}

	deleted, err := s.store.DeleteValue(ctx, orderID, key)
	if err != nil {
		return apperrors.NewPersistence("orderfields: delete value", err)
	}
	if !deleted {
		return apperrors.NewNotFound("order field", key)
	}

	note := fmt.Sprintf("Custom field '%s' removed", model.HumanizeKey(key))
	return s.appendNote(ctx, orderID, note)
}

func (s *Service) requireOrder(ctx context.Context, orderID string) error {
	exists, err := s.store.OrderExists(ctx, orderID)
	if err != nil {
		return apperrors.NewPersistence("orderfields: check order", err)
	}
	if !exists {
		return apperrors.NewNotFound("order", orderID)
	}
	return nil
}

func (s *Service) appendNote(ctx context.Context, orderID, text string) error {
	note := Note{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.store.AppendNote(ctx, orderID, note); err != nil {
		return apperrors.NewPersistence("orderfields: append note", err)
	}
	return nil
}

func (s *Service) saved() {
	if s.observer != nil {
		s.observer.SubmissionSaved()
	}
}

func (s *Service) rejected() {
	if s.observer != nil {
		s.observer.ValidationRejected()
	}
}

func scalarString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
