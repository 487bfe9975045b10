// Package registry owns the field-definition schema: listing, the
// enabled-for-render view with its legacy fallback, validated replace-all
// writes, deletion and unique id generation. Exactly one Service instance is
// constructed per process and passed to consumers by reference.
package registry

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goliatone/go-checkoutfields/pkg/apperrors"
	"github.com/goliatone/go-checkoutfields/pkg/fieldtype"
	"github.com/goliatone/go-checkoutfields/pkg/model"
)

// ConfigStore is the host-managed configuration boundary. Implementations
// must serve fresh reads: any cache a wrapper maintains has to be invalidated
// by ReplaceFields before it returns success.
type ConfigStore interface {
	Fields(ctx context.Context) ([]model.FieldDefinition, error)
	ReplaceFields(ctx context.Context, fields []model.FieldDefinition) error
	LegacyLabel(ctx context.Context) (string, error)
}

// Service is the field registry.
type Service struct {
	store ConfigStore
}

// New constructs the registry on top of a config store.
func New(store ConfigStore) *Service {
	return &Service{store: store}
}

// List returns every stored definition in insertion order.
func (s *Service) List(ctx context.Context) ([]model.FieldDefinition, error) {
	fields, err := s.store.Fields(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence("registry: load fields", err)
	}
	return fields, nil
}

// EnabledForRender returns the definitions checkout surfaces render: every
// enabled definition with a non-empty id, in insertion order. When none
// qualify it falls back to the legacy singleton so pre-multi-field
// configurations keep their one input.
func (s *Service) EnabledForRender(ctx context.Context) ([]model.FieldDefinition, error) {
	fields, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	enabled := make([]model.FieldDefinition, 0, len(fields))
	for _, field := range fields {
		if field.Enabled && field.ID != "" {
			enabled = append(enabled, field)
		}
	}
	if len(enabled) > 0 {
		return enabled, nil
	}

	label, err := s.store.LegacyLabel(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence("registry: load legacy label", err)
	}
	return []model.FieldDefinition{model.LegacyField(label)}, nil
}

// Save validates and sanitizes the full definition list and replaces the
// stored one. On any violation nothing is written and every violated rule is
// reported at once. The saved (sanitized) list is returned.
func (s *Service) Save(ctx context.Context, fields []model.FieldDefinition) ([]model.FieldDefinition, error) {
	sanitized := make([]model.FieldDefinition, len(fields))
	for i, field := range fields {
		sanitized[i] = sanitizeDefinition(field)
	}

	if violations := validateDefinitions(sanitized); len(violations) > 0 {
		return nil, apperrors.NewValidation(violations...)
	}

	if err := s.store.ReplaceFields(ctx, sanitized); err != nil {
		return nil, apperrors.NewPersistence("registry: save fields", err)
	}
	return sanitized, nil
}

// FieldByID looks a stored definition up by id.
func (s *Service) FieldByID(ctx context.Context, id string) (model.FieldDefinition, error) {
	fields, err := s.List(ctx)
	if err != nil {
		return model.FieldDefinition{}, err
	}
	for _, field := range fields {
		if field.ID == id {
			return field, nil
		}
	}
	return model.FieldDefinition{}, apperrors.NewNotFound("field", id)
}

// Delete removes one definition. Value records already persisted under the
// id are untouched; historical orders keep their data.
func (s *Service) Delete(ctx context.Context, id string) error {
	fields, err := s.List(ctx)
	if err != nil {
		return err
	}

	remaining := make([]model.FieldDefinition, 0, len(fields))
	for _, field := range fields {
		if field.ID != id {
			remaining = append(remaining, field)
		}
	}
	if len(remaining) == len(fields) {
		return apperrors.NewNotFound("field", id)
	}

	if err := s.store.ReplaceFields(ctx, remaining); err != nil {
		return apperrors.NewPersistence("registry: delete field", err)
	}
	return nil
}

// GenerateUniqueID appends numeric suffixes to base until the id collides
// with no stored definition.
func (s *Service) GenerateUniqueID(ctx context.Context, base string) (string, error) {
	base = fieldtype.SanitizeID(base)
	if base == "" {
		base = "custom_field"
	}

	fields, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	taken := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		taken[field.ID] = struct{}{}
	}

	candidate := base
	for counter := 1; ; counter++ {
		if _, exists := taken[candidate]; !exists {
			return candidate, nil
		}
		candidate = base + "_" + strconv.Itoa(counter)
	}
}

func sanitizeDefinition(field model.FieldDefinition) model.FieldDefinition {
	out := model.FieldDefinition{
		ID:          fieldtype.SanitizeID(field.ID),
		Label:       fieldtype.SanitizeText(field.Label),
		Type:        field.Type,
		Required:    field.Required,
		Enabled:     field.Enabled,
		Placeholder: fieldtype.SanitizeText(field.Placeholder),
		Position:    field.Position,
	}
	if out.Position == "" {
		out.Position = model.DefaultPosition
	}
	if field.Type == model.FieldTypeSelect {
		out.Options = make([]string, 0, len(field.Options))
		for _, option := range field.Options {
			if cleaned := fieldtype.SanitizeText(option); cleaned != "" {
				out.Options = append(out.Options, cleaned)
			}
		}
	}
	return out
}

func validateDefinitions(fields []model.FieldDefinition) []string {
	var violations []string
	seen := make(map[string]struct{}, len(fields))

	for i, field := range fields {
		name := field.ID
		if name == "" {
			name = fmt.Sprintf("field %d", i+1)
		}

		if field.ID == "" {
			violations = append(violations, fmt.Sprintf("%s: field ID is required", name))
		} else if _, dup := seen[field.ID]; dup {
			violations = append(violations, fmt.Sprintf("%s: field ID must be unique", name))
		} else {
			seen[field.ID] = struct{}{}
		}

		if field.Label == "" {
			violations = append(violations, fmt.Sprintf("%s: field label is required", name))
		}
		if !field.Type.Valid() {
			violations = append(violations, fmt.Sprintf("%s: invalid field type %q", name, field.Type))
		}
		if !field.Position.Valid() {
			violations = append(violations, fmt.Sprintf("%s: invalid field position %q", name, field.Position))
		}
		if field.Type == model.FieldTypeSelect && len(field.Options) == 0 {
			violations = append(violations, fmt.Sprintf("%s: select fields require options", name))
		}
	}
	return violations
}
