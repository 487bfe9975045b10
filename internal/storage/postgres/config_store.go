// Package postgres backs the field schema and order value stores with
// PostgreSQL. The schema lives in schema.sql next to this package.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-checkoutfields/pkg/model"
)

// ConfigStore persists the field definition list and the legacy label as a
// single configuration row.
type ConfigStore struct {
	db *sql.DB
}

// NewConfigStore constructs a PostgreSQL-backed config store.
func NewConfigStore(db *sql.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

func (s *ConfigStore) Fields(ctx context.Context) ([]model.FieldDefinition, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM checkout_field_config WHERE id = 1`,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load field config: %w", err)
	}

	var fields []model.FieldDefinition
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode field config: %w", err)
	}
	return fields, nil
}

func (s *ConfigStore) ReplaceFields(ctx context.Context, fields []model.FieldDefinition) error {
	if fields == nil {
		fields = []model.FieldDefinition{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode field config: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkout_field_config (id, fields, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET fields = EXCLUDED.fields, updated_at = NOW()`,
		raw,
	)
	if err != nil {
		return fmt.Errorf("save field config: %w", err)
	}
	return nil
}

func (s *ConfigStore) LegacyLabel(ctx context.Context) (string, error) {
	var label sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT legacy_label FROM checkout_field_config WHERE id = 1`,
	).Scan(&label)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load legacy label: %w", err)
	}
	return label.String, nil
}
