package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-checkoutfields/pkg/model"
	"github.com/goliatone/go-checkoutfields/pkg/orderfields"
)

// OrderStore persists value records and audit notes against the host's
// orders table.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore constructs a PostgreSQL-backed order store.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) OrderExists(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`,
		orderID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check order %s: %w", orderID, err)
	}
	return exists, nil
}

// SaveValues upserts every record inside one transaction so a failed write
// leaves no partial submission behind.
func (s *OrderStore) SaveValues(ctx context.Context, orderID string, recs []model.ValueRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin value write for order %s: %w", orderID, err)
	}
	defer tx.Rollback()

	for _, rec := range recs {
		if err := upsertValue(ctx, tx, orderID, rec); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit value write for order %s: %w", orderID, err)
	}
	return nil
}

func upsertValue(ctx context.Context, tx *sql.Tx, orderID string, rec model.ValueRecord) error {
	var config []byte
	if rec.Definition != nil {
		raw, err := json.Marshal(rec.Definition)
		if err != nil {
			return fmt.Errorf("encode field config for %s: %w", rec.Key, err)
		}
		config = raw
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_field_values (order_id, storage_key, field_id, value, label, field_type, config, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (order_id, storage_key) DO UPDATE SET
			field_id = EXCLUDED.field_id,
			value = EXCLUDED.value,
			label = EXCLUDED.label,
			field_type = EXCLUDED.field_type,
			config = EXCLUDED.config,
			updated_at = NOW()`,
		orderID, rec.Key, rec.FieldID, rec.Value, rec.Label, string(rec.Type), config,
	)
	if err != nil {
		return fmt.Errorf("save value %s for order %s: %w", rec.Key, orderID, err)
	}
	return nil
}

func (s *OrderStore) Values(ctx context.Context, orderID string) (map[string]model.ValueRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT storage_key, field_id, value, label, field_type, config
		FROM order_field_values
		WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("load values for order %s: %w", orderID, err)
	}
	defer rows.Close()

	out := make(map[string]model.ValueRecord)
	for rows.Next() {
		var (
			rec       model.ValueRecord
			fieldType string
			config    []byte
		)
		if err := rows.Scan(&rec.Key, &rec.FieldID, &rec.Value, &rec.Label, &fieldType, &config); err != nil {
			return nil, fmt.Errorf("scan value for order %s: %w", orderID, err)
		}
		rec.Type = model.FieldType(fieldType)
		if len(config) > 0 {
			var def model.FieldDefinition
			if err := json.Unmarshal(config, &def); err != nil {
				return nil, fmt.Errorf("decode field config for %s: %w", rec.Key, err)
			}
			rec.Definition = &def
		}
		out[rec.Key] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load values for order %s: %w", orderID, err)
	}
	return out, nil
}

func (s *OrderStore) DeleteValue(ctx context.Context, orderID, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM order_field_values WHERE order_id = $1 AND storage_key = $2`,
		orderID, key,
	)
	if err != nil {
		return false, fmt.Errorf("delete value %s for order %s: %w", key, orderID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete value %s for order %s: %w", key, orderID, err)
	}
	return affected > 0, nil
}

func (s *OrderStore) AppendNote(ctx context.Context, orderID string, note orderfields.Note) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO order_notes (id, order_id, note, created_at)
		VALUES ($1, $2, $3, $4)`,
		note.ID, orderID, note.Text, note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append note to order %s: %w", orderID, err)
	}
	return nil
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
