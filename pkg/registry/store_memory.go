package registry

import (
	"context"
	"sync"

	"github.com/goliatone/go-checkoutfields/pkg/model"
)

// MemoryStore is an in-process ConfigStore for tests and single-node hosts.
type MemoryStore struct {
	mu          sync.RWMutex
	fields      []model.FieldDefinition
	legacyLabel string
}

// NewMemoryStore constructs an empty store. legacyLabel may be the zero value
// when the deprecated single-field mode was never configured.
func NewMemoryStore(legacyLabel string) *MemoryStore {
	return &MemoryStore{legacyLabel: legacyLabel}
}

func (s *MemoryStore) Fields(_ context.Context) ([]model.FieldDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneFields(s.fields), nil
}

func (s *MemoryStore) ReplaceFields(_ context.Context, fields []model.FieldDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = cloneFields(fields)
	return nil
}

func (s *MemoryStore) LegacyLabel(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.legacyLabel, nil
}

func cloneFields(fields []model.FieldDefinition) []model.FieldDefinition {
	out := make([]model.FieldDefinition, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}
