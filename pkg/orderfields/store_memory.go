package orderfields

import (
	"context"
	"sync"

	"github.com/goliatone/go-checkoutfields/pkg/model"
)

// MemoryStore is an in-process OrderStore for tests and single-node hosts.
// Orders must be registered with AddOrder before values can be saved, mirroring
// the host owning the order lifecycle.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]struct{}
	values map[string]map[string]model.ValueRecord
	notes  map[string][]Note
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[string]struct{}),
		values: make(map[string]map[string]model.ValueRecord),
		notes:  make(map[string][]Note),
	}
}

// AddOrder registers an order id as known.
func (s *MemoryStore) AddOrder(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[orderID] = struct{}{}
}

func (s *MemoryStore) OrderExists(_ context.Context, orderID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.orders[orderID]
	return ok, nil
}

func (s *MemoryStore) SaveValues(_ context.Context, orderID string, recs []model.ValueRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byKey, ok := s.values[orderID]
	if !ok {
		byKey = make(map[string]model.ValueRecord)
		s.values[orderID] = byKey
	}
	for _, rec := range recs {
		if rec.Definition != nil {
			def := rec.Definition.Clone()
			rec.Definition = &def
		}
		byKey[rec.Key] = rec
	}
	return nil
}

func (s *MemoryStore) Values(_ context.Context, orderID string) (map[string]model.ValueRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.ValueRecord, len(s.values[orderID]))
	for key, rec := range s.values[orderID] {
		if rec.Definition != nil {
			def := rec.Definition.Clone()
			rec.Definition = &def
		}
		out[key] = rec
	}
	return out, nil
}

func (s *MemoryStore) DeleteValue(_ context.Context, orderID, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byKey := s.values[orderID]
	if _, ok := byKey[key]; !ok {
		return false, nil
	}
	delete(byKey, key)
	return true, nil
}

func (s *MemoryStore) AppendNote(_ context.Context, orderID string, note Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[orderID] = append(s.notes[orderID], note)
	return nil
}

// Notes returns the audit notes recorded for an order, oldest first.
func (s *MemoryStore) Notes(orderID string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Note(nil), s.notes[orderID]...)
}
