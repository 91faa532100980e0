package repository

import (
	"context"
	"sync"

	"call-directory/internal/domain/call"
)

// MemoryCallRecordRepository mirrors the DynamoDB repository's
// conditional-write semantics in process memory. It backs tests and
// local deployments that run without a storage endpoint.
type MemoryCallRecordRepository struct {
	mu      sync.Mutex
	records map[string]call.Record
}

func NewMemoryCallRecordRepository() *MemoryCallRecordRepository {
	return &MemoryCallRecordRepository{records: make(map[string]call.Record)}
}

func (r *MemoryCallRecordRepository) Get(ctx context.Context, groupID string) (*call.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[groupID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *MemoryCallRecordRepository) GetOrAdd(ctx context.Context, rec call.Record) (*call.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.records[rec.GroupID]; ok {
		return &existing, nil
	}
	r.records[rec.GroupID] = rec
	return &rec, nil
}

func (r *MemoryCallRecordRepository) Remove(ctx context.Context, groupID, callID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.records[groupID]; ok && existing.CallID == callID {
		delete(r.records, groupID)
	}
	return nil
}

func (r *MemoryCallRecordRepository) ListByRegion(ctx context.Context, region string) ([]call.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]call.Record, 0)
	for _, rec := range r.records {
		if rec.BackendRegion == region {
			records = append(records, rec)
		}
	}
	return records, nil
}
