package repository

import (
	"context"

	"call-directory/internal/domain/call"
)

// CallRecordRepository is the storage contract for call records. The
// production variant is backed by DynamoDB; an in-memory variant with
// the same semantics exists for tests and local deployments.
type CallRecordRepository interface {
	// Get performs a strongly consistent point lookup and returns nil
	// when no record exists for the group.
	Get(ctx context.Context, groupID string) (*call.Record, error)

	// GetOrAdd inserts the record only if no record exists for its
	// group. If a concurrent insert won the race, the insert is not
	// retried; the record that now exists is read back and returned,
	// so every racing caller observes the same winner. The returned
	// record is nil only if the winner was removed between the failed
	// insert and the follow-up read.
	GetOrAdd(ctx context.Context, rec call.Record) (*call.Record, error)

	// Remove deletes the record for the group only if its stored call
	// id matches. A mismatch (record already removed or replaced by a
	// newer instance) is not an error: the caller's instance is gone
	// either way.
	Remove(ctx context.Context, groupID, callID string) error

	// ListByRegion returns all records hosted in the given region via
	// the region secondary index. The read is eventually consistent.
	ListByRegion(ctx context.Context, region string) ([]call.Record, error)
}
