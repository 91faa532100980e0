package services

import (
	"context"

	"call-directory/internal/domain/call"
	"call-directory/internal/repository"
	directory_errors "call-directory/pkg/errors"

	"github.com/google/uuid"
)

// CallDirectoryService mints call instance ids and delegates to the
// record repository. It holds no state between calls; the backing
// store is the sole source of truth.
type CallDirectoryService struct {
	repo repository.CallRecordRepository
}

func NewCallDirectoryService(repo repository.CallRecordRepository) *CallDirectoryService {
	return &CallDirectoryService{repo: repo}
}

type CreateCallInput struct {
	GroupID       string
	BackendHost   string
	BackendRegion string
	Creator       string
}

type CreateCallResult struct {
	Record call.Record
	// Created is true when this request's record won the insert race.
	Created bool
}

func (s *CallDirectoryService) GetOrCreate(ctx context.Context, in CreateCallInput) (CreateCallResult, error) {
	if in.GroupID == "" || in.BackendHost == "" || in.BackendRegion == "" || in.Creator == "" {
		return CreateCallResult{}, directory_errors.ErrInvalidInput
	}

	rec := call.Record{
		GroupID:       in.GroupID,
		CallID:        uuid.NewString(),
		BackendHost:   in.BackendHost,
		BackendRegion: in.BackendRegion,
		Creator:       in.Creator,
	}

	stored, err := s.repo.GetOrAdd(ctx, rec)
	if err != nil {
		return CreateCallResult{}, err
	}
	if stored == nil {
		// The winning record was removed before we could read it back.
		// The caller decides whether to try again.
		return CreateCallResult{}, directory_errors.ErrConflict
	}
	return CreateCallResult{Record: *stored, Created: stored.CallID == rec.CallID}, nil
}

func (s *CallDirectoryService) Get(ctx context.Context, groupID string) (call.Record, error) {
	if groupID == "" {
		return call.Record{}, directory_errors.ErrInvalidInput
	}
	rec, err := s.repo.Get(ctx, groupID)
	if err != nil {
		return call.Record{}, err
	}
	if rec == nil {
		return call.Record{}, directory_errors.ErrNotFound
	}
	return *rec, nil
}

// End removes the call instance the caller last observed. Removing an
// instance that is already gone or superseded succeeds silently.
func (s *CallDirectoryService) End(ctx context.Context, groupID, callID string) error {
	if groupID == "" || callID == "" {
		return directory_errors.ErrInvalidInput
	}
	return s.repo.Remove(ctx, groupID, callID)
}

func (s *CallDirectoryService) ListRegion(ctx context.Context, region string) ([]call.Record, error) {
	if region == "" {
		return nil, directory_errors.ErrInvalidInput
	}
	return s.repo.ListByRegion(ctx, region)
}
