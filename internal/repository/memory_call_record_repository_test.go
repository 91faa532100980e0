package repository

import (
	"context"
	"sync"
	"testing"

	"call-directory/internal/domain/call"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(groupID, callID, region string) call.Record {
	return call.Record{
		GroupID:       groupID,
		CallID:        callID,
		BackendHost:   "10.0.0.1",
		BackendRegion: region,
		Creator:       "u1",
	}
}

func TestGetReturnsNilWhenAbsent(t *testing.T) {
	repo := NewMemoryCallRecordRepository()

	rec, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetOrAddRoundTrip(t *testing.T) {
	repo := NewMemoryCallRecordRepository()
	want := testRecord("g1", "c1", "us1")

	stored, err := repo.GetOrAdd(context.Background(), want)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, want, *stored)

	got, err := repo.Get(context.Background(), "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestGetOrAddKeepsExistingRecord(t *testing.T) {
	repo := NewMemoryCallRecordRepository()
	first := testRecord("g1", "c1", "us1")

	_, err := repo.GetOrAdd(context.Background(), first)
	require.NoError(t, err)

	// A second creator loses the race and observes c1, not c2.
	stored, err := repo.GetOrAdd(context.Background(), testRecord("g1", "c2", "us2"))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first, *stored)

	got, err := repo.Get(context.Background(), "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.CallID)
}

func TestConcurrentGetOrAddSingleWinner(t *testing.T) {
	repo := NewMemoryCallRecordRepository()

	const callers = 16
	results := make([]call.Record, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := testRecord("g1", "c"+string(rune('a'+i)), "us1")
			stored, err := repo.GetOrAdd(context.Background(), rec)
			assert.NoError(t, err)
			if stored != nil {
				results[i] = *stored
			}
		}(i)
	}
	wg.Wait()

	winner := results[0]
	for _, r := range results {
		assert.Equal(t, winner, r)
	}

	got, err := repo.Get(context.Background(), "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, winner, *got)
}

func TestRemoveThenGet(t *testing.T) {
	repo := NewMemoryCallRecordRepository()
	_, err := repo.GetOrAdd(context.Background(), testRecord("g1", "c1", "us1"))
	require.NoError(t, err)

	require.NoError(t, repo.Remove(context.Background(), "g1", "c1"))

	got, err := repo.Get(context.Background(), "g1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRemoveStaleCallIDIsNoop(t *testing.T) {
	repo := NewMemoryCallRecordRepository()
	current := testRecord("g1", "c2", "us1")
	_, err := repo.GetOrAdd(context.Background(), current)
	require.NoError(t, err)

	// Removing with a stale call id succeeds without touching the
	// newer instance.
	require.NoError(t, repo.Remove(context.Background(), "g1", "c1"))

	got, err := repo.Get(context.Background(), "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, current, *got)
}

func TestRemoveMissingGroupIsNoop(t *testing.T) {
	repo := NewMemoryCallRecordRepository()
	require.NoError(t, repo.Remove(context.Background(), "g1", "c1"))
}

func TestListByRegion(t *testing.T) {
	repo := NewMemoryCallRecordRepository()
	ctx := context.Background()

	_, err := repo.GetOrAdd(ctx, testRecord("g1", "c1", "us1"))
	require.NoError(t, err)
	_, err = repo.GetOrAdd(ctx, testRecord("g2", "c2", "us1"))
	require.NoError(t, err)
	_, err = repo.GetOrAdd(ctx, testRecord("g3", "c3", "eu1"))
	require.NoError(t, err)

	records, err := repo.ListByRegion(ctx, "us1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	groups := []string{records[0].GroupID, records[1].GroupID}
	assert.ElementsMatch(t, []string{"g1", "g2"}, groups)

	empty, err := repo.ListByRegion(ctx, "ap1")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
}
