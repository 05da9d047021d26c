package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hgl-backend/internal/kv"
	"hgl-backend/internal/models"
	"hgl-backend/internal/repositories"
)

func TestPeekNextStartsAtOne(t *testing.T) {
	f := newFixture()
	n, err := f.seq.PeekNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCommitSurvivesRestart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.seq.Commit(ctx, 41))

	// a new allocator over the same store stands in for an app restart
	fresh := NewSequenceAllocator(repositories.NewRecordRepository(f.mem))
	n, err := fresh.PeekNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	raw, _ := f.mem.Raw(kv.JobCounterKey)
	assert.Equal(t, "41", raw)
}

func TestPeekNextDefaultsToOneOnReadFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.seq.Commit(ctx, 10))
	f.mem.GetErr = errors.New("io error")

	n, err := f.seq.PeekNext(ctx)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPeekNextIgnoresGarbageCounter(t *testing.T) {
	f := newFixture()
	f.mem.Put(kv.JobCounterKey, "abc")

	n, err := f.seq.PeekNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPeekNextSkipsPastStoredJobs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	// job 8 was appended but its commit never landed
	require.NoError(t, f.seq.Commit(ctx, 7))
	require.NoError(t, f.repo.AppendCertificate(ctx, models.CertificateRecord{JobNo: 8}))

	n, err := f.seq.PeekNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestPeekNextWithUnreadableCounterUsesStoredJobs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.repo.AppendCertificate(ctx, models.CertificateRecord{JobNo: 3}))
	f.repo.Store = counterUnreadableStore{Memory: f.mem}

	n, err := f.seq.PeekNext(ctx)
	assert.Equal(t, 4, n)
	assert.ErrorIs(t, err, ErrCounterUnavailable)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
