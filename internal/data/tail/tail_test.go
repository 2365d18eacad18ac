package tail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildstamp/buildstamp/internal/core/model"
	"github.com/buildstamp/buildstamp/internal/data/tslog"
)

func TestDrainDeliversEntriesInBatches(t *testing.T) {
	dir := t.TempDir()
	writer := tslog.NewWriter(dir)
	for i := 0; i < 5; i++ {
		require.NoError(t, writer.Append(10))
	}

	follower := NewFollower(dir, 2)
	var batches [][]model.Timestamp
	require.NoError(t, follower.Drain(func(entries []model.Timestamp) {
		batches = append(batches, entries)
	}))

	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	assert.Len(t, batches[2], 1)
	assert.Equal(t, int64(50), batches[2][0].ElapsedMillis)
}

func TestDrainPicksUpOnlyNewEntries(t *testing.T) {
	dir := t.TempDir()
	writer := tslog.NewWriter(dir)
	require.NoError(t, writer.Append(1))

	follower := NewFollower(dir, 10)
	var count int
	require.NoError(t, follower.Drain(func(entries []model.Timestamp) {
		count += len(entries)
	}))
	assert.Equal(t, 1, count)

	require.NoError(t, writer.Append(2))
	require.NoError(t, writer.Append(3))

	var fresh []model.Timestamp
	require.NoError(t, follower.Drain(func(entries []model.Timestamp) {
		fresh = append(fresh, entries...)
	}))
	require.Len(t, fresh, 2)
	assert.Equal(t, int64(3), fresh[0].ElapsedMillis)
	assert.Equal(t, int64(6), fresh[1].ElapsedMillis)
}

func TestFollowerResumesFromCursor(t *testing.T) {
	dir := t.TempDir()
	writer := tslog.NewWriter(dir)
	require.NoError(t, writer.Append(1))
	require.NoError(t, writer.Append(2))

	first := NewFollower(dir, 10)
	require.NoError(t, first.Drain(func([]model.Timestamp) {}))

	require.NoError(t, writer.Append(3))

	resumed := NewFollowerAt(dir, first.Cursor(), 10)
	var entries []model.Timestamp
	require.NoError(t, resumed.Drain(func(batch []model.Timestamp) {
		entries = append(entries, batch...)
	}))
	require.Len(t, entries, 1)
	assert.Equal(t, int64(6), entries[0].ElapsedMillis)
}

func TestWatchDeliversAppendsUntilCancelled(t *testing.T) {
	dir := t.TempDir()
	writer := tslog.NewWriter(dir)
	require.NoError(t, writer.Append(5))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan model.Timestamp, 16)
	done := make(chan error, 1)
	go func() {
		done <- NewFollower(dir, 10).Watch(ctx, func(entries []model.Timestamp) {
			for _, e := range entries {
				received <- e
			}
		})
	}()

	// Initial drain.
	select {
	case e := <-received:
		assert.Equal(t, int64(5), e.ElapsedMillis)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial entry")
	}

	require.NoError(t, writer.Append(7))

	select {
	case e := <-received:
		assert.Equal(t, int64(12), e.ElapsedMillis)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for appended entry")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on cancellation")
	}
}
