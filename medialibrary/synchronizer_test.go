package medialibrary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortechron/go-itemmedia/medialist"
	"github.com/vortechron/go-itemmedia/models"
)

func persistedList(t *testing.T, n int) *medialist.List {
	var images []models.ItemImage
	for i := 1; i <= n; i++ {
		images = append(images, models.ItemImage{ID: uint64(i), DisplayImage: "img", Seq: i, ImageType: models.MediaKindImage})
	}
	l, err := medialist.FromImages(images)
	require.NoError(t, err)
	return l
}

func TestSyncSequentialStopsAtFirstFailure(t *testing.T) {
	for k := 1; k <= 5; k++ {
		gw := newFakeGateway()
		gw.failUpdateAt = k
		s := NewSynchronizer(gw, WithLogger(quietLogger()))

		report, err := s.Sync(context.Background(), "admin-1", persistedList(t, 5).Entries())
		require.Error(t, err)
		assert.ErrorIs(t, err, errInjected)

		updates := gw.Calls("updateItemImage")
		require.Len(t, updates, k, "calls after the failing one must never be issued")
		for i, c := range updates {
			assert.Equal(t, uint64(i+1), c.ID)
			assert.Equal(t, i+1, c.Seq)
			assert.Equal(t, "admin-1", c.ActingAs)
		}
		assert.Len(t, report.Succeeded(), k-1)
		assert.Len(t, report.Failed(), 1)
		assert.Len(t, report.Skipped(), 5-k)
		assert.Equal(t, uint64(k), report.Failed()[0].ServerID)
	}
}

func TestSyncIgnoresUnpersistedEntries(t *testing.T) {
	gw := newFakeGateway()
	l := persistedList(t, 2)
	_, err := l.Append("new", models.MediaKindImage)
	require.NoError(t, err)
	require.NoError(t, l.Reorder(2, 0))

	report, err := NewSynchronizer(gw, WithLogger(quietLogger())).Sync(context.Background(), "admin-1", l.Entries())
	require.NoError(t, err)
	assert.Len(t, report.Results, 2)

	updates := gw.Calls("updateItemImage")
	require.Len(t, updates, 2)
	assert.Equal(t, call{Op: "updateItemImage", ID: 1, Seq: 2, ActingAs: "admin-1"}, updates[0])
	assert.Equal(t, call{Op: "updateItemImage", ID: 2, Seq: 3, ActingAs: "admin-1"}, updates[1])
}

func TestSyncEmpty(t *testing.T) {
	gw := newFakeGateway()
	report, err := NewSynchronizer(gw, WithLogger(quietLogger())).Sync(context.Background(), "admin-1", nil)
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.NoError(t, report.Err())
}

func TestSyncConcurrentRunsEveryTask(t *testing.T) {
	gw := newFakeGateway()
	gw.failUpdateAt = 2
	s := NewSynchronizer(gw, WithLogger(quietLogger()), WithSyncConcurrency(3))

	report, err := s.Sync(context.Background(), "admin-1", persistedList(t, 6).Entries())
	require.Error(t, err)

	assert.Len(t, gw.Calls("updateItemImage"), 6)
	assert.Len(t, report.Succeeded(), 5)
	assert.Len(t, report.Failed(), 1)
	assert.Empty(t, report.Skipped())
	for i, res := range report.Results {
		assert.Equal(t, uint64(i+1), res.ServerID, "results stay in list order")
	}
}

func TestSyncCancelledContext(t *testing.T) {
	gw := newFakeGateway()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewSynchronizer(gw, WithLogger(quietLogger())).Sync(ctx, "admin-1", persistedList(t, 3).Entries())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, gw.Calls(""))
	assert.Len(t, report.Failed(), 1)
	assert.Len(t, report.Skipped(), 2)
}

func TestEntryStatusString(t *testing.T) {
	assert.Equal(t, "succeeded", StatusSucceeded.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "skipped", StatusSkipped.String())
}
