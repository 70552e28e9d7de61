package campaign_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unclebandit/mailblast-backend/internal/campaign"
	"github.com/unclebandit/mailblast-backend/internal/model"
)

func snap(sent int, status string) model.Snapshot {
	return model.Snapshot{CampaignID: "c1", Status: status, Sent: sent}
}

func TestBroadcasterFanOut(t *testing.T) {
	t.Parallel()

	b := campaign.NewBroadcaster()
	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	b.Publish(snap(1, model.StatusRunning))
	b.Publish(snap(2, model.StatusRunning))

	for _, ch := range []<-chan model.Snapshot{ch1, ch2} {
		require.Equal(t, 1, (<-ch).Sent)
		require.Equal(t, 2, (<-ch).Sent)
	}
}

func TestBroadcasterNeverBlocksOnSlowSubscriber(t *testing.T) {
	t.Parallel()

	b := campaign.NewBroadcaster()
	_, slow := b.Subscribe()

	// far more updates than the buffer holds; Publish must return regardless
	for i := 0; i < 200; i++ {
		b.Publish(snap(i, model.StatusRunning))
	}

	// the subscriber still sees the oldest buffered updates, then the close
	first := <-slow
	require.Equal(t, 0, first.Sent)

	b.Close(snap(200, model.StatusCompleted))
	var last model.Snapshot
	for s := range slow {
		last = s
	}
	require.NotZero(t, last.Sent)
}

func TestBroadcasterCloseDeliversFinalAndEndsSubscriptions(t *testing.T) {
	t.Parallel()

	b := campaign.NewBroadcaster()
	_, ch := b.Subscribe()

	b.Publish(snap(1, model.StatusRunning))
	b.Close(snap(2, model.StatusCompleted))

	require.Equal(t, 1, (<-ch).Sent)
	final := <-ch
	require.Equal(t, model.StatusCompleted, final.Status)

	_, open := <-ch
	require.False(t, open)

	// publishing after close is a no-op
	b.Publish(snap(3, model.StatusCompleted))
}

func TestBroadcasterLateSubscriberGetsFinalSnapshot(t *testing.T) {
	t.Parallel()

	b := campaign.NewBroadcaster()
	b.Close(snap(5, model.StatusCompleted))

	_, ch := b.Subscribe()
	final, open := <-ch
	require.True(t, open)
	require.Equal(t, model.StatusCompleted, final.Status)
	require.Equal(t, 5, final.Sent)

	_, open = <-ch
	require.False(t, open)
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	t.Parallel()

	b := campaign.NewBroadcaster()
	id, ch := b.Subscribe()
	b.Unsubscribe(id)

	_, open := <-ch
	require.False(t, open)

	// double unsubscribe is harmless
	b.Unsubscribe(id)
}
