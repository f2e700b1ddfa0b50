package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestConnect(t *testing.T) {
	mr, _ := setupTestRedis(t)

	client, err := Connect(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	_, err = Connect(context.Background(), "")
	assert.Error(t, err)

	_, err = Connect(context.Background(), "http://not-redis")
	assert.Error(t, err)
}

func TestPublishReachesSubscriberOfSameUser(t *testing.T) {
	_, client := setupTestRedis(t)
	feed := NewRedisFeed(client, "test")
	ctx := context.Background()
	userID := uuid.New()

	l, err := feed.Subscribe(ctx, userID)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, feed.Publish(ctx, userID))

	select {
	case _, ok := <-l.Changes():
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestPublishDoesNotReachOtherUsers(t *testing.T) {
	_, client := setupTestRedis(t)
	feed := NewRedisFeed(client, "test")
	ctx := context.Background()

	l, err := feed.Subscribe(ctx, uuid.New())
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, feed.Publish(ctx, uuid.New()))

	select {
	case <-l.Changes():
		t.Fatal("unexpected notification for another user")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCloseEndsChangesAndIsIdempotent(t *testing.T) {
	_, client := setupTestRedis(t)
	feed := NewRedisFeed(client, "")

	l, err := feed.Subscribe(context.Background(), uuid.New())
	require.NoError(t, err)

	require.NoError(t, l.Close())
	assert.NoError(t, l.Close())

	select {
	case _, ok := <-l.Changes():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("changes channel was not closed")
	}
}
