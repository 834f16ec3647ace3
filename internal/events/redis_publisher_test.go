package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisPublisher_InvalidURL(t *testing.T) {
	_, err := NewRedisPublisher("not-a-url")
	assert.Error(t, err)
}

func TestRedisPublisher_PublishDeliversToSubscriber(t *testing.T) {
	mr := miniredis.RunT(t)

	publisher, err := NewRedisPublisher(fmt.Sprintf("redis://%s", mr.Addr()))
	require.NoError(t, err)
	defer publisher.Close()

	// Subscribe on a separate connection, as a consumer service would
	subscriber := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer subscriber.Close()

	ctx := context.Background()
	pubsub := subscriber.Subscribe(ctx, Channel)
	defer pubsub.Close()

	_, err = pubsub.Receive(ctx)
	require.NoError(t, err, "subscription should be established")

	sent := UserEvent{
		Type:       UserCreated,
		UserID:     42,
		Email:      "ana@x.com",
		OccurredAt: time.Now(),
	}
	require.NoError(t, publisher.Publish(sent))

	select {
	case msg := <-pubsub.Channel():
		var got UserEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, UserCreated, got.Type)
		assert.Equal(t, uint(42), got.UserID)
		assert.Equal(t, "ana@x.com", got.Email)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}
