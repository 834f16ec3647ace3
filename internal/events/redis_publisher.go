package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Channel carries all user-directory change events.
const Channel = "userdir:events"

// RedisPublisher implements Publisher over Redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPublisher{
		client: client,
		ctx:    ctx,
	}, nil
}

func (r *RedisPublisher) Publish(event UserEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, Channel, data).Err()
}

func (r *RedisPublisher) Close() error {
	return r.client.Close()
}
