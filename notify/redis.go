// Package notify carries "orders changed" signals between the processes that
// write orders and the ones streaming them to customers. Messages carry no
// payload; listeners re-read the order store when signalled.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultNamespace = "burgerhouse"

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Listener delivers one value per change notification until closed.
type Listener interface {
	Changes() <-chan struct{}
	Close() error
}

type RedisFeed struct {
	client    *redis.Client
	namespace string
}

func NewRedisFeed(client *redis.Client, namespace string) *RedisFeed {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &RedisFeed{client: client, namespace: namespace}
}

func (f *RedisFeed) channel(userID uuid.UUID) string {
	return fmt.Sprintf("%s:orders:%s", f.namespace, userID)
}

// Publish signals that the orders of userID changed.
func (f *RedisFeed) Publish(ctx context.Context, userID uuid.UUID) error {
	if err := f.client.Publish(ctx, f.channel(userID), "changed").Err(); err != nil {
		return fmt.Errorf("failed to publish order change: %w", err)
	}
	return nil
}

// Subscribe returns once the subscription is confirmed by the server, so no
// Publish issued afterwards is missed.
func (f *RedisFeed) Subscribe(ctx context.Context, userID uuid.UUID) (Listener, error) {
	ps := f.client.Subscribe(ctx, f.channel(userID))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("failed to subscribe to order changes: %w", err)
	}

	l := &redisListener{
		ps:      ps,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go l.run()
	return l, nil
}

type redisListener struct {
	ps      *redis.PubSub
	changes chan struct{}
	done    chan struct{}
	once    sync.Once
}

func (l *redisListener) run() {
	defer close(l.changes)
	msgs := l.ps.Channel()
	for {
		select {
		case <-l.done:
			return
		case _, ok := <-msgs:
			if !ok {
				return
			}
			// Coalesce: a pending signal already means "re-read".
			select {
			case l.changes <- struct{}{}:
			default:
			}
		}
	}
}

func (l *redisListener) Changes() <-chan struct{} {
	return l.changes
}

func (l *redisListener) Close() error {
	var err error
	l.once.Do(func() {
		close(l.done)
		err = l.ps.Close()
		if err != nil {
			logrus.WithError(err).Warn("failed to close order change subscription")
		}
	})
	return err
}
