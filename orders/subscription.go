package orders

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/burgerhouse/models"
	"github.com/ray-remotestate/burgerhouse/notify"
)

// Subscription streams a customer's order list: once on start and again after
// every change. Stop releases the underlying listener and goroutine.
type Subscription struct {
	updates  chan []models.Order
	errs     chan error
	cancel   context.CancelFunc
	listener notify.Listener
	done     chan struct{}
	stopOnce sync.Once
}

// Subscribe starts a live view of userID's orders, newest first. The view ends
// when Stop is called or ctx is cancelled.
func (s *Service) Subscribe(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	if s.feed == nil {
		return nil, fmt.Errorf("live order feed is not configured")
	}

	ctx, cancel := context.WithCancel(ctx)
	listener, err := s.feed.Subscribe(ctx, userID)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &Subscription{
		updates:  make(chan []models.Order, 1),
		errs:     make(chan error, 1),
		cancel:   cancel,
		listener: listener,
		done:     make(chan struct{}),
	}
	go sub.run(ctx, s.store, userID)
	return sub, nil
}

func (sub *Subscription) run(ctx context.Context, store Store, userID uuid.UUID) {
	defer close(sub.done)
	defer close(sub.updates)
	defer sub.listener.Close()

	push := func() bool {
		list, err := store.ListOrdersForUser(ctx, userID)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			logrus.WithError(err).WithField("user_id", userID).Warn("live order refresh failed")
			select {
			case sub.errs <- err:
			default:
			}
			return true
		}
		select {
		case sub.updates <- list:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !push() {
		return
	}
	changes := sub.listener.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if !push() {
				return
			}
		}
	}
}

// Updates yields the full order list each time it changes. It is closed after Stop.
func (sub *Subscription) Updates() <-chan []models.Order {
	return sub.updates
}

// Errors yields refresh failures; the subscription keeps running after one.
func (sub *Subscription) Errors() <-chan error {
	return sub.errs
}

// Stop is safe to call more than once and returns after the goroutine exits.
func (sub *Subscription) Stop() {
	sub.stopOnce.Do(func() {
		sub.cancel()
		<-sub.done
	})
}
