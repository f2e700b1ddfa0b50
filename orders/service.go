package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ray-remotestate/burgerhouse/models"
	"github.com/ray-remotestate/burgerhouse/notify"
)

var ErrOrderNotFound = errors.New("order not found")

// DefaultDeliveryFee is charged on every order unless configured otherwise.
var DefaultDeliveryFee = decimal.NewFromInt(25)

const recentTotalsWindow = 8

var tracer = otel.Tracer("github.com/ray-remotestate/burgerhouse/orders")

// Store persists orders. GetOrder returns (nil, nil) when the order is absent.
// List methods return newest first.
type Store interface {
	CreateOrder(ctx context.Context, draft models.OrderDraft) (uuid.UUID, error)
	ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	SetOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) error
}

// Feed signals order changes to live subscribers.
type Feed interface {
	Publish(ctx context.Context, userID uuid.UUID) error
	Subscribe(ctx context.Context, userID uuid.UUID) (notify.Listener, error)
}

type Service struct {
	store       Store
	feed        Feed
	deliveryFee decimal.Decimal
}

func NewService(store Store, feed Feed, deliveryFee decimal.Decimal) *Service {
	return &Service{store: store, feed: feed, deliveryFee: deliveryFee}
}

func (s *Service) DeliveryFee() decimal.Decimal {
	return s.deliveryFee
}

// PlaceOrder snapshots the given cart lines into a new pending order. The
// caller clears the cart only once this returns without error.
func (s *Service) PlaceOrder(ctx context.Context, user models.AppUser, address string, lines []models.CartItem, subtotal decimal.Decimal) (uuid.UUID, error) {
	ctx, span := tracer.Start(ctx, "orders.PlaceOrder")
	defer span.End()

	draft := models.OrderDraft{
		UserID:      user.ID,
		Customer:    models.CustomerFromUser(user),
		Address:     address,
		CartItems:   lines,
		Subtotal:    subtotal,
		DeliveryFee: s.deliveryFee,
	}

	orderID, err := s.store.CreateOrder(ctx, draft)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return uuid.Nil, fmt.Errorf("failed to create order: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": orderID,
		"user_id":  user.ID,
		"total":    draft.Total().StringFixed(2),
	}).Info("order placed")
	span.SetAttributes(attribute.String("order.id", orderID.String()))

	s.publish(ctx, user.ID)
	return orderID, nil
}

// Advance moves an order one step along pending -> preparing -> delivered.
// A delivered order is left as is and no write happens.
func (s *Service) Advance(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "orders.Advance")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID.String()))

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	next := order.Status.Advance()
	if next == order.Status {
		return order, nil
	}

	if err := s.store.SetOrderStatus(ctx, orderID, next); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": orderID,
		"from":     order.Status,
		"to":       next,
	}).Info("order status advanced")

	order.Status = next
	s.publish(ctx, order.UserID)
	return order, nil
}

// Get returns (nil, nil) for an unknown order.
func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.store.ListOrdersForUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.store.ListAllOrders(ctx)
}

// Stats builds the admin dashboard summary over every order.
func (s *Service) Stats(ctx context.Context) (models.DashboardStats, error) {
	all, err := s.store.ListAllOrders(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to list orders: %w", err)
	}
	return Summarize(all), nil
}

// Summarize expects orders newest first. RecentTotals holds the latest
// totals oldest first, left-padded with zeros to a fixed width.
func Summarize(all []models.Order) models.DashboardStats {
	stats := models.DashboardStats{
		TotalOrders:  len(all),
		TotalRevenue: decimal.Zero,
		RecentTotals: make([]decimal.Decimal, recentTotalsWindow),
	}
	for _, o := range all {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
	}

	n := len(all)
	if n > recentTotalsWindow {
		n = recentTotalsWindow
	}
	for i := range stats.RecentTotals {
		stats.RecentTotals[i] = decimal.Zero
	}
	for i := 0; i < n; i++ {
		stats.RecentTotals[recentTotalsWindow-1-i] = all[i].Total
	}
	return stats
}

func (s *Service) publish(ctx context.Context, userID uuid.UUID) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("order change not published")
	}
}
