package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/burgerhouse/cart"
	"github.com/ray-remotestate/burgerhouse/models"
	"github.com/ray-remotestate/burgerhouse/orders"
	"github.com/ray-remotestate/burgerhouse/utils"
)

const streamHeartbeat = 25 * time.Second

var errEmptyCart = errors.New("cart is empty")

// Checkout validates the delivery details, saves them to the profile, places
// the order and only then removes the ordered lines from the cart.
func (a *API) Checkout(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Address string      `json:"address"`
		Card    models.Card `json:"card"`
	}

	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Address = strings.TrimSpace(req.Address)
	if req.Address == "" {
		http.Error(w, "address is required", http.StatusBadRequest)
		return
	}
	if err := models.ValidateCard(req.Card); err != nil {
		validationFailed(w, err)
		return
	}

	var (
		orderID  uuid.UUID
		subtotal decimal.Decimal
	)
	err := a.carts.Checkout(claims.UserID, func(lines []models.CartItem, cartSubtotal decimal.Decimal) error {
		if len(lines) == 0 {
			return errEmptyCart
		}

		details := models.ProfileUpdate{Address: &req.Address, Card: &req.Card}
		details.Normalize()
		user, err := a.users.UpsertProfile(r.Context(), claims.UserID, details)
		if err != nil {
			return fmt.Errorf("failed to save delivery details: %w", err)
		}

		orderID, err = a.orders.PlaceOrder(r.Context(), user, req.Address, lines, cartSubtotal)
		if err != nil {
			return err
		}
		subtotal = cartSubtotal
		return nil
	})
	switch {
	case errors.Is(err, errEmptyCart):
		http.Error(w, "cart is empty", http.StatusBadRequest)
		return
	case errors.Is(err, cart.ErrCheckoutInProgress):
		http.Error(w, "checkout already in progress", http.StatusConflict)
		return
	case err != nil:
		serverError(w, "failed to place order", err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"orderId":     orderID,
		"subtotal":    subtotal,
		"deliveryFee": a.orders.DeliveryFee(),
		"total":       subtotal.Add(a.orders.DeliveryFee()),
		"status":      models.OrderStatusPending,
	})
}

func (a *API) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := a.orders.ListForUser(r.Context(), claims.UserID)
	if err != nil {
		serverError(w, "failed to fetch orders", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

// GetOrder is visible to the order's owner and to admins.
func (a *API) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := a.orders.Get(r.Context(), id)
	if err != nil {
		serverError(w, "failed to fetch order", err)
		return
	}
	if order == nil || (order.UserID != claims.UserID && claims.Role != models.RoleAdmin) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

// StreamMyOrders pushes the caller's order list as server-sent events, once
// on connect and again after every change.
func (a *API) StreamMyOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	sub, err := a.orders.Subscribe(r.Context(), claims.UserID)
	if err != nil {
		serverError(w, "failed to subscribe to orders", err)
		return
	}
	defer sub.Stop()

	// The stream outlives the server's write timeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		logrus.WithError(err).Debug("write deadline not cleared for order stream")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case list, open := <-sub.Updates():
			if !open {
				return
			}
			if err := sendEvent(w, flusher, "orders", list); err != nil {
				logrus.WithError(err).Debug("order stream closed")
				return
			}
		case err := <-sub.Errors():
			if sendErr := sendEvent(w, flusher, "error", map[string]string{"message": err.Error()}); sendErr != nil {
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func sendEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func (a *API) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	list, err := a.orders.ListAll(r.Context())
	if err != nil {
		serverError(w, "failed to fetch orders", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

// AdvanceOrder moves an order one step forward. Delivered orders stay delivered.
func (a *API) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := a.orders.Advance(r.Context(), id)
	if errors.Is(err, orders.ErrOrderNotFound) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, "failed to update order status", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

func (a *API) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.orders.Stats(r.Context())
	if err != nil {
		serverError(w, "failed to build dashboard", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, stats)
}

// Health pings every backing service and reports each result.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	results := make(map[string]string, len(a.checks))
	for name, check := range a.checks {
		if err := check(r.Context()); err != nil {
			logrus.WithError(err).WithField("service", name).Warn("health check failed")
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}
	utils.RespondJSON(w, status, results)
}
