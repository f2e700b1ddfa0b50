package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/burgerhouse/cart"
	"github.com/ray-remotestate/burgerhouse/database/dbhelper"
	"github.com/ray-remotestate/burgerhouse/models"
	"github.com/ray-remotestate/burgerhouse/utils"
)

type cartResponse struct {
	Items       []models.CartItem `json:"items"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	DeliveryFee decimal.Decimal   `json:"deliveryFee"`
	Total       decimal.Decimal   `json:"total"`
}

// selectionRequest names extras by label only; their prices come from the menu.
type selectionRequest struct {
	Sides      []string `json:"sides"`
	Drink      string   `json:"drink"`
	Extras     []string `json:"extras"`
	Removables []string `json:"removables"`
}

func (s *selectionRequest) resolve(item models.MenuItem) *models.CartSelection {
	if s == nil {
		return nil
	}
	return &models.CartSelection{
		Sides:      s.Sides,
		Drink:      s.Drink,
		Extras:     cart.ResolveExtras(item, s.Extras),
		Removables: s.Removables,
	}
}

func (a *API) respondCart(w http.ResponseWriter, userID uuid.UUID, status int) {
	items, subtotal := a.carts.Snapshot(userID)
	resp := cartResponse{Items: items, Subtotal: subtotal, DeliveryFee: decimal.Zero, Total: subtotal}
	if len(items) > 0 {
		resp.DeliveryFee = a.orders.DeliveryFee()
		resp.Total = subtotal.Add(resp.DeliveryFee)
	}
	utils.RespondJSON(w, status, resp)
}

func (a *API) GetCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	a.respondCart(w, claims.UserID, http.StatusOK)
}

func (a *API) AddCartItem(w http.ResponseWriter, r *http.Request) {
	type request struct {
		MenuItemID uuid.UUID         `json:"menuItemId"`
		Quantity   int               `json:"quantity"`
		Selection  *selectionRequest `json:"selection"`
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

	item, err := a.catalog.GetMenuItem(r.Context(), req.MenuItemID)
	if errors.Is(err, dbhelper.ErrMenuItemNotFound) {
		http.Error(w, "menu item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, "failed to fetch menu item", err)
		return
	}
	if !item.IsAvailable {
		http.Error(w, "menu item is not available", http.StatusConflict)
		return
	}

	sel := req.Selection.resolve(item)
	a.carts.With(claims.UserID, func(c *cart.Cart) {
		c.AddItem(item, sel, req.Quantity)
	})
	a.respondCart(w, claims.UserID, http.StatusCreated)
}

// UpdateCartItemQuantity sets a line's quantity; values below one become one.
func (a *API) UpdateCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Quantity int `json:"quantity"`
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

	cartID := mux.Vars(r)["cartId"]
	a.carts.With(claims.UserID, func(c *cart.Cart) {
		c.UpdateQuantity(cartID, req.Quantity)
	})
	a.respondCart(w, claims.UserID, http.StatusOK)
}

// EditCartItem replaces a line's selection and quantity and reprices it.
func (a *API) EditCartItem(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Quantity  int               `json:"quantity"`
		Selection *selectionRequest `json:"selection"`
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

	cartID := mux.Vars(r)["cartId"]
	a.carts.With(claims.UserID, func(c *cart.Cart) {
		line, found := c.Item(cartID)
		if !found {
			return
		}
		c.EditItem(cartID, req.Selection.resolve(line.Item), req.Quantity)
	})
	a.respondCart(w, claims.UserID, http.StatusOK)
}

func (a *API) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	cartID := mux.Vars(r)["cartId"]
	a.carts.With(claims.UserID, func(c *cart.Cart) {
		c.RemoveItem(cartID)
	})
	a.respondCart(w, claims.UserID, http.StatusOK)
}

func (a *API) ClearCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	a.carts.With(claims.UserID, func(c *cart.Cart) {
		c.Clear()
	})
	a.respondCart(w, claims.UserID, http.StatusOK)
}
