// Package handlers serves the HTTP API of the ordering app.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/burgerhouse/cart"
	"github.com/ray-remotestate/burgerhouse/middlewares"
	"github.com/ray-remotestate/burgerhouse/models"
	"github.com/ray-remotestate/burgerhouse/orders"
	"github.com/ray-remotestate/burgerhouse/utils"
)

// UserStore is the account storage the handlers need.
type UserStore interface {
	IsUserExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, reg models.Registration, hashedPassword string, role models.Role) (models.AppUser, error)
	GetUserByPassword(ctx context.Context, email, password string) (models.AppUser, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.AppUser, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (models.AppUser, error)
}

// CatalogStore is the menu storage the handlers need.
type CatalogStore interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (models.MenuItem, error)
	CreateMenuItem(ctx context.Context, in models.MenuItemInput) (models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uuid.UUID, in models.MenuItemInput) (models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
}

// HealthCheck reports whether one backing service is reachable.
type HealthCheck func(ctx context.Context) error

type API struct {
	users   UserStore
	catalog CatalogStore
	orders  *orders.Service
	carts   *cart.Sessions
	tokens  *utils.TokenIssuer
	checks  map[string]HealthCheck
}

func NewAPI(users UserStore, catalog CatalogStore, orderService *orders.Service, carts *cart.Sessions, tokens *utils.TokenIssuer, checks map[string]HealthCheck) *API {
	return &API{
		users:   users,
		catalog: catalog,
		orders:  orderService,
		carts:   carts,
		tokens:  tokens,
		checks:  checks,
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// currentUser returns the authenticated caller or writes 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*middlewares.Claims, bool) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// validationFailed writes 400 and returns true when err is a ValidationError.
func validationFailed(w http.ResponseWriter, err error) bool {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Message, http.StatusBadRequest)
		return true
	}
	return false
}

func serverError(w http.ResponseWriter, msg string, err error) {
	logrus.WithError(err).Error(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}
