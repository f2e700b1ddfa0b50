package handlers

import (
	"errors"
	"net/http"

	"github.com/ray-remotestate/burgerhouse/database/dbhelper"
	"github.com/ray-remotestate/burgerhouse/models"
	"github.com/ray-remotestate/burgerhouse/utils"
)

type authResponse struct {
	User        models.AppUser `json:"user"`
	AccessToken string         `json:"accessToken"`
}

func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req models.Registration
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		validationFailed(w, err)
		return
	}

	exists, err := a.users.IsUserExists(r.Context(), req.Email)
	if err != nil {
		serverError(w, "failed to check user existence", err)
		return
	}
	if exists {
		http.Error(w, "user already exists", http.StatusConflict)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		serverError(w, "failed to hash password", err)
		return
	}

	user, err := a.users.CreateUser(r.Context(), req, hashedPassword, models.ClassifyRole(req.Email))
	if errors.Is(err, dbhelper.ErrUserExists) {
		http.Error(w, "user already exists", http.StatusConflict)
		return
	}
	if err != nil {
		serverError(w, "failed to register user", err)
		return
	}

	a.issueTokens(w, http.StatusCreated, user)
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password required", http.StatusBadRequest)
		return
	}

	user, err := a.users.GetUserByPassword(r.Context(), req.Email, req.Password)
	if errors.Is(err, dbhelper.ErrInvalidCredentials) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		serverError(w, "server error", err)
		return
	}

	a.issueTokens(w, http.StatusOK, user)
}

// RefreshToken rotates both tokens. The role is re-read from the store.
func (a *API) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(utils.RefreshCookieName)
	if err != nil {
		http.Error(w, "refresh token missing", http.StatusUnauthorized)
		return
	}

	userID, err := a.tokens.ParseRefreshToken(cookie.Value)
	if err != nil {
		http.Error(w, "invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	user, err := a.users.GetProfile(r.Context(), userID)
	if err != nil {
		serverError(w, "failed to load user", err)
		return
	}
	if user == nil {
		http.Error(w, "invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	a.issueTokens(w, http.StatusOK, *user)
}

// Logout expires the refresh cookie and discards the caller's cart.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	a.carts.Clear(claims.UserID)
	utils.ClearRefreshCookie(w)

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully logged out",
	})
}

func (a *API) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := a.users.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		serverError(w, "failed to load profile", err)
		return
	}
	if user == nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

// UpdateProfile applies a partial change; role and email cannot be edited.
func (a *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	var update models.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	update.Normalize()
	if update.Card != nil {
		if err := models.ValidateCard(*update.Card); err != nil {
			validationFailed(w, err)
			return
		}
	}

	user, err := a.users.UpsertProfile(r.Context(), claims.UserID, update)
	if errors.Is(err, dbhelper.ErrUserNotFound) {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, "failed to update profile", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

func (a *API) issueTokens(w http.ResponseWriter, status int, user models.AppUser) {
	accessToken, refreshToken, err := a.tokens.GenerateTokens(user.ID, user.Role)
	if err != nil {
		serverError(w, "failed to generate tokens", err)
		return
	}
	utils.SetRefreshCookie(w, refreshToken)
	utils.RespondJSON(w, status, authResponse{User: user, AccessToken: accessToken})
}
