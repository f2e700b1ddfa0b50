package handlers

import (
	"errors"
	"net/http"

	"github.com/ray-remotestate/burgerhouse/database/dbhelper"
	"github.com/ray-remotestate/burgerhouse/models"
	"github.com/ray-remotestate/burgerhouse/utils"
)

// ListMenu returns the catalog sorted by name. With ?category= it returns
// only the available items of that category.
func (a *API) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := a.catalog.ListMenuItems(r.Context())
	if err != nil {
		serverError(w, "failed to fetch menu", err)
		return
	}

	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}
		items = models.FilterByCategory(items, category)
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (a *API) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in models.MenuItemInput
	if err := decodeJSON(r, &in); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		validationFailed(w, err)
		return
	}

	item, err := a.catalog.CreateMenuItem(r.Context(), in)
	if err != nil {
		serverError(w, "failed to create menu item", err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, item)
}

func (a *API) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in models.MenuItemInput
	if err := decodeJSON(r, &in); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		validationFailed(w, err)
		return
	}

	item, err := a.catalog.UpdateMenuItem(r.Context(), id, in)
	if errors.Is(err, dbhelper.ErrMenuItemNotFound) {
		http.Error(w, "menu item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, "failed to update menu item", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func (a *API) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := a.catalog.DeleteMenuItem(r.Context(), id)
	if errors.Is(err, dbhelper.ErrMenuItemNotFound) {
		http.Error(w, "menu item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, "failed to delete menu item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
