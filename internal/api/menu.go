package api

import (
	"net/http"

	"tarim-admin/internal/menu"
	"tarim-admin/internal/state"
	"tarim-admin/internal/utils"

	"github.com/gorilla/mux"
)

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	h.State.Dispatch(state.Loading{Slice: state.SliceMenu})

	items, err := h.Menu.List(r.Context())
	if err != nil {
		h.State.Dispatch(state.Failed{Slice: state.SliceMenu, Err: err})
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.MenuLoaded{Items: items})
	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var input menu.CreateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.Menu.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.MenuItemAdded{Item: *item})
	utils.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var input menu.UpdateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.Menu.Update(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.MenuItemUpdated{Item: *item})
	utils.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Menu.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.MenuItemDeleted{ID: id})
	w.WriteHeader(http.StatusNoContent)
}
