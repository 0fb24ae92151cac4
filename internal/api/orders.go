package api

import (
	"net/http"

	"tarim-admin/internal/order"
	"tarim-admin/internal/state"
	"tarim-admin/internal/utils"

	"github.com/gorilla/mux"
)

type statusInput struct {
	Status string `json:"status"`
}

// listOrders reads the realtime tree by default; ?source=documents reads
// the document store instead.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	list := h.Orders.List
	if r.URL.Query().Get("source") == "documents" {
		list = h.Orders.ListDocuments
	}

	h.State.Dispatch(state.Loading{Slice: state.SliceOrders})
	orders, err := list(r.Context())
	if err != nil {
		h.State.Dispatch(state.Failed{Slice: state.SliceOrders, Err: err})
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.OrdersLoaded{Orders: orders})
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var input order.CreateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.Orders.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.OrderUpserted{Order: *o})
	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var patch order.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.Orders.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.OrderUpserted{Order: *o})
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var input statusInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	id := mux.Vars(r)["id"]
	o, err := h.Orders.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.OrderStatusChanged{ID: id, Status: o.Status})
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Orders.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.OrderRemoved{ID: id})
	w.WriteHeader(http.StatusNoContent)
}
