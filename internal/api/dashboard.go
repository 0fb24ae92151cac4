package api

import (
	"net/http"

	"tarim-admin/internal/state"
	"tarim-admin/internal/utils"
)

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	h.State.Dispatch(state.Loading{Slice: state.SliceDashboard})

	d, err := h.Dashboard.Get(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		h.State.Dispatch(state.Failed{Slice: state.SliceDashboard, Err: err})
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.DashboardLoaded{Dashboard: *d})
	utils.WriteJSON(w, http.StatusOK, d)
}
