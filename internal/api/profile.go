package api

import (
	"net/http"

	"tarim-admin/internal/profile"
	"tarim-admin/internal/state"
	"tarim-admin/internal/utils"
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Profiles.Get(r.Context(), uid)
	if err != nil {
		h.State.Dispatch(state.Failed{Slice: state.SliceProfile, Err: err})
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.ProfileLoaded{Profile: *p})
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input profile.UpdateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	email := utils.GetUserEmailFromContext(r.Context())
	p, err := h.Profiles.Update(r.Context(), uid, email, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.State.Dispatch(state.ProfileLoaded{Profile: *p})
	utils.WriteJSON(w, http.StatusOK, p)
}
