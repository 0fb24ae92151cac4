package api

import (
	"net/http"
	"strconv"

	"tarim-admin/internal/auth"
	"tarim-admin/internal/state"
	"tarim-admin/internal/user"
	"tarim-admin/internal/utils"
)

const sessionMaxAge = 24 * 60 * 60

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var input user.SignUpInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.Users.Register(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.startSession(w, sess)
	utils.WriteJSON(w, http.StatusCreated, sess)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var input user.LoginInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.Users.Login(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.startSession(w, sess)
	utils.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	auth.SetSessionCookie(w, "", -1)
	h.State.Dispatch(state.Reset{})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) startSession(w http.ResponseWriter, sess *user.Session) {
	auth.SetSessionCookie(w, sess.Token, sessionMaxAge)
	if sess.Profile != nil {
		h.State.Dispatch(state.ProfileLoaded{Profile: *sess.Profile})
	}
}

// currentUID returns the profile key of the signed-in user.
func currentUID(r *http.Request) (string, error) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return "", errUnauthenticated
	}
	return strconv.FormatUint(uint64(id), 10), nil
}
