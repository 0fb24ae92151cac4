package auth

import (
	"net/http"
	"strings"
)

const accessTokenName = "access_token"

// ExtractAccessToken reads the session token from the cookie, the
// Authorization header or, for websocket handshakes, the query string.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return r.URL.Query().Get(accessTokenName)
}

// SetSessionCookie stores the token the way ExtractAccessToken expects it.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
