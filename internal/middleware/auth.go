package middleware

import (
	"net/http"

	"tarim-admin/internal/auth"
	"tarim-admin/internal/logger"
	"tarim-admin/internal/user"
	"tarim-admin/internal/utils"

	"go.uber.org/zap"
)

// AuthMiddleware attaches the session identity to the request context.
// Requests without a token pass through anonymously; a token that does not
// verify is rejected.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			logger.FromCtx(r.Context()).Info("rejected access token",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
		ctx = logger.WithAdmin(ctx, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
