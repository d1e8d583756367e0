package handler

import (
	"context"
	"database/sql"
	"go-collab-api/common"
	"go-collab-api/model"
	"go-collab-api/repository"
	"go-collab-api/service"
	"net/http"
	"strings"
)

type contextKey string

const (
	// UserKey carries the authenticated *model.User, re-fetched from the
	// database rather than trusted from token claims.
	UserKey contextKey = "user"
	// TokenKey carries the raw bearer token so logout can revoke exactly
	// the credential that was presented.
	TokenKey contextKey = "token"
)

// AuthMiddleware is the access gateway for protected routes. Dependencies are
// injected so tests can stand it up with fakes; nothing here reads globals.
type AuthMiddleware struct {
	auth       *service.AuthService
	revocation *service.RevocationCache
	userRepo   repository.IUserRepository
}

func NewAuthMiddleware(auth *service.AuthService, revocation *service.RevocationCache, userRepo repository.IUserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		auth:       auth,
		revocation: revocation,
		userRepo:   userRepo,
	}
}

// ExtractToken pulls the bearer token from the Authorization header, falling
// back to the token cookie browser clients use.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) == 2 && strings.ToLower(headerParts[0]) == "bearer" {
			return headerParts[1]
		}
	}

	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}

	return ""
}

// Handler authenticates the request. The revocation check runs before the
// signature check: a token in the denylist is rejected even though it would
// still verify, which is what makes logout take effect immediately.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ExtractToken(r)
		if tokenString == "" {
			appErr := common.NewAppError(http.StatusUnauthorized, "Authentication token is required", nil)
			appErr.Send(w)
			return
		}

		revoked, err := m.revocation.IsRevoked(r.Context(), tokenString)
		if err != nil {
			appErr := common.NewAppError(http.StatusInternalServerError, "Could not verify session", err)
			appErr.Send(w)
			return
		}
		if revoked {
			appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", nil)
			appErr.Send(w)
			return
		}

		claims, err := m.auth.VerifyJWT(tokenString)
		if err != nil {
			appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err)
			appErr.Send(w)
			return
		}

		user, err := m.userRepo.GetUserByEmail(claims.Email)
		if err != nil {
			if err == sql.ErrNoRows {
				appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", nil)
				appErr.Send(w)
				return
			}
			appErr := common.NewAppError(http.StatusInternalServerError, "Could not resolve user", err)
			appErr.Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		ctx = context.WithValue(ctx, TokenKey, tokenString)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user attached by the middleware.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserKey).(*model.User)
	return user, ok
}
