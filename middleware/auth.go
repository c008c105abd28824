package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/repositories"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const userContextKey contextKey = "current_user"

// CurrentUser returns the authenticated user placed in the request context by
// Authenticate. Nil on unauthenticated routes.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

type Authenticator struct {
	jwtSecret []byte
	userRepo  repositories.UserRepository
}

func NewAuthenticator(jwtSecret string, userRepo repositories.UserRepository) *Authenticator {
	return &Authenticator{jwtSecret: []byte(jwtSecret), userRepo: userRepo}
}

// Authenticate verifies the Bearer token and loads the live user row, so role
// or guild changes take effect on the next request, not at the next login.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			// Websocket clients cannot set headers from the browser.
			if t := r.URL.Query().Get("token"); t != "" {
				header = "Bearer " + t
			}
		}
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing or malformed authorization header", http.StatusUnauthorized)
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return a.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		uid, ok := claims["uid"].(string)
		if !ok || uid == "" {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		user, err := a.userRepo.GetByUID(r.Context(), uid)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				http.Error(w, "unknown user", http.StatusUnauthorized)
				return
			}
			http.Error(w, "failed to load user", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize limits a route subtree to the given roles. Runs after
// Authenticate; fine-grained checks (officer-owns-guild) stay in the
// services.
func Authorize(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r)
			if user == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "forbidden", http.StatusForbidden)
		})
	}
}
