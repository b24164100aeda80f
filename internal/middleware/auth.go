package middleware

import (
	"context"
	"net/http"

	"github.com/maycoffee/maycoffee-api/internal/domain"
	"github.com/maycoffee/maycoffee-api/internal/errors"
	"github.com/maycoffee/maycoffee-api/internal/token"
	"github.com/maycoffee/maycoffee-api/internal/utils"
)

// UserStore re-reads the caller on every request. The token only proves
// identity; the store row is authoritative for the current role, which is
// what makes revocation effective before the token expires.
type UserStore interface {
	UserById(id domain.UserId) (domain.User, error)
}

type key int

const userKey key = 0

type Auth struct {
	codec      *token.Codec
	store      UserStore
	cookieName string
}

func NewAuth(codec *token.Codec, store UserStore, cookieName string) *Auth {
	return &Auth{codec: codec, store: store, cookieName: cookieName}
}

func (a *Auth) resolveUser(r *http.Request) (domain.User, error) {
	cookie, err := r.Cookie(a.cookieName)
	if err != nil {
		return domain.User{}, errors.Unauthorized("Please sign in to continue")
	}

	claims, err := a.codec.Verify(cookie.Value)
	if err != nil {
		switch err {
		case token.ErrExpired:
			return domain.User{}, errors.Unauthorized("Your session has expired. Please sign in again")
		default:
			return domain.User{}, errors.Unauthorized("Invalid session. Please sign in again")
		}
	}

	user, err := a.store.UserById(claims.Subject)
	if err != nil {
		// deleted since the token was issued
		if errors.IsNotFound(err) {
			return domain.User{}, errors.Unauthorized("Please sign in to continue")
		}
		return domain.User{}, err
	}

	return user, nil
}

// RequireUser resolves the session cookie into a user and puts it on the
// request context.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolveUser(r)
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates on the role resolved by RequireUser. Must run after it.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r)
		if user == nil {
			utils.WriteError(w, errors.Unauthorized("Please sign in to continue"))
			return
		}
		if !user.IsAdmin() {
			utils.WriteError(w, errors.Forbidden("You do not have access to this resource"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// WithUser is a test helper injecting a resolved user into the context the
// same way RequireUser does.
func WithUser(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, user))
}
