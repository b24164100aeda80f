package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maycoffee/maycoffee-api/internal/domain"
	"github.com/maycoffee/maycoffee-api/internal/errors"
	"github.com/maycoffee/maycoffee-api/internal/middleware"
)

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegisterHandler(t *testing.T) {
	t.Run("valid registration returns 201 with the dev code", func(t *testing.T) {
		h, deps := newTestHandler("development")
		deps.auth.RegisterFunc = func(name, email, pass string) (domain.User, string, error) {
			return domain.User{Id: 1, Name: name, Email: email}, "123456", nil
		}

		body := `{"name":"An","email":"a@b.com","password":"password123"}`
		w := httptest.NewRecorder()
		h.Register(w, httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			User    userView `json:"user"`
			DevCode string   `json:"devCode"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "a@b.com", resp.User.Email)
		assert.Equal(t, "123456", resp.DevCode)
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		h, _ := newTestHandler("development")

		w := httptest.NewRecorder()
		h.Register(w, httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(`{"email":"a@b.com"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("short password is a 400", func(t *testing.T) {
		h, _ := newTestHandler("development")

		body := `{"name":"An","email":"a@b.com","password":"short"}`
		w := httptest.NewRecorder()
		h.Register(w, httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service conflict propagates as 409", func(t *testing.T) {
		h, deps := newTestHandler("development")
		deps.auth.RegisterFunc = func(name, email, pass string) (domain.User, string, error) {
			return domain.User{}, "", errors.Conflict("Email already registered")
		}

		body := `{"name":"An","email":"a@b.com","password":"password123"}`
		w := httptest.NewRecorder()
		h.Register(w, httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})
}

func TestVerifyEmailHandler(t *testing.T) {
	t.Run("verification signs the user in", func(t *testing.T) {
		h, _ := newTestHandler("development")

		body := `{"email":"a@b.com","code":"123456"}`
		w := httptest.NewRecorder()
		h.VerifyEmail(w, httptest.NewRequest("POST", "/v1/auth/verify-email", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, w.Code)

		cookie := sessionCookieFrom(t, w, "maycoffee_session")
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, int((12 * 60 * 60)), cookie.MaxAge)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.False(t, cookie.Secure)
	})

	t.Run("invalid code propagates without a cookie", func(t *testing.T) {
		h, deps := newTestHandler("development")
		deps.auth.VerifyEmailFunc = func(email, code string) (domain.User, error) {
			return domain.User{}, errors.BadRequest("Invalid or expired code")
		}

		body := `{"email":"a@b.com","code":"000000"}`
		w := httptest.NewRecorder()
		h.VerifyEmail(w, httptest.NewRequest("POST", "/v1/auth/verify-email", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, sessionCookieFrom(t, w, "maycoffee_session"))
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("login sets a lax cookie in development", func(t *testing.T) {
		h, _ := newTestHandler("development")

		body := `{"email":"a@b.com","password":"password123"}`
		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest("POST", "/v1/auth/login", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, w.Code)

		cookie := sessionCookieFrom(t, w, "maycoffee_session")
		require.NotNil(t, cookie)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.False(t, cookie.Secure)
	})

	t.Run("production cookie is cross-site and secure", func(t *testing.T) {
		h, _ := newTestHandler("production")

		body := `{"email":"a@b.com","password":"password123"}`
		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest("POST", "/v1/auth/login", strings.NewReader(body)))

		cookie := sessionCookieFrom(t, w, "maycoffee_session")
		require.NotNil(t, cookie)
		assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
		assert.True(t, cookie.Secure)
	})

	t.Run("bad credentials propagate as 401", func(t *testing.T) {
		h, deps := newTestHandler("development")
		deps.auth.LoginFunc = func(email, pass string) (domain.User, error) {
			return domain.User{}, errors.Unauthorized("Invalid credentials")
		}

		body := `{"email":"a@b.com","password":"wrong-password"}`
		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest("POST", "/v1/auth/login", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, sessionCookieFrom(t, w, "maycoffee_session"))
	})
}

func TestLogoutHandler(t *testing.T) {
	h, _ := newTestHandler("development")

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest("POST", "/v1/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookieFrom(t, w, "maycoffee_session")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestResendCodeHandler(t *testing.T) {
	t.Run("locale follows Accept-Language", func(t *testing.T) {
		h, deps := newTestHandler("development")
		var gotLocale string
		deps.auth.ResendCodeFunc = func(email, locale string) (string, error) {
			gotLocale = locale
			return "", nil
		}

		r := httptest.NewRequest("POST", "/v1/auth/resend-code", strings.NewReader(`{"email":"a@b.com"}`))
		r.Header.Set("Accept-Language", "en-US,en;q=0.9")
		w := httptest.NewRecorder()
		h.ResendCode(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "en", gotLocale)
	})

	t.Run("default locale is Vietnamese", func(t *testing.T) {
		h, deps := newTestHandler("development")
		var gotLocale string
		deps.auth.ResendCodeFunc = func(email, locale string) (string, error) {
			gotLocale = locale
			return "", nil
		}

		w := httptest.NewRecorder()
		h.ResendCode(w, httptest.NewRequest("POST", "/v1/auth/resend-code", strings.NewReader(`{"email":"a@b.com"}`)))

		assert.Equal(t, "vi", gotLocale)
	})
}

func TestMeHandler(t *testing.T) {
	t.Run("returns the context user", func(t *testing.T) {
		h, _ := newTestHandler("development")

		r := middleware.WithUser(httptest.NewRequest("GET", "/v1/auth/me", nil), &domain.User{
			Id: 7, Email: "a@b.com", Role: domain.RoleAdmin,
		})
		w := httptest.NewRecorder()
		h.Me(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp userView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp.Id)
		assert.Equal(t, "admin", resp.Role)
	})

	t.Run("no context user is a 401", func(t *testing.T) {
		h, _ := newTestHandler("development")

		w := httptest.NewRecorder()
		h.Me(w, httptest.NewRequest("GET", "/v1/auth/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
