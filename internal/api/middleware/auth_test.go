package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/testutil"
)

var secret = []byte("test-secret")

func sign(t *testing.T, claims Claims, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func staffClaims() Claims {
	return Claims{
		Role:        "staff",
		LocationIDs: []int64{1, 2},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuth(t *testing.T) {
	var got domain.Actor
	handler := Auth(secret, testutil.Logger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, staffClaims(), jwt.SigningMethodHS256, secret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, domain.Actor{UserID: "user-7", Role: domain.RoleStaff, LocationIDs: []int64{1, 2}}, got)
}

func TestAuth_Rejects(t *testing.T) {
	expired := staffClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	unknownRole := staffClaims()
	unknownRole.Role = "owner"

	noSubject := staffClaims()
	noSubject.Subject = ""

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"wrong secret", "Bearer " + sign(t, staffClaims(), jwt.SigningMethodHS256, []byte("other"))},
		{"wrong algorithm", "Bearer " + sign(t, staffClaims(), jwt.SigningMethodHS512, secret)},
		{"expired", "Bearer " + sign(t, expired, jwt.SigningMethodHS256, secret)},
		{"unknown role", "Bearer " + sign(t, unknownRole, jwt.SigningMethodHS256, secret)},
		{"no subject", "Bearer " + sign(t, noSubject, jwt.SigningMethodHS256, secret)},
	}

	handler := Auth(secret, testutil.Logger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(actor *domain.Actor) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if actor != nil {
			req = req.WithContext(WithActor(req.Context(), *actor))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&domain.Actor{UserID: "s", Role: domain.RoleStaff}))
	assert.Equal(t, http.StatusNoContent, serve(&domain.Actor{UserID: "a", Role: domain.RoleAdmin}))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	const given = "6f1c1f7e-3c3b-4f0e-9a53-0c6f7f5b8d11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, given)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, given, rec.Header().Get(HeaderRequestID))
}
