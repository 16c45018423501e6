package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/household-budget/userctx"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/budgets", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRequireAuthPutsSubjectInContext(t *testing.T) {
	var gotUserUUID string
	handler := RequireAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserUUID = userctx.GetUserUUID(r.Context())
	}))

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-uuid-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authRequest(token))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-uuid-1", gotUserUUID)
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	handler := RequireAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-uuid-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongSecret := signToken(t, []byte("other-secret"), jwt.MapClaims{
		"sub": "user-uuid-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noSubject := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"garbage token", "not-a-jwt"},
		{"expired", expired},
		{"wrong secret", wrongSecret},
		{"no subject", noSubject},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authRequest(tc.token))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"errors":[{"status":"401","detail":"Unauthorized"}]}`, rec.Body.String())
		})
	}
}
