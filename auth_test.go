package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(secret []byte) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": currentUser(c)})
	})
	return r
}

func callMe(t *testing.T, r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewareAcceptsIssuedToken(t *testing.T) {
	token, err := IssueToken(testSecret, "user-42", time.Hour)
	require.NoError(t, err)

	w := callMe(t, authRouter(testSecret), "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", decodeBody(t, w)["userId"])
}

func TestAuthMiddlewareUserIDClaims(t *testing.T) {
	r := authRouter(testSecret)
	exp := time.Now().Add(time.Hour).Unix()

	for _, key := range []string{"id", "_id"} {
		token := signed(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{key: "legacy-" + key, "exp": exp})
		w := callMe(t, r, "Bearer "+token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "legacy-"+key, decodeBody(t, w)["userId"])
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r := authRouter(testSecret)
	expired, err := IssueToken(testSecret, "user-1", -time.Hour)
	require.NoError(t, err)
	wrongKey, err := IssueToken([]byte("other-secret"), "user-1", time.Hour)
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		msg    string
	}{
		"missing header": {"", "Authorization header required"},
		"not bearer":     {"Basic dXNlcjpwYXNz", "Invalid Authorization header format"},
		"expired":        {"Bearer " + expired, "Invalid token"},
		"wrong key":      {"Bearer " + wrongKey, "Invalid token"},
		"wrong method":   {"Bearer " + signed(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{"sub": "user-1"}), "Invalid token"},
		"no user":        {"Bearer " + signed(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"role": "admin"}), "User ID not found in token"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := callMe(t, r, tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tc.msg, decodeBody(t, w)["error"])
		})
	}
}
