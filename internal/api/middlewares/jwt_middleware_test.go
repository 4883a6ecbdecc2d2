package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Appcraft/internal/logger"
)

const secret = "s3cret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		if !ok {
			id = "none"
		}
		_, _ = w.Write([]byte(id))
	})
}

func serve(h http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	h := JWTMiddleware(secret)(echoUser())
	valid := sign(t, secret, jwt.MapClaims{"user_id": "u1", "exp": time.Now().Add(time.Hour).Unix()})

	rec := serve(h, "Bearer "+valid)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())

	cases := map[string]string{
		"missing":     "",
		"not bearer":  "Basic abc",
		"wrong key":   "Bearer " + sign(t, "other", jwt.MapClaims{"user_id": "u1"}),
		"expired":     "Bearer " + sign(t, secret, jwt.MapClaims{"user_id": "u1", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no user id":  "Bearer " + sign(t, secret, jwt.MapClaims{"sub": "u1"}),
		"not a token": "Bearer garbage",
	}
	for name, auth := range cases {
		rec := serve(h, auth)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.Contains(t, rec.Body.String(), `"success":false`, name)
	}
}

func TestOptionalJWT(t *testing.T) {
	h := OptionalJWT(secret)(echoUser())

	rec := serve(h, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "none", rec.Body.String())

	rec = serve(h, "Bearer "+sign(t, secret, jwt.MapClaims{"user_id": "u2"}))
	assert.Equal(t, "u2", rec.Body.String())

	rec = serve(h, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	h := RequestLogger(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := serve(h, "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
