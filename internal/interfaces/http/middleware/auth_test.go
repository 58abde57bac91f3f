package middleware

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

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthRequired(testSecret)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(CtxUserID),
			"role":    c.GetString(CtxUserRole),
		})
	})
	r.GET("/protected", chain...)
	return r
}

func TestAuthRequired_ValidToken(t *testing.T) {
	r := newAuthTestRouter()
	token := signTestToken(t, testSecret, jwt.MapClaims{
		"sub":   "u-1",
		"email": "a@b.c",
		"role":  "user",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	r := newAuthTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_WrongSecret(t *testing.T) {
	r := newAuthTestRouter()
	token := signTestToken(t, "other-secret", jwt.MapClaims{
		"sub": "u-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	r := newAuthTestRouter()
	token := signTestToken(t, testSecret, jwt.MapClaims{
		"sub": "u-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleRequired(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		required string
		want     int
	}{
		{"admin vào được admin group", "admin", "admin", http.StatusOK},
		{"user bị chặn khỏi admin group", "user", "admin", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthTestRouter(RoleRequired(tt.required))
			token := signTestToken(t, testSecret, jwt.MapClaims{
				"sub":  "u-1",
				"role": tt.role,
				"exp":  time.Now().Add(time.Hour).Unix(),
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
