package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func echoUserID(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id, _ := userID.(string)
	c.JSON(http.StatusOK, gin.H{"user_id": id})
}

func TestValidateTokenRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", ValidateToken(testSecret), echoUserID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateTokenRejectsBadSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", ValidateToken(testSecret), echoUserID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", signToken(t, "other-secret", "user-1"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateTokenSetsUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", ValidateToken(testSecret), echoUserID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", signToken(t, testSecret, "user-1"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user_id":"user-1"}`, w.Body.String())
}

func TestOptionalTokenPassesAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cart", OptionalToken(testSecret), echoUserID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user_id":""}`, w.Body.String())
}

func TestOptionalTokenSetsUserIDWhenValid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cart", OptionalToken(testSecret), echoUserID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", signToken(t, testSecret, "user-7"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user_id":"user-7"}`, w.Body.String())
}

func TestValidateAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(configured, presented string) int {
		r := gin.New()
		r.GET("/admin", ValidateAPIKey(configured), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if presented != "" {
			req.Header.Set("X-API-KEY", presented)
		}
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, serve("admin-key", "admin-key"))
	require.Equal(t, http.StatusUnauthorized, serve("admin-key", "wrong-key"))
	require.Equal(t, http.StatusUnauthorized, serve("admin-key", ""))
	// An unset key must lock the admin surface, not open it.
	require.Equal(t, http.StatusUnauthorized, serve("", ""))
}
