package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "b8a3c2267dc85f855dea9b46b452bf20"

func TestNewTokenGenerator(t *testing.T) {
	tg := NewTokenGenerator("secret", "issuer", "audience")

	assert.NotNil(t, tg)
	assert.Equal(t, "secret", tg.secret)
	assert.Equal(t, "issuer", tg.issuer)
	assert.Equal(t, "audience", tg.audience)
}

func TestTokenGenerator_GenerateToken(t *testing.T) {
	tg := NewTokenGenerator(testSecret, "", "")

	t.Run("round trip", func(t *testing.T) {
		token, err := tg.GenerateToken(42, "jonas", "Admin")
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		claims, err := tg.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, &Claims{UserID: 42, Username: "jonas", Role: "Admin"}, claims)
	})

	t.Run("signed with HS512 and 15 minute lifetime", func(t *testing.T) {
		fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		tg := NewTokenGenerator(testSecret, "", "")
		tg.now = func() time.Time { return fixed }

		token, err := tg.GenerateToken(1, "jonas", "User")
		require.NoError(t, err)

		parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
		require.NoError(t, err)
		assert.Equal(t, "HS512", parsed.Method.Alg())

		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, float64(fixed.Add(15*time.Minute).Unix()), claims["exp"])
		assert.Equal(t, float64(fixed.Unix()), claims["iat"])
	})
}

func TestTokenGenerator_ValidateToken(t *testing.T) {
	tg := NewTokenGenerator(testSecret, "accounts", "accounts-api")

	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	baseClaims := func() jwt.MapClaims {
		return jwt.MapClaims{
			"user_id":  7,
			"username": "ona",
			"role":     "User",
			"iss":      "accounts",
			"aud":      "accounts-api",
			"exp":      time.Now().Add(time.Hour).Unix(),
			"iat":      time.Now().Unix(),
		}
	}

	t.Run("valid token", func(t *testing.T) {
		token, err := tg.GenerateToken(7, "ona", "User")
		require.NoError(t, err)

		claims, err := tg.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 7, claims.UserID)
	})

	t.Run("empty string token", func(t *testing.T) {
		_, err := tg.ValidateToken("")
		assert.Error(t, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := tg.ValidateToken("header.payload")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS512, []byte("other-secret"), baseClaims())
		_, err := tg.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("HS256 rejected", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), baseClaims())
		_, err := tg.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("none algorithm rejected", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, baseClaims())
		_, err := tg.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := baseClaims()
		claims["exp"] = time.Now().Add(-time.Minute).Unix()
		token := sign(t, jwt.SigningMethodHS512, []byte(testSecret), claims)
		_, err := tg.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := baseClaims()
		delete(claims, "exp")
		token := sign(t, jwt.SigningMethodHS512, []byte(testSecret), claims)
		_, err := tg.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := baseClaims()
		claims["iss"] = "someone-else"
		token := sign(t, jwt.SigningMethodHS512, []byte(testSecret), claims)
		_, err := tg.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := baseClaims()
		claims["aud"] = "another-api"
		token := sign(t, jwt.SigningMethodHS512, []byte(testSecret), claims)
		_, err := tg.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("missing user_id", func(t *testing.T) {
		claims := baseClaims()
		delete(claims, "user_id")
		token := sign(t, jwt.SigningMethodHS512, []byte(testSecret), claims)
		_, err := tg.ValidateToken(token)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "user_id not found")
	})

	t.Run("missing role", func(t *testing.T) {
		claims := baseClaims()
		delete(claims, "role")
		token := sign(t, jwt.SigningMethodHS512, []byte(testSecret), claims)
		_, err := tg.ValidateToken(token)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "role not found")
	})
}
