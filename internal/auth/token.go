// Package auth issues and validates bearer tokens
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is the fixed validity of an access token. There is no refresh mechanism.
const TokenLifetime = 15 * time.Minute

// Claims is the identity carried by a validated token
type Claims struct {
	UserID   int
	Username string
	Role     string
}

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret   string
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokenGenerator creates a new token generator.
// Empty issuer or audience values are neither written nor checked.
func NewTokenGenerator(secret, issuer, audience string) *TokenGenerator {
	return &TokenGenerator{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// GenerateToken creates a signed access token for the user
func (tg *TokenGenerator) GenerateToken(userID int, username, role string) (string, error) {
	now := tg.now()
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"role":     role,
		"exp":      now.Add(TokenLifetime).Unix(),
		"iat":      now.Unix(),
	}
	if tg.issuer != "" {
		claims["iss"] = tg.issuer
	}
	if tg.audience != "" {
		claims["aud"] = tg.audience
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates an access token and returns the identity it carries
func (tg *TokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tg.now),
	}
	if tg.issuer != "" {
		opts = append(opts, jwt.WithIssuer(tg.issuer))
	}
	if tg.audience != "" {
		opts = append(opts, jwt.WithAudience(tg.audience))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	// JWT claims decode numbers as float64
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("user_id not found in token")
	}

	username, ok := claims["username"].(string)
	if !ok {
		return nil, fmt.Errorf("username not found in token")
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("role not found in token")
	}

	return &Claims{UserID: int(userID), Username: username, Role: role}, nil
}
