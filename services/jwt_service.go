package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eldato-web/models"
	"eldato-web/types"
)

const tokenIssuer = "eldato-web"

// JWTService issues and validates the session tokens handed to the browser
type JWTService struct {
	secret []byte
	expiry time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string, expiryHours int) *JWTService {
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &JWTService{
		secret: []byte(secret),
		expiry: time.Duration(expiryHours) * time.Hour,
	}
}

// SessionToken is returned to the client after a successful login
type SessionToken struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	TokenType string `json:"token_type"`
}

// Expiry is how long issued tokens stay valid
func (js *JWTService) Expiry() time.Duration {
	return js.expiry
}

// GenerateSessionToken signs a token bound to a stored session
func (js *JWTService) GenerateSessionToken(sessionID string, userID uint, role models.Role) (*SessionToken, error) {
	now := time.Now()
	claims := &types.Claims{
		SessionID: sessionID,
		UserID:    userID,
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(js.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(js.secret)
	if err != nil {
		return nil, err
	}

	return &SessionToken{
		Token:     tokenString,
		ExpiresIn: int64(js.expiry.Seconds()),
		TokenType: "Bearer",
	}, nil
}

// ValidateSessionToken parses a session token and returns its claims
func (js *JWTService) ValidateSessionToken(tokenString string) (*types.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return js.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*types.Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.SessionID == "" {
		return nil, errors.New("token is not bound to a session")
	}

	return claims, nil
}
