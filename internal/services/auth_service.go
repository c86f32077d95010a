package services

import (
	"errors"
	"net/http"
	"time"

	"inventory-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "access_token"

// TokenTTL is the fixed validity window of a session token.
const TokenTTL = time.Hour

type AuthService struct {
	secretKey []byte
	env       string
	logger    zerolog.Logger
}

type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewAuthService(cfg config.Config, logger zerolog.Logger) *AuthService {
	return &AuthService{
		secretKey: []byte(cfg.JWTSecret),
		env:       cfg.Env,
		logger:    logger,
	}
}

func (s *AuthService) GenerateToken(userID int, username string) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error generating token")
		return "", err
	}

	return tokenString, nil
}

// ValidateToken verifies signature and validity window. Malformed, mis-signed
// and expired tokens are deliberately indistinguishable to callers.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// SessionCookie wraps a token in the session cookie: HTTP-only,
// same-site-strict, expiring with the token, secure outside development.
func (s *AuthService) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   s.env == "production",
	}
}
