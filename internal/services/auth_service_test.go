package services

import (
	"net/http"
	"testing"
	"time"

	"inventory-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

func newAuthService(env string) *AuthService {
	cfg := config.Config{JWTSecret: "test-secret", Env: env}
	return NewAuthService(cfg, zerolog.Nop())
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newAuthService("development")

	token, err := svc.GenerateToken(7, "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" {
		t.Errorf("claims = {%d %q}, want {7 %q}", claims.UserID, claims.Username, "alice")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := newAuthService("development")
	verifier := NewAuthService(config.Config{JWTSecret: "other-secret"}, zerolog.Nop())

	token, err := issuer.GenerateToken(7, "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newAuthService("development")

	claims := &Claims{
		UserID:   7,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing expired token failed: %v", err)
	}

	if _, err := svc.ValidateToken(expired); err == nil {
		t.Error("expired token was accepted")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService("development")

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.ValidateToken(tok); err == nil {
			t.Errorf("malformed token %q was accepted", tok)
		}
	}
}

func TestSessionCookie(t *testing.T) {
	cookie := newAuthService("development").SessionCookie("tok")

	if cookie.Name != SessionCookieName {
		t.Errorf("cookie name = %q, want %q", cookie.Name, SessionCookieName)
	}
	if !cookie.HttpOnly {
		t.Error("cookie must be HTTP-only")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Error("cookie must be same-site-strict")
	}
	if cookie.MaxAge != int(TokenTTL.Seconds()) {
		t.Errorf("cookie max-age = %d, want %d", cookie.MaxAge, int(TokenTTL.Seconds()))
	}
	if cookie.Secure {
		t.Error("cookie must not be secure in development")
	}

	if !newAuthService("production").SessionCookie("tok").Secure {
		t.Error("cookie must be secure in production")
	}
}
