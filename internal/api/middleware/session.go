package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// CookieName carries the signed portal session token.
	CookieName = "portal_session"

	sessionIDKey = "session_id"
)

var errMissingSID = errors.New("session token has no sid")

// SessionConfig configures the portal session cookie.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// MintSessionToken signs an HS256 token carrying sid.
func MintSessionToken(secret, sid string, ttl time.Duration, now time.Time) (string, error) {
	claims := sessionClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSessionToken verifies a session token and returns its sid.
func ParseSessionToken(secret, token string) (string, error) {
	var claims sessionClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !tkn.Valid || claims.SID == "" {
		return "", errMissingSID
	}
	return claims.SID, nil
}

// Session identifies the browser by the portal_session cookie. A missing,
// expired or forged cookie is replaced by a fresh session.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string
			if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
				sid, _ = ParseSessionToken(cfg.Secret, ck.Value)
			}

			if sid == "" {
				sid = uuid.NewString()
				token, err := MintSessionToken(cfg.Secret, sid, cfg.TTL, time.Now())
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(sessionIDKey, sid)
			return next(c)
		}
	}
}

// SessionID returns the sid resolved by Session.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sessionIDKey).(string)
	return sid
}
