package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionCookie carries the opaque session token inside an HS256-signed JWT.
// The JWT only protects the cookie in transit; the session store stays the
// authority on whether the token is live.
type SessionCookie struct {
	name   string
	secret []byte
	secure bool
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionCookie(name, secret string, secure bool, ttl time.Duration) *SessionCookie {
	return &SessionCookie{
		name:   name,
		secret: []byte(secret),
		secure: secure,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Write sets the session cookie for token.
func (sc *SessionCookie) Write(c echo.Context, token string) error {
	if token == "" {
		return errors.New("session cookie: empty token")
	}
	now := sc.now()
	expires := now.Add(sc.ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        token,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString(sc.secret)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     sc.name,
		Value:    signed,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(sc.ttl.Seconds()),
		HttpOnly: true,
		Secure:   sc.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read returns the session token from the request cookie, or "" when the
// cookie is missing, tampered with or expired.
func (sc *SessionCookie) Read(c echo.Context) string {
	ck, err := c.Cookie(sc.name)
	if err != nil || ck.Value == "" {
		return ""
	}

	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(ck.Value, claims, func(*jwt.Token) (any, error) {
		return sc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(sc.now),
	)
	if err != nil || !tkn.Valid {
		return ""
	}
	return claims.ID
}

// Clear expires the session cookie.
func (sc *SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
