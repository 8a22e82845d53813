package cloud

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the bearer token issued by the auth service.
type Credential struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Present reports whether the credential can be sent. The token must be
// non-empty and, when it parses as a JWT carrying an expiry, not expired.
// The signature is not checked here; the server does that.
func (c Credential) Present(now time.Time) bool {
	if c.Token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		// opaque token
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return err == nil
	}
	return now.Before(exp.Time)
}

// Subject returns the "sub" or "username" claim of a JWT, if any.
func (c Credential) Subject() string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return c.Username
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub
	}
	if name, ok := claims["username"].(string); ok && name != "" {
		return name
	}
	return c.Username
}
