// Package token inspects access tokens issued by the NewNow backend.
//
// The front-end never verifies signatures (token validity is enforced
// server-side); claims are only decoded for display and logging, such
// as showing the session expiry on the profile page.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry returns the exp claim of the raw token. The boolean is false
// when the token is not a JWT or carries no expiry.
func Expiry(raw string) (time.Time, bool) {
	claims := decode(raw)
	if claims == nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subject returns the sub claim of the raw token.
func Subject(raw string) (string, bool) {
	claims := decode(raw)
	if claims == nil {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

func decode(raw string) jwt.MapClaims {
	if raw == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil
	}
	return claims
}
