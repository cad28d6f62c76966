package common

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the "exp" claim of a JWT without verifying its
// signature. The client holds no signing key; it only uses this to discard
// sessions that are certainly dead. ok is false for opaque (non-JWT) tokens
// and for tokens without an expiry.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	at, err := claims.GetExpirationTime()
	if err != nil || at == nil {
		return time.Time{}, false
	}
	return at.Time, true
}

// CheckTokenFresh returns ErrTokenExpired when token carries an expiry that
// lies before now. Tokens without a readable expiry are assumed fresh.
func CheckTokenFresh(token string, now time.Time) error {
	exp, ok := TokenExpiry(token)
	if !ok {
		return nil
	}
	if !now.Before(exp) {
		return ErrTokenExpired
	}
	return nil
}

// IsTokenError reports whether err is one of the token lifecycle errors.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenExpired)
}
