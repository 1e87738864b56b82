package session

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// RefreshLeeway is subtracted from a token's expiry when scheduling a
// refresh, so the session never runs right up to the deadline.
const RefreshLeeway = 5 * time.Minute

// timeNow is injectable for tests.
var timeNow = time.Now

// TokenExpiry extracts the exp claim from a bearer token without verifying
// the signature. Verification is the server's job; the client only needs the
// deadline to schedule refreshes.
func TokenExpiry(rawToken string) (time.Time, error) {
	if strings.TrimSpace(rawToken) == "" {
		return time.Time{}, errors.New("[TokenExpiry] empty token")
	}

	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, errors.Wrap(err, "[TokenExpiry] parse token")
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return time.Time{}, errors.New("[TokenExpiry] error extracting claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, errors.New("[TokenExpiry] token missing exp claim")
	}
	return time.Unix(int64(exp), 0), nil
}

// Expired reports whether the token's exp claim has passed at the given
// time. Tokens without a parseable expiry count as expired.
func Expired(rawToken string, now time.Time) bool {
	expiry, err := TokenExpiry(rawToken)
	if err != nil {
		return true
	}
	return now.After(expiry)
}
