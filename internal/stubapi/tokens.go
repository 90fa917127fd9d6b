package stubapi

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errInvalidToken = errors.New("stubapi: invalid token")
	errExpiredToken = errors.New("stubapi: token expired")
)

type claims struct {
	Role string `json:"rol"`
	jwt.RegisteredClaims
}

// issuer signs and verifies HS256 access tokens.
type issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (i issuer) generate(userID int64, role string) (string, error) {
	now := i.now()
	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}

func (i issuer) verify(token string) (int64, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, errExpiredToken
		}
		return 0, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if !parsed.Valid {
		return 0, errInvalidToken
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: sub", errInvalidToken)
	}
	return id, nil
}
