package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid access token")

type JWT struct {
	Secret string
	TTL    time.Duration

	now func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = 3 * time.Hour
	}

	return &JWT{Secret: secret, TTL: ttl, now: time.Now}
}

func (j *JWT) CreateToken(userID int) (string, error) {
	now := j.clock()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(j.TTL).Unix(),
	})

	return token.SignedString([]byte(j.Secret))
}

// VerifyToken checks the signature and expiry and returns the user id claim.
func (j *JWT) VerifyToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(j.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.clock),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)

	if !ok || userID <= 0 {
		return 0, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}

	return int(userID), nil
}

func (j *JWT) clock() time.Time {
	if j.now == nil {
		return time.Now()
	}

	return j.now()
}
