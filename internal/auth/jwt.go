package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/identity"
)

var (
	ErrTokenInvalid = errors.New("JWT token is invalid")
	ErrTokenExpired = errors.New("JWT token is expired")
)

const DefaultTokenTTL = 24 * time.Hour

type TokenManager interface {
	Issue(id identity.Identity) (string, error)
	Verify(tokenString string) (identity.Identity, error)
}

type AccessTokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs an HS256 token for id that expires after the configured TTL.
func (j *JWTManager) Issue(id identity.Identity) (string, error) {
	if id.UserID == uuid.Nil {
		return "", fmt.Errorf("issue token: empty user id")
	}

	now := j.now()
	claims := &AccessTokenClaims{
		UserID: id.UserID.String(),
		Email:  id.Email,
		StandardClaims: jwt.StandardClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(j.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *JWTManager) Verify(tokenString string) (identity.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})

	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) {
			if validationErr.Errors&(jwt.ValidationErrorExpired) != 0 {
				return identity.Identity{}, ErrTokenExpired
			}
		}
		return identity.Identity{}, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return identity.Identity{}, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return identity.Identity{}, ErrTokenInvalid
	}

	return identity.Identity{UserID: userID, Email: claims.Email}, nil
}
