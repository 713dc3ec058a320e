package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

// SessionTTL is the absolute session lifetime. Sessions are not extended on use.
const SessionTTL = 30 * 24 * time.Hour

const issuer = "kidari-teacher"

// Claims is the session token payload.
type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SignSession creates the signed session token for s, valid from now for SessionTTL.
func SignSession(secret string, s *Session, now time.Time) (string, error) {
	claims := Claims{
		UserID: s.UserID.String(),
		Name:   s.Name,
		Email:  s.Email,
		Role:   string(s.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSession validates signature and expiry and returns the session.
func ParseSession(secret string, tokenString string, opts ...jwt.ParserOption) (*Session, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil || claims.Subject != claims.UserID {
		return nil, errors.New("session token subject mismatch")
	}
	s := &Session{
		UserID: id,
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   entity.Role(claims.Role),
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
