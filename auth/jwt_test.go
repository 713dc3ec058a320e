package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

func TestSignAndParseSession(t *testing.T) {
	s := &Session{UserID: uuid.New(), Name: "홍길동", Email: "hong@example.com", Role: entity.RoleAdmin}
	now := time.Now()
	token, err := SignSession("secret", s, now)
	require.NoError(t, err)

	got, err := ParseSession("secret", token)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, got.UserID)
	assert.Equal(t, "hong@example.com", got.Email)
	assert.Equal(t, entity.RoleAdmin, got.Role)
	assert.WithinDuration(t, now.Add(SessionTTL), got.ExpiresAt, time.Second)
	assert.True(t, got.IsAdmin())
}

func TestParseSessionRejectsExpired(t *testing.T) {
	s := &Session{UserID: uuid.New(), Email: "a@example.com", Role: entity.RoleUser}
	token, err := SignSession("secret", s, time.Now().Add(-SessionTTL-time.Minute))
	require.NoError(t, err)

	_, err = ParseSession("secret", token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseSessionRejectsWrongSecret(t *testing.T) {
	s := &Session{UserID: uuid.New(), Email: "a@example.com", Role: entity.RoleUser}
	token, err := SignSession("secret", s, time.Now())
	require.NoError(t, err)

	_, err = ParseSession("other", token)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestParseSessionRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{UserID: uuid.NewString(), RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseSession("secret", token)
	assert.Error(t, err)
}

func TestSessionHelpers(t *testing.T) {
	owner := uuid.New()
	var anon *Session
	assert.False(t, anon.Authenticated())
	assert.False(t, (&Session{UserID: owner}).Authenticated())

	user := &Session{UserID: owner, Email: "a@example.com", Role: entity.RoleUser}
	assert.True(t, user.Authenticated())
	assert.True(t, user.CanActOn(owner))
	assert.False(t, user.CanActOn(uuid.New()))
	assert.True(t, (&Session{Role: entity.RoleAdmin}).CanActOn(uuid.New()))
}
