package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, expiresAt, err := svc.Issue(Subject{ID: 7, Username: "director", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "director", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.NotNil(t, claims.IssuedAt)
}

func TestTokenService_UniqueIDs(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	a, _, err := svc.Issue(Subject{ID: 1, Username: "a", Role: "editor"})
	require.NoError(t, err)
	b, _, err := svc.Issue(Subject{ID: 1, Username: "a", Role: "editor"})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, Digest(a), Digest(b))
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(testSecret, time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.Issue(Subject{ID: 1, Username: "a", Role: "editor"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, _, err := NewTokenService(testSecret, time.Hour).Issue(Subject{ID: 1, Username: "a", Role: "editor"})
	require.NoError(t, err)

	_, err = NewTokenService("another-Secret-key-32-bytes-long", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: 1,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Garbage(t *testing.T) {
	_, err := NewTokenService(testSecret, time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDigest(t *testing.T) {
	d := Digest("abc")
	assert.Len(t, d, 64)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", d)
}
