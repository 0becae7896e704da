package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-key-0123456789"

func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

func TestSigner_IssueAndParse(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signer := NewSigner(secret, 30*time.Minute).WithClock(fixedClock(&now))

	token, issued, err := signer.Issue(7, "author")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "author", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, 30*time.Minute, signer.Remaining(claims))
}

func TestSigner_UniqueIDs(t *testing.T) {
	signer := NewSigner(secret, time.Minute)

	a, _, err := signer.Issue(1, "reader")
	require.NoError(t, err)
	b, _, err := signer.Issue(1, "reader")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSigner_RejectsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signer := NewSigner(secret, time.Minute).WithClock(fixedClock(&now))

	token, claims, err := signer.Issue(1, "reader")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = signer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Negative(t, signer.Remaining(claims))
}

func TestSigner_RejectsForeignSignature(t *testing.T) {
	token, _, err := NewSigner("another-secret-key-abcdef", time.Minute).Issue(1, "reader")
	require.NoError(t, err)

	_, err = NewSigner(secret, time.Minute).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewSigner(secret, time.Minute).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
