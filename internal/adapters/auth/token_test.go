package auth

import (
	"testing"
	"time"

	"warriorhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTCodec_RoundTrip(t *testing.T) {
	issuer, verifier := NewJWTCodec("test-secret")

	token, err := issuer.Issue(5, "org@foo.com", domain.RoleOrganizer, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	actor, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), actor.UserID)
	assert.Equal(t, domain.RoleOrganizer, actor.Role)
}

func TestJWTCodec_RejectsBadTokens(t *testing.T) {
	issuer, _ := NewJWTCodec("test-secret")
	_, otherVerifier := NewJWTCodec("different-secret")

	token, err := issuer.Issue(3, "john@foo.com", domain.RoleUser, time.Hour)
	require.NoError(t, err)

	_, err = otherVerifier.Verify(token)
	assert.Error(t, err, "wrong secret must fail")

	_, verifier := NewJWTCodec("test-secret")
	_, err = verifier.Verify("not-a-token")
	assert.Error(t, err)

	expired, err := issuer.Issue(3, "john@foo.com", domain.RoleUser, -time.Minute)
	require.NoError(t, err)
	_, err = verifier.Verify(expired)
	assert.Error(t, err, "expired token must fail")
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("changeme")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, hasher.Compare(hash, "changeme"))
	assert.Error(t, hasher.Compare(hash, "wrong"))
}
