package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)

	workspace := &Workspace{ID: "ws-1", ClientKey: "client-1"}
	token, err := issuer.Issue(workspace)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "ws-1", claims.Subject)
	require.Equal(t, "client-1", claims.ClientKey)
}

func TestTokenIssuerRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", time.Minute)
	require.NoError(t, err)
	other, err := NewTokenIssuer("other-secret", time.Minute)
	require.NoError(t, err)

	token, err := other.Issue(&Workspace{ID: "ws-1"})
	require.NoError(t, err)
	_, err = issuer.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	token, err = issuer.Issue(&Workspace{ID: "ws-1"})
	require.NoError(t, err)
	issuer.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = issuer.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("  ", time.Hour)
	require.Error(t, err)
}
