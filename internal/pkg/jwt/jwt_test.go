package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("e1", auth.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "e1", claims[auth.ClaimEmployeeID])
	assert.Equal(t, "admin", claims[auth.ClaimRole])
	assert.Equal(t, auth.TokenTypeAccess, claims[auth.ClaimType])
}

func TestGenerateAccessToken_Errors(t *testing.T) {
	_, _, err := NewJWTService("test-secret", "1h").GenerateAccessToken("e1", auth.Role("root"))
	assert.Error(t, err)

	_, _, err = NewJWTService("test-secret", "soon").GenerateAccessToken("e1", auth.RoleEmployee)
	assert.Error(t, err)
}
