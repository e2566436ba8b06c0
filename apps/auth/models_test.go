package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *User {
	return &User{Employee: models.Employee{
		EmployeeID: "EMP0001",
		Name:       "Test Employee",
		Email:      "test@example.com",
		Role:       models.RoleEmployee,
	}}
}

func parseClaims(t *testing.T, tokenString string) *Claims {
	t.Helper()
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(*Claims)
	require.True(t, ok)
	return claims
}

func TestAccessTokenCarriesAccessType(t *testing.T) {
	JWTSecret = []byte("test-secret")

	tokenString, err := testUser().GenerateJWT()
	require.NoError(t, err)

	claims := parseClaims(t, tokenString)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "EMP0001", claims.EmployeeID)
}

func TestRefreshTokenCarriesRefreshType(t *testing.T) {
	JWTSecret = []byte("test-secret")

	tokenString, err := testUser().GenerateRefreshToken()
	require.NoError(t, err)

	claims := parseClaims(t, tokenString)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestParseRefreshClaimsRejectsAccessToken(t *testing.T) {
	JWTSecret = []byte("test-secret")

	accessToken, err := testUser().GenerateJWT()
	require.NoError(t, err)

	_, err = ParseRefreshClaims(accessToken)
	assert.Error(t, err, "an access token must not mint new tokens")
}

func TestParseRefreshClaimsAcceptsRefreshToken(t *testing.T) {
	JWTSecret = []byte("test-secret")

	refreshToken, err := testUser().GenerateRefreshToken()
	require.NoError(t, err)

	claims, err := ParseRefreshClaims(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", claims.EmployeeID)
}

func TestParseRefreshClaimsRejectsForeignSignature(t *testing.T) {
	JWTSecret = []byte("test-secret")
	refreshToken, err := testUser().GenerateRefreshToken()
	require.NoError(t, err)

	JWTSecret = []byte("rotated-secret")
	_, err = ParseRefreshClaims(refreshToken)
	assert.Error(t, err)
}
