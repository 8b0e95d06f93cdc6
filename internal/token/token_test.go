package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func testPrincipal() Principal {
	return Principal{
		ID:    1,
		Email: "admin@studio.example",
		Name:  "Studio Admin",
	}
}

func TestIssueAndVerify(t *testing.T) {
	tokenString, err := Issue(testPrincipal(), testSecret, DefaultTTL)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	principal, err := Verify(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), principal.ID)
	assert.Equal(t, "admin@studio.example", principal.Email)
	assert.Equal(t, "Studio Admin", principal.Name)
}

func TestIssueWithoutSecret(t *testing.T) {
	_, err := Issue(testPrincipal(), "", DefaultTTL)
	require.ErrorIs(t, err, ErrSecretMissing)
}

func TestVerifyErrors(t *testing.T) {
	valid, err := Issue(testPrincipal(), testSecret, DefaultTTL)
	require.NoError(t, err)

	expired, err := Issue(testPrincipal(), testSecret, -time.Hour)
	require.NoError(t, err)

	otherSecret, err := Issue(testPrincipal(), "a-different-secret", DefaultTTL)
	require.NoError(t, err)

	testCases := []struct {
		name          string
		tokenString   string
		secret        string
		expectedError error
	}{
		{
			name:        "valid token",
			tokenString: valid,
			secret:      testSecret,
		},
		{
			name:          "no secret configured",
			tokenString:   valid,
			secret:        "",
			expectedError: ErrSecretMissing,
		},
		{
			name:          "expired token",
			tokenString:   expired,
			secret:        testSecret,
			expectedError: ErrTokenExpired,
		},
		{
			name:          "token signed with different secret",
			tokenString:   otherSecret,
			secret:        testSecret,
			expectedError: ErrTokenInvalid,
		},
		{
			name:          "garbage token",
			tokenString:   "not.a.token",
			secret:        testSecret,
			expectedError: ErrTokenInvalid,
		},
		{
			name:          "empty token",
			tokenString:   "",
			secret:        testSecret,
			expectedError: ErrTokenInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			principal, err := Verify(tc.tokenString, tc.secret)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, principal)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, principal)
			}
		})
	}
}
