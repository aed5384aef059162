package jwt_test

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etm/config"
	"etm/infras/jwt"
)

func newConfig(secret string) *config.Config {
	cfg := config.Defaults()
	cfg.JWT.Secret = secret
	cfg.JWT.ExpireMin = 60

	return &cfg
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func TestIssue(t *testing.T) {
	c := &clock{now: time.Now()}
	svc := jwt.NewWithClock(newConfig("test-secret"), c.Now)

	token, err := svc.Issue("admin", []string{"ADMIN"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)
	assert.Len(t, strings.Split(token.AccessToken, "."), 3)

	claims, err := svc.Parse(token.AccessToken)
	require.NoError(t, err)

	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, []string{"ADMIN"}, claims.Roles)
	assert.Equal(t, "etm", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, c.now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestValidate_SubjectMismatch(t *testing.T) {
	svc := jwt.New(newConfig("test-secret"))

	token, err := svc.Issue("alice", []string{"USER"})
	require.NoError(t, err)

	assert.NoError(t, svc.Validate(token.AccessToken, "alice"))
	assert.ErrorIs(t, svc.Validate(token.AccessToken, "bob"), jwt.ErrSubjectMismatch)
}

func TestValidate_Expiry(t *testing.T) {
	issued := time.Now().Truncate(time.Second)
	c := &clock{now: issued}
	svc := jwt.NewWithClock(newConfig("test-secret"), c.Now)

	token, err := svc.Issue("alice", []string{"USER"})
	require.NoError(t, err)

	c.now = issued.Add(59 * time.Minute)
	assert.NoError(t, svc.Validate(token.AccessToken, "alice"))

	c.now = issued.Add(61 * time.Minute)
	assert.ErrorIs(t, svc.Validate(token.AccessToken, "alice"), jwt.ErrExpiredToken)
}

func TestParse_Errors(t *testing.T) {
	svc := jwt.New(newConfig("test-secret"))
	other := jwt.New(newConfig("another-secret"))

	foreign, err := other.Issue("alice", []string{"USER"})
	require.NoError(t, err)

	unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		expected error
	}{
		{name: "garbage", token: "not-a-token", expected: jwt.ErrMalformedToken},
		{name: "empty", token: "", expected: jwt.ErrMalformedToken},
		{name: "wrong secret", token: foreign.AccessToken, expected: jwt.ErrInvalidSignature},
		{name: "none algorithm", token: unsigned, expected: jwt.ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Parse(tt.token)

			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
		err      error
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "missing header", header: "", err: jwt.ErrMissingHeader},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", err: jwt.ErrInvalidHeader},
		{name: "bearer without token", header: "Bearer ", err: jwt.ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.ExtractTokenFromHeader(tt.header)

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, token)
		})
	}
}
