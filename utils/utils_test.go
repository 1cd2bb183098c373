package utils

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "utils-test-secret")
	os.Exit(m.Run())
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!pass", hash)
	assert.True(t, CheckPassword(hash, "Str0ng!pass"))
	assert.False(t, CheckPassword(hash, "Wr0ng!pass"))
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("Str0ng!pass"))
	assert.False(t, IsStrongPassword("Sh0rt!a"))     // too short
	assert.False(t, IsStrongPassword("alllower1!a")) // no upper
	assert.False(t, IsStrongPassword("ALLUPPER1!A")) // no lower
	assert.False(t, IsStrongPassword("NoDigits!!a")) // no digit
	assert.False(t, IsStrongPassword("NoSpecial1a")) // no special
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("Jane Writer"))
	assert.False(t, IsValidName("Jane123"))
	assert.False(t, IsValidName("Jane_Writer"))
	assert.False(t, IsValidName(""))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("jane@example.com"))
	assert.False(t, IsValidEmail("jane@example"))
	assert.False(t, IsValidEmail("not an email"))
}

func TestSanitizeContentStripsScripts(t *testing.T) {
	out := SanitizeContent(`<p>hello</p><script>alert(1)</script>`)
	assert.Contains(t, out, "<p>hello</p>")
	assert.NotContains(t, out, "script")
}

func TestSanitizeTitleStripsAllMarkup(t *testing.T) {
	assert.Equal(t, "hello", SanitizeTitle("  <b>hello</b>  "))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-1", "author", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "author", claims.Role)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("user-1", "author", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}
