package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<API REQUEST_DUMP="true">
	<CONTEXT>
		<HOST>127.0.0.1</HOST>
		<PORT>9000</PORT>
		<REQUEST_TIMEOUT>5</REQUEST_TIMEOUT>
	</CONTEXT>
	<AUTHENTICATION>
		<ENABLE_TOKEN_AUTH>true</ENABLE_TOKEN_AUTH>
		<JWT_SECRET>from-file</JWT_SECRET>
	</AUTHENTICATION>
	<BASIC_AUTH>
		<USER NAME="ops">$2a$10$abc</USER>
	</BASIC_AUTH>
	<DB>
		<HOST>db.internal</HOST>
		<NAMES ADMIN="experimentai"/>
		<USERNAME>admin</USERNAME>
		<PASSWORD TYPE="PLAIN_TEXT">secret</PASSWORD>
	</DB>
</API>`

func TestParseConfig(t *testing.T) {
	t.Run("FileValuesAndDefaults", func(t *testing.T) {
		c, err := ParseConfig([]byte(sample))
		require.NoError(t, err)

		assert.True(t, c.RequestDump)
		assert.Equal(t, 9000, c.Context.Port)
		assert.Equal(t, "/api", c.Context.Path)
		assert.Equal(t, 5*time.Second, c.Context.RequestTimeoutDuration())
		assert.Equal(t, 20, c.Pagination.PageSize)
		assert.Equal(t, "from-file", c.Authentication.JWTSecret)
		require.Len(t, c.BasicAuth.Users, 1)
		assert.Equal(t, "ops", c.BasicAuth.Users[0].Name)
		assert.Equal(t, "$2a$10$abc", c.BasicAuth.Users[0].PasswordHash)
		assert.Equal(t, "host=db.internal port=5432 user=admin password=secret dbname=experimentai sslmode=disable", c.DB.DSN())
		assert.Equal(t, 5*time.Minute, c.Cache.TTLDuration())
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "from-env")
		t.Setenv("DB_PASSWORD", "env-secret")
		t.Setenv("PORT", "7000")

		c, err := ParseConfig([]byte(sample))
		require.NoError(t, err)
		assert.Equal(t, "from-env", c.Authentication.JWTSecret)
		assert.Equal(t, "env-secret", c.DB.Password.Value)
		assert.Equal(t, 7000, c.Context.Port)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := ParseConfig([]byte("<API><CONTEXT>"))
		assert.Error(t, err)
	})
}

func TestCheckAuth(t *testing.T) {
	t.Run("SecretRequiredWithTokenAuth", func(t *testing.T) {
		c, err := ParseConfig([]byte(sample))
		require.NoError(t, err)
		require.NoError(t, c.CheckAuth())
		assert.Equal(t, []byte("from-file"), c.TokenSecret())

		c.Authentication.JWTSecret = "  "
		assert.Error(t, c.CheckAuth())
	})

	t.Run("TokenAuthDisabled", func(t *testing.T) {
		c, err := ParseConfig([]byte(sample))
		require.NoError(t, err)
		c.Authentication.EnableTokenAuth = false
		c.Authentication.JWTSecret = ""
		assert.Nil(t, c.TokenSecret())
		assert.Error(t, c.CheckAuth())

		c.Context.EnableBasicAuth = true
		assert.NoError(t, c.CheckAuth())
	})
}
