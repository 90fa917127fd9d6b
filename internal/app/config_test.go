package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		APIBaseURL: "http://127.0.0.1:4000",
		TokenStore: TokenStoreFile,
		TokenKey:   "marketops_token",
		PageLimit:  10,
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"TOKEN_STORE", "API_BASE_URL", "PAGE_LIMIT", "APP_ENV"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:4000", cfg.APIBaseURL)
	require.Equal(t, TokenStoreFile, cfg.TokenStore)
	require.Equal(t, 10, cfg.PageLimit)
	require.False(t, cfg.IsProduction())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "valid", mutate: func(*Config) {}, ok: true},
		{name: "relative url", mutate: func(c *Config) { c.APIBaseURL = "/api" }},
		{name: "unknown store", mutate: func(c *Config) { c.TokenStore = "cookie" }},
		{name: "empty key", mutate: func(c *Config) { c.TokenKey = "" }},
		{name: "zero limit", mutate: func(c *Config) { c.PageLimit = 0 }},
		{name: "huge limit", mutate: func(c *Config) { c.PageLimit = 500 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestLoadStubConfigRequiresSecret(t *testing.T) {
	t.Setenv("STUB_JWT_SECRET", "")
	_, err := LoadStubConfig()
	require.Error(t, err)

	t.Setenv("STUB_JWT_SECRET", "short")
	_, err = LoadStubConfig()
	require.Error(t, err)

	t.Setenv("STUB_JWT_SECRET", "a-long-enough-secret")
	cfg, err := LoadStubConfig()
	require.NoError(t, err)
	require.Equal(t, ":4000", cfg.Addr)
	require.True(t, cfg.Seed)
}
