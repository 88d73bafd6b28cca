package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-0123")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("JWT_ISSUER", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key-0123", cfg.Secret)
	assert.Equal(t, 8, cfg.ExpirationHours, "should use default expiration of 8 hours")
	assert.Equal(t, DefaultIssuer, cfg.Issuer)
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	tests := []struct {
		name          string
		expiration    string
		expectedHours int
		wantErr       string
	}{
		{name: "12 hours", expiration: "12", expectedHours: 12},
		{name: "minimum", expiration: "1", expectedHours: 1},
		{name: "one week", expiration: "168", expectedHours: 168},
		{name: "zero", expiration: "0", wantErr: "between 1 and 168"},
		{name: "too long", expiration: "169", wantErr: "between 1 and 168"},
		{name: "not a number", expiration: "abc", wantErr: "invalid JWT_EXPIRATION_HOURS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret-key-0123")
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHours, cfg.ExpirationHours)
		})
	}
}

func TestNewJWTConfig_Secret(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := NewJWTConfig()
		assert.ErrorContains(t, err, "JWT_SECRET is required")
	})

	t.Run("too short", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "short")
		_, err := NewJWTConfig()
		assert.ErrorContains(t, err, "at least 16 characters")
	})

	t.Run("custom issuer", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret-key-0123")
		t.Setenv("JWT_ISSUER", "framecraft-staging")
		cfg, err := NewJWTConfig()
		require.NoError(t, err)
		assert.Equal(t, "framecraft-staging", cfg.Issuer)
	})
}
