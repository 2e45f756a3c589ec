package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("TestProfile", func(t *testing.T) {
		t.Setenv("ENV", "test")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test", cfg.Env)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "school_test.db", cfg.Database.Path)
		assert.Equal(t, "none", cfg.Events.Driver)
		assert.Equal(t, "8081", cfg.Server.Port)
		assert.Zero(t, cfg.Validation.SalaryMax)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("ENV", "test")
		t.Setenv("SERVER_PORT", "9999")
		t.Setenv("DB_USER", "school_admin")
		t.Setenv("VALIDATION_SALARY_MAX", "1000000")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9999", cfg.Server.Port)
		assert.Equal(t, "school_admin", cfg.Database.User)
		assert.Equal(t, float64(1000000), cfg.Validation.SalaryMax)
	})

	t.Run("DefaultsWithoutConfigFile", func(t *testing.T) {
		t.Setenv("ENV", "missing-profile")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "missing-profile", cfg.Env)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "school.teachers", cfg.Events.Subject)
	})
}
