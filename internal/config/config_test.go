package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, 100, cfg.RateLimit.Requests)
	require.Equal(t, time.Hour, cfg.RateLimit.Window)
	require.Equal(t, 24*time.Hour, cfg.Quota.Period)
	require.Equal(t, 1000, cfg.Quota.Limits["directions"])
	require.Equal(t, "llama3.2", cfg.LLM.Model)
	require.True(t, cfg.Cache.Enabled)

	lat, lng := cfg.DefaultCoords()
	require.InDelta(t, -7.7713, lat, 1e-6)
	require.InDelta(t, 110.3774, lng, 1e-6)
}

func TestValidateRejectsShortAPIKey(t *testing.T) {
	v := newViper()
	v.Set("maps.api_key", "tooshort")

	_, err := Load(v)
	require.Error(t, err)
	require.Contains(t, err.Error(), "maps.api_key")
}

func TestValidateAllowsMissingAPIKey(t *testing.T) {
	_, err := Load(newViper())
	require.NoError(t, err)
}

func TestValidateRejectsBadDefaultLocation(t *testing.T) {
	v := newViper()
	v.Set("search.default_location", "somewhere nice")

	_, err := Load(v)
	require.Error(t, err)
	require.Contains(t, err.Error(), "default_location")
}

func TestValidateRejectsNonPositiveWindow(t *testing.T) {
	v := newViper()
	v.Set("rate_limit.window", "0s")

	_, err := Load(v)
	require.Error(t, err)
}

func TestQuotaLimitOverride(t *testing.T) {
	v := newViper()
	v.Set("quota.limits", map[string]int{"directions": 2})

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Quota.Limits["directions"])
}
