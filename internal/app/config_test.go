package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "data/fec", cfg.FECDir)
	require.Equal(t, "additive", cfg.IFRS16Policy)
	require.False(t, cfg.LeasePolicyRetag())
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsBadPolicy(t *testing.T) {
	t.Setenv("IFRS16_POLICY", "both")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRetagPolicy(t *testing.T) {
	t.Setenv("IFRS16_POLICY", "retag")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.LeasePolicyRetag())
}
