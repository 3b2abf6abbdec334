package config

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigRoundTrips(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(cfg.GetDefaultConfig()), &cfg))
	assert.Equal(t, 60, cfg.PollIntervalSeconds)
	assert.Equal(t, "homeassistant", cfg.DiscoveryPrefix)
	assert.NotEmpty(t, cfg.DeviceHost)
}
