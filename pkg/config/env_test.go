package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envExtras struct {
	Region  string `toml:"region" env:"REGION"`
	Retries int    `toml:"retries" env:"RETRIES"`
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SRV_HOSTS", `[["127.0.0.1", 8080]]`)
	t.Setenv("SRV_MODE", "production")
	t.Setenv("SRV_NUM_WORKERS", "8")
	t.Setenv("SRV_KEEP_ALIVE", "15 seconds")
	t.Setenv("SRV_SHUTDOWN_TIMEOUT", "2 seconds")
	t.Setenv("SRV_SSL_ENABLED", "true")
	t.Setenv("SRV_EXT_REGION", "eu-west")

	s := defaultSettings[envExtras](t)
	require.NoError(t, ApplyEnv(s, "SRV_"))

	assert.Equal(t, AddressList{{Host: "127.0.0.1", Port: 8080}}, s.Hosts)
	assert.Equal(t, Production, s.Mode)
	assert.Equal(t, NumWorkers{Kind: CountManual, N: 8}, s.NumWorkers)
	assert.Equal(t, KeepAlive{Kind: KeepAliveSeconds, Seconds: 15}, s.KeepAlive)
	assert.Equal(t, Timeout{Unit: TimeoutSeconds, N: 2}, s.ShutdownTimeout)
	assert.True(t, s.Ssl.Enabled)
	assert.Equal(t, "eu-west", s.ExtendedFields.Region)

	// untouched
	assert.Equal(t, Backlog{}, s.Backlog)
	assert.Equal(t, "path/to/cert/cert.pem", s.Ssl.Certificate)
	assert.Equal(t, 0, s.ExtendedFields.Retries)
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("SRV_MODE", "staging")

	s := defaultSettings[map[string]string](t)
	err := ApplyEnv(s, "SRV_")
	require.Error(t, err)
	assert.ErrorContains(t, err, "staging")
	assert.Equal(t, Development, s.Mode)
}

func TestApplyEnv_NothingSet(t *testing.T) {
	s := defaultSettings[map[string]string](t)
	want := defaultSettings[map[string]string](t)

	require.NoError(t, ApplyEnv(s, "SRV_UNUSED_PREFIX_"))
	assert.Equal(t, want, s)
}
