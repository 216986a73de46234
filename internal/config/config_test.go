package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"grid-mix/internal/data"
	"grid-mix/internal/output"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 24, c.LookbackHours)
	assert.Equal(t, data.DefaultFuelInstURL, c.BMRS.FuelInstURL)
	assert.Equal(t, data.DefaultDemandURL, c.NESO.DemandURL)
	assert.Equal(t, output.DefaultCSVPath, c.Output.CSVPath)
	assert.Equal(t, 30*time.Second, c.HTTP.Timeout.Std())
}

func TestLoadUncheckedOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lookback_hours: 6
http:
  timeout: 5s
output:
  xlsx_path: out/mix.xlsx
cache:
  enabled: true
  ttl: 10m
`), 0o644))

	c, err := LoadUnchecked(path)
	require.NoError(t, err)
	assert.Equal(t, 6, c.LookbackHours)
	assert.Equal(t, 5*time.Second, c.HTTP.Timeout.Std())
	assert.Equal(t, "out/mix.xlsx", c.Output.XLSXPath)
	assert.Equal(t, output.DefaultCSVPath, c.Output.CSVPath, "unset keys keep defaults")
	assert.True(t, c.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, c.Cache.TTL.Std())
}

func TestLoadUncheckedBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  timeout: soon\n"), 0o644))

	_, err := LoadUnchecked(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	err := c.ApplyEnv(envMap(map[string]string{
		"MIX_LOOKBACK_HOURS":    "48",
		"BMRS_FUELINST_URL":     "http://localhost:9000/fuelinst",
		"HTTP_TIMEOUT":          "2s",
		"MIX_OUTPUT_PATH":       "/tmp/mix.csv",
		"ENABLE_RESPONSE_CACHE": "true",
		"API_PORT":              "9090",
		"API_ENV":               "production",
	}))
	require.NoError(t, err)
	assert.Equal(t, 48, c.LookbackHours)
	assert.Equal(t, "http://localhost:9000/fuelinst", c.BMRS.FuelInstURL)
	assert.Equal(t, 2*time.Second, c.HTTP.Timeout.Std())
	assert.Equal(t, "/tmp/mix.csv", c.Output.CSVPath)
	assert.Equal(t, "9090", c.APIPort)
	assert.True(t, c.Cache.Enabled)
	assert.False(t, c.CacheAllowed(), "cache is never used in production")

	assert.Error(t, Default().ApplyEnv(envMap(map[string]string{"MIX_LOOKBACK_HOURS": "a day"})))
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"negative hours": func(c *Config) { c.LookbackHours = -1 },
		"relative url":   func(c *Config) { c.BMRS.FuelInstURL = "/fuelinst" },
		"bad scheme":     func(c *Config) { c.NESO.DemandURL = "ftp://example.com/x.csv" },
		"zero timeout":   func(c *Config) { c.HTTP.Timeout = 0 },
		"empty csv path": func(c *Config) { c.Output.CSVPath = " " },
		"cache zero ttl": func(c *Config) { c.Cache.Enabled = true; c.Cache.TTL = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	c := Default()
	c.LookbackHours = 0
	assert.NoError(t, c.Validate(), "a zero-hour window is allowed")
}

func TestNewClientsSharesCacheOnlyWhenAllowed(t *testing.T) {
	c := Default()
	bmrs, neso, cache := c.NewClients()
	assert.Nil(t, cache)
	assert.Nil(t, bmrs.Cache)
	assert.Nil(t, neso.Cache)

	c.Cache.Enabled = true
	bmrs, neso, cache = c.NewClients()
	require.NotNil(t, cache)
	assert.Same(t, cache, bmrs.Cache)
	assert.Same(t, cache, neso.Cache)
}
