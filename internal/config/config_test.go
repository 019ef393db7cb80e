// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()

	assert.Equal(t, "info", c.Logger.Level)
	assert.Equal(t, "console", c.Logger.Format)
	assert.Equal(t, "http://localhost:8080", c.API.BaseURL)
	assert.Equal(t, 15*time.Second, c.API.Timeout)
	assert.False(t, c.Browser.Headless, "supervised flow needs a visible window by default")
	assert.Equal(t, 1500*time.Millisecond, c.Browser.PostLoadWait)
	assert.Equal(t, 600*time.Millisecond, c.Filler.ClickDelay)
	assert.Equal(t, "127.0.0.1:8787", c.Bridge.Addr)
}

func TestSetDefaultsPreservesExplicitValues(t *testing.T) {
	c := Config{
		Logger:  LoggerConfig{Level: "debug"},
		API:     APIConfig{BaseURL: "https://api.example.com"},
		Browser: BrowserConfig{Headless: true, PostLoadWait: 10 * time.Millisecond},
	}
	c.SetDefaults()

	assert.Equal(t, "debug", c.Logger.Level)
	assert.Equal(t, "https://api.example.com", c.API.BaseURL)
	assert.True(t, c.Browser.Headless)
	assert.Equal(t, 10*time.Millisecond, c.Browser.PostLoadWait)
}

func TestStorePath(t *testing.T) {
	c := Config{Store: StoreConfig{Path: "/tmp/custom.db"}}
	p, err := c.StorePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", p)

	c.Store.Path = ""
	p, err = c.StorePath()
	require.NoError(t, err)
	assert.Contains(t, p, ".autoapply")
}
