package pagescope

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreConfig(t *testing.T) {
	t.Helper()

	saved := CurrentConfig()
	t.Cleanup(func() {
		_configMu.Lock()
		_config = saved
		_configMu.Unlock()
	})
}

func Test_Configure(t *testing.T) {
	restoreConfig(t)

	require.NoError(t, Configure(func(c *Config) {
		c.DefaultPerPage = 7
		c.MaxPages = 3
	}))

	cfg := CurrentConfig()
	assert.Equal(t, 7, cfg.DefaultPerPage)
	assert.Equal(t, 3, cfg.MaxPages)

	spec := NewPageSpec(modelConfig[tUser]())
	assert.Equal(t, 7, spec.EffectivePerPage())

	totalPages, err := spec.TotalPages(100)
	require.NoError(t, err)
	assert.Equal(t, 3, totalPages)
}

func Test_Configure_Invalid(t *testing.T) {
	restoreConfig(t)

	tests := []struct {
		name string
		fn   func(c *Config)
	}{
		{"zero default per page", func(c *Config) { c.DefaultPerPage = 0 }},
		{"negative max per page", func(c *Config) { c.MaxPerPage = -1 }},
		{"negative max pages", func(c *Config) { c.MaxPages = -2 }},
		{"non printable param", func(c *Config) { c.PageParam = "pa\nge" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := CurrentConfig()

			require.Error(t, Configure(tt.fn))
			require.Equal(t, before, CurrentConfig(), "invalid config must be discarded")
		})
	}
}

func Test_Config_Merge(t *testing.T) {
	base := Config{DefaultPerPage: 25, MaxPerPage: 100, PageParam: "page"}

	merged := base.Merge(Config{DefaultPerPage: 10, PerPageParam: "limit"})

	assert.Equal(t, Config{DefaultPerPage: 10, MaxPerPage: 100, PageParam: "page", PerPageParam: "limit"}, merged)
	assert.Equal(t, base, base.Merge(Config{}))
}

func Test_modelConfig(t *testing.T) {
	restoreConfig(t)

	require.NoError(t, Configure(func(c *Config) { c.MaxPages = 9 }))

	cfg := modelConfig[tAdmin]()
	assert.Equal(t, 10, cfg.DefaultPerPage)
	assert.Equal(t, 15, cfg.MaxPerPage)
	assert.Equal(t, 9, cfg.MaxPages, "unset model fields inherit the global value")

	assert.Equal(t, CurrentConfig(), modelConfig[tUser]())
}

func writeConfigFile(t *testing.T, content string) *viper.Viper {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := viper.New()
	v.SetConfigFile(path)

	return v
}

func Test_LoadConfig(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		cfg, err := LoadConfig(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("from file", func(t *testing.T) {
		v := writeConfigFile(t, `
pagination:
  default_per_page: 20
  max_per_page: 100
  page_param: p
`)

		cfg, err := LoadConfig(v)
		require.NoError(t, err)
		assert.Equal(t, Config{
			DefaultPerPage: 20,
			MaxPerPage:     100,
			PageParam:      "p",
			PerPageParam:   DefaultPerPageParam,
		}, cfg)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("PAGESCOPE_PAGINATION_MAX_PER_PAGE", "40")
		t.Setenv("PAGESCOPE_PAGINATION_MAX_PAGES", "12")

		v := writeConfigFile(t, `
pagination:
  max_per_page: 100
`)

		cfg, err := LoadConfig(v)
		require.NoError(t, err)
		assert.Equal(t, 40, cfg.MaxPerPage)
		assert.Equal(t, 12, cfg.MaxPages)
		assert.Equal(t, DefaultPerPage, cfg.DefaultPerPage)
	})

	t.Run("invalid values", func(t *testing.T) {
		v := writeConfigFile(t, `
pagination:
  default_per_page: -5
`)

		_, err := LoadConfig(v)
		require.ErrorContains(t, err, "invalid pagination config")
	})

	t.Run("broken file", func(t *testing.T) {
		v := writeConfigFile(t, "pagination: [")

		_, err := LoadConfig(v)
		require.ErrorContains(t, err, "failed to read pagination config")
	})
}
