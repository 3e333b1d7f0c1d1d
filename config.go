package pagescope

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds pagination defaults. Zero values of MaxPerPage and MaxPages
// mean "no cap".
type Config struct {
	// DefaultPerPage is used when per-page is not given, negative or not a number.
	DefaultPerPage int `mapstructure:"default_per_page" json:"defaultPerPage" validate:"gt=0"`
	// MaxPerPage caps any requested per-page.
	MaxPerPage int `mapstructure:"max_per_page" json:"maxPerPage" validate:"gte=0"`
	// MaxPages caps the reported number of pages.
	MaxPages int `mapstructure:"max_pages" json:"maxPages" validate:"gte=0"`
	// PageParam is the query string key holding the page number.
	PageParam string `mapstructure:"page_param" json:"pageParam" validate:"omitempty,printascii,max=64"`
	// PerPageParam is the query string key holding the per-page value.
	PerPageParam string `mapstructure:"per_page_param" json:"perPageParam" validate:"omitempty,printascii,max=64"`
}

// Configurer is implemented by models that override the global defaults,
// e.g. a model that is always listed 50 per page:
//
//	func (Invoice) PaginationConfig() pagescope.Config {
//		return pagescope.Config{DefaultPerPage: 50}
//	}
//
// Zero fields inherit the global value.
type Configurer interface {
	PaginationConfig() Config
}

var (
	_configMu sync.RWMutex
	_config   = DefaultConfig()
	_validate = validator.New()
)

// DefaultConfig returns the built-in defaults: 25 per page, no caps.
func DefaultConfig() Config {
	return Config{
		DefaultPerPage: DefaultPerPage,
		PageParam:      DefaultPageParam,
		PerPageParam:   DefaultPerPageParam,
	}
}

// CurrentConfig returns a copy of the global configuration.
func CurrentConfig() Config {
	_configMu.RLock()
	defer _configMu.RUnlock()

	return _config
}

// Configure changes the global configuration. The change is discarded if the
// resulting config is invalid.
func Configure(fn func(*Config)) error {
	_configMu.Lock()
	defer _configMu.Unlock()

	cfg := _config
	fn(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	_config = cfg

	return nil
}

// Validate checks the config fields.
func (c Config) Validate() error {
	if err := _validate.Struct(c); err != nil {
		return fmt.Errorf("invalid pagination config: %w", err)
	}

	return nil
}

// Merge returns c with every non-zero field of override applied on top.
func (c Config) Merge(override Config) Config {
	if override.DefaultPerPage > 0 {
		c.DefaultPerPage = override.DefaultPerPage
	}
	if override.MaxPerPage > 0 {
		c.MaxPerPage = override.MaxPerPage
	}
	if override.MaxPages > 0 {
		c.MaxPages = override.MaxPages
	}
	if override.PageParam != "" {
		c.PageParam = override.PageParam
	}
	if override.PerPageParam != "" {
		c.PerPageParam = override.PerPageParam
	}

	return c
}

func (c Config) pageParam() string {
	if c.PageParam == "" {
		return DefaultPageParam
	}

	return c.PageParam
}

func (c Config) perPageParam() string {
	if c.PerPageParam == "" {
		return DefaultPerPageParam
	}

	return c.PerPageParam
}

// modelConfig resolves the configuration for model T: the global config with
// the model's own overrides applied.
func modelConfig[T any]() Config {
	cfg := CurrentConfig()

	var model T
	if c, ok := any(model).(Configurer); ok {
		return cfg.Merge(c.PaginationConfig())
	}
	if c, ok := any(&model).(Configurer); ok {
		return cfg.Merge(c.PaginationConfig())
	}

	return cfg
}

// LoadConfig reads pagination settings from v under the "pagination" key.
// Environment variables prefixed with PAGESCOPE_ override file values, e.g.
// PAGESCOPE_PAGINATION_DEFAULT_PER_PAGE=50.
func LoadConfig(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)

	v.SetEnvPrefix("pagescope")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read pagination config: %w", err)
		}
	}

	// Unmarshal the whole tree rather than UnmarshalKey: only the former
	// resolves nested keys through AutomaticEnv.
	var root struct {
		Pagination Config `mapstructure:"pagination"`
	}
	if err := v.Unmarshal(&root); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal pagination config: %w", err)
	}

	if err := root.Pagination.Validate(); err != nil {
		return Config{}, err
	}

	return root.Pagination, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pagination.default_per_page", DefaultPerPage)
	v.SetDefault("pagination.max_per_page", 0)
	v.SetDefault("pagination.max_pages", 0)
	v.SetDefault("pagination.page_param", DefaultPageParam)
	v.SetDefault("pagination.per_page_param", DefaultPerPageParam)
}
