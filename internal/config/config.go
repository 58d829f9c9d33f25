// Package config loads the CLI configuration from defaults, an optional
// TOML file, the environment and command-line flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/naka-gawa/harbor-summary/internal/domain"
)

// EnvPrefix is the prefix of environment variables read by Load,
// e.g. HARBOR_BASE_URL or HARBOR_API_TOKEN.
const EnvPrefix = "HARBOR_"

// Config holds the settings needed to talk to a Harbor instance.
type Config struct {
	BaseURL     string  `koanf:"base_url" validate:"required,url"`
	Username    string  `koanf:"username"`
	Password    string  `koanf:"password"`
	APIToken    string  `koanf:"api_token"`
	Insecure    bool    `koanf:"insecure"`
	PageSize    int     `koanf:"page_size" validate:"min=1"`
	Timeout     float64 `koanf:"timeout" validate:"gt=0"`
	Concurrency int     `koanf:"concurrency" validate:"min=1"`
}

// TimeoutDuration converts the timeout in seconds to a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout * float64(time.Second))
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"page_size":   100,
		"timeout":     30.0,
		"concurrency": 1,
		"insecure":    false,
	}
}

// Sources lists where Load reads from besides the defaults and the
// environment.
type Sources struct {
	// ConfigFile is an optional TOML file.
	ConfigFile string
	// EnvFile is a dotenv file; when empty ./.env is loaded if present.
	EnvFile string
	// Flags holds only the flags the user set explicitly, keyed like the
	// koanf tags of Config.
	Flags map[string]any
}

// Load merges all sources into a validated Config.
func Load(src Sources) (*Config, error) {
	if src.EnvFile != "" {
		if err := godotenv.Load(src.EnvFile); err != nil {
			return nil, &domain.ConfigError{Message: fmt.Sprintf("failed to load env file %s", src.EnvFile), Err: err}
		}
	} else {
		_ = godotenv.Load()
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if src.ConfigFile != "" {
		if err := k.Load(file.Provider(src.ConfigFile), toml.Parser()); err != nil {
			return nil, &domain.ConfigError{Message: fmt.Sprintf("failed to load config file %s", src.ConfigFile), Err: err}
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	if len(src.Flags) > 0 {
		if err := k.Load(confmap.Provider(src.Flags, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, &domain.ConfigError{Message: "invalid configuration", Err: err}
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}()

// Validate checks cfg and reports every violated rule in one ConfigError.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &domain.ConfigError{Message: "invalid configuration", Err: err}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return domain.NewConfigError("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be an absolute URL, got %q", fe.Field(), fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
