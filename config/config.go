// Package config loads the logstream pipeline settings using Viper.
//
// Values are resolved from defaults, then an optional logstream.yaml, then
// LOGSTREAM_* environment variables. A minimum level that cannot be parsed
// never fails loading: it falls back to INFO.
package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Philipp01105/logstream/core"
)

// AppName is used for the config file name, the XDG directory and the
// environment prefix.
const AppName = "logstream"

// Output formats.
const (
	FormatLine = "line"
	FormatJSON = "json"
)

// Config is the effective pipeline configuration.
type Config struct {
	MinLevel           string `mapstructure:"min_level" yaml:"min_level" json:"min_level"`
	Format             string `mapstructure:"format" yaml:"format" json:"format" validate:"oneof=line json"`
	Service            string `mapstructure:"service" yaml:"service" json:"service" validate:"required"`
	Environment        string `mapstructure:"environment" yaml:"environment" json:"environment" validate:"required"`
	Channel            string `mapstructure:"channel" yaml:"channel" json:"channel"`
	StackTraces        bool   `mapstructure:"stack_traces" yaml:"stack_traces" json:"stack_traces"`
	Color              string `mapstructure:"color" yaml:"color" json:"color" validate:"oneof=always auto never"`
	LineFormat         string `mapstructure:"line_format" yaml:"line_format" json:"line_format"`
	DateFormat         string `mapstructure:"date_format" yaml:"date_format" json:"date_format"`
	InlineLineBreaks   bool   `mapstructure:"inline_line_breaks" yaml:"inline_line_breaks" json:"inline_line_breaks"`
	IgnoreEmptyContext bool   `mapstructure:"ignore_empty_context" yaml:"ignore_empty_context" json:"ignore_empty_context"`
	BatchMode          string `mapstructure:"batch_mode" yaml:"batch_mode" json:"batch_mode" validate:"oneof=json newlines"`
}

// Level returns the configured stdout minimum level. Names and numeric
// codes are accepted; anything unparseable yields INFO.
func (c *Config) Level() core.Level {
	l, err := core.ParseLevel(c.MinLevel)
	if err != nil {
		return core.InfoLevel
	}
	return l
}

// New returns a Viper instance with defaults, search paths and environment
// bindings set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetConfigName(AppName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("min_level", "INFO")
	v.SetDefault("format", FormatLine)
	v.SetDefault("service", "app")
	v.SetDefault("environment", "production")
	v.SetDefault("channel", core.DefaultChannel)
	v.SetDefault("stack_traces", true)
	v.SetDefault("color", "auto")
	v.SetDefault("line_format", "")
	v.SetDefault("date_format", "")
	v.SetDefault("inline_line_breaks", true)
	v.SetDefault("ignore_empty_context", true)
	v.SetDefault("batch_mode", "json")
}

// Load reads the configuration through v. When path is set the file must
// exist; otherwise a missing file means defaults and environment only.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "":
			return nil, errors.Wrapf(err, "reading config file %s", path)
		case !errors.As(err, &notFound):
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	cfg.normalize()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated options.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

func (c *Config) normalize() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	c.BatchMode = strings.ToLower(strings.TrimSpace(c.BatchMode))
	if c.Channel == "" {
		c.Channel = core.DefaultChannel
	}
}
