package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	ConfigurationType = "yaml"
	EnvironmentPrefix = "SIMPLESHELL"
	AppDirName        = "simpleshell"
)

// Record formats for the termination journal.
const (
	RecordFormatPlain    = "plain"
	RecordFormatDetailed = "detailed"
)

type Configuration struct {
	ShellName   string `json:"shell_name" mapstructure:"shell_name" validate:"required"`
	LogFileName string `json:"log_file_name" mapstructure:"log_file_name" validate:"required,excludesall=/"`
	ShowBanner  bool   `json:"show_banner" mapstructure:"show_banner"`
	ColorPrompt bool   `json:"color_prompt" mapstructure:"color_prompt"`

	Limits    Limits    `json:"limits" mapstructure:"limits"`
	Tokenizer Tokenizer `json:"tokenizer" mapstructure:"tokenizer"`
	Journal   Journal   `json:"journal" mapstructure:"journal"`
	Logging   Logging   `json:"logging" mapstructure:"logging"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// YAML renders the configuration in the same shape as the config file.
func (c *Configuration) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Limits bounds the storage used for a single command line.
type Limits struct {
	MaxLineLength int `json:"max_line_length" mapstructure:"max_line_length" validate:"gte=1"` // Bytes kept from one input line.
	MaxTokens     int `json:"max_tokens" mapstructure:"max_tokens" validate:"gte=1"`           // Words allowed on one input line.
}

type Tokenizer struct {
	QuoteAware bool `json:"quote_aware" mapstructure:"quote_aware"`
}

type Journal struct {
	RecordFormat string `json:"record_format" mapstructure:"record_format" validate:"oneof=plain detailed"`
}

type Logging struct {
	Level  string `json:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" mapstructure:"format" validate:"oneof=console structured"`
}

// Default returns the built-in configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
