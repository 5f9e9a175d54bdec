package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "upload-ai/internal/app/errors"
)

// Config is the runtime configuration of the upload-ai client.
type Config struct {
	APIURL         string        `yaml:"api_url" validate:"required,url"`
	FFmpegPath     string        `yaml:"ffmpeg_path" validate:"required"`
	FFprobePath    string        `yaml:"ffprobe_path" validate:"required"`
	WorkRoot       string        `yaml:"work_root"`
	ErrorDelay     time.Duration `yaml:"error_delay" validate:"gte=0"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
	UserAgent      string        `yaml:"user_agent"`
	LogDevelopment bool          `yaml:"log_development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		FFmpegPath:     DefaultFFmpegPath,
		FFprobePath:    DefaultFFprobePath,
		ErrorDelay:     DefaultErrorDelay,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      DefaultUserAgent,
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then UPLOAD_AI_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.Wrapf(err, "failed to read config file %s", path)
	}

	// Expand environment variables in configuration values
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidConfig, fmt.Sprintf("failed to parse YAML %s: %v", path, err))
	}
	return nil
}

var validate = newValidator()

// newValidator reports fields by their yaml names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration and reports the first offending field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.Wrap(apperrors.ErrInvalidConfig, err.Error())
	}

	fe := validationErrs[0]
	field := fe.Field()
	if fe.Tag() == "required" {
		return apperrors.RequiredField(field)
	}
	return apperrors.InvalidField(field, fmt.Sprintf("failed %s validation", fe.Tag()))
}
