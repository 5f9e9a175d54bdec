package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "upload-ai/internal/app/errors"
)

// envPaths are tried in order; the first existing file wins.
var envPaths = []string{
	".env",
	".env.local",
	"../.env",
	"../../.env",
}

// LoadEnv loads environment variables from a .env file if one exists.
// Variables already set in the process environment are not overridden.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// applyEnv overrides cfg with any UPLOAD_AI_* variables that are set.
func applyEnv(cfg *Config) error {
	if v, ok := lookupEnv(EnvAPIURL); ok {
		cfg.APIURL = v
	}
	if v, ok := lookupEnv(EnvFFmpegPath); ok {
		cfg.FFmpegPath = v
	}
	if v, ok := lookupEnv(EnvFFprobePath); ok {
		cfg.FFprobePath = v
	}
	if v, ok := lookupEnv(EnvWorkRoot); ok {
		cfg.WorkRoot = v
	}
	if v, ok := lookupEnv(EnvUserAgent); ok {
		cfg.UserAgent = v
	}
	if v, ok := lookupEnv(EnvErrorDelay); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return apperrors.InvalidField(EnvErrorDelay, err.Error())
		}
		cfg.ErrorDelay = d
	}
	if v, ok := lookupEnv(EnvRequestTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return apperrors.InvalidField(EnvRequestTimeout, err.Error())
		}
		cfg.RequestTimeout = d
	}
	if v, ok := lookupEnv(EnvLogDev); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return apperrors.InvalidField(EnvLogDev, err.Error())
		}
		cfg.LogDevelopment = b
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
