package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "upload-ai/internal/app/errors"
)

// clearEnv makes sure host UPLOAD_AI_* variables do not leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIURL, EnvFFmpegPath, EnvFFprobePath, EnvWorkRoot, EnvErrorDelay, EnvRequestTimeout, EnvUserAgent, EnvLogDev} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, 10*time.Second, cfg.ErrorDelay)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.False(t, cfg.LogDevelopment)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_API_HOST", "api.internal")
	path := writeFile(t, "uploadai.yaml", `
api_url: http://${TEST_API_HOST}:3333
ffmpeg_path: /opt/ffmpeg/bin/ffmpeg
error_delay: 3s
request_timeout: 2m
log_development: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:3333", cfg.APIURL)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, 3*time.Second, cfg.ErrorDelay)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
	assert.True(t, cfg.LogDevelopment)

	t.Setenv(EnvAPIURL, "https://upload.example.com")
	t.Setenv(EnvErrorDelay, "500ms")
	t.Setenv(EnvLogDev, "false")

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://upload.example.com", cfg.APIURL)
	assert.Equal(t, 500*time.Millisecond, cfg.ErrorDelay)
	assert.False(t, cfg.LogDevelopment)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name          string
		yaml          string
		env           map[string]string
		wantErr       error
		errorContains string
	}{
		{
			name:          "invalid api url",
			env:           map[string]string{EnvAPIURL: "not a url"},
			wantErr:       apperrors.ErrInvalidConfig,
			errorContains: "api_url",
		},
		{
			name:          "empty ffmpeg path from file",
			yaml:          "ffmpeg_path: \"\"\n",
			wantErr:       apperrors.ErrMissingConfig,
			errorContains: "ffmpeg_path is required",
		},
		{
			name:          "negative delay",
			yaml:          "error_delay: -1s\n",
			wantErr:       apperrors.ErrInvalidConfig,
			errorContains: "error_delay",
		},
		{
			name:          "unparsable env duration",
			env:           map[string]string{EnvRequestTimeout: "soon"},
			wantErr:       apperrors.ErrInvalidConfig,
			errorContains: EnvRequestTimeout,
		},
		{
			name:          "unparsable env bool",
			env:           map[string]string{EnvLogDev: "maybe"},
			wantErr:       apperrors.ErrInvalidConfig,
			errorContains: EnvLogDev,
		},
		{
			name:    "broken yaml",
			yaml:    "api_url: [\n",
			wantErr: apperrors.ErrInvalidConfig,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.yaml != "" {
				path = writeFile(t, "config.yaml", tc.yaml)
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tc.wantErr), "got %v", err)
			if tc.errorContains != "" {
				assert.Contains(t, err.Error(), tc.errorContains)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("UPLOAD_AI_USER_AGENT=from-dotenv\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	clearEnv(t)
	require.NoError(t, os.Unsetenv(EnvUserAgent))

	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", loaded)
	assert.Equal(t, "from-dotenv", os.Getenv(EnvUserAgent))
}
