package config

import "time"

// Default configuration values
const (
	DefaultAPIURL         = "http://localhost:3333"
	DefaultFFmpegPath     = "ffmpeg"
	DefaultFFprobePath    = "ffprobe"
	DefaultErrorDelay     = 10 * time.Second
	DefaultRequestTimeout = 0
	DefaultUserAgent      = "upload-ai-cli/1.0"
	DefaultFakeAPIAddr    = ":3333"
)

// Environment variable names
const (
	EnvAPIURL         = "UPLOAD_AI_API_URL"
	EnvFFmpegPath     = "UPLOAD_AI_FFMPEG"
	EnvFFprobePath    = "UPLOAD_AI_FFPROBE"
	EnvWorkRoot       = "UPLOAD_AI_WORK_ROOT"
	EnvErrorDelay     = "UPLOAD_AI_ERROR_DELAY"
	EnvRequestTimeout = "UPLOAD_AI_REQUEST_TIMEOUT"
	EnvUserAgent      = "UPLOAD_AI_USER_AGENT"
	EnvLogDev         = "UPLOAD_AI_LOG_DEV"
)
