package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"upload-ai/internal/app/api/uploadai"
	"upload-ai/internal/app/audio"
	"upload-ai/internal/app/form"
	"upload-ai/internal/app/logging"
	"upload-ai/internal/app/pipeline"
	"upload-ai/internal/config"
)

// App is the assembled client: one form driving one pipeline.
type App struct {
	Form     *form.VideoInputForm
	Pipeline *pipeline.Pipeline
	Logger   *zap.Logger
}

func newApp(f *form.VideoInputForm, p *pipeline.Pipeline, logger *zap.Logger) *App {
	return &App{Form: f, Pipeline: p, Logger: logger}
}

// provideLogger builds the logger from cfg and syncs it on cleanup.
func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := logging.NewLogger(cfg.LogDevelopment)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// provideEngine returns the process-wide ffmpeg engine. The engine is loaded
// on the first conversion, not here.
func provideEngine(cfg *config.Config, logger *zap.Logger) (*audio.LazyEngine, func()) {
	engine := audio.ProcessEngine(audio.EngineOptions{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		WorkRoot:    cfg.WorkRoot,
	}, logger)
	return engine, func() {
		if err := engine.Close(); err != nil {
			logger.Warn("failed to close transcoding engine", zap.Error(err))
		}
	}
}

func provideClient(cfg *config.Config, logger *zap.Logger) *uploadai.Client {
	headers := map[string]string{}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}
	return uploadai.NewClient(uploadai.ClientConfig{
		BaseURL:       cfg.APIURL,
		Timeout:       cfg.RequestTimeout,
		CustomHeaders: headers,
	}, logger)
}

func provideMetrics(reg prometheus.Registerer) *pipeline.Metrics {
	return pipeline.NewMetrics(reg)
}

func providePipeline(
	transcoder *audio.Transcoder,
	client *uploadai.Client,
	relay *form.ProgressRelay,
	metrics *pipeline.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) (*pipeline.Pipeline, func()) {
	p := pipeline.New(transcoder, client, pipeline.Options{
		ErrorDisplayDelay: cfg.ErrorDelay,
		ConvertOptions:    audio.ConvertOptions{OnProgress: relay.Report},
		Metrics:           metrics,
		Logger:            logger.Named("pipeline"),
	})
	return p, p.Close
}

func provideForm(p *pipeline.Pipeline, relay *form.ProgressRelay, opts form.Options, logger *zap.Logger) (*form.VideoInputForm, func()) {
	opts.Progress = relay
	if opts.Logger == nil {
		opts.Logger = logger.Named("form")
	}
	f := form.NewVideoInputForm(p, opts)
	return f, f.Close
}
