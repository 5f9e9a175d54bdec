//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"upload-ai/internal/app/audio"
	"upload-ai/internal/app/form"
	"upload-ai/internal/config"
)

var transcoderSet = wire.NewSet(
	provideEngine,
	wire.Bind(new(audio.EngineProvider), new(*audio.LazyEngine)),
	audio.NewTranscoder,
)

// InitializeApp assembles the form, pipeline and their collaborators from cfg.
func InitializeApp(cfg *config.Config, reg prometheus.Registerer, opts form.Options) (*App, func(), error) {
	wire.Build(
		provideLogger,
		transcoderSet,
		provideClient,
		provideMetrics,
		form.NewProgressRelay,
		providePipeline,
		provideForm,
		newApp,
	)
	return nil, nil, nil
}
