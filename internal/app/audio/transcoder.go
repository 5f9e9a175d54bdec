package audio

import (
	"context"

	"go.uber.org/zap"

	apperrors "upload-ai/internal/app/errors"
	"upload-ai/internal/app/model"
)

const (
	InputFileName  = "input.mp4"
	OutputFileName = "output.mp3"
	AudioFileName  = "audio.mp3"

	DefaultBitrate = "20k"
	DefaultCodec   = "libmp3lame"
)

// ConvertOptions selects the target audio encoding.
type ConvertOptions struct {
	Bitrate    string
	Codec      string
	OnProgress ProgressFunc
}

// DefaultConvertOptions is the low bitrate mp3 profile used for speech.
func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{
		Bitrate: DefaultBitrate,
		Codec:   DefaultCodec,
	}
}

// Args renders the ffmpeg argument vector: audio stream only, target
// bitrate, target codec.
func (o ConvertOptions) Args(input, output string) []string {
	bitrate, codec := o.Bitrate, o.Codec
	if bitrate == "" {
		bitrate = DefaultBitrate
	}
	if codec == "" {
		codec = DefaultCodec
	}
	return []string{
		"-i", input,
		"-map", "0:a",
		"-b:a", bitrate,
		"-acodec", codec,
		output,
	}
}

// EngineProvider hands out an initialized engine.
type EngineProvider interface {
	Get(ctx context.Context) (*Engine, error)
}

// Transcoder converts video assets into mp3 audio assets.
type Transcoder struct {
	engines EngineProvider
	logger  *zap.Logger
}

func NewTranscoder(engines EngineProvider, logger *zap.Logger) *Transcoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcoder{
		engines: engines,
		logger:  logger,
	}
}

// Convert extracts the audio track of video. Every failure is reported as
// ErrConversionFailed.
func (t *Transcoder) Convert(ctx context.Context, video *model.MediaAsset, opts ConvertOptions) (*model.MediaAsset, error) {
	if video == nil || video.Size() == 0 {
		return nil, apperrors.Stage(apperrors.ErrConversionFailed, apperrors.ErrEmptyMedia)
	}

	t.logger.Info("convert started", zap.String("file", video.Name()), zap.Int("bytes", video.Size()))

	engine, err := t.engines.Get(ctx)
	if err != nil {
		return nil, apperrors.Stage(apperrors.ErrConversionFailed, err)
	}

	job, err := engine.NewJob()
	if err != nil {
		return nil, apperrors.Stage(apperrors.ErrConversionFailed, err)
	}
	defer func() {
		if err := job.Close(); err != nil {
			t.logger.Warn("failed to remove job dir", zap.Error(err))
		}
	}()

	if err := job.WriteFile(InputFileName, video.Bytes()); err != nil {
		return nil, apperrors.Stage(apperrors.ErrConversionFailed, err)
	}

	probe, err := job.Probe(ctx, InputFileName)
	if err != nil {
		return nil, apperrors.Stage(apperrors.ErrConversionFailed, err)
	}
	if !probe.HasAudio() {
		return nil, apperrors.Stage(apperrors.ErrConversionFailed,
			apperrors.Newf("%s has no audio stream", video.Name()))
	}

	progress := newProgressWriter(probe.Format.Duration, func(fraction float64) {
		t.logger.Debug("convert progress", zap.Int("percent", int(fraction*100+0.5)))
		if opts.OnProgress != nil {
			opts.OnProgress(fraction)
		}
	})
	progress.Start()

	if err := job.Exec(ctx, opts.Args(InputFileName, OutputFileName), progress); err != nil {
		return nil, apperrors.Stage(apperrors.ErrConversionFailed, err)
	}

	data, err := job.ReadFile(OutputFileName)
	if err != nil {
		return nil, apperrors.Stage(apperrors.ErrConversionFailed, err)
	}
	if len(data) == 0 {
		return nil, apperrors.Stage(apperrors.ErrConversionFailed, apperrors.ErrEmptyMedia)
	}
	progress.Done()

	t.logger.Info("convert finished", zap.String("file", video.Name()), zap.Int("audio_bytes", len(data)))
	return model.NewMediaAsset(AudioFileName, model.MIMETypeMPEG, data), nil
}
