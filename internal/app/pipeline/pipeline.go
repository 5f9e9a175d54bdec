package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"upload-ai/internal/app/audio"
	apperrors "upload-ai/internal/app/errors"
	"upload-ai/internal/app/model"
)

// DefaultErrorDisplayDelay is how long Error stays visible before the
// pipeline relaxes back to Waiting.
const DefaultErrorDisplayDelay = 10 * time.Second

// Transcoder converts a video asset into an audio asset.
type Transcoder interface {
	Convert(ctx context.Context, video *model.MediaAsset, opts audio.ConvertOptions) (*model.MediaAsset, error)
}

// MediaClient performs the two upload-ai API calls.
type MediaClient interface {
	UploadMedia(ctx context.Context, audio *model.MediaAsset) (model.UploadResult, error)
	CreateTranscription(ctx context.Context, req model.TranscriptionRequest) error
}

// Observer is notified synchronously after every state change.
type Observer func(from, to State)

// Options tunes a Pipeline. Zero values select the defaults.
type Options struct {
	ErrorDisplayDelay time.Duration
	ConvertOptions    audio.ConvertOptions
	Metrics           *Metrics
	Logger            *zap.Logger
}

// Pipeline drives one video through convert, upload and transcription.
// Only one run may be active at a time.
type Pipeline struct {
	transcoder Transcoder
	client     MediaClient
	opts       Options
	logger     *zap.Logger

	mu         sync.Mutex
	state      State
	lastErr    error
	observers  []Observer
	relaxTimer *time.Timer
}

func New(transcoder Transcoder, client MediaClient, opts Options) *Pipeline {
	if opts.ErrorDisplayDelay <= 0 {
		opts.ErrorDisplayDelay = DefaultErrorDisplayDelay
	}
	if opts.ConvertOptions.Bitrate == "" && opts.ConvertOptions.Codec == "" {
		onProgress := opts.ConvertOptions.OnProgress
		opts.ConvertOptions = audio.DefaultConvertOptions()
		opts.ConvertOptions.OnProgress = onProgress
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		transcoder: transcoder,
		client:     client,
		opts:       opts,
		logger:     logger,
		state:      StateWaiting,
	}
}

// State returns the current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LastError returns the cause of the most recent failed run, for diagnostics.
func (p *Pipeline) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Subscribe registers an observer for state changes.
func (p *Pipeline) Subscribe(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, o)
}

// Submit runs the whole sequence for video and returns the state the run
// ended in. A nil video, or a pipeline that is not Waiting, makes Submit a
// no-op. Failures are never returned: they move the pipeline to Error, which
// relaxes to Waiting after the display delay. onComplete is called exactly
// once, with the media id, and only on success.
func (p *Pipeline) Submit(ctx context.Context, video *model.MediaAsset, prompt *string, onComplete func(id string)) State {
	if video == nil {
		p.logger.Debug("submit ignored", zap.Error(apperrors.ErrNoFileSelected))
		return p.State()
	}

	if err := p.transition(StateWaiting, StateConverting); err != nil {
		p.logger.Debug("submit ignored, run already active", zap.Stringer("state", p.State()))
		return p.State()
	}

	id, err := p.run(ctx, video, prompt)
	if err != nil {
		p.fail(err)
		return StateError
	}

	p.mustTransition(StateGenerating, StateSuccess)
	p.opts.Metrics.recordRun(StateSuccess)
	p.logger.Info("transcription created", zap.String("media_id", id))
	if onComplete != nil {
		onComplete(id)
	}
	return StateSuccess
}

func (p *Pipeline) run(ctx context.Context, video *model.MediaAsset, prompt *string) (string, error) {
	p.logger.Info("converting", zap.String("file", video.Name()))
	start := time.Now()
	audioAsset, err := p.transcoder.Convert(ctx, video, p.opts.ConvertOptions)
	if err == nil && audioAsset == nil {
		err = apperrors.ErrEmptyMedia
	}
	p.opts.Metrics.observeStage(StateConverting, start, err)
	if err != nil {
		return "", stageError(apperrors.ErrConversionFailed, err)
	}

	p.mustTransition(StateConverting, StateUploading)
	p.logger.Info("uploading", zap.Int("bytes", audioAsset.Size()))
	start = time.Now()
	result, err := p.client.UploadMedia(ctx, audioAsset)
	p.opts.Metrics.observeStage(StateUploading, start, err)
	if err != nil {
		return "", stageError(apperrors.ErrUploadFailed, err)
	}

	id := result.ID()
	if strings.TrimSpace(id) == "" {
		return "", stageError(apperrors.ErrUploadFailed, apperrors.ErrMalformedMediaID)
	}
	p.mustTransition(StateUploading, StateGenerating)
	p.logger.Info("generating", zap.String("media_id", id))
	start = time.Now()
	err = p.client.CreateTranscription(ctx, model.TranscriptionRequest{MediaID: id, Prompt: prompt})
	p.opts.Metrics.observeStage(StateGenerating, start, err)
	if err != nil {
		return "", stageError(apperrors.ErrTranscriptionRequestFailed, err)
	}
	return id, nil
}

// fail shows Error immediately and schedules the return to Waiting.
func (p *Pipeline) fail(err error) {
	p.mu.Lock()
	from := p.state
	p.lastErr = err
	p.mu.Unlock()

	p.logger.Warn("pipeline failed", zap.Stringer("stage", from), zap.Error(err))
	p.mustTransition(from, StateError)
	p.opts.Metrics.recordRun(StateError)

	p.mu.Lock()
	if p.relaxTimer != nil {
		p.relaxTimer.Stop()
	}
	p.relaxTimer = time.AfterFunc(p.opts.ErrorDisplayDelay, func() {
		if err := p.transition(StateError, StateWaiting); err != nil {
			p.logger.Debug("relax skipped", zap.Error(err))
		}
	})
	p.mu.Unlock()
}

// Reset starts a new run after Success. It is a no-op in any other state.
func (p *Pipeline) Reset() {
	if err := p.transition(StateSuccess, StateWaiting); err != nil {
		p.logger.Debug("reset ignored", zap.Stringer("state", p.State()))
	}
}

// Close stops a pending Error relaxation. A pipeline closed while in Error
// relaxes to Waiting at once.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.relaxTimer != nil {
		p.relaxTimer.Stop()
		p.relaxTimer = nil
	}
	inError := p.state == StateError
	p.mu.Unlock()

	if inError {
		if err := p.transition(StateError, StateWaiting); err != nil {
			p.logger.Debug("relax skipped", zap.Error(err))
		}
	}
}

// transition moves from -> to if the pipeline is currently in from and the
// edge is legal. Observers run after the lock is released.
func (p *Pipeline) transition(from, to State) error {
	p.mu.Lock()
	if p.state != from || !CanTransition(from, to) {
		current := p.state
		p.mu.Unlock()
		return apperrors.Wrapf(apperrors.ErrInvalidTransition, "%s -> %s while %s", from, to, current)
	}
	p.state = to
	observers := append([]Observer(nil), p.observers...)
	p.mu.Unlock()

	p.logger.Debug("state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	for _, o := range observers {
		o(from, to)
	}
	return nil
}

func (p *Pipeline) mustTransition(from, to State) {
	if err := p.transition(from, to); err != nil {
		p.logger.Error("state machine violated", zap.Error(err))
	}
}

// stageError tags err with the failing stage unless a collaborator already did.
func stageError(sentinel *apperrors.Error, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return apperrors.Stage(sentinel, err)
}
