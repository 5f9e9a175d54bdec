// Package form is the terminal counterpart of the video upload form: it
// collects a video and an optional prompt, runs the pipeline and prints
// each status as the run advances.
package form

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	apperrors "upload-ai/internal/app/errors"
	"upload-ai/internal/app/model"
	"upload-ai/internal/app/pipeline"
)

// Runner is the part of the pipeline the form drives.
type Runner interface {
	Submit(ctx context.Context, video *model.MediaAsset, prompt *string, onComplete func(id string)) pipeline.State
	State() pipeline.State
	Subscribe(o pipeline.Observer)
	Reset()
}

type Options struct {
	// Output receives one status line per state change. Defaults to stdout.
	Output io.Writer
	// Progress carries conversion progress from the pipeline to the bar.
	Progress *ProgressRelay
	// ShowProgress enables the conversion bar, written to ProgressOutput.
	ShowProgress   bool
	ProgressOutput io.Writer
	// OnVideoUploaded receives the media id once a transcription was requested.
	OnVideoUploaded func(id string)
	Logger          *zap.Logger
}

// VideoInputForm holds the user's selection and reflects pipeline state.
type VideoInputForm struct {
	runner Runner
	opts   Options
	logger *zap.Logger

	mu     sync.Mutex
	video  *model.MediaAsset
	prompt *string

	outMu    sync.Mutex
	progress *ProgressManager
	bar      *ProgressBar
}

func NewVideoInputForm(runner Runner, opts Options) *VideoInputForm {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &VideoInputForm{
		runner: runner,
		opts:   opts,
		logger: logger,
	}
	runner.Subscribe(f.onStateChange)
	opts.Progress.attach(f.onProgress)
	return f
}

// SelectFile loads the video at path. Selection is only possible while the
// form is editable.
func (f *VideoInputForm) SelectFile(path string) error {
	if err := f.ensureEditable("select a file"); err != nil {
		return err
	}

	video, err := model.LoadVideoAsset(path)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.video = video
	f.mu.Unlock()
	f.logger.Debug("video selected", zap.String("file", video.Name()), zap.Int("bytes", video.Size()))
	return nil
}

// SetPrompt stores the keyword prompt. An empty text is still sent.
func (f *VideoInputForm) SetPrompt(text string) error {
	if err := f.ensureEditable("edit the prompt"); err != nil {
		return err
	}
	f.mu.Lock()
	f.prompt = &text
	f.mu.Unlock()
	return nil
}

// ClearPrompt drops the prompt so the request carries none.
func (f *VideoInputForm) ClearPrompt() error {
	if err := f.ensureEditable("edit the prompt"); err != nil {
		return err
	}
	f.mu.Lock()
	f.prompt = nil
	f.mu.Unlock()
	return nil
}

// Video returns the selected asset, or nil.
func (f *VideoInputForm) Video() *model.MediaAsset {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.video
}

// Status is the message for the current state.
func (f *VideoInputForm) Status() string {
	return f.runner.State().Message()
}

// Submit runs the pipeline with the current selection and returns the
// state the run ended in.
func (f *VideoInputForm) Submit(ctx context.Context) pipeline.State {
	f.mu.Lock()
	video, prompt := f.video, f.prompt
	f.mu.Unlock()

	if video == nil {
		f.println("Select a video first.")
		return f.runner.State()
	}
	return f.runner.Submit(ctx, video, prompt, f.opts.OnVideoUploaded)
}

// Reset makes the form editable again after a successful run.
func (f *VideoInputForm) Reset() {
	f.runner.Reset()
}

// Close stops any progress rendering still in flight.
func (f *VideoInputForm) Close() {
	f.outMu.Lock()
	defer f.outMu.Unlock()
	if f.bar != nil {
		f.bar.Abort()
		f.bar = nil
	}
	if f.progress != nil {
		f.progress.Shutdown()
		f.progress = nil
	}
}

func (f *VideoInputForm) ensureEditable(action string) error {
	if state := f.runner.State(); !state.Editable() {
		return apperrors.Wrapf(apperrors.ErrInvalidTransition, "cannot %s while %s", action, state)
	}
	return nil
}

func (f *VideoInputForm) onStateChange(from, to pipeline.State) {
	if from == pipeline.StateConverting {
		f.finishBar(to != pipeline.StateError)
	}
	f.println(to.Message())
	if to == pipeline.StateConverting {
		f.startBar()
	}
}

func (f *VideoInputForm) onProgress(fraction float64) {
	f.logger.Debug("conversion progress", zap.Float64("fraction", fraction))
	f.outMu.Lock()
	defer f.outMu.Unlock()
	if f.bar != nil {
		f.bar.SetFraction(fraction)
	}
}

func (f *VideoInputForm) startBar() {
	if !f.opts.ShowProgress {
		return
	}
	f.outMu.Lock()
	defer f.outMu.Unlock()
	f.progress = NewProgressManager(ProgressConfig{Enabled: true, Writer: f.opts.ProgressOutput})
	f.bar = f.progress.CreateBar("converting")
}

func (f *VideoInputForm) finishBar(ok bool) {
	f.outMu.Lock()
	defer f.outMu.Unlock()
	if f.bar == nil {
		return
	}
	if ok {
		f.bar.SetFraction(1)
		f.bar.Complete()
	} else {
		f.bar.Abort()
	}
	f.progress.Wait()
	f.bar = nil
	f.progress = nil
}

func (f *VideoInputForm) println(line string) {
	f.outMu.Lock()
	defer f.outMu.Unlock()
	if _, err := fmt.Fprintln(f.opts.Output, line); err != nil {
		f.logger.Warn("failed to write status", zap.Error(err))
	}
}
