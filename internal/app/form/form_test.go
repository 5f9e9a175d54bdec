package form

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"upload-ai/internal/app/audio"
	apperrors "upload-ai/internal/app/errors"
	"upload-ai/internal/app/model"
	"upload-ai/internal/app/pipeline"
	"upload-ai/internal/app/testutil"
)

// syncBuffer is a bytes.Buffer safe for the relax timer goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Lines() []string {
	return strings.Split(strings.TrimSpace(b.String()), "\n")
}

type formFixture struct {
	form       *VideoInputForm
	pipeline   *pipeline.Pipeline
	transcoder *testutil.MockTranscoder
	client     *testutil.MockMediaClient
	out        *syncBuffer
	bars       *syncBuffer
	uploaded   []string
}

func newFormFixture(t *testing.T, showProgress bool) *formFixture {
	t.Helper()
	fx := &formFixture{
		transcoder: testutil.NewMockTranscoder(),
		client:     testutil.NewMockMediaClient(),
		out:        &syncBuffer{},
		bars:       &syncBuffer{},
	}
	relay := NewProgressRelay()
	fx.pipeline = pipeline.New(fx.transcoder, fx.client, pipeline.Options{
		ErrorDisplayDelay: 30 * time.Millisecond,
		ConvertOptions:    audio.ConvertOptions{OnProgress: relay.Report},
	})
	fx.form = NewVideoInputForm(fx.pipeline, Options{
		Output:          fx.out,
		Progress:        relay,
		ShowProgress:    showProgress,
		ProgressOutput:  fx.bars,
		OnVideoUploaded: func(id string) { fx.uploaded = append(fx.uploaded, id) },
	})
	t.Cleanup(func() {
		fx.form.Close()
		fx.pipeline.Close()
	})
	return fx
}

func writeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, testutil.MinimalMP4, 0644))
	return path
}

func TestFormSubmitSuccess(t *testing.T) {
	fx := newFormFixture(t, false)
	require.NoError(t, fx.form.SelectFile(writeVideo(t)))
	require.NoError(t, fx.form.SetPrompt("dog,park"))

	fx.transcoder.On("Convert", mock.Anything, mock.Anything, mock.Anything).Return(testutil.SampleAudio(), nil)
	fx.client.On("UploadMedia", mock.Anything, mock.Anything).Return(testutil.UploadResult("m-1"), nil)
	fx.client.On("CreateTranscription", mock.Anything, model.TranscriptionRequest{MediaID: "m-1", Prompt: testutil.StringPtr("dog,park")}).Return(nil)

	state := fx.form.Submit(context.Background())

	assert.Equal(t, pipeline.StateSuccess, state)
	assert.Equal(t, []string{"Converting...", "Uploading...", "Generating...", "Success!"}, fx.out.Lines())
	assert.Equal(t, []string{"m-1"}, fx.uploaded)
	assert.Equal(t, "Success!", fx.form.Status())
	fx.client.AssertExpectations(t)
}

func TestFormLockedOutsideWaiting(t *testing.T) {
	fx := newFormFixture(t, false)
	require.NoError(t, fx.form.SelectFile(writeVideo(t)))

	fx.transcoder.On("Convert", mock.Anything, mock.Anything, mock.Anything).Return(testutil.SampleAudio(), nil)
	fx.client.On("UploadMedia", mock.Anything, mock.Anything).Return(testutil.UploadResult("m-2"), nil)
	fx.client.On("CreateTranscription", mock.Anything, mock.Anything).Return(nil)
	require.Equal(t, pipeline.StateSuccess, fx.form.Submit(context.Background()))

	err := fx.form.SelectFile(writeVideo(t))
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidTransition))
	err = fx.form.SetPrompt("cat")
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidTransition))

	fx.form.Reset()
	assert.Equal(t, "Waiting...", fx.form.Status())
	assert.NoError(t, fx.form.SetPrompt("cat"))
	assert.NoError(t, fx.form.ClearPrompt())
}

func TestFormSubmitWithoutVideo(t *testing.T) {
	fx := newFormFixture(t, false)

	state := fx.form.Submit(context.Background())

	assert.Equal(t, pipeline.StateWaiting, state)
	assert.Equal(t, []string{"Select a video first."}, fx.out.Lines())
	fx.transcoder.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, fx.uploaded)
}

func TestFormSelectRejectsUnsupportedFile(t *testing.T) {
	fx := newFormFixture(t, false)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a video"), 0644))

	err := fx.form.SelectFile(path)

	assert.True(t, stderrors.Is(err, apperrors.ErrUnsupportedMedia))
	assert.Nil(t, fx.form.Video())
}

func TestFormErrorThenWaiting(t *testing.T) {
	fx := newFormFixture(t, true)
	require.NoError(t, fx.form.SelectFile(writeVideo(t)))

	fx.transcoder.On("Convert", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.Stage(apperrors.ErrConversionFailed, stderrors.New("exit status 1")))

	state := fx.form.Submit(context.Background())

	assert.Equal(t, pipeline.StateError, state)
	assert.Eventually(t, func() bool {
		return fx.form.Status() == "Waiting..."
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return len(fx.out.Lines()) == 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"Converting...", "Error!", "Waiting..."}, fx.out.Lines())
	assert.Empty(t, fx.uploaded)
}

func TestFormRendersConversionBar(t *testing.T) {
	fx := newFormFixture(t, true)
	fx.transcoder.Progress = []float64{0.25, 0.5, 1}
	require.NoError(t, fx.form.SelectFile(writeVideo(t)))

	fx.transcoder.On("Convert", mock.Anything, mock.Anything, mock.Anything).Return(testutil.SampleAudio(), nil)
	fx.client.On("UploadMedia", mock.Anything, mock.Anything).Return(testutil.UploadResult("m-3"), nil)
	fx.client.On("CreateTranscription", mock.Anything, mock.Anything).Return(nil)

	require.Equal(t, pipeline.StateSuccess, fx.form.Submit(context.Background()))
	assert.Contains(t, fx.bars.String(), "converting")
	assert.Equal(t, []string{"m-3"}, fx.uploaded)
}

// countingRunner records Submit calls without running anything.
type countingRunner struct {
	submits int
}

func (r *countingRunner) Submit(context.Context, *model.MediaAsset, *string, func(string)) pipeline.State {
	r.submits++
	return pipeline.StateWaiting
}

func (r *countingRunner) State() pipeline.State      { return pipeline.StateWaiting }
func (r *countingRunner) Subscribe(pipeline.Observer) {}
func (r *countingRunner) Reset()                      {}

func TestFormSubmitWithoutVideoSkipsRunner(t *testing.T) {
	runner := &countingRunner{}
	out := &syncBuffer{}
	f := NewVideoInputForm(runner, Options{Output: out})

	state := f.Submit(context.Background())

	assert.Equal(t, pipeline.StateWaiting, state)
	assert.Zero(t, runner.submits)
	assert.Equal(t, []string{"Select a video first."}, out.Lines())
}
