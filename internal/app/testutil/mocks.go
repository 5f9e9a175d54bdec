package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"upload-ai/internal/app/audio"
	"upload-ai/internal/app/model"
)

// CallLog records the order in which collaborators were invoked.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *CallLog) add(name string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

// Calls returns a copy of the recorded call names.
func (l *CallLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// MockTranscoder is a testify mock of pipeline.Transcoder.
type MockTranscoder struct {
	mock.Mock
	Log *CallLog
	// Progress, if set, is fed to ConvertOptions.OnProgress before returning.
	Progress []float64
}

func NewMockTranscoder() *MockTranscoder {
	return &MockTranscoder{}
}

func (m *MockTranscoder) Convert(ctx context.Context, video *model.MediaAsset, opts audio.ConvertOptions) (*model.MediaAsset, error) {
	m.Log.add("Convert")
	if opts.OnProgress != nil {
		for _, f := range m.Progress {
			opts.OnProgress(f)
		}
	}
	args := m.Called(ctx, video, opts)
	var out *model.MediaAsset
	if v := args.Get(0); v != nil {
		out = v.(*model.MediaAsset)
	}
	return out, args.Error(1)
}

// MockMediaClient is a testify mock of pipeline.MediaClient.
type MockMediaClient struct {
	mock.Mock
	Log *CallLog
}

func NewMockMediaClient() *MockMediaClient {
	return &MockMediaClient{}
}

func (m *MockMediaClient) UploadMedia(ctx context.Context, audio *model.MediaAsset) (model.UploadResult, error) {
	m.Log.add("UploadMedia")
	args := m.Called(ctx, audio)
	return args.Get(0).(model.UploadResult), args.Error(1)
}

func (m *MockMediaClient) CreateTranscription(ctx context.Context, req model.TranscriptionRequest) error {
	m.Log.add("CreateTranscription")
	args := m.Called(ctx, req)
	return args.Error(0)
}
