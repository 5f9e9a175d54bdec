package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "upload-ai/internal/app/errors"
	"upload-ai/internal/app/model"
)

// EngineOptions locates the ffmpeg binaries backing the engine.
type EngineOptions struct {
	FFmpegPath  string
	FFprobePath string
	// WorkRoot is where the engine creates its private working directory.
	// Empty means the system temp dir.
	WorkRoot string
}

func (o EngineOptions) withDefaults() EngineOptions {
	if o.FFmpegPath == "" {
		o.FFmpegPath = "ffmpeg"
	}
	if o.FFprobePath == "" {
		o.FFprobePath = "ffprobe"
	}
	return o
}

// Engine is an initialized transcoding engine: verified binaries plus a
// private working directory that plays the role of its virtual filesystem.
// Each conversion gets its own Job directory, so one Engine can be reused by
// any number of sequential runs.
type Engine struct {
	ffmpeg  string
	ffprobe string
	workDir string
	runner  commandRunner
}

func loadEngine(ctx context.Context, opts EngineOptions, runner commandRunner) (*Engine, error) {
	opts = opts.withDefaults()

	ffmpeg, err := exec.LookPath(opts.FFmpegPath)
	if err != nil {
		return nil, apperrors.Wrapf(err, "ffmpeg not found at %q", opts.FFmpegPath)
	}
	ffprobe, err := exec.LookPath(opts.FFprobePath)
	if err != nil {
		return nil, apperrors.Wrapf(err, "ffprobe not found at %q", opts.FFprobePath)
	}

	for _, bin := range []string{ffmpeg, ffprobe} {
		if stderr, err := runner.Run(ctx, "", bin, []string{"-version"}, io.Discard); err != nil {
			return nil, apperrors.Wrapf(err, "%s -version failed: %s", bin, stderr)
		}
	}

	workDir, err := os.MkdirTemp(opts.WorkRoot, "upload-ai-engine-*")
	if err != nil {
		return nil, apperrors.Wrap(err, "create engine work dir")
	}

	return &Engine{
		ffmpeg:  ffmpeg,
		ffprobe: ffprobe,
		workDir: workDir,
		runner:  runner,
	}, nil
}

// WorkDir returns the engine's private working directory.
func (e *Engine) WorkDir() string {
	return e.workDir
}

// Close removes the engine working directory and everything left in it.
func (e *Engine) Close() error {
	return os.RemoveAll(e.workDir)
}

// NewJob allocates an isolated directory for one conversion.
func (e *Engine) NewJob() (*Job, error) {
	dir := filepath.Join(e.workDir, uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, apperrors.Wrap(err, "create job dir")
	}
	return &Job{engine: e, dir: dir}, nil
}

// Job is a single conversion's view of the engine filesystem. File names
// passed to its methods are relative to the job directory.
type Job struct {
	engine *Engine
	dir    string
}

func (j *Job) WriteFile(name string, data []byte) error {
	return os.WriteFile(filepath.Join(j.dir, name), data, 0o600)
}

func (j *Job) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(j.dir, name))
}

// Exec runs ffmpeg with the given argument vector inside the job directory.
// Engine control flags are prepended; progress key/value lines go to progress.
func (j *Job) Exec(ctx context.Context, args []string, progress io.Writer) error {
	fullArgs := append([]string{"-nostdin", "-y", "-progress", "pipe:1"}, args...)
	stderr, err := j.engine.runner.Run(ctx, j.dir, j.engine.ffmpeg, fullArgs, progress)
	if err != nil {
		return fmt.Errorf("ffmpeg error: %v, stderr: %s", err, stderr)
	}
	return nil
}

// Probe inspects a file in the job directory with ffprobe.
func (j *Job) Probe(ctx context.Context, name string) (model.FFProbeOutput, error) {
	var out bytes.Buffer
	args := []string{"-v", "error", "-print_format", "json", "-show_format", "-show_streams", name}

	var probe model.FFProbeOutput
	stderr, err := j.engine.runner.Run(ctx, j.dir, j.engine.ffprobe, args, &out)
	if err != nil {
		return probe, fmt.Errorf("ffprobe error: %v, stderr: %s", err, stderr)
	}
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return probe, apperrors.Wrap(err, "decode ffprobe output")
	}
	return probe, nil
}

// Close removes the job directory.
func (j *Job) Close() error {
	return os.RemoveAll(j.dir)
}

// LazyEngine initializes an Engine on first use and hands the same instance
// to every later caller. Concurrent first callers block until the single
// initialization finishes. A failed initialization is not cached, so a later
// run can try again.
type LazyEngine struct {
	opts   EngineOptions
	runner commandRunner
	logger *zap.Logger

	mu     sync.Mutex
	engine *Engine
	inits  int
}

func NewLazyEngine(opts EngineOptions, logger *zap.Logger) *LazyEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LazyEngine{
		opts:   opts,
		runner: execRunner{},
		logger: logger,
	}
}

// Get returns the shared engine, loading it if needed.
func (l *LazyEngine) Get(ctx context.Context) (*Engine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.engine != nil {
		return l.engine, nil
	}

	start := time.Now()
	engine, err := loadEngine(ctx, l.opts, l.runner)
	if err != nil {
		l.logger.Warn("transcoding engine unavailable", zap.Error(err))
		return nil, apperrors.Stage(apperrors.ErrEngineUnavailable, err)
	}
	l.inits++
	l.engine = engine
	l.logger.Debug("transcoding engine loaded",
		zap.String("ffmpeg", engine.ffmpeg),
		zap.String("work_dir", engine.workDir),
		zap.Duration("elapsed", time.Since(start)))
	return engine, nil
}

// Close releases the engine if it was ever loaded.
func (l *LazyEngine) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.engine == nil {
		return nil
	}
	err := l.engine.Close()
	l.engine = nil
	return err
}

var (
	processEngineOnce sync.Once
	processEngine     *LazyEngine
)

// ProcessEngine returns the process-wide engine handle. Options and logger are
// taken from the first call only.
func ProcessEngine(opts EngineOptions, logger *zap.Logger) *LazyEngine {
	processEngineOnce.Do(func() {
		processEngine = NewLazyEngine(opts, logger)
	})
	return processEngine
}
