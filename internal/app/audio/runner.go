package audio

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// commandRunner abstracts process execution so the engine can be driven by a
// fake in tests.
type commandRunner interface {
	Run(ctx context.Context, dir string, name string, args []string, stdout io.Writer) (stderr string, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, name string, args []string, stdout io.Writer) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if stdout != nil {
		cmd.Stdout = stdout
	}

	// Capture stderr so failures carry ffmpeg's own explanation
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.String(), err
}
