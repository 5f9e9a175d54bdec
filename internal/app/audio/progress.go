package audio

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
)

// ProgressFunc receives conversion completion as a fraction in [0,1].
type ProgressFunc func(fraction float64)

// progressWriter consumes ffmpeg "-progress" key=value output and reports
// completion against the known input duration. Reported values never
// decrease.
type progressWriter struct {
	mu       sync.Mutex
	totalUs  int64
	last     float64
	reported bool
	pending  []byte
	report   ProgressFunc
}

func newProgressWriter(totalSeconds float64, report ProgressFunc) *progressWriter {
	return &progressWriter{
		totalUs: int64(totalSeconds * 1e6),
		report:  report,
	}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.handleLine(string(w.pending[:i]))
		w.pending = w.pending[i+1:]
	}
	return len(p), nil
}

func (w *progressWriter) handleLine(line string) {
	key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return
	}

	switch strings.TrimSpace(key) {
	// ffmpeg reports out_time_ms in microseconds as well
	case "out_time_us", "out_time_ms":
		us, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil || w.totalUs <= 0 {
			return
		}
		w.emit(float64(us) / float64(w.totalUs))
	case "progress":
		if strings.TrimSpace(val) == "end" {
			w.emit(1)
		}
	}
}

// Done reports completion once the conversion has succeeded.
func (w *progressWriter) Done() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.emit(1)
}

// Start reports the initial zero value.
func (w *progressWriter) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.emit(0)
}

func (w *progressWriter) emit(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	if w.reported && fraction <= w.last {
		return
	}
	w.last = fraction
	w.reported = true
	if w.report != nil {
		w.report(fraction)
	}
}
