package form

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledProgressIsNoop(t *testing.T) {
	pm := NewProgressManager(ProgressConfig{Enabled: false})
	bar := pm.CreateBar("converting")

	assert.NotPanics(t, func() {
		bar.SetFraction(0.5)
		bar.Complete()
		bar.Abort()
		pm.Wait()
		pm.Shutdown()
	})
}

func TestProgressBarCompletes(t *testing.T) {
	var buf bytes.Buffer
	pm := NewProgressManager(ProgressConfig{Enabled: true, Writer: &buf})
	bar := pm.CreateBar("converting")

	bar.SetFraction(-1)
	bar.SetFraction(0.4)
	bar.SetFraction(2)
	bar.Complete()
	pm.Wait()

	assert.Contains(t, buf.String(), "converting")
}

func TestProgressRelay(t *testing.T) {
	var nilRelay *ProgressRelay
	assert.NotPanics(t, func() { nilRelay.Report(0.5) })

	relay := NewProgressRelay()
	relay.Report(0.1)

	var got []float64
	relay.attach(func(f float64) { got = append(got, f) })
	relay.Report(0.2)
	relay.Report(1)

	assert.Equal(t, []float64{0.2, 1}, got)
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(nil))
	assert.False(t, IsTTY(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	if assert.NoError(t, err) {
		defer f.Close()
		assert.False(t, IsTTY(f))
	}
	assert.True(t, ShouldShowProgress(true))
}
