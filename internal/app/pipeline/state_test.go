package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateNamesAndMessages(t *testing.T) {
	tests := []struct {
		state    State
		name     string
		message  string
		editable bool
	}{
		{StateWaiting, "waiting", "Waiting...", true},
		{StateConverting, "converting", "Converting...", false},
		{StateUploading, "uploading", "Uploading...", false},
		{StateGenerating, "generating", "Generating...", false},
		{StateSuccess, "success", "Success!", false},
		{StateError, "error", "Error!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.state.String())
			assert.Equal(t, tt.message, tt.state.Message())
			assert.Equal(t, tt.editable, tt.state.Editable())
		})
	}

	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, StateSuccess.Terminal())
	assert.True(t, StateError.Terminal())
	assert.False(t, StateGenerating.Terminal())
}

func TestCanTransition(t *testing.T) {
	legal := [][2]State{
		{StateWaiting, StateConverting},
		{StateConverting, StateUploading},
		{StateUploading, StateGenerating},
		{StateGenerating, StateSuccess},
		{StateConverting, StateError},
		{StateUploading, StateError},
		{StateGenerating, StateError},
		{StateError, StateWaiting},
		{StateSuccess, StateWaiting},
	}
	for _, edge := range legal {
		assert.True(t, CanTransition(edge[0], edge[1]), "%s -> %s", edge[0], edge[1])
	}

	illegal := [][2]State{
		{StateWaiting, StateUploading},
		{StateWaiting, StateError},
		{StateConverting, StateGenerating},
		{StateUploading, StateConverting},
		{StateGenerating, StateUploading},
		{StateSuccess, StateError},
		{StateError, StateConverting},
	}
	for _, edge := range illegal {
		assert.False(t, CanTransition(edge[0], edge[1]), "%s -> %s", edge[0], edge[1])
	}
}
