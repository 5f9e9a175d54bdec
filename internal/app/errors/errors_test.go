package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(ErrConversionFailed, "ffmpeg exited with status 1")

	assert.True(t, stderrors.Is(err, ErrConversionFailed))
	assert.False(t, stderrors.Is(err, ErrUploadFailed))
	assert.Equal(t, "ffmpeg exited with status 1: conversion failed", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
	assert.Nil(t, Stage(ErrUploadFailed, nil))
}

func TestStageMatchesSentinelAndCause(t *testing.T) {
	err := Stage(ErrUploadFailed, io.ErrUnexpectedEOF)

	assert.True(t, stderrors.Is(err, ErrUploadFailed))
	assert.True(t, stderrors.Is(err, io.ErrUnexpectedEOF))
	assert.False(t, stderrors.Is(err, ErrTranscriptionRequestFailed))
	assert.Equal(t, "upload failed: unexpected EOF", err.Error())
}

func TestIsComparesMessage(t *testing.T) {
	assert.True(t, New("conversion failed").Is(ErrConversionFailed))
	assert.False(t, New("other").Is(ErrConversionFailed))
	assert.False(t, ErrConversionFailed.Is(io.EOF))
}

func TestFieldHelpers(t *testing.T) {
	err := RequiredField("api_url")
	assert.True(t, stderrors.Is(err, ErrMissingConfig))
	assert.Contains(t, err.Error(), "api_url is required")

	err = InvalidField("error_delay", "must not be negative")
	assert.True(t, stderrors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "error_delay is invalid: must not be negative")
}
