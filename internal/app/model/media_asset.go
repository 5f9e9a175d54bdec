package model

import (
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"

	apperrors "upload-ai/internal/app/errors"
)

const (
	MIMETypeMP4  = "video/mp4"
	MIMETypeMPEG = "audio/mpeg"
)

// SupportedVideoTypes lists the containers accepted as pipeline input.
var SupportedVideoTypes = []string{MIMETypeMP4}

// MediaAsset is an immutable in-memory blob with a MIME type and a filename.
type MediaAsset struct {
	name     string
	mimeType string
	data     []byte
}

// NewMediaAsset copies data so later changes by the caller do not leak into the asset.
func NewMediaAsset(name, mimeType string, data []byte) *MediaAsset {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &MediaAsset{
		name:     name,
		mimeType: mimeType,
		data:     buf,
	}
}

// LoadVideoAsset reads a video file from disk. The content is sniffed rather
// than trusting the extension, and only mp4 is accepted.
func LoadVideoAsset(path string) (*MediaAsset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "read video %s", path)
	}
	if len(data) == 0 {
		return nil, apperrors.Wrapf(apperrors.ErrEmptyMedia, "video %s", path)
	}

	detected := mimetype.Detect(data)
	supported := lo.ContainsBy(SupportedVideoTypes, func(t string) bool {
		return detected.Is(t)
	})
	if !supported {
		return nil, apperrors.Wrapf(apperrors.ErrUnsupportedMedia, "%s is %s", filepath.Base(path), detected.String())
	}

	return NewMediaAsset(filepath.Base(path), MIMETypeMP4, data), nil
}

func (a *MediaAsset) Name() string {
	return a.name
}

func (a *MediaAsset) MIMEType() string {
	return a.mimeType
}

// Bytes returns a copy of the asset content.
func (a *MediaAsset) Bytes() []byte {
	buf := make([]byte, len(a.data))
	copy(buf, a.data)
	return buf
}

func (a *MediaAsset) Size() int {
	return len(a.data)
}
