package testutil

import (
	"upload-ai/internal/app/model"
)

// MinimalMP4 is an ftyp box with the isom brand, enough for content sniffing.
var MinimalMP4 = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
	'i', 's', 'o', 'm', 'm', 'p', '4', '1',
}

// SampleVideo returns a small video asset named clip.mp4.
func SampleVideo() *model.MediaAsset {
	return model.NewMediaAsset("clip.mp4", model.MIMETypeMP4, MinimalMP4)
}

// SampleAudio returns the asset a successful conversion would produce.
func SampleAudio() *model.MediaAsset {
	return model.NewMediaAsset("audio.mp3", model.MIMETypeMPEG, []byte("ID3\x04\x00\x00mock-mp3"))
}

// UploadResult builds a submission response carrying id.
func UploadResult(id string) model.UploadResult {
	var r model.UploadResult
	r.Media.ID = id
	return r
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
