package model

// TranscriptionRequest pairs the media identifier returned by an upload with
// the optional keyword prompt supplied by the user.
type TranscriptionRequest struct {
	MediaID string
	Prompt  *string
}

// UploadResult is the body returned by the media submission endpoint.
type UploadResult struct {
	Media struct {
		ID string `json:"id"`
	} `json:"media"`
}

// ID returns the identifier the server assigned to the uploaded media.
func (r UploadResult) ID() string {
	return r.Media.ID
}
