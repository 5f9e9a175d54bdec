package model

type FFProbeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate int    `json:"sample_rate,string"`
	} `json:"streams"`
	Format struct {
		FormatName string  `json:"format_name"`
		Duration   float64 `json:"duration,string"`
	} `json:"format"`
}

// HasAudio reports whether the probed container carries at least one audio stream.
func (o FFProbeOutput) HasAudio() bool {
	for _, stream := range o.Streams {
		if stream.CodecType == "audio" {
			return true
		}
	}
	return false
}
