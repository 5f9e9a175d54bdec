// Package testutil provides test doubles and fixtures shared by the upload-ai
// packages.
//
// MockTranscoder and MockMediaClient are testify mocks for the two pipeline
// collaborators. They also track call order so tests can assert that a later
// stage never ran after an earlier one failed.
//
//	transcoder := testutil.NewMockTranscoder()
//	transcoder.On("Convert", mock.Anything, mock.Anything, mock.Anything).
//	    Return(testutil.SampleAudio(), nil)
package testutil
