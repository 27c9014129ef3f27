package adapter

import "context"

// Transcript is one recognition result. Partial results may be revised
// by later partials; a final result closes the utterance.
type Transcript struct {
	Text  string
	Final bool
}

// SpeechRecognizer is the optional port for speech-to-text input. The
// HTTP layer depends on it without owning an implementation; when no
// recognizer is configured the transcription endpoint reports the
// capability as unavailable.
type SpeechRecognizer interface {
	// Start begins a recognition stream. Results and errors are delivered
	// on the returned channels until Stop is called or ctx is done.
	Start(ctx context.Context) (<-chan Transcript, <-chan error, error)
	Stop() error

	// Transcribe performs one-shot recognition over a complete audio clip.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}
