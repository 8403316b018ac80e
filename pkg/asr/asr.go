// Package asr defines the speech-recognition collaborator interface for the
// Podium evaluation pipeline.
//
// The scorers never talk to a recognition engine directly: they consume the
// word-level [Result] produced here. An implementation wraps a concrete
// engine (the whisper subpackage binds whisper.cpp natively); the mock
// subpackage provides a scripted implementation for tests.
//
// Implementations must be safe for concurrent use. A single loaded model may
// serve many transcriptions at once.
package asr

import "context"

// Word is a single recognised word with timing and confidence.
// Words are chronological and non-overlapping by construction.
type Word struct {
	// Text is the recognised word, including any trailing punctuation the
	// engine attached.
	Text string `json:"text"`

	// Start and End are offsets from the beginning of the audio, in seconds.
	Start float64 `json:"start"`
	End   float64 `json:"end"`

	// Confidence is the engine's word probability in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Duration returns the word length in seconds.
func (w Word) Duration() float64 { return w.End - w.Start }

// Segment is a contiguous recognised utterance.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is a complete transcription of one recording.
type Result struct {
	// Words is the ordered word list. May be empty when no speech was
	// detected; that is a valid result, not an error.
	Words []Word `json:"words"`

	// FullText is the complete transcript text.
	FullText string `json:"full_text"`

	// Segments is the utterance list.
	Segments []Segment `json:"segments"`

	// Duration is the audio length in seconds.
	Duration float64 `json:"duration"`

	// Language is the detected or configured language code (e.g., "en").
	Language string `json:"language"`

	// LanguageProbability is the engine's confidence in Language, in [0, 1].
	// Zero when the engine does not report it.
	LanguageProbability float64 `json:"language_probability"`

	// Model names the recognition model used, for report metadata.
	Model string `json:"model"`
}

// WordCount returns the number of recognised words.
func (r Result) WordCount() int { return len(r.Words) }

// Provider is the abstraction over any speech-recognition backend.
//
// Transcribe consumes mono float32 PCM samples at the given sample rate and
// returns the word-level result. A recording without speech returns an empty
// Result and a nil error; only engine failures return an error.
type Provider interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (Result, error)
}
