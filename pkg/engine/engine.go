// Package engine defines the contract between the recognition managers and a
// cloud speech-recognition engine. The managers never talk to an SDK directly;
// they get a Recognizer for a Config and drive it through this interface.
package engine

import (
	"context"
)

// ResultReason classifies a terminal recognition result.
type ResultReason int

const (
	// ReasonRecognizedSpeech means the engine produced a transcript.
	ReasonRecognizedSpeech ResultReason = iota
	// ReasonNoMatch means speech could not be recognized.
	ReasonNoMatch
	// ReasonCanceled means the engine gave up, e.g. bad credentials or network loss.
	ReasonCanceled
)

func (r ResultReason) String() string {
	switch r {
	case ReasonRecognizedSpeech:
		return "RecognizedSpeech"
	case ReasonNoMatch:
		return "NoMatch"
	case ReasonCanceled:
		return "Canceled"
	}
	return "Unknown"
}

// Result is a single recognized utterance, interim or final.
type Result struct {
	Text   string
	Reason ResultReason
	// AssessmentJSON is the raw json response of the engine. It carries the
	// pronunciation scores when assessment was configured.
	AssessmentJSON string
	// ErrorDetails is filled when Reason is ReasonCanceled.
	ErrorDetails string
}

// IsRecognizedSpeech reports whether the result is a recognized-speech outcome.
func (r *Result) IsRecognizedSpeech() bool {
	return r != nil && r.Reason == ReasonRecognizedSpeech
}

// Recognizer is one engine recognizer instance. Handlers must be registered
// before RecognizeOnce or StartContinuous. Handlers are invoked on the engine's
// own goroutines.
type Recognizer interface {
	// OnRecognizing registers the handler for interim results.
	OnRecognizing(handler func(text string))
	// OnRecognized registers the handler for finalized utterances in continuous mode.
	OnRecognized(handler func(result *Result))
	// OnCanceled registers the handler for engine side cancellation in continuous mode.
	OnCanceled(handler func(errorDetails string))

	// RecognizeOnce blocks until one utterance was recognized, the engine
	// timed out, or ctx was cancelled.
	RecognizeOnce(ctx context.Context) (*Result, error)
	StartContinuous(ctx context.Context) error
	StopContinuous(ctx context.Context) error

	// Close releases the engine resources. It's safe to call more than once.
	Close()
}

// Engine creates recognizers.
type Engine interface {
	NewRecognizer(cfg *Config) (Recognizer, error)
}
