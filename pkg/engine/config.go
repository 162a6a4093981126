package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfiguration is returned when a Config can't be used to build a recognizer.
var ErrInvalidConfiguration = errors.New("invalid recognition configuration")

// Granularity is the scoring granularity of pronunciation assessment.
type Granularity string

const (
	GranularityFullText Granularity = "text"
	GranularityWord     Granularity = "word"
	GranularityPhoneme  Granularity = "phoneme"
)

// ParseGranularity maps the host value to a Granularity.
// Anything unknown falls back to phoneme level.
func ParseGranularity(s string) Granularity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "fulltext", "full-text":
		return GranularityFullText
	case "word":
		return GranularityWord
	default:
		return GranularityPhoneme
	}
}

// Config is everything needed to build a recognizer. It is treated as an
// immutable value once built.
type Config struct {
	SubscriptionKey string   `validate:"required"`
	Region          string   `validate:"required"`
	Language        string   `validate:"omitempty"`
	Languages       []string `validate:"min=1,max=10,dive,required"`
	// SegmentationSilenceTimeoutMs is the silence after which an utterance is finalized.
	SegmentationSilenceTimeoutMs string `validate:"omitempty,numeric"`
	// InitialSilenceTimeoutMs is the silence allowed before the first word.
	InitialSilenceTimeoutMs string `validate:"omitempty,numeric"`

	// Assessment is nil when pronunciation assessment wasn't requested.
	Assessment *AssessmentConfig `validate:"omitempty"`
}

type AssessmentConfig struct {
	ReferenceText     string
	PhonemeAlphabet   string      `validate:"required"`
	Granularity       Granularity `validate:"oneof=text word phoneme"`
	EnableMiscue      bool
	NBestPhonemeCount *int `validate:"omitempty,min=1"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks the config before any engine resource is created.
func (c *Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}

// WithAssessment reports whether pronunciation assessment was requested.
func (c *Config) WithAssessment() bool {
	return c.Assessment != nil
}
