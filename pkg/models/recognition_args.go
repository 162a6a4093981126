package models

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine"
)

// recognitionArgs is the argument bag of the recognition commands.
// Absent values fall back to the configured defaults.
type recognitionArgs struct {
	SubscriptionKey   string   `mapstructure:"subscriptionKey"`
	Region            string   `mapstructure:"region"`
	Language          string   `mapstructure:"language"`
	Languages         []string `mapstructure:"languages"`
	Timeout           string   `mapstructure:"timeout"`
	TimeoutMs         string   `mapstructure:"timeoutMs"`
	ReferenceText     string   `mapstructure:"referenceText"`
	PhonemeAlphabet   string   `mapstructure:"phonemeAlphabet"`
	Granularity       string   `mapstructure:"granularity"`
	EnableMiscue      *bool    `mapstructure:"enableMiscue"`
	NBestPhonemeCount *int     `mapstructure:"nBestPhonemeCount"`
}

func decodeRecognitionArgs(raw map[string]interface{}) (*recognitionArgs, error) {
	args := new(recognitionArgs)
	if len(raw) == 0 {
		return args, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           args,
	})
	if err != nil {
		return nil, err
	}
	if err = decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrInvalidConfiguration, err)
	}
	return args, nil
}

// toEngineConfig merges the arguments with the app defaults. Single-shot uses
// the segmentation silence timeout, continuous uses the initial silence timeout.
func (a *recognitionArgs) toEngineConfig(app *config.AppConfig, withAssessment, continuous bool) *engine.Config {
	d := app.RecognitionDefaults

	cfg := &engine.Config{
		SubscriptionKey: firstNonEmpty(a.SubscriptionKey, app.AzureSpeech.SubscriptionKey),
		Region:          firstNonEmpty(a.Region, app.AzureSpeech.ServiceRegion),
		Language:        firstNonEmpty(a.Language, d.Language),
		Languages:       cleanLanguages(a.Languages),
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = append([]string(nil), d.Languages...)
	}

	if continuous {
		cfg.InitialSilenceTimeoutMs = d.ContinuousInitialSilentMs
	} else {
		cfg.SegmentationSilenceTimeoutMs = firstNonEmpty(a.TimeoutMs, a.Timeout, d.SilenceTimeoutMs)
	}

	if withAssessment {
		miscue := d.EnableMiscue
		if a.EnableMiscue != nil {
			miscue = *a.EnableMiscue
		}
		cfg.Assessment = &engine.AssessmentConfig{
			ReferenceText:     a.ReferenceText,
			PhonemeAlphabet:   firstNonEmpty(a.PhonemeAlphabet, d.PhonemeAlphabet),
			Granularity:       engine.ParseGranularity(firstNonEmpty(a.Granularity, d.Granularity)),
			EnableMiscue:      miscue,
			NBestPhonemeCount: a.NBestPhonemeCount,
		}
	}

	return cfg
}

func cleanLanguages(in []string) []string {
	var out []string
	for _, l := range in {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
