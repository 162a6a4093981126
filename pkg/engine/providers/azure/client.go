package azure

import (
	"fmt"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine"
	"github.com/sirupsen/logrus"
)

// AzureProvider implements engine.Engine on top of the Azure Speech SDK.
// Audio is captured by the SDK from the default microphone.
type AzureProvider struct {
	log *logrus.Entry
}

func NewProvider(logger *logrus.Logger) *AzureProvider {
	return &AzureProvider{
		log: logger.WithField("provider", "azure"),
	}
}

// NewRecognizer builds the speech config, the auto-detect language config and
// the recognizer. Pronunciation assessment is applied only when cfg.Assessment is set.
func (p *AzureProvider) NewRecognizer(cfg *engine.Config) (engine.Recognizer, error) {
	if cfg.SubscriptionKey == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: azure provider requires subscription key and region", engine.ErrInvalidConfiguration)
	}

	r := &azureRecognizer{
		log: p.log,
	}

	var err error
	r.speechConfig, err = speech.NewSpeechConfigFromSubscription(cfg.SubscriptionKey, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure speech config: %w", err)
	}

	if err = applySpeechConfig(r.speechConfig, cfg); err != nil {
		r.release()
		return nil, err
	}

	// assessment params are read from the speech config when the recognizer is created
	if cfg.Assessment != nil {
		if err = applyAssessment(r.speechConfig, cfg.Assessment); err != nil {
			r.release()
			return nil, err
		}
	}

	r.audioConfig, err = audio.NewAudioConfigFromDefaultMicrophoneInput()
	if err != nil {
		r.release()
		return nil, fmt.Errorf("failed to create audio config: %w", err)
	}

	r.langConfig, err = speech.NewAutoDetectSourceLanguageConfigFromLanguages(cfg.Languages)
	if err != nil {
		r.release()
		return nil, fmt.Errorf("%w: auto detect languages %v: %v", engine.ErrInvalidConfiguration, cfg.Languages, err)
	}

	r.reco, err = speech.NewSpeechRecognizerFomAutoDetectSourceLangConfig(r.speechConfig, r.langConfig, r.audioConfig)
	if err != nil {
		r.release()
		return nil, fmt.Errorf("failed to create speech recognizer: %w", err)
	}

	r.registerHandlers()
	return r, nil
}

func applySpeechConfig(sc *speech.SpeechConfig, cfg *engine.Config) error {
	if cfg.Language != "" {
		if err := sc.SetSpeechRecognitionLanguage(cfg.Language); err != nil {
			return fmt.Errorf("failed to set recognition language: %w", err)
		}
	}
	if cfg.SegmentationSilenceTimeoutMs != "" {
		if err := sc.SetPropertyByString(segmentationSilenceTimeoutProperty, cfg.SegmentationSilenceTimeoutMs); err != nil {
			return fmt.Errorf("failed to set segmentation silence timeout: %w", err)
		}
	}
	if cfg.InitialSilenceTimeoutMs != "" {
		if err := sc.SetPropertyByString(initialSilenceTimeoutProperty, cfg.InitialSilenceTimeoutMs); err != nil {
			return fmt.Errorf("failed to set initial silence timeout: %w", err)
		}
	}
	return nil
}

func applyAssessment(sc *speech.SpeechConfig, ac *engine.AssessmentConfig) error {
	params, err := marshalAssessmentParams(ac)
	if err != nil {
		return fmt.Errorf("failed to encode pronunciation assessment params: %w", err)
	}
	if err = sc.SetPropertyByString(assessmentParamsProperty, params); err != nil {
		return fmt.Errorf("failed to set pronunciation assessment params: %w", err)
	}
	return nil
}
