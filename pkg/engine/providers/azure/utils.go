package azure

import (
	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/goccy/go-json"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine"
)

const (
	segmentationSilenceTimeoutProperty = "Speech_SegmentationSilenceTimeoutMs"
	initialSilenceTimeoutProperty      = "SpeechServiceConnection_InitialSilenceTimeoutMs"
	assessmentParamsProperty           = "PronunciationAssessment_Params"
)

// assessmentParams mirrors the JSON the service reads from PronunciationAssessment_Params.
type assessmentParams struct {
	ReferenceText     string `json:"referenceText"`
	GradingSystem     string `json:"gradingSystem"`
	Granularity       string `json:"granularity"`
	Dimension         string `json:"dimension"`
	PhonemeAlphabet   string `json:"phonemeAlphabet,omitempty"`
	EnableMiscue      bool   `json:"enableMiscue"`
	NBestPhonemeCount int    `json:"nBestPhonemeCount,omitempty"`
}

func toSDKGranularity(g engine.Granularity) string {
	switch g {
	case engine.GranularityFullText:
		return "FullText"
	case engine.GranularityWord:
		return "Word"
	default:
		return "Phoneme"
	}
}

func marshalAssessmentParams(ac *engine.AssessmentConfig) (string, error) {
	p := assessmentParams{
		ReferenceText:   ac.ReferenceText,
		GradingSystem:   "HundredMark",
		Granularity:     toSDKGranularity(ac.Granularity),
		Dimension:       "Comprehensive",
		PhonemeAlphabet: ac.PhonemeAlphabet,
		EnableMiscue:    ac.EnableMiscue,
	}
	if ac.NBestPhonemeCount != nil {
		p.NBestPhonemeCount = *ac.NBestPhonemeCount
	}

	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func toReason(reason common.ResultReason) engine.ResultReason {
	switch reason {
	case common.RecognizedSpeech:
		return engine.ReasonRecognizedSpeech
	case common.Canceled:
		return engine.ReasonCanceled
	default:
		return engine.ReasonNoMatch
	}
}

func toResult(res *speech.SpeechRecognitionResult) *engine.Result {
	if res == nil {
		return &engine.Result{Reason: engine.ReasonNoMatch}
	}

	result := &engine.Result{
		Text:           res.Text,
		Reason:         toReason(res.Reason),
		AssessmentJSON: res.Properties.GetProperty(common.SpeechServiceResponseJSONResult, ""),
	}

	if result.Reason == engine.ReasonCanceled {
		result.ErrorDetails = res.Properties.GetProperty(common.CancellationDetailsReasonDetailedText, "")
		if result.ErrorDetails == "" {
			result.ErrorDetails = res.Properties.GetProperty(common.SpeechServiceResponseJSONErrorDetails, "")
		}
	}
	return result
}
