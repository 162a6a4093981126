package config

const (
	DefaultPort            = 8080
	DefaultHostChannelName = "azure_speech_recognition"

	HostChannelDriverNats  = "nats"
	HostChannelDriverRedis = "redis"

	AudioSessionDriverNone      = "none"
	AudioSessionDriverPortAudio = "portaudio"

	DefaultLanguage                   = "en-US"
	DefaultPhonemeAlphabet            = "IPA"
	DefaultGranularity                = "phoneme"
	DefaultContinuousInitialSilenceMs = "15000"

	// EventPrefix is prepended to every event name sent to the host application.
	EventPrefix = "speech."
)

// commands received from the host application
const (
	CommandSimpleVoice                    = "simpleVoice"
	CommandSimpleVoiceWithAssessment      = "simpleVoiceWithAssessment"
	CommandIsContinuousRecognitionOn      = "isContinuousRecognitionOn"
	CommandContinuousStream               = "continuousStream"
	CommandContinuousStreamWithAssessment = "continuousStreamWithAssessment"
	CommandCancelSimpleVoice              = "cancelSimpleVoice"
	CommandStopContinuousStream           = "stopContinuousStream"
)

// events sent to the host application
const (
	EventRecognitionStarted = "onRecognitionStarted"
	EventSpeech             = "onSpeech"
	EventFinalResponse      = "onFinalResponse"
	EventAssessmentResult   = "onAssessmentResult"
	EventRecognitionStopped = "onRecognitionStopped"
)
