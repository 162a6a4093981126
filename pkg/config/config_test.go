package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testConfig = `
client:
  port: 9090
  api_key: plugNmeet
  secret: zumyyYWqv7KR2kUqvYdq4z4sXg7XTBD2ljT6
  prometheus:
    enable: true
log_settings:
  log_level: debug
host_channel:
  driver: NATS
azure_speech:
  subscription_key: key
  service_region: westeurope
recognition_defaults:
  languages:
    - en-US
    - de-DE
audio_session:
  driver: portaudio
`

func TestNew_Defaults(t *testing.T) {
	appCnf := new(AppConfig)
	err := yaml.Unmarshal([]byte(testConfig), appCnf)
	require.NoError(t, err)

	appCnf, err = New(appCnf)
	require.NoError(t, err)

	assert.Equal(t, 9090, appCnf.Client.Port)
	assert.Equal(t, "/metrics", appCnf.Client.PrometheusConf.MetricsPath)
	assert.Equal(t, HostChannelDriverNats, appCnf.HostChannel.Driver)
	assert.Equal(t, DefaultHostChannelName, appCnf.HostChannel.Name)
	assert.Equal(t, []string{"nats://127.0.0.1:4222"}, appCnf.NatsInfo.NatsUrls)
	assert.Equal(t, []string{"en-US", "de-DE"}, appCnf.RecognitionDefaults.Languages)
	assert.Equal(t, DefaultPhonemeAlphabet, appCnf.RecognitionDefaults.PhonemeAlphabet)
	assert.Equal(t, DefaultGranularity, appCnf.RecognitionDefaults.Granularity)
	assert.Equal(t, DefaultContinuousInitialSilenceMs, appCnf.RecognitionDefaults.ContinuousInitialSilentMs)
	assert.Equal(t, AudioSessionDriverPortAudio, appCnf.AudioSession.Driver)
	assert.Equal(t, "bluetooth", appCnf.AudioSession.BluetoothKeyword)
	assert.Same(t, appCnf, GetConfig())

	assert.Equal(t, "azure_speech_recognition.events", appCnf.HostEventsSubject())
	assert.Equal(t, "azure_speech_recognition.command", appCnf.HostCommandSubject())
}

func TestNew_EmptyConfig(t *testing.T) {
	appCnf, err := New(new(AppConfig))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, appCnf.Client.Port)
	assert.Equal(t, []string{DefaultLanguage}, appCnf.RecognitionDefaults.Languages)
	assert.Equal(t, AudioSessionDriverNone, appCnf.AudioSession.Driver)
}

func TestNew_RedisDriverRequiresRedisInfo(t *testing.T) {
	_, err := New(&AppConfig{HostChannel: HostChannel{Driver: "redis"}})
	assert.Error(t, err)

	appCnf, err := New(&AppConfig{
		HostChannel: HostChannel{Driver: "redis", Name: "speech"},
		RedisInfo:   &RedisInfo{Host: "127.0.0.1:6379"},
	})
	require.NoError(t, err)
	assert.Equal(t, "speech:events", appCnf.HostEventsSubject())
	assert.Empty(t, appCnf.NatsInfo.NatsUrls)
}

func TestNew_UnsupportedDrivers(t *testing.T) {
	_, err := New(&AppConfig{HostChannel: HostChannel{Driver: "mqtt"}})
	assert.Error(t, err)

	_, err = New(&AppConfig{AudioSession: AudioSession{Driver: "alsa"}})
	assert.Error(t, err)
}
