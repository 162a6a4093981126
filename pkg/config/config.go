package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	appConfig *AppConfig
	mu        sync.RWMutex
)

type AppConfig struct {
	RDS      *redis.Client
	Logger   *logrus.Logger
	NatsConn *nats.Conn

	RootWorkingDir      string
	Client              ClientInfo          `yaml:"client"`
	LogSettings         LogSettings         `yaml:"log_settings"`
	NatsInfo            NatsInfo            `yaml:"nats_info"`
	RedisInfo           *RedisInfo          `yaml:"redis_info"`
	HostChannel         HostChannel         `yaml:"host_channel"`
	AzureSpeech         AzureSpeech         `yaml:"azure_speech"`
	RecognitionDefaults RecognitionDefaults `yaml:"recognition_defaults"`
	AudioSession        AudioSession        `yaml:"audio_session"`
}

type ClientInfo struct {
	Port           int            `yaml:"port"`
	Debug          bool           `yaml:"debug"`
	ApiKey         string         `yaml:"api_key"`
	Secret         string         `yaml:"secret"`
	PrometheusConf PrometheusConf `yaml:"prometheus"`
	ProxyHeader    string         `yaml:"proxy_header"`
}

type PrometheusConf struct {
	Enable      bool   `yaml:"enable"`
	MetricsPath string `yaml:"metrics_path"`
}

type LogSettings struct {
	LogLevel   *string `yaml:"log_level"`
	LogFile    string  `yaml:"log_file"`
	MaxSize    int     `yaml:"max_size"`
	MaxBackups int     `yaml:"max_backups"`
	MaxAge     int     `yaml:"max_age"`
}

type NatsInfo struct {
	NatsUrls []string `yaml:"nats_urls"`
	User     string   `yaml:"user"`
	Password string   `yaml:"password"`
	Token    string   `yaml:"token"`
}

type RedisInfo struct {
	Host              string   `yaml:"host"`
	Username          string   `yaml:"username"`
	Password          string   `yaml:"password"`
	DBName            int      `yaml:"db"`
	UseTLS            bool     `yaml:"use_tls"`
	MasterName        string   `yaml:"sentinel_master_name"`
	SentinelUsername  string   `yaml:"sentinel_username"`
	SentinelPassword  string   `yaml:"sentinel_password"`
	SentinelAddresses []string `yaml:"sentinel_addresses"`
}

// HostChannel describes where events for the host application are delivered
// and where commands are received from.
type HostChannel struct {
	// Driver is either "nats" or "redis". Commands over request/reply are only
	// available with nats, the http api works with both.
	Driver string `yaml:"driver"`
	Name   string `yaml:"name"`
}

type AzureSpeech struct {
	SubscriptionKey string `yaml:"subscription_key"`
	ServiceRegion   string `yaml:"service_region"`
}

type RecognitionDefaults struct {
	Language                  string   `yaml:"language"`
	Languages                 []string `yaml:"languages"`
	SilenceTimeoutMs          string   `yaml:"silence_timeout_ms"`
	ContinuousInitialSilentMs string   `yaml:"continuous_initial_silence_timeout_ms"`
	PhonemeAlphabet           string   `yaml:"phoneme_alphabet"`
	Granularity               string   `yaml:"granularity"`
	EnableMiscue              bool     `yaml:"enable_miscue"`
}

type AudioSession struct {
	// Driver is either "portaudio" or "none".
	Driver           string `yaml:"driver"`
	BluetoothKeyword string `yaml:"bluetooth_keyword"`
}

// New sets defaults to the provided config and stores it for global usage.
func New(appCnf *AppConfig) (*AppConfig, error) {
	if appCnf.Client.Port == 0 {
		appCnf.Client.Port = DefaultPort
	}
	if appCnf.Client.PrometheusConf.Enable && appCnf.Client.PrometheusConf.MetricsPath == "" {
		appCnf.Client.PrometheusConf.MetricsPath = "/metrics"
	}

	hc := &appCnf.HostChannel
	if hc.Name == "" {
		hc.Name = DefaultHostChannelName
	}
	hc.Driver = strings.ToLower(hc.Driver)
	switch hc.Driver {
	case "":
		hc.Driver = HostChannelDriverNats
	case HostChannelDriverNats:
	case HostChannelDriverRedis:
		if appCnf.RedisInfo == nil {
			return nil, fmt.Errorf("host_channel driver %q requires redis_info", hc.Driver)
		}
	default:
		return nil, fmt.Errorf("unsupported host_channel driver %q", hc.Driver)
	}
	if len(appCnf.NatsInfo.NatsUrls) == 0 && hc.Driver == HostChannelDriverNats {
		appCnf.NatsInfo.NatsUrls = []string{"nats://127.0.0.1:4222"}
	}

	d := &appCnf.RecognitionDefaults
	if len(d.Languages) == 0 {
		d.Languages = []string{DefaultLanguage}
	}
	if d.PhonemeAlphabet == "" {
		d.PhonemeAlphabet = DefaultPhonemeAlphabet
	}
	if d.Granularity == "" {
		d.Granularity = DefaultGranularity
	}
	if d.ContinuousInitialSilentMs == "" {
		d.ContinuousInitialSilentMs = DefaultContinuousInitialSilenceMs
	}

	as := &appCnf.AudioSession
	as.Driver = strings.ToLower(as.Driver)
	switch as.Driver {
	case "":
		as.Driver = AudioSessionDriverNone
	case AudioSessionDriverNone, AudioSessionDriverPortAudio:
	default:
		return nil, fmt.Errorf("unsupported audio_session driver %q", as.Driver)
	}
	if as.BluetoothKeyword == "" {
		as.BluetoothKeyword = "bluetooth"
	}

	mu.Lock()
	appConfig = appCnf
	mu.Unlock()

	return appCnf, nil
}

func GetConfig() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return appConfig
}

// HostEventsSubject returns the subject (nats) or channel (redis) events are published on.
func (a *AppConfig) HostEventsSubject() string {
	if a.HostChannel.Driver == HostChannelDriverRedis {
		return a.HostChannel.Name + ":events"
	}
	return a.HostChannel.Name + ".events"
}

// HostCommandSubject returns the nats subject commands are received on.
func (a *AppConfig) HostCommandSubject() string {
	return a.HostChannel.Name + ".command"
}
