package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultTranscribeURL = "https://api.mistral.ai/v1/audio/transcriptions"
	DefaultChatURL       = "https://api.mistral.ai/v1/chat/completions"
	DefaultModel         = "voxtral-mini-2507"
)

type Config struct {
	// APIKey is the environment default; a per-request key overrides it.
	APIKey        string   `mapstructure:"api_key"`
	TranscribeURL string   `mapstructure:"transcribe_url"`
	ChatURL       string   `mapstructure:"chat_url"`
	Model         string   `mapstructure:"model"`
	AudioFormat   string   `mapstructure:"audio_format"`
	Analysis      Analysis `mapstructure:"analysis"`
	Server        Server   `mapstructure:"server"`
	DatasetPath   string   `mapstructure:"dataset_path"`
	BatchLimit    int      `mapstructure:"batch_limit"`
	Environment   string   `mapstructure:"environment"`
	LogLevel      string   `mapstructure:"log_level"`
}

type Analysis struct {
	// Parallel issues the four chat analyses concurrently. Off by default.
	Parallel bool `mapstructure:"parallel"`
}

type Server struct {
	Port        string `mapstructure:"port"`
	MaxUploadMB int    `mapstructure:"max_upload_mb"`
}

// Load reads .env, then an optional YAML file, then the environment.
// With an empty path, repradar.yaml is looked up in . and ./config and may be absent.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("api_key", "")
	v.SetDefault("transcribe_url", DefaultTranscribeURL)
	v.SetDefault("chat_url", DefaultChatURL)
	v.SetDefault("model", DefaultModel)
	v.SetDefault("audio_format", "mp3")
	v.SetDefault("analysis.parallel", false)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.max_upload_mb", 25)
	v.SetDefault("dataset_path", "")
	v.SetDefault("batch_limit", 5)
	v.SetDefault("environment", "")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("REPRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_key", "REPRADAR_API_KEY", "MISTRAL_API_KEY")
	_ = v.BindEnv("server.port", "REPRADAR_SERVER_PORT", "PORT")
	_ = v.BindEnv("dataset_path", "REPRADAR_DATASET_PATH", "DATASET_PATH")
	_ = v.BindEnv("environment", "REPRADAR_ENVIRONMENT", "ENVIRONMENT")
	_ = v.BindEnv("log_level", "REPRADAR_LOG_LEVEL", "LOG_LEVEL")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("repradar")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if c.BatchLimit <= 0 {
		c.BatchLimit = 5
	}
	return &c, nil
}

// ResolveAPIKey prefers a key supplied with the request over the configured default.
func (c *Config) ResolveAPIKey(override string) string {
	if k := strings.TrimSpace(override); k != "" {
		return k
	}
	return c.APIKey
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	mb := c.Server.MaxUploadMB
	if mb <= 0 {
		mb = 25
	}
	return int64(mb) << 20
}
