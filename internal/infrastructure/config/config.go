package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/config"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/utils"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit"`
	Zendesk   sharedConfig.ZendeskConfig   `mapstructure:"zendesk"`
	LLM       sharedConfig.LLMConfig       `mapstructure:"llm"`
	Assist    sharedConfig.AssistConfig    `mapstructure:"assist"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml (optional) and YOYAKU_* environment variables.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("YOYAKU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	// the companion function's historical variable names
	if region := os.Getenv("BEDROCK_REGION"); region != "" {
		v.Set("llm.bedrock.region", region)
	}
	if modelID := os.Getenv("BEDROCK_MODEL_ID"); modelID != "" {
		v.Set("llm.bedrock.model_id", modelID)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := utils.ValidateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &cfg
	appConfigMu.Unlock()

	return &cfg, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("ratelimit.summarize_limit", 30)
	v.SetDefault("ratelimit.assist_limit", 120)
	v.SetDefault("ratelimit.window_seconds", 60)

	v.SetDefault("zendesk.base_url", "")
	v.SetDefault("zendesk.email", "")
	v.SetDefault("zendesk.api_token", "")
	v.SetDefault("zendesk.timeout_seconds", 15)
	v.SetDefault("zendesk.max_search_pages", 3)
	v.SetDefault("zendesk.max_retries", 3)

	v.SetDefault("llm.provider", "none")
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.bedrock.region", "us-east-1")
	v.SetDefault("llm.bedrock.model_id", "anthropic.claude-3-haiku-20240307-v1:0")
	v.SetDefault("llm.bedrock.anthropic_version", "bedrock-2023-05-31")
	v.SetDefault("llm.anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", "claude-3-haiku-20240307")
	v.SetDefault("llm.anthropic.version", "2023-06-01")

	v.SetDefault("assist.locale", "ja")
	v.SetDefault("assist.min_comment_length", 20)
	v.SetDefault("assist.session_idle_minutes", 120)
	v.SetDefault("assist.rules_file", "")
	v.SetDefault("assist.timezone", "Asia/Tokyo")
}
