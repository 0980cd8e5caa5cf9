package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=console json"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimitConfig struct {
	SummarizeLimit int `mapstructure:"summarize_limit" validate:"min=0"`
	AssistLimit    int `mapstructure:"assist_limit" validate:"min=0"`
	WindowSeconds  int `mapstructure:"window_seconds" validate:"min=0"`
}

// ZendeskConfig holds the support-desk REST credentials used by the ticket gateway.
type ZendeskConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Email          string `mapstructure:"email"`
	APIToken       string `mapstructure:"api_token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxSearchPages int    `mapstructure:"max_search_pages"`
	MaxRetries     int    `mapstructure:"max_retries"`
}

func (z *ZendeskConfig) IsConfigured() bool {
	return z.BaseURL != "" && z.APIToken != ""
}

type BedrockConfig struct {
	Region           string `mapstructure:"region"`
	ModelID          string `mapstructure:"model_id"`
	AnthropicVersion string `mapstructure:"anthropic_version"`
}

type AnthropicConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Version string `mapstructure:"version"`
}

// LLMConfig selects and tunes the language-model provider. Provider "none" disables model paths.
type LLMConfig struct {
	Provider       string          `mapstructure:"provider" validate:"omitempty,oneof=none bedrock anthropic"`
	MaxTokens      int             `mapstructure:"max_tokens" validate:"min=0"`
	Temperature    float64         `mapstructure:"temperature" validate:"min=0,max=1"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
	MaxRetries     int             `mapstructure:"max_retries"`
	Bedrock        BedrockConfig   `mapstructure:"bedrock"`
	Anthropic      AnthropicConfig `mapstructure:"anthropic"`
}

func (l *LLMConfig) Enabled() bool {
	return l.Provider != "" && l.Provider != "none"
}

type AssistConfig struct {
	Locale             string `mapstructure:"locale" validate:"omitempty,oneof=ja en"`
	MinCommentLength   int    `mapstructure:"min_comment_length" validate:"min=0"`
	SessionIdleMinutes int    `mapstructure:"session_idle_minutes" validate:"min=0"`
	RulesFile          string `mapstructure:"rules_file"`
	Timezone           string `mapstructure:"timezone"`
}
