package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/team"
)

// 环境变量
const (
	EnvMode              = "AI_TEAM_MODE"
	EnvTimeout           = "AI_TEAM_TIMEOUT"
	EnvMaxRetries        = "AI_TEAM_MAX_RETRIES"
	EnvSynthesizer       = "AI_TEAM_SYNTHESIZER"
	EnvSynthesisFallback = "AI_TEAM_SYNTHESIS_FALLBACK"
	EnvMembersFile       = "AI_TEAM_MEMBERS_FILE"

	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvAnthropicModel  = "ANTHROPIC_MODEL"
	EnvClaudeBedrock   = "AI_TEAM_CLAUDE_BEDROCK"
	EnvAWSRegion       = "AWS_REGION"
	EnvAWSProfile      = "AWS_PROFILE"

	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGeminiModel  = "GEMINI_MODEL"

	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvOpenAIModel   = "OPENAI_MODEL"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"

	EnvOllamaHost  = "OLLAMA_HOST"
	EnvOllamaModel = "OLLAMA_MODEL"
)

// envBindings 配置键到环境变量的映射
var envBindings = map[string]string{
	"mode":               EnvMode,
	"timeout_ms":         EnvTimeout,
	"max_retries":        EnvMaxRetries,
	"synthesizer":        EnvSynthesizer,
	"synthesis_fallback": EnvSynthesisFallback,
	"members_file":       EnvMembersFile,

	"anthropic.api_key":     EnvAnthropicAPIKey,
	"anthropic.model":       EnvAnthropicModel,
	"anthropic.bedrock":     EnvClaudeBedrock,
	"anthropic.aws_region":  EnvAWSRegion,
	"anthropic.aws_profile": EnvAWSProfile,

	"gemini.api_key": EnvGeminiAPIKey,
	"gemini.model":   EnvGeminiModel,

	"openai.api_key":  EnvOpenAIAPIKey,
	"openai.model":    EnvOpenAIModel,
	"openai.base_url": EnvOpenAIBaseURL,

	"ollama.host":  EnvOllamaHost,
	"ollama.model": EnvOllamaModel,
}

// Config 编排器配置，进程启动时读取一次
type Config struct {
	Mode              team.Strategy
	Timeout           time.Duration
	MaxRetries        int
	Synthesizer       provider.ID
	SynthesisFallback bool
	MembersFile       string

	Anthropic provider.AnthropicConfig
	Gemini    provider.GeminiConfig
	OpenAI    OpenAIConfig
	Ollama    OllamaConfig
}

// OpenAIConfig OpenAI 凭据
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OllamaConfig 本地 Ollama 服务
type OllamaConfig struct {
	Host  string
	Model string
}

// Load 从环境变量读取配置
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	mode, err := team.ParseStrategy(v.GetString("mode"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvMode, err)
	}

	timeout := time.Duration(v.GetInt64("timeout_ms")) * time.Millisecond
	if timeout <= 0 {
		timeout = team.DefaultTimeout
	}

	retries := v.GetInt("max_retries")
	if retries < 0 {
		retries = team.DefaultMaxRetries
	}

	cfg := &Config{
		Mode:              mode,
		Timeout:           timeout,
		MaxRetries:        retries,
		Synthesizer:       provider.ID(v.GetString("synthesizer")),
		SynthesisFallback: v.GetBool("synthesis_fallback"),
		MembersFile:       v.GetString("members_file"),

		Anthropic: provider.AnthropicConfig{
			APIKey:     v.GetString("anthropic.api_key"),
			Model:      v.GetString("anthropic.model"),
			UseBedrock: v.GetBool("anthropic.bedrock"),
			AWSRegion:  v.GetString("anthropic.aws_region"),
			AWSProfile: v.GetString("anthropic.aws_profile"),
		},
		Gemini: provider.GeminiConfig{
			APIKey: v.GetString("gemini.api_key"),
			Model:  v.GetString("gemini.model"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  v.GetString("openai.api_key"),
			Model:   v.GetString("openai.model"),
			BaseURL: v.GetString("openai.base_url"),
		},
		Ollama: OllamaConfig{
			Host:  v.GetString("ollama.host"),
			Model: v.GetString("ollama.model"),
		},
	}

	if !cfg.Synthesizer.Valid() {
		return nil, fmt.Errorf("%s: unknown provider %q (want one of %v)", EnvSynthesizer, cfg.Synthesizer, provider.KnownIDs())
	}

	return cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", string(team.DefaultStrategy))
	v.SetDefault("timeout_ms", team.DefaultTimeout.Milliseconds())
	v.SetDefault("max_retries", team.DefaultMaxRetries)
	v.SetDefault("synthesizer", string(team.DefaultSynthesizer))
	v.SetDefault("synthesis_fallback", false)
}

// Enabled 后端是否有可用凭据
func (c *Config) Enabled(id provider.ID) bool {
	switch id {
	case provider.IDClaude:
		return c.Anthropic.APIKey != "" || c.Anthropic.UseBedrock
	case provider.IDGemini:
		return c.Gemini.APIKey != ""
	case provider.IDOpenAI:
		return c.OpenAI.APIKey != ""
	case provider.IDOllama:
		return c.Ollama.Host != ""
	}
	return false
}

// Options 转换为编排器选项
func (c *Config) Options() []team.Option {
	return []team.Option{
		team.WithStrategy(c.Mode),
		team.WithTimeout(c.Timeout),
		team.WithMaxRetries(c.MaxRetries),
		team.WithSynthesizer(c.Synthesizer),
		team.WithSynthesisFallback(c.SynthesisFallback),
	}
}
