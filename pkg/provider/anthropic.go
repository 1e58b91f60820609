package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

const defaultAnthropicMaxTokens = 4096

// AnthropicConfig Claude 适配器配置
type AnthropicConfig struct {
	// APIKey Anthropic API key，使用 Bedrock 时忽略
	APIKey string
	// Model 模型名称，为空时使用 Claude Sonnet 4
	Model string
	// BaseURL 覆盖 API 地址（测试或代理）
	BaseURL string
	// UseBedrock 通过 AWS Bedrock 调用
	UseBedrock bool
	// AWSRegion Bedrock 区域
	AWSRegion string
	// AWSProfile 可选的 AWS profile
	AWSProfile string
	// MaxTokens 默认最大输出 token 数
	MaxTokens int
}

// Anthropic Claude 适配器（Messages API）
type Anthropic struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int
}

// NewAnthropic 创建 Claude 适配器
func NewAnthropic(ctx context.Context, cfg AnthropicConfig) (*Anthropic, error) {
	var opts []option.RequestOption

	if cfg.UseBedrock {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude: api key is required")
		}
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	if cfg.UseBedrock {
		model = bedrockModel(model)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// bedrockModel 将标准模型名转换为 Bedrock 跨区域推理 profile
func bedrockModel(model anthropic.Model) anthropic.Model {
	if strings.HasPrefix(string(model), "us.anthropic") {
		return model
	}
	profiles := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_1_20250805:   "us.anthropic.claude-opus-4-1-20250805-v1:0",
	}
	if p, ok := profiles[model]; ok {
		return anthropic.Model(p)
	}
	return model
}

// ID 实现 Provider 接口
func (a *Anthropic) ID() ID { return IDClaude }

// Model returns the configured model name.
func (a *Anthropic) Model() string { return string(a.model) }

// Generate 实现 Provider 接口
func (a *Anthropic) Generate(ctx context.Context, req *Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = a.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return nil, fmt.Errorf("claude: %w", ErrEmptyCompletion)
	}

	return &Response{
		Text:         sb.String(),
		TokensUsed:   int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		FinishReason: string(resp.StopReason),
		Model:        string(resp.Model),
	}, nil
}
