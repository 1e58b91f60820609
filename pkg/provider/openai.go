package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4-turbo-preview"
	defaultOllamaModel   = "llama3.1"
)

// OpenAICompatConfig OpenAI 兼容接口配置
//
// Ollama 通过 {host}/v1 暴露同样的 chat/completions 接口。
type OpenAICompatConfig struct {
	// ProviderID 绑定的后端标识（openai 或 ollama）
	ProviderID  ID
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// OpenAICompat OpenAI 兼容的 chat/completions 适配器
type OpenAICompat struct {
	id   ID
	http *resty.Client
	cfg  OpenAICompatConfig
}

// NewOpenAI 创建 OpenAI 适配器
func NewOpenAI(apiKey, model, baseURL string) (*OpenAICompat, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return NewOpenAICompat(OpenAICompatConfig{
		ProviderID: IDOpenAI,
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Model:      model,
		MaxTokens:  4096,
	})
}

// NewOllama 创建 Ollama 适配器，host 形如 http://localhost:11434
func NewOllama(host, model string) (*OpenAICompat, error) {
	if host == "" {
		return nil, fmt.Errorf("ollama: host is required")
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return NewOpenAICompat(OpenAICompatConfig{
		ProviderID: IDOllama,
		BaseURL:    strings.TrimRight(host, "/") + "/v1",
		Model:      model,
	})
}

// NewOpenAICompat 创建通用 OpenAI 兼容适配器
func NewOpenAICompat(cfg OpenAICompatConfig) (*OpenAICompat, error) {
	if cfg.ProviderID == "" {
		return nil, fmt.Errorf("openai-compat: provider id is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%s: base url is required", cfg.ProviderID)
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &OpenAICompat{id: cfg.ProviderID, http: client, cfg: cfg}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ID 实现 Provider 接口
func (o *OpenAICompat) ID() ID { return o.id }

// Generate 实现 Provider 接口
func (o *OpenAICompat) Generate(ctx context.Context, req *Request) (*Response, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	maxTokens := o.cfg.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	var out chatResponse
	var apiErr chatError
	resp, err := o.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       o.cfg.Model,
			Messages:    messages,
			Temperature: o.cfg.Temperature,
			MaxTokens:   maxTokens,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.id, err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return nil, fmt.Errorf("%s: status %d: %s", o.id, resp.StatusCode(), msg)
	}

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("%s: %w", o.id, ErrEmptyCompletion)
	}

	return &Response{
		Text:         out.Choices[0].Message.Content,
		TokensUsed:   out.Usage.TotalTokens,
		FinishReason: out.Choices[0].FinishReason,
		Model:        out.Model,
	}, nil
}
