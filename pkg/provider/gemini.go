package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.0-flash-exp"
)

// GeminiConfig Gemini 适配器配置
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	TopP        float64
	TopK        int
}

// Gemini Google Gemini 适配器（REST generateContent）
type Gemini struct {
	http *resty.Client
	cfg  GeminiConfig
}

// NewGemini 创建 Gemini 适配器
func NewGemini(cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.95
	}
	if cfg.TopK == 0 {
		cfg.TopK = 40
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("x-goog-api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Gemini{http: client, cfg: cfg}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ID 实现 Provider 接口
func (g *Gemini) ID() ID { return IDGemini }

// Generate 实现 Provider 接口
//
// 系统提示词与用户提示词合并为一段 user 内容。
func (g *Gemini) Generate(ctx context.Context, req *Request) (*Response, error) {
	maxTokens := g.cfg.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	body := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: fullPrompt(req)}},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     g.cfg.Temperature,
			MaxOutputTokens: maxTokens,
			TopP:            g.cfg.TopP,
			TopK:            g.cfg.TopK,
		},
	}

	var out geminiResponse
	var apiErr geminiError
	resp, err := g.http.R().
		SetContext(ctx).
		SetPathParam("model", g.cfg.Model).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/models/{model}:generateContent")
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return nil, fmt.Errorf("gemini: status %d: %s", resp.StatusCode(), msg)
	}

	if len(out.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: %w", ErrEmptyCompletion)
	}
	var sb strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return nil, fmt.Errorf("gemini: %w", ErrEmptyCompletion)
	}

	model := out.ModelVersion
	if model == "" {
		model = g.cfg.Model
	}

	return &Response{
		Text:         sb.String(),
		TokensUsed:   out.UsageMetadata.TotalTokenCount,
		FinishReason: out.Candidates[0].FinishReason,
		Model:        model,
	}, nil
}
