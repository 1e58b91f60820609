package provider

import (
	"context"
	"errors"
	"fmt"
)

// ID 后端提供方标识
type ID string

const (
	IDClaude ID = "claude"
	IDGemini ID = "gemini"
	IDOpenAI ID = "openai"
	IDOllama ID = "ollama"
)

// KnownIDs 返回所有已知的 Provider 标识（声明顺序）
func KnownIDs() []ID {
	return []ID{IDClaude, IDGemini, IDOpenAI, IDOllama}
}

// Valid reports whether id is one of the known provider identities.
func (id ID) Valid() bool {
	for _, known := range KnownIDs() {
		if id == known {
			return true
		}
	}
	return false
}

var (
	// ErrNotImplemented 后端尚未接入（Stub）
	ErrNotImplemented = errors.New("provider not implemented")

	// ErrUnknownProvider 没有为该标识注册适配器
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrEmptyCompletion 后端返回了空文本
	ErrEmptyCompletion = errors.New("empty completion")
)

// IsPermanent reports whether err can never succeed on retry.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrNotImplemented) || errors.Is(err, ErrUnknownProvider)
}

// Request 已路由的请求载荷
type Request struct {
	// System 系统提示词，可为空
	System string `json:"system,omitempty"`
	// Prompt 用户提示词
	Prompt string `json:"prompt"`
	// MaxTokens 最大输出 token 数，0 表示使用适配器默认值
	MaxTokens int `json:"max_tokens,omitempty"`
}

// Response 后端响应
type Response struct {
	Text         string `json:"text"`
	TokensUsed   int    `json:"tokens_used,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
	Model        string `json:"model,omitempty"`
}

// Provider 单个文本生成后端的统一接口
//
// Generate 必须遵守 ctx 的取消；调用方仍会在截止时间到达后放弃等待。
type Provider interface {
	// ID 返回适配器绑定的后端标识
	ID() ID

	// Generate 执行一次生成调用
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Set 按标识索引的适配器集合
//
// 构造完成后只读，可被多个并发调用共享。
type Set map[ID]Provider

// NewSet builds a Set keyed by each provider's ID. Later entries win.
func NewSet(providers ...Provider) Set {
	s := make(Set, len(providers))
	for _, p := range providers {
		if p == nil {
			continue
		}
		s[p.ID()] = p
	}
	return s
}

// Get 返回 id 对应的适配器，不存在时返回 ErrUnknownProvider
func (s Set) Get(id ID) (Provider, error) {
	p, ok := s[id]
	if !ok || p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}
	return p, nil
}

// fullPrompt 将系统提示词与用户提示词拼接（用于只接受单段文本的后端）
func fullPrompt(req *Request) string {
	if req.System == "" {
		return req.Prompt
	}
	return req.System + "\n\nUser: " + req.Prompt
}
