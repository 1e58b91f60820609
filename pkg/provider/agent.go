package provider

import (
	"context"
	"fmt"
	"strings"

	baseagent "github.com/lwmacct/251215-go-pkg-agent/pkg/agent"
	"github.com/lwmacct/251215-go-pkg-llm/pkg/llm"
)

// AgentProvider 基于 llm.Provider 的适配器
//
// 每次 Generate 都通过工厂构建一个新的 Agent，调用结束即关闭，
// 因此不会在任务之间累积对话历史。
type AgentProvider struct {
	id    ID
	llm   llm.Provider
	name  string
	model string
}

// AgentOption AgentProvider 配置选项
type AgentOption func(*AgentProvider)

// WithAgentName 设置 Agent 名称
func WithAgentName(name string) AgentOption {
	return func(p *AgentProvider) {
		p.name = name
	}
}

// WithAgentModel 设置模型名称
func WithAgentModel(model string) AgentOption {
	return func(p *AgentProvider) {
		p.model = model
	}
}

// NewAgentProvider 创建 AgentProvider
func NewAgentProvider(id ID, lp llm.Provider, opts ...AgentOption) *AgentProvider {
	p := &AgentProvider{
		id:   id,
		llm:  lp,
		name: string(id),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID 实现 Provider 接口
func (p *AgentProvider) ID() ID { return p.id }

// Generate 实现 Provider 接口
func (p *AgentProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	if p.llm == nil {
		return nil, fmt.Errorf("%s: llm provider is nil", p.id)
	}

	ag, err := p.build(req.System)
	if err != nil {
		return nil, fmt.Errorf("%s: build agent: %w", p.id, err)
	}
	defer func() { _ = ag.Close() }()

	result, err := ag.Chat(ctx, req.Prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: chat: %w", p.id, err)
	}
	if result == nil || strings.TrimSpace(result.Text) == "" {
		return nil, fmt.Errorf("%s: %w", p.id, ErrEmptyCompletion)
	}

	return &Response{
		Text:  result.Text,
		Model: p.model,
	}, nil
}

// build 创建单次调用使用的 Agent
func (p *AgentProvider) build(system string) (*baseagent.Agent, error) {
	b := baseagent.New().
		Provider(p.llm).
		Name(p.name)
	if p.model != "" {
		b = b.Model(p.model)
	}
	if system != "" {
		b = b.System(system)
	}
	return b.Build()
}
