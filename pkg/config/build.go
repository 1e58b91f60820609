package config

import (
	"context"
	"fmt"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/team"
)

// BuildProviders 为每个已知后端构造适配器
//
// 没有凭据的后端使用 provider.Stub，调用时返回 ErrNotImplemented。
func (c *Config) BuildProviders(ctx context.Context) (provider.Set, error) {
	set := provider.Set{}
	for _, id := range provider.KnownIDs() {
		set[id] = provider.Stub(id)
	}

	if c.Enabled(provider.IDClaude) {
		p, err := provider.NewAnthropic(ctx, c.Anthropic)
		if err != nil {
			return nil, fmt.Errorf("building claude provider: %w", err)
		}
		set[provider.IDClaude] = p
	}

	if c.Enabled(provider.IDGemini) {
		p, err := provider.NewGemini(c.Gemini)
		if err != nil {
			return nil, fmt.Errorf("building gemini provider: %w", err)
		}
		set[provider.IDGemini] = p
	}

	if c.Enabled(provider.IDOpenAI) {
		p, err := provider.NewOpenAI(c.OpenAI.APIKey, c.OpenAI.Model, c.OpenAI.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("building openai provider: %w", err)
		}
		set[provider.IDOpenAI] = p
	}

	if c.Enabled(provider.IDOllama) {
		p, err := provider.NewOllama(c.Ollama.Host, c.Ollama.Model)
		if err != nil {
			return nil, fmt.Errorf("building ollama provider: %w", err)
		}
		set[provider.IDOllama] = p
	}

	return set, nil
}

// Build 按配置构造编排器，额外的 opts 覆盖配置项
func (c *Config) Build(ctx context.Context, opts ...team.Option) (*team.Orchestrator, error) {
	members, err := c.Members()
	if err != nil {
		return nil, err
	}
	registry, err := team.NewRegistry(members...)
	if err != nil {
		return nil, fmt.Errorf("building registry: %w", err)
	}

	providers, err := c.BuildProviders(ctx)
	if err != nil {
		return nil, err
	}

	return team.New(registry, providers, append(c.Options(), opts...)...)
}
