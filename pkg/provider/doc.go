// Package provider 提供文本生成后端的统一适配层
//
// # Overview
//
// 每个后端（Claude、Gemini、OpenAI、Ollama）都实现 [Provider] 接口：
// 给定已路由的 [Request]，返回 [Response] 或错误。编排层只依赖这个接口。
//
//   - [Anthropic]: Claude Messages API（API key 或 AWS Bedrock）
//   - [Gemini]: Gemini REST generateContent
//   - [OpenAICompat]: OpenAI 兼容的 chat/completions（OpenAI、Ollama）
//   - [AgentProvider]: 基于 llm.Provider 的适配器，每次调用构建独立 Agent
//   - [Stub]: 未接入的后端，总是返回 [ErrNotImplemented]
//
// # Usage
//
//	gemini, err := provider.NewGemini(provider.GeminiConfig{APIKey: key})
//	set := provider.NewSet(gemini, provider.Stub(provider.IDClaude))
//
//	p, err := set.Get(provider.IDGemini)
//	resp, err := p.Generate(ctx, &provider.Request{Prompt: "1+1=?"})
//
// # Errors
//
// [ErrNotImplemented] 与 [ErrUnknownProvider] 是永久性错误（[IsPermanent]），
// 重试没有意义；其余错误（网络、状态码、空响应）可以重试。
package provider
