// Package config 从环境变量读取编排器配置，并构造成员与后端适配器
//
// 后端是否启用由凭据决定：ANTHROPIC_API_KEY（或 AI_TEAM_CLAUDE_BEDROCK）、
// GEMINI_API_KEY、OPENAI_API_KEY、OLLAMA_HOST。
//
//	cfg, err := config.Load()
//	orch, err := cfg.Build(ctx, team.WithLogger(logger))
package config
