// Package team 提供多后端 AI 任务编排的核心实现
//
// # Overview
//
// team 包把一个逻辑任务分发给多个独立的 AI 后端（成员），按执行策略
// 扇出调用，再把各自的结果合成为一个共识答案：
//   - [Registry]: 不可变的成员注册表
//   - [Route], [Validate]: 任务校验与提示词构造
//   - [Strategy]: parallel / sequential / best-match / consensus
//   - [Orchestrator]: 校验 → 选择 → 执行 → 合成 的唯一入口
//   - [Error]: 带分类的编排错误
//
// # Data Flow
//
//	Task → Route → executor → []Response → synthesizer → Result
//
// 单次调用的状态：
//
//	validating → selecting → executing → synthesizing → done | failed
//
// # Usage
//
//	registry, _ := team.NewRegistry(team.DefaultMembers(func(id provider.ID) bool {
//	    return id == provider.IDClaude || id == provider.IDGemini
//	})...)
//
//	orch, _ := team.New(registry, providers,
//	    team.WithStrategy(team.StrategyParallel),
//	    team.WithTimeout(30*time.Second),
//	    team.WithMaxRetries(2),
//	)
//
//	result, err := orch.ReviewCode(ctx, code, "go")
//	if errors.Is(err, team.ErrAllMembersFailed) {
//	    // ...
//	}
//
// # Failure Semantics
//
// 单个成员的失败（包括未实现的后端、超时）只会被记录并排除，不会中断其他成员。
// 只有以下情况会返回错误：校验失败、没有启用的成员、所有成员失败、合成失败。
// 每次成员调用都受 timeout 约束，重试只针对同一成员的同一次调用。
//
// # Tracing
//
// 编排过程产生 aiteam.run_task、aiteam.invoke_member 和 aiteam.synthesize 三类 span，
// 默认使用全局 TracerProvider。
package team
