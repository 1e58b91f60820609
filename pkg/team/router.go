package team

import (
	"fmt"
	"strings"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
)

// Route 将任务转换为发往后端的请求
//
// 先执行 Validate，再按任务类型构造 system/prompt。相同的任务总是得到相同的请求。
func Route(task *Task) (*provider.Request, error) {
	if err := Validate(task); err != nil {
		return nil, err
	}

	var system, prompt string
	switch task.Kind {
	case KindCodeReview:
		system = codeReviewSystem(task.Language)
		prompt = fence(task.Language, task.Code)
	case KindDebug:
		system = debugSystem(task.Language)
		prompt = fmt.Sprintf("Code:\n%s\n\nError:\n%s\n\nPlease help debug this issue.",
			fence(task.Language, task.Code), fence("", task.ErrorText))
	case KindAnalysis:
		system = analysisSystem(task.Language, task.Description)
		prompt = fence(task.Language, task.Code)
	case KindDocumentation:
		system = documentationSystem(task.Language)
		prompt = fence(task.Language, task.Code)
	case KindGeneral:
		system = task.Context
		prompt = task.Description
	}

	if task.Kind != KindGeneral && task.Context != "" {
		prompt = prompt + "\n\nAdditional context:\n" + task.Context
	}

	return &provider.Request{System: system, Prompt: prompt}, nil
}

func fence(lang, body string) string {
	return "```" + lang + "\n" + strings.TrimRight(body, "\n") + "\n```"
}

// ═══════════════════════════════════════════════════════════════════════════
// 各类型的 system 提示词
// ═══════════════════════════════════════════════════════════════════════════

func codeReviewSystem(lang string) string {
	return fmt.Sprintf(`You are a senior code reviewer with expertise in %s.
Focus on: security, performance, best-practices.

Provide structured feedback:
1. Strengths
2. Issues (with severity: critical, major, minor)
3. Suggestions for improvement
4. Code examples for fixes`, lang)
}

func debugSystem(lang string) string {
	return fmt.Sprintf(`You are a debugging expert for %s.
Analyze the error and code, then provide:
1. Root cause analysis
2. Step-by-step solution
3. Prevention strategies
4. Code example of the fix`, lang)
}

func analysisSystem(lang, description string) string {
	return fmt.Sprintf(`You are an expert code analyzer specializing in %s.
Your task is to: %s

Provide detailed, technical analysis with specific recommendations.
Format your response in clear sections with code examples where applicable.`, lang, description)
}

func documentationSystem(lang string) string {
	return fmt.Sprintf(`You are a technical documentation expert.
Generate comprehensive documentation for the following %s code, in the idiomatic doc-comment style of that language.

Include:
- Function/class descriptions
- Parameter descriptions with types
- Return value descriptions
- Usage examples
- Edge cases and notes`, lang)
}
