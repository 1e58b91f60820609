package team

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
)

// synthesizer 共识合成器
type synthesizer struct {
	providerID provider.ID
	fallback   bool
	exec       *executor
}

// synthesize 将多个成员的结果合成为一个答案
//
//   - 0 个结果：ErrNoResponses
//   - 1 个结果：原样返回，不调用合成后端
//   - 多个结果：按注册顺序构造合成提示词，交给 providerID 对应的后端
//
// 返回值 synthesized 表示是否真正调用了合成后端。
func (s *synthesizer) synthesize(ctx context.Context, runID string, task *Task, responses []Response) (text string, synthesized bool, err error) {
	switch len(responses) {
	case 0:
		return "", false, newError(ErrorKindNoResponses, PhaseSynthesizing, nil, "no responses to synthesize")
	case 1:
		return responses[0].Text, false, nil
	}

	ordered := sortByRank(responses)

	ctx, span := s.exec.tracer.Start(ctx, "aiteam.synthesize", trace.WithAttributes(
		attribute.String("aiteam.run_id", runID),
		attribute.String("aiteam.provider", string(s.providerID)),
		attribute.Int("aiteam.responses", len(ordered)),
	))
	defer span.End()

	log := s.exec.logger.With("run_id", runID, "synthesizer", s.providerID)
	req := &provider.Request{Prompt: SynthesisPrompt(task, ordered)}

	var out *provider.Response
	p, err := s.exec.providers.Get(s.providerID)
	if err == nil {
		out, _, err = s.exec.attempt(ctx, p, req, func(attempt int, err error, next time.Duration) {
			log.Warn("synthesis attempt failed, retrying", "attempt", attempt, "error", err, "retry_in", next)
		})
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if s.fallback {
			log.Warn("synthesis failed, falling back to first response",
				"error", err,
				"member", ordered[0].Member,
			)
			return ordered[0].Text, false, nil
		}
		return "", false, newError(ErrorKindSynthesisUnavailable, PhaseSynthesizing, err,
			"synthesis via %s failed", s.providerID)
	}

	log.Debug("synthesis completed", "tokens", out.TokensUsed)
	return out.Text, true, nil
}

// sortByRank 返回按注册顺序排序的副本
func sortByRank(responses []Response) []Response {
	out := slices.Clone(responses)
	slices.SortStableFunc(out, func(a, b Response) int {
		return a.rank - b.rank
	})
	return out
}

// SynthesisPrompt 构造合成提示词
//
// responses 的顺序决定提示词中的编号，相同输入总是得到相同输出。
func SynthesisPrompt(task *Task, responses []Response) string {
	var b strings.Builder

	b.WriteString("You are synthesizing responses from multiple AI assistants to create a consensus answer.\n\n")
	fmt.Fprintf(&b, "Task: %s\n\n", task.Description)
	b.WriteString("Individual Responses:\n\n")

	for i, r := range responses {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "Provider %d (%s / %s):\n%s\n", i+1, r.ProviderID, r.Member, r.Text)
	}

	b.WriteString(`
Create a comprehensive consensus response that:
1. Combines the best insights from all responses
2. Resolves any contradictions explicitly
3. Provides a clear, actionable answer
4. Notes any significant disagreements that remain unresolved

Format the consensus professionally and concisely.`)

	return b.String()
}
