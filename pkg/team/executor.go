package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
)

// executor 策略执行器
//
// 所有策略都建立在 invoke 之上：invoke 永远不返回错误，失败以 Response.Failed 表示。
type executor struct {
	providers     provider.Set
	timeout       time.Duration
	maxRetries    int
	retryInterval time.Duration
	logger        *slog.Logger
	tracer        trace.Tracer
	stats         *statsBook
}

// ═══════════════════════════════════════════════════════════════════════════
// 执行策略
// ═══════════════════════════════════════════════════════════════════════════

// execute 按策略执行，返回成功与失败两组结果
//
// strategy 必须是扇出策略（已经过 Strategy.Execution 转换）。
func (e *executor) execute(ctx context.Context, runID string, strategy Strategy, kind Kind, members []TeamMember, req *provider.Request) (succeeded, failed []Response) {
	var all []Response
	switch strategy {
	case StrategySequential:
		all = e.sequential(ctx, runID, members, req)
	case StrategyBestMatch:
		all = e.bestMatch(ctx, runID, kind, members, req)
	default:
		all = e.parallel(ctx, runID, members, req)
	}

	for _, r := range all {
		if r.Failed {
			failed = append(failed, r)
		} else {
			succeeded = append(succeeded, r)
		}
	}
	return succeeded, failed
}

// parallel 并发调用全部成员，等待全部结束，按完成顺序收集
func (e *executor) parallel(ctx context.Context, runID string, members []TeamMember, req *provider.Request) []Response {
	results := make(chan Response, len(members))

	var wg sync.WaitGroup
	for _, m := range members {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- e.invoke(ctx, runID, m, req)
		}()
	}
	wg.Wait()
	close(results)

	out := make([]Response, 0, len(members))
	for r := range results {
		out = append(out, r)
	}
	return out
}

// sequential 按注册顺序逐个调用，失败不影响后续成员
func (e *executor) sequential(ctx context.Context, runID string, members []TeamMember, req *provider.Request) []Response {
	out := make([]Response, 0, len(members))
	for _, m := range members {
		out = append(out, e.invoke(ctx, runID, m, req))
	}
	return out
}

// bestMatch 只调用评分最高的成员
func (e *executor) bestMatch(ctx context.Context, runID string, kind Kind, members []TeamMember, req *provider.Request) []Response {
	m, ok := SelectBestMatch(members, kind)
	if !ok {
		return nil
	}
	e.logger.Debug("best match selected",
		"run_id", runID,
		"member", m.Name,
		"score", MatchScore(m, kind),
	)
	return []Response{e.invoke(ctx, runID, m, req)}
}

// MatchScore 成员对任务类型的匹配分
//
// 任一专长包含 kind（子串匹配）得 10 分，另加 5 - priority 作为优先级加成。
func MatchScore(m TeamMember, kind Kind) int {
	score := 5 - m.Priority
	if m.Specializes(kind) {
		score += 10
	}
	return score
}

// SelectBestMatch 返回得分最高的成员，同分取靠前者
func SelectBestMatch(members []TeamMember, kind Kind) (TeamMember, bool) {
	if len(members) == 0 {
		return TeamMember{}, false
	}
	best, bestScore := members[0], MatchScore(members[0], kind)
	for _, m := range members[1:] {
		if s := MatchScore(m, kind); s > bestScore {
			best, bestScore = m, s
		}
	}
	return best, true
}

// ═══════════════════════════════════════════════════════════════════════════
// invoke 原语
// ═══════════════════════════════════════════════════════════════════════════

// invoke 调用单个成员，失败时返回 Failed 的 Response
func (e *executor) invoke(ctx context.Context, runID string, m TeamMember, req *provider.Request) Response {
	ctx, span := e.tracer.Start(ctx, "aiteam.invoke_member", trace.WithAttributes(
		attribute.String("aiteam.run_id", runID),
		attribute.String("aiteam.member", m.Name),
		attribute.String("aiteam.provider", string(m.ProviderID)),
	))
	defer span.End()

	log := e.logger.With("run_id", runID, "member", m.Name, "provider", m.ProviderID)
	start := time.Now()
	resp := Response{ProviderID: m.ProviderID, Member: m.Name, rank: m.rank}

	var out *provider.Response
	p, err := e.providers.Get(m.ProviderID)
	if err == nil {
		out, resp.Attempts, err = e.attempt(ctx, p, req, func(attempt int, err error, next time.Duration) {
			log.Warn("member attempt failed, retrying",
				"attempt", attempt,
				"error", err,
				"retry_in", next,
			)
		})
	}

	elapsed := time.Since(start)
	resp.DurationMs = elapsed.Milliseconds()
	span.SetAttributes(attribute.Int("aiteam.attempts", resp.Attempts))
	collector := e.stats.collector(m.Name)

	if err != nil {
		timedOut := errors.Is(err, ErrMemberTimeout)
		resp.Failed = true
		resp.ErrorMessage = err.Error()
		resp.err = err

		log.Warn("member invocation failed",
			"attempt", resp.Attempts,
			"error", err,
			"not_implemented", errors.Is(err, provider.ErrNotImplemented),
			"timed_out", timedOut,
			"duration_ms", resp.DurationMs,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if collector != nil {
			collector.recordFailure(err, timedOut)
		}
		return resp
	}

	resp.Text = out.Text
	resp.TokensUsed = out.TokensUsed
	log.Debug("member invocation succeeded",
		"attempt", resp.Attempts,
		"duration_ms", resp.DurationMs,
		"tokens", resp.TokensUsed,
	)
	if collector != nil {
		collector.recordSuccess(elapsed)
	}
	return resp
}

// attempt 调用后端，每次尝试独立超时，失败后按指数退避重试 maxRetries 次
//
// 永久性错误（未实现、未知后端）和调用方取消不重试。
func (e *executor) attempt(ctx context.Context, p provider.Provider, req *provider.Request, notify func(attempt int, err error, next time.Duration)) (*provider.Response, int, error) {
	var (
		out      *provider.Response
		attempts int
	)

	op := func() error {
		attempts++
		resp, err := e.call(ctx, p, req)
		if err != nil {
			if provider.IsPermanent(err) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		out = resp
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.retryInterval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(e.maxRetries)), ctx)

	err := backoff.RetryNotify(op, policy, func(err error, next time.Duration) {
		if notify != nil {
			notify(attempts, err, next)
		}
	})
	return out, attempts, err
}

// call 单次调用，超过 timeout 立即返回
//
// 适配器在独立 goroutine 中运行，即使它忽略 ctx，调用方也不会被阻塞超过 timeout。
func (e *executor) call(ctx context.Context, p provider.Provider, req *provider.Request) (*provider.Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type reply struct {
		resp *provider.Response
		err  error
	}
	done := make(chan reply, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{err: fmt.Errorf("%s: adapter panic: %v", p.ID(), r)}
			}
		}()
		resp, err := p.Generate(callCtx, req)
		done <- reply{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
				return nil, e.timeoutError(r.err)
			}
			return nil, r.err
		}
		if r.resp == nil {
			return nil, fmt.Errorf("%s: %w", p.ID(), provider.ErrEmptyCompletion)
		}
		return r.resp, nil

	case <-callCtx.Done():
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, e.timeoutError(context.DeadlineExceeded)
	}
}

func (e *executor) timeoutError(cause error) error {
	return fmt.Errorf("%w after %s: %w", ErrMemberTimeout, e.timeout, cause)
}
