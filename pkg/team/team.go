package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
)

// 默认配置
const (
	DefaultStrategy      = StrategyParallel
	DefaultTimeout       = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryInterval = 500 * time.Millisecond
	DefaultSynthesizer   = provider.IDGemini
)

// ReviewInstruction ReviewCode 使用的固定任务描述
const ReviewInstruction = "Review this code for security, performance, and best practices"

const tracerName = "github.com/lwmacct/251215-go-pkg-aiteam/pkg/team"

// Orchestrator 多后端任务编排器
//
// 由宿主在启动时构造一次并注入使用方。Orchestrator 没有后台 goroutine，
// RunTask 可以被并发调用；注册表只读，调用之间不共享除统计以外的状态。
type Orchestrator struct {
	registry  *Registry
	providers provider.Set

	strategy          Strategy
	timeout           time.Duration
	maxRetries        int
	retryInterval     time.Duration
	synthesizerID     provider.ID
	synthesisFallback bool
	logger            *slog.Logger
	tracer            trace.Tracer

	exec  *executor
	synth *synthesizer
	stats *statsBook
}

// Option Orchestrator 配置选项
type Option func(*Orchestrator)

// WithStrategy 设置默认执行策略
func WithStrategy(s Strategy) Option {
	return func(o *Orchestrator) {
		o.strategy = s
	}
}

// WithTimeout 设置单个成员单次调用的超时
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithMaxRetries 设置单个成员的最大重试次数，0 表示不重试
func WithMaxRetries(n int) Option {
	return func(o *Orchestrator) {
		o.maxRetries = max(n, 0)
	}
}

// WithRetryInterval 设置首次重试的退避间隔
func WithRetryInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.retryInterval = d
		}
	}
}

// WithSynthesizer 设置用于合成的后端
func WithSynthesizer(id provider.ID) Option {
	return func(o *Orchestrator) {
		o.synthesizerID = id
	}
}

// WithSynthesisFallback 合成失败时返回第一个结果而不是报错
func WithSynthesisFallback(enabled bool) Option {
	return func(o *Orchestrator) {
		o.synthesisFallback = enabled
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithTracer 设置 tracer，默认使用全局 TracerProvider
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tracer
	}
}

// New 创建编排器
func New(registry *Registry, providers provider.Set, opts ...Option) (*Orchestrator, error) {
	if registry == nil {
		return nil, errors.New("team: registry is required")
	}

	o := &Orchestrator{
		registry:      registry,
		providers:     providers,
		strategy:      DefaultStrategy,
		timeout:       DefaultTimeout,
		maxRetries:    DefaultMaxRetries,
		retryInterval: DefaultRetryInterval,
		synthesizerID: DefaultSynthesizer,
	}
	for _, opt := range opts {
		opt(o)
	}

	if !o.strategy.Valid() {
		return nil, fmt.Errorf("team: unknown strategy %q", o.strategy)
	}
	if o.providers == nil {
		o.providers = provider.Set{}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	o.stats = newStatsBook(registry.AllMembers())
	o.exec = &executor{
		providers:     o.providers,
		timeout:       o.timeout,
		maxRetries:    o.maxRetries,
		retryInterval: o.retryInterval,
		logger:        o.logger,
		tracer:        o.tracer,
		stats:         o.stats,
	}
	o.synth = &synthesizer{
		providerID: o.synthesizerID,
		fallback:   o.synthesisFallback,
		exec:       o.exec,
	}

	return o, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 编排入口
// ═══════════════════════════════════════════════════════════════════════════

// RunTask 使用默认策略执行任务
func (o *Orchestrator) RunTask(ctx context.Context, task Task) (*Result, error) {
	return o.RunTaskWithStrategy(ctx, task, o.strategy)
}

// RunTaskWithStrategy 使用指定策略执行任务
//
// 流程：校验 → 选择成员 → 执行 → 合成。以下情况返回错误：
//   - ErrValidation：任务缺少必填字段
//   - ErrNoEnabledMembers：没有启用的成员
//   - ErrAllMembersFailed：所有被调用的成员都失败（errors.Is 可穿透到各成员的原因）
//   - ErrSynthesisUnavailable：多于一个结果时合成后端失败
func (o *Orchestrator) RunTaskWithStrategy(ctx context.Context, task Task, strategy Strategy) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	log := o.logger.With("run_id", runID)

	ctx, span := o.tracer.Start(ctx, "aiteam.run_task", trace.WithAttributes(
		attribute.String("aiteam.run_id", runID),
		attribute.String("aiteam.kind", string(task.Kind)),
		attribute.String("aiteam.strategy", string(strategy)),
	))
	defer span.End()

	fail := func(err error) (*Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("run task failed",
			"phase", phaseOf(err),
			"kind", KindOf(err),
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	// validating
	if !strategy.Valid() {
		return fail(newError(ErrorKindValidation, PhaseValidating, nil, "unknown strategy %q", strategy))
	}
	req, err := Route(&task)
	if err != nil {
		return fail(err)
	}

	// selecting
	members := o.registry.EnabledMembers()
	span.SetAttributes(attribute.Int("aiteam.members", len(members)))
	if len(members) == 0 {
		return fail(newError(ErrorKindNoEnabledMembers, PhaseSelecting, nil, "no enabled team members"))
	}

	// executing
	executed := strategy.Execution()
	log.Debug("executing task",
		"kind", task.Kind,
		"mode", strategy,
		"strategy", executed,
		"members", len(members),
	)
	succeeded, failed := o.exec.execute(ctx, runID, executed, task.Kind, members, req)
	if len(succeeded) == 0 {
		causes := make([]error, 0, len(failed))
		for _, r := range failed {
			causes = append(causes, r.Err())
		}
		return fail(newError(ErrorKindAllMembersFailed, PhaseExecuting, errors.Join(causes...),
			"all %d invoked members failed", len(failed)))
	}

	// synthesizing
	text, synthesized, err := o.synth.synthesize(ctx, runID, &task, succeeded)
	if err != nil {
		return fail(err)
	}

	result := &Result{
		RunID:               runID,
		ConsensusText:       text,
		IndividualResponses: sortByRank(succeeded),
		TotalDurationMs:     time.Since(start).Milliseconds(),
		Strategy:            executed,
		Mode:                strategy,
		Synthesized:         synthesized,
	}

	log.Info("run task completed",
		"strategy", executed,
		"responses", len(succeeded),
		"failures", len(failed),
		"synthesized", synthesized,
		"duration_ms", result.TotalDurationMs,
	)
	return result, nil
}

// ReviewCode 使用默认策略评审代码
func (o *Orchestrator) ReviewCode(ctx context.Context, code, language string) (*Result, error) {
	return o.RunTask(ctx, Task{
		Description: ReviewInstruction,
		Kind:        KindCodeReview,
		Code:        code,
		Language:    language,
	})
}

// AnalyzeCode 按 description 描述的目标分析代码
func (o *Orchestrator) AnalyzeCode(ctx context.Context, code, language, description string) (*Result, error) {
	return o.RunTask(ctx, Task{
		Description: description,
		Kind:        KindAnalysis,
		Code:        code,
		Language:    language,
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// 查询接口
// ═══════════════════════════════════════════════════════════════════════════

// ListAllMembers 返回全部成员
func (o *Orchestrator) ListAllMembers() []MemberSummary {
	return summarize(o.registry.AllMembers())
}

// ListEnabledMembers 返回启用的成员
func (o *Orchestrator) ListEnabledMembers() []MemberSummary {
	return summarize(o.registry.EnabledMembers())
}

// Strategy 返回默认执行策略
func (o *Orchestrator) Strategy() Strategy {
	return o.strategy
}

// GetStats 返回运行状态快照
func (o *Orchestrator) GetStats() Stats {
	all := o.registry.AllMembers()
	enabled := 0
	for _, m := range all {
		if m.Enabled {
			enabled++
		}
	}

	return Stats{
		TotalMembers:   len(all),
		EnabledCount:   enabled,
		Members:        summarize(all),
		ActiveStrategy: o.strategy,
		TimeoutMs:      o.timeout.Milliseconds(),
		MaxRetries:     o.maxRetries,
		Synthesizer:    o.synthesizerID,
		Invocations:    o.stats.snapshot(),
	}
}

func summarize(members []TeamMember) []MemberSummary {
	out := make([]MemberSummary, 0, len(members))
	for _, m := range members {
		out = append(out, m.Summary())
	}
	return out
}

func phaseOf(err error) Phase {
	var e *Error
	if errors.As(err, &e) && e.Phase != "" {
		return e.Phase
	}
	return PhaseFailed
}
