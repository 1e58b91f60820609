package team

import (
	"fmt"
	"strings"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
)

// ═══════════════════════════════════════════════════════════════════════════
// Task 相关类型
// ═══════════════════════════════════════════════════════════════════════════

// Kind 任务类型（封闭枚举）
type Kind string

const (
	KindAnalysis      Kind = "analysis"      // 代码分析
	KindCodeReview    Kind = "code-review"   // 代码评审
	KindDebug         Kind = "debug"         // 调试
	KindDocumentation Kind = "documentation" // 文档生成
	KindGeneral       Kind = "general"       // 通用问答
)

// Kinds returns every task kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindAnalysis, KindCodeReview, KindDebug, KindDocumentation, KindGeneral}
}

// Valid reports whether k belongs to the closed enum.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind 解析任务类型，供 API 边界使用
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", newError(ErrorKindValidation, PhaseValidating, nil, "unknown task kind %q", s)
	}
	return k, nil
}

// Task 调用方提交的工作单元
//
// Task 以值传递，编排过程中不会被修改。
type Task struct {
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
	Context     string `json:"context,omitempty"`
	Code        string `json:"code,omitempty"`
	Language    string `json:"language,omitempty"`
	ErrorText   string `json:"error,omitempty"`
}

// ═══════════════════════════════════════════════════════════════════════════
// Strategy 相关类型
// ═══════════════════════════════════════════════════════════════════════════

// Strategy 执行策略
type Strategy string

const (
	StrategyParallel   Strategy = "parallel"   // 全部成员并发执行（默认）
	StrategySequential Strategy = "sequential" // 按注册顺序逐个执行
	StrategyBestMatch  Strategy = "best-match" // 只执行评分最高的成员
	StrategyConsensus  Strategy = "consensus"  // 执行阶段同 parallel
)

// Strategies returns every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{StrategyParallel, StrategySequential, StrategyBestMatch, StrategyConsensus}
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	for _, known := range Strategies() {
		if s == known {
			return true
		}
	}
	return false
}

// Execution 返回实际执行的扇出策略
//
// consensus 只是合成阶段的概念，执行阶段与 parallel 相同。
func (s Strategy) Execution() Strategy {
	if s == StrategyConsensus {
		return StrategyParallel
	}
	return s
}

// ParseStrategy 解析执行策略，空字符串返回默认的 parallel
func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StrategyParallel, nil
	}
	st := Strategy(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown strategy %q (want one of %v)", s, Strategies())
	}
	return st, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Response / Result
// ═══════════════════════════════════════════════════════════════════════════

// Response 单个成员一次执行的结果
type Response struct {
	ProviderID   provider.ID `json:"provider"`
	Member       string      `json:"member"`
	Text         string      `json:"text,omitempty"`
	TokensUsed   int         `json:"tokens_used,omitempty"`
	DurationMs   int64       `json:"duration_ms"`
	Attempts     int         `json:"attempts"`
	Failed       bool        `json:"failed,omitempty"`
	ErrorMessage string      `json:"error,omitempty"`

	// 注册表中的位置，用于稳定排序
	rank int
	err  error
}

// Err returns the underlying error of a failed response, or nil.
func (r Response) Err() error {
	return r.err
}

// Result 编排的最终输出
type Result struct {
	RunID               string     `json:"run_id"`
	ConsensusText       string     `json:"consensus"`
	IndividualResponses []Response `json:"individual_responses"`
	TotalDurationMs     int64      `json:"total_duration_ms"`
	// Strategy 实际执行的扇出策略
	Strategy Strategy `json:"strategy"`
	// Mode 调用方请求的策略
	Mode Strategy `json:"mode"`
	// Synthesized 是否调用了合成后端
	Synthesized bool `json:"synthesized"`
}

// ═══════════════════════════════════════════════════════════════════════════
// Summary / Stats
// ═══════════════════════════════════════════════════════════════════════════

// MemberSummary 成员对外展示信息
type MemberSummary struct {
	Name            string      `json:"name"`
	ProviderID      provider.ID `json:"provider"`
	Specializations []string    `json:"specializations"`
	Enabled         bool        `json:"enabled"`
	Priority        int         `json:"priority"`
}

// Stats 运行状态快照
type Stats struct {
	TotalMembers   int             `json:"total_members"`
	EnabledCount   int             `json:"enabled_members"`
	Members        []MemberSummary `json:"members"`
	ActiveStrategy Strategy        `json:"mode"`
	TimeoutMs      int64           `json:"timeout_ms"`
	MaxRetries     int             `json:"max_retries"`
	Synthesizer    provider.ID     `json:"synthesizer"`

	// Invocations 按成员名索引的调用统计
	Invocations map[string]InvocationStats `json:"invocations"`
}
