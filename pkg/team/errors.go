package team

import (
	"errors"
	"fmt"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
)

// ErrorKind 错误分类，宿主可据此映射为具体的响应码
type ErrorKind string

const (
	ErrorKindValidation             ErrorKind = "validation"
	ErrorKindNoEnabledMembers       ErrorKind = "no_enabled_members"
	ErrorKindProviderNotImplemented ErrorKind = "provider_not_implemented"
	ErrorKindAllMembersFailed       ErrorKind = "all_members_failed"
	ErrorKindNoResponses            ErrorKind = "no_responses"
	ErrorKindSynthesisUnavailable   ErrorKind = "synthesis_provider_unavailable"
	ErrorKindUnknown                ErrorKind = "unknown"
)

// Phase 单次编排的状态
type Phase string

const (
	PhaseValidating   Phase = "validating"
	PhaseSelecting    Phase = "selecting"
	PhaseExecuting    Phase = "executing"
	PhaseSynthesizing Phase = "synthesizing"
	PhaseDone         Phase = "done"
	PhaseFailed       Phase = "failed"
)

// Error 编排错误，携带分类和出错阶段
type Error struct {
	Kind  ErrorKind
	Phase Phase
	Msg   string
	Err   error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == "" && t.Err == nil
}

// 按分类匹配的哨兵错误，配合 errors.Is 使用
var (
	ErrValidation           = &Error{Kind: ErrorKindValidation}
	ErrNoEnabledMembers     = &Error{Kind: ErrorKindNoEnabledMembers}
	ErrAllMembersFailed     = &Error{Kind: ErrorKindAllMembersFailed}
	ErrNoResponses          = &Error{Kind: ErrorKindNoResponses}
	ErrSynthesisUnavailable = &Error{Kind: ErrorKindSynthesisUnavailable}
)

// ErrMemberTimeout 成员调用超过单次超时
var ErrMemberTimeout = errors.New("member invocation timed out")

func newError(kind ErrorKind, phase Phase, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:  kind,
		Phase: phase,
		Msg:   fmt.Sprintf(format, args...),
		Err:   cause,
	}
}

// KindOf 返回错误的分类
//
// 编排错误返回其自身分类；未包装的 provider.ErrNotImplemented
// 归为 provider_not_implemented；其余返回 unknown。
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, provider.ErrNotImplemented) {
		return ErrorKindProviderNotImplemented
	}
	return ErrorKindUnknown
}
