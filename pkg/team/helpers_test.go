package team

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
)

// fakeProvider 测试用的可编程后端
type fakeProvider struct {
	id    provider.ID
	text  string
	err   error
	delay time.Duration
	// fn 非空时完全接管 Generate
	fn func(call int, req *provider.Request) (*provider.Response, error)

	calls atomic.Int32
	mu    sync.Mutex
	reqs  []provider.Request
}

func (f *fakeProvider) ID() provider.ID { return f.id }

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	n := f.calls.Add(1)
	f.mu.Lock()
	f.reqs = append(f.reqs, *req)
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(int(n), req)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Text: f.text, TokensUsed: 10}, nil
}

func (f *fakeProvider) Calls() int {
	return int(f.calls.Load())
}

func (f *fakeProvider) LastRequest() provider.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reqs) == 0 {
		return provider.Request{}
	}
	return f.reqs[len(f.reqs)-1]
}

func okProvider(id provider.ID, text string) *fakeProvider {
	return &fakeProvider{id: id, text: text}
}

func member(name string, id provider.ID, priority int, specs ...string) TeamMember {
	return TeamMember{
		Name:            name,
		ProviderID:      id,
		Specializations: specs,
		Enabled:         true,
		Priority:        priority,
	}
}

func codeReviewTask() Task {
	return Task{
		Description: "Review this module",
		Kind:        KindCodeReview,
		Code:        "export const add = (a: number, b: number) => a + b;",
		Language:    "typescript",
	}
}

// newTestOrchestrator 默认不重试、使用 "synth" 作为合成后端、丢弃日志
func newTestOrchestrator(t *testing.T, members []TeamMember, providers []provider.Provider, opts ...Option) *Orchestrator {
	t.Helper()

	reg, err := NewRegistry(members...)
	require.NoError(t, err)

	base := []Option{
		WithLogger(slog.New(slog.DiscardHandler)),
		WithMaxRetries(0),
		WithRetryInterval(time.Millisecond),
		WithSynthesizer("synth"),
	}
	o, err := New(reg, provider.NewSet(providers...), append(base, opts...)...)
	require.NoError(t, err)
	return o
}
