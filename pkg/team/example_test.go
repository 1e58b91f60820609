package team_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lwmacct/251215-go-pkg-llm/pkg/llm/provider/localmock"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/team"
)

// Example_singleMember 只有一个启用成员时，结果原样返回
func Example_singleMember() {
	registry, _ := team.NewRegistry(team.DefaultMembers(func(id provider.ID) bool {
		return id == provider.IDClaude
	})...)

	claude := provider.NewAgentProvider(provider.IDClaude,
		localmock.New(localmock.WithResponse("No issues found.")),
		provider.WithAgentName("Claude"),
	)

	orch, _ := team.New(registry, provider.NewSet(claude),
		team.WithLogger(slog.New(slog.DiscardHandler)),
	)

	result, err := orch.ReviewCode(context.Background(), "func add(a, b int) int { return a + b }", "go")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(result.Strategy)
	fmt.Println(len(result.IndividualResponses))
	fmt.Println(result.ConsensusText)
	// Output:
	// parallel
	// 1
	// No issues found.
}

// Example_errorKinds 宿主按错误分类映射响应
func Example_errorKinds() {
	registry, _ := team.NewRegistry(team.DefaultMembers(func(id provider.ID) bool {
		return id == provider.IDOpenAI
	})...)

	// openai 未接入，调用必然失败
	orch, _ := team.New(registry, provider.NewSet(provider.Stub(provider.IDOpenAI)),
		team.WithLogger(slog.New(slog.DiscardHandler)),
		team.WithMaxRetries(0),
	)

	_, err := orch.RunTask(context.Background(), team.Task{
		Description: "Explain goroutines",
		Kind:        team.KindGeneral,
	})

	fmt.Println(team.KindOf(err))
	fmt.Println(errors.Is(err, team.ErrAllMembersFailed))
	fmt.Println(errors.Is(err, provider.ErrNotImplemented))
	// Output:
	// all_members_failed
	// true
	// true
}

// Example_listMembers 查看成员与启用状态
func Example_listMembers() {
	registry, _ := team.NewRegistry(team.DefaultMembers(func(id provider.ID) bool {
		return id == provider.IDGemini || id == provider.IDOllama
	})...)
	orch, _ := team.New(registry, nil)

	for _, m := range orch.ListAllMembers() {
		fmt.Printf("%d %-7s %-6s enabled=%v\n", m.Priority, m.Name, m.ProviderID, m.Enabled)
	}
	fmt.Println(len(orch.ListEnabledMembers()))
	// Output:
	// 1 Claude  claude enabled=false
	// 2 Gemini  gemini enabled=true
	// 3 GPT-4   openai enabled=false
	// 4 Ollama  ollama enabled=true
	// 2
}
