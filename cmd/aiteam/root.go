package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/config"
	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/team"
)

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "aiteam",
		Short: "Multi-provider AI task orchestration",
		Long: `aiteam dispatches one task to a team of AI backends (Claude, Gemini,
OpenAI, Ollama), runs them under an execution strategy and merges their
answers into one consensus result.

Backends are enabled by credentials found in the environment:
  ANTHROPIC_API_KEY, GEMINI_API_KEY, OPENAI_API_KEY, OLLAMA_HOST

Results are printed as JSON on stdout; status lines go to stderr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newReviewCmd(opts))
	cmd.AddCommand(newAnalyzeCmd(opts))
	cmd.AddCommand(newMembersCmd(opts))
	cmd.AddCommand(newStatsCmd(opts))

	return cmd
}

// newOrchestrator 从环境变量构造编排器
func newOrchestrator(ctx context.Context, cmd *cobra.Command, opts *rootOptions, extra ...team.Option) (*team.Orchestrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fail(cmd, err)
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	orch, err := cfg.Build(ctx, append([]team.Option{team.WithLogger(logger)}, extra...)...)
	if err != nil {
		return nil, fail(cmd, err)
	}
	return orch, nil
}

// printJSON 以缩进 JSON 输出到 stdout
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printStatus prints a colored status line to stderr.
func printStatus(cmd *cobra.Command, symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", c.Sprint(symbol), message)
}

// fail 打印错误状态行并原样返回错误
func fail(cmd *cobra.Command, err error) error {
	kind := team.KindOf(err)
	if kind == "" || kind == team.ErrorKindUnknown {
		printStatus(cmd, "✗", err.Error(), color.FgRed)
	} else {
		printStatus(cmd, "✗", fmt.Sprintf("%s: %v", kind, err), color.FgRed)
	}
	return err
}

// readCode 读取 --file 指定的代码，"-" 表示 stdin
func readCode(cmd *cobra.Command, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading code: %w", err)
	}
	return string(data), nil
}
