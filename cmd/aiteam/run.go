package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/team"
)

type runOptions struct {
	kind        string
	description string
	code        string
	codeFile    string
	language    string
	errorText   string
	context     string
	mode        string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a task against the enabled team members",
		Example: `  aiteam run --kind general --description "Explain Go channels"
  aiteam run --kind debug --code-file main.go --language go --error "panic: nil map" --description "fix it"
  aiteam run --kind analysis --code-file query.sql --language sql --description "find slow joins" --mode best-match`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := team.ParseKind(opts.kind)
			if err != nil {
				return fail(cmd, err)
			}

			code := opts.code
			if opts.codeFile != "" {
				if code, err = readCode(cmd, opts.codeFile); err != nil {
					return fail(cmd, err)
				}
			}

			task := team.Task{
				Description: opts.description,
				Kind:        kind,
				Context:     opts.context,
				Code:        code,
				Language:    opts.language,
				ErrorText:   opts.errorText,
			}

			orch, err := newOrchestrator(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}

			strategy := orch.Strategy()
			if opts.mode != "" {
				if strategy, err = team.ParseStrategy(opts.mode); err != nil {
					return fail(cmd, err)
				}
			}

			result, err := orch.RunTaskWithStrategy(cmd.Context(), task, strategy)
			if err != nil {
				return fail(cmd, err)
			}
			return printResult(cmd, result)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.kind, "kind", "k", string(team.KindGeneral), "Task kind: analysis, code-review, debug, documentation, general")
	f.StringVarP(&opts.description, "description", "d", "", "Task description (required)")
	f.StringVar(&opts.code, "code", "", "Inline code")
	f.StringVarP(&opts.codeFile, "code-file", "f", "", "Read code from file (- for stdin)")
	f.StringVarP(&opts.language, "language", "l", "", "Code language")
	f.StringVar(&opts.errorText, "error", "", "Error message (debug tasks)")
	f.StringVar(&opts.context, "context", "", "Additional context")
	f.StringVarP(&opts.mode, "mode", "m", "", "Strategy override: parallel, sequential, best-match, consensus")
	cmd.MarkFlagsMutuallyExclusive("code", "code-file")

	return cmd
}

func newReviewCmd(root *rootOptions) *cobra.Command {
	var file, language string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review code for security, performance and best practices",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(cmd, file)
			if err != nil {
				return fail(cmd, err)
			}
			orch, err := newOrchestrator(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}
			result, err := orch.ReviewCode(cmd.Context(), code, language)
			if err != nil {
				return fail(cmd, err)
			}
			return printResult(cmd, result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Code file to review (- for stdin)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Code language")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	var file, language, description string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze code toward a stated goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(cmd, file)
			if err != nil {
				return fail(cmd, err)
			}
			orch, err := newOrchestrator(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}
			result, err := orch.AnalyzeCode(cmd.Context(), code, language, description)
			if err != nil {
				return fail(cmd, err)
			}
			return printResult(cmd, result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Code file to analyze (- for stdin)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Code language")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Analysis goal")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("language")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func printResult(cmd *cobra.Command, result *team.Result) error {
	printStatus(cmd, "✓", fmt.Sprintf("%d response(s) via %s in %dms (run %s)",
		len(result.IndividualResponses), result.Strategy, result.TotalDurationMs, result.RunID), color.FgGreen)
	return printJSON(cmd.OutOrStdout(), result)
}
