package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	t.Run("code-review", func(t *testing.T) {
		req, err := Route(&Task{Description: "review", Kind: KindCodeReview, Code: "let x = 1;", Language: "rust"})
		require.NoError(t, err)
		assert.Contains(t, req.System, "senior code reviewer with expertise in rust")
		assert.Contains(t, req.System, "critical, major, minor")
		assert.Equal(t, "```rust\nlet x = 1;\n```", req.Prompt)
	})

	t.Run("debug", func(t *testing.T) {
		req, err := Route(&Task{Description: "fix", Kind: KindDebug, Code: "a[10]", Language: "go", ErrorText: "index out of range"})
		require.NoError(t, err)
		assert.Contains(t, req.System, "debugging expert for go")
		assert.Contains(t, req.Prompt, "Code:\n```go\na[10]\n```")
		assert.Contains(t, req.Prompt, "Error:\n```\nindex out of range\n```")
		assert.Contains(t, req.Prompt, "Please help debug this issue.")
	})

	t.Run("analysis", func(t *testing.T) {
		req, err := Route(&Task{Description: "find leaks", Kind: KindAnalysis, Code: "malloc(1)", Language: "c"})
		require.NoError(t, err)
		assert.Contains(t, req.System, "expert code analyzer specializing in c")
		assert.Contains(t, req.System, "Your task is to: find leaks")
		assert.Equal(t, "```c\nmalloc(1)\n```", req.Prompt)
	})

	t.Run("documentation", func(t *testing.T) {
		req, err := Route(&Task{Description: "document", Kind: KindDocumentation, Code: "def f(): pass", Language: "python"})
		require.NoError(t, err)
		assert.Contains(t, req.System, "technical documentation expert")
		assert.Contains(t, req.System, "python code")
		assert.Contains(t, req.System, "Edge cases and notes")
	})

	t.Run("general uses context as system prompt", func(t *testing.T) {
		req, err := Route(&Task{Description: "what is a monad?", Kind: KindGeneral, Context: "answer briefly"})
		require.NoError(t, err)
		assert.Equal(t, "answer briefly", req.System)
		assert.Equal(t, "what is a monad?", req.Prompt)
	})

	t.Run("context appended for code tasks", func(t *testing.T) {
		req, err := Route(&Task{Description: "review", Kind: KindCodeReview, Code: "x", Language: "go", Context: "hot path"})
		require.NoError(t, err)
		assert.Contains(t, req.Prompt, "Additional context:\nhot path")
	})

	t.Run("validation error", func(t *testing.T) {
		req, err := Route(&Task{Description: "review", Kind: KindCodeReview})
		assert.Nil(t, req)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestRoute_DoesNotMutateTask(t *testing.T) {
	task := Task{Description: "review", Kind: KindCodeReview, Code: "x\n\n", Language: "go", Context: "c"}
	before := task

	first, err := Route(&task)
	require.NoError(t, err)
	second, err := Route(&task)
	require.NoError(t, err)

	assert.Equal(t, before, task)
	assert.Equal(t, first, second)
}
