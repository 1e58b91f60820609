package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeTask 返回满足该类型全部必填字段的任务
func completeTask(kind Kind) Task {
	return Task{
		Description: "do the thing",
		Kind:        kind,
		Code:        "print('hi')",
		Language:    "python",
		ErrorText:   "NameError: name 'x' is not defined",
	}
}

func TestValidate_Completeness(t *testing.T) {
	blank := map[string]func(*Task){
		"description": func(t *Task) { t.Description = "" },
		"code":        func(t *Task) { t.Code = "" },
		"language":    func(t *Task) { t.Language = "" },
		"error":       func(t *Task) { t.ErrorText = "" },
	}

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			task := completeTask(kind)
			require.NoError(t, Validate(&task))

			required := map[string]bool{"description": true}
			for _, f := range requiredFields[kind] {
				required[f.name] = true
			}

			for field, unset := range blank {
				task := completeTask(kind)
				unset(&task)
				err := Validate(&task)

				if required[field] {
					require.Error(t, err, "missing %s", field)
					assert.ErrorIs(t, err, ErrValidation)
					assert.Contains(t, err.Error(), field)
				} else {
					assert.NoError(t, err, "optional %s", field)
				}
			}
		})
	}
}

func TestValidate_RequiredTable(t *testing.T) {
	names := func(kind Kind) []string {
		var out []string
		for _, f := range requiredFields[kind] {
			out = append(out, f.name)
		}
		return out
	}

	assert.Equal(t, []string{"code", "language"}, names(KindCodeReview))
	assert.Equal(t, []string{"code", "language", "error"}, names(KindDebug))
	assert.Equal(t, []string{"code", "language"}, names(KindAnalysis))
	assert.Equal(t, []string{"code", "language"}, names(KindDocumentation))
	assert.Empty(t, names(KindGeneral))
}

func TestValidate_EdgeCases(t *testing.T) {
	t.Run("nil task", func(t *testing.T) {
		assert.ErrorIs(t, Validate(nil), ErrValidation)
	})

	t.Run("unknown kind", func(t *testing.T) {
		task := Task{Description: "x", Kind: "poetry"}
		err := Validate(&task)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "poetry")
	})

	t.Run("whitespace only counts as missing", func(t *testing.T) {
		task := Task{Description: "  \n\t", Kind: KindGeneral}
		assert.ErrorIs(t, Validate(&task), ErrValidation)
	})

	t.Run("lists every missing field", func(t *testing.T) {
		task := Task{Kind: KindDebug}
		err := Validate(&task)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "description, code, language, error")

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, PhaseValidating, e.Phase)
	})
}
