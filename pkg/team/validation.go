package team

import (
	"strings"
)

// requiredField 任务类型要求的非空字段
type requiredField struct {
	name string
	get  func(*Task) string
}

var (
	fieldCode     = requiredField{"code", func(t *Task) string { return t.Code }}
	fieldLanguage = requiredField{"language", func(t *Task) string { return t.Language }}
	fieldError    = requiredField{"error", func(t *Task) string { return t.ErrorText }}
)

// requiredFields 各任务类型的必填字段（description 对所有类型都必填）
var requiredFields = map[Kind][]requiredField{
	KindAnalysis:      {fieldCode, fieldLanguage},
	KindCodeReview:    {fieldCode, fieldLanguage},
	KindDebug:         {fieldCode, fieldLanguage, fieldError},
	KindDocumentation: {fieldCode, fieldLanguage},
	KindGeneral:       nil,
}

// Validate 校验任务是否满足其类型的必填字段
//
// 校验失败返回 ErrValidation 分类的错误，消息中列出全部缺失字段。
func Validate(task *Task) error {
	if task == nil {
		return newError(ErrorKindValidation, PhaseValidating, nil, "task is required")
	}
	if !task.Kind.Valid() {
		return newError(ErrorKindValidation, PhaseValidating, nil, "unknown task kind %q", task.Kind)
	}

	var missing []string
	if strings.TrimSpace(task.Description) == "" {
		missing = append(missing, "description")
	}
	for _, f := range requiredFields[task.Kind] {
		if strings.TrimSpace(f.get(task)) == "" {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		return newError(ErrorKindValidation, PhaseValidating, nil,
			"%s task missing required fields: %s", task.Kind, strings.Join(missing, ", "))
	}
	return nil
}
