package team

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
)

// ═══════════════════════════════════════════════════════════════════════════
// TeamMember
// ═══════════════════════════════════════════════════════════════════════════

// TeamMember 团队成员，绑定一个 AI 后端
type TeamMember struct {
	Name            string      `json:"name"`
	ProviderID      provider.ID `json:"provider"`
	Specializations []string    `json:"specializations"`
	Enabled         bool        `json:"enabled"`
	// Priority 越小越优先，取值 >= 1
	Priority int `json:"priority"`

	rank int
}

// Summary 返回成员的展示信息
func (m TeamMember) Summary() MemberSummary {
	return MemberSummary{
		Name:            m.Name,
		ProviderID:      m.ProviderID,
		Specializations: slices.Clone(m.Specializations),
		Enabled:         m.Enabled,
		Priority:        m.Priority,
	}
}

// Specializes 判断是否有专长覆盖该任务类型（子串匹配）
func (m TeamMember) Specializes(kind Kind) bool {
	for _, s := range m.Specializations {
		if strings.Contains(s, string(kind)) {
			return true
		}
	}
	return false
}

func (m TeamMember) clone() TeamMember {
	m.Specializations = slices.Clone(m.Specializations)
	return m
}

// ═══════════════════════════════════════════════════════════════════════════
// Registry 成员注册表
// ═══════════════════════════════════════════════════════════════════════════

// Registry 不可变的成员注册表
//
// 成员顺序即注册顺序，所有读取方法都返回副本。
type Registry struct {
	members []TeamMember
}

// NewRegistry 创建注册表
//
// 成员名必须非空且唯一，ProviderID 不能为空，Priority 必须 >= 1。
func NewRegistry(members ...TeamMember) (*Registry, error) {
	seen := make(map[string]bool, len(members))
	r := &Registry{members: make([]TeamMember, 0, len(members))}

	for i, m := range members {
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("member #%d: name is required", i)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("member %s: duplicate name", m.Name)
		}
		if m.ProviderID == "" {
			return nil, fmt.Errorf("member %s: provider is required", m.Name)
		}
		if m.Priority < 1 {
			return nil, fmt.Errorf("member %s: priority must be >= 1, got %d", m.Name, m.Priority)
		}
		seen[m.Name] = true

		m = m.clone()
		m.rank = i
		r.members = append(r.members, m)
	}

	return r, nil
}

// AllMembers 返回全部成员（注册顺序）
func (r *Registry) AllMembers() []TeamMember {
	out := make([]TeamMember, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m.clone())
	}
	return out
}

// EnabledMembers 返回启用的成员（注册顺序）
func (r *Registry) EnabledMembers() []TeamMember {
	out := make([]TeamMember, 0, len(r.members))
	for _, m := range r.members {
		if m.Enabled {
			out = append(out, m.clone())
		}
	}
	return out
}

// Len 成员总数
func (r *Registry) Len() int {
	return len(r.members)
}

// Member 按名称查找成员
func (r *Registry) Member(name string) (TeamMember, bool) {
	for _, m := range r.members {
		if m.Name == name {
			return m.clone(), true
		}
	}
	return TeamMember{}, false
}

// ═══════════════════════════════════════════════════════════════════════════
// 默认成员
// ═══════════════════════════════════════════════════════════════════════════

// DefaultMembers 返回内置的四个成员，启用状态由 enabled 决定
//
// enabled 为 nil 时全部禁用。
func DefaultMembers(enabled func(provider.ID) bool) []TeamMember {
	members := []TeamMember{
		{
			Name:            "Claude",
			ProviderID:      provider.IDClaude,
			Specializations: []string{"code-analysis", "system-design", "debugging", "documentation"},
			Priority:        1,
		},
		{
			Name:            "Gemini",
			ProviderID:      provider.IDGemini,
			Specializations: []string{"research", "creativity", "data-analysis", "optimization"},
			Priority:        2,
		},
		{
			Name:            "GPT-4",
			ProviderID:      provider.IDOpenAI,
			Specializations: []string{"general-knowledge", "problem-solving", "code-generation", "planning"},
			Priority:        3,
		},
		{
			Name:            "Ollama",
			ProviderID:      provider.IDOllama,
			Specializations: []string{"local-processing", "privacy", "offline"},
			Priority:        4,
		},
	}

	if enabled != nil {
		for i := range members {
			members[i].Enabled = enabled(members[i].ProviderID)
		}
	}
	return members
}
