package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/team"
)

// memberFile 成员文件格式
//
//	members:
//	  - name: Claude
//	    provider: claude
//	    priority: 1
//	    specializations: [code-analysis, debugging]
//	  - name: Local
//	    provider: ollama
//	    priority: 4
//	    disabled: true
type memberFile struct {
	Members []fileMember `yaml:"members"`
}

type fileMember struct {
	Name            string   `yaml:"name"`
	Provider        string   `yaml:"provider"`
	Specializations []string `yaml:"specializations"`
	Priority        int      `yaml:"priority"`
	// Disabled 即使有凭据也不启用
	Disabled bool `yaml:"disabled"`
}

// LoadMembers 读取成员文件，启用状态由 enabled 决定
func LoadMembers(path string, enabled func(provider.ID) bool) ([]team.TeamMember, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading members file: %w", err)
	}
	return ParseMembers(data, enabled)
}

// ParseMembers 解析成员文件内容，未知字段和未知后端都视为错误
func ParseMembers(data []byte, enabled func(provider.ID) bool) ([]team.TeamMember, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f memberFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing members file: %w", err)
	}
	if len(f.Members) == 0 {
		return nil, fmt.Errorf("members file defines no members")
	}

	members := make([]team.TeamMember, 0, len(f.Members))
	for _, fm := range f.Members {
		id := provider.ID(fm.Provider)
		if !id.Valid() {
			return nil, fmt.Errorf("member %s: unknown provider %q", fm.Name, fm.Provider)
		}
		members = append(members, team.TeamMember{
			Name:            fm.Name,
			ProviderID:      id,
			Specializations: fm.Specializations,
			Priority:        fm.Priority,
			Enabled:         !fm.Disabled && enabled != nil && enabled(id),
		})
	}
	return members, nil
}

// Members 返回成员列表：配置了成员文件时从文件读取，否则使用内置成员
func (c *Config) Members() ([]team.TeamMember, error) {
	if c.MembersFile == "" {
		return team.DefaultMembers(c.Enabled), nil
	}
	return LoadMembers(c.MembersFile, c.Enabled)
}
