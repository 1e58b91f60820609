package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251215-go-pkg-aiteam/pkg/provider"
)

func allEnabled(provider.ID) bool { return true }

func TestParseMembers(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		members, err := ParseMembers([]byte(`
members:
  - name: Claude
    provider: claude
    priority: 1
    specializations: [code-analysis, debugging]
  - name: Offline
    provider: ollama
    priority: 4
    disabled: true
`), allEnabled)
		require.NoError(t, err)
		require.Len(t, members, 2)

		assert.Equal(t, "Claude", members[0].Name)
		assert.Equal(t, provider.IDClaude, members[0].ProviderID)
		assert.Equal(t, []string{"code-analysis", "debugging"}, members[0].Specializations)
		assert.True(t, members[0].Enabled)
		assert.False(t, members[1].Enabled)
	})

	t.Run("enablement follows credentials", func(t *testing.T) {
		members, err := ParseMembers([]byte("members:\n  - name: G\n    provider: gemini\n    priority: 2\n"), nil)
		require.NoError(t, err)
		assert.False(t, members[0].Enabled)
	})

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown provider", "members:\n  - name: X\n    provider: mistral\n    priority: 1\n", "unknown provider"},
		{"unknown field", "members:\n  - name: X\n    provider: claude\n    weight: 3\n", "weight"},
		{"empty", "members: []\n", "no members"},
		{"malformed", "members: [", "parsing members file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMembers([]byte(tt.yaml), allEnabled)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMembers_MissingFile(t *testing.T) {
	_, err := LoadMembers(filepath.Join(t.TempDir(), "nope.yaml"), allEnabled)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading members file")
}

func TestConfig_Members(t *testing.T) {
	cfg := &Config{Gemini: provider.GeminiConfig{APIKey: "k"}}
	members, err := cfg.Members()
	require.NoError(t, err)
	require.Len(t, members, 4)
	assert.False(t, members[0].Enabled)
	assert.True(t, members[1].Enabled)
}
