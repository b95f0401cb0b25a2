package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineTypeFileBased(t *testing.T) {
	assert.True(t, EngineSQLite.FileBased())
	assert.False(t, EnginePostgres.FileBased())
	assert.False(t, EngineMySQL.FileBased())
}

func TestIsDemo(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
		want bool
	}{
		{"nil metadata", nil, false},
		{"no marker", map[string]any{"notes": "prod"}, false},
		{"marker true", map[string]any{MetaKeyDemo: true}, true},
		{"marker false", map[string]any{MetaKeyDemo: false}, false},
		{"marker wrong type", map[string]any{MetaKeyDemo: "yes"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ConnectionConfig{Metadata: tt.meta}
			assert.Equal(t, tt.want, cfg.IsDemo())
		})
	}
}

func TestCloneIsolatesMetadata(t *testing.T) {
	orig := ConnectionConfig{
		ID:       "c1",
		Metadata: map[string]any{"k": "v"},
	}

	clone := orig.Clone()
	clone.Metadata["k"] = "changed"

	assert.Equal(t, "v", orig.Metadata["k"])
}
