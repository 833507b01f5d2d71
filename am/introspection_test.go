package am

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigIntrospection_Sources(t *testing.T) {
	home, project := isolate(t)

	userPath := filepath.Join(home, ".tlgen", "am.toml")
	projectPath := filepath.Join(project, ProjectConfigName)
	writeFile(t, userPath, "[generator]\noutput = \"user.rs\"\n")
	writeFile(t, projectPath, "[generator]\nschema = \"project.tl\"\n")
	t.Setenv("TLGEN_LOG_VERBOSITY", "3")

	in, err := GetConfigIntrospection()
	require.NoError(t, err)

	tests := []struct {
		key    string
		value  any
		source ConfigSource
	}{
		{"generator.output", "user.rs", SourceUser},
		{"generator.schema", "project.tl", SourceProject},
		{"log.verbosity", "3", SourceEnvironment},
		{"runtime.url", "ws://127.0.0.1:8090/tdjson", SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s, ok := in.Lookup(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.source, s.Source)
			assert.Equal(t, tt.value, s.Value)
		})
	}

	s, _ := in.Lookup("log.verbosity")
	assert.Equal(t, "TLGEN_LOG_VERBOSITY", s.SourcePath)
}

func TestConfigIntrospection_SortedKeys(t *testing.T) {
	isolate(t)

	in, err := GetConfigIntrospection()
	require.NoError(t, err)
	require.NotEmpty(t, in.Settings)

	for i := 1; i < len(in.Settings); i++ {
		assert.Less(t, in.Settings[i-1].Key, in.Settings[i].Key)
	}

	_, ok := in.Lookup("no.such.key")
	assert.False(t, ok)
}
