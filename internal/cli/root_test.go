package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRootCmd(t *testing.T) {
	cmd := GetRootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "slicertools", cmd.Use)
	assert.Equal(t, version, cmd.Version)
}

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
}

func TestRootCommandHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range GetRootCmd().Commands() {
		names[sub.Name()] = true
	}

	assert.True(t, names["serve"], "serve command should be registered")
	assert.True(t, names["tools"], "tools command should be registered")
}

func TestGlobalFlags(t *testing.T) {
	flags := GetRootCmd().PersistentFlags()

	assert.NotNil(t, flags.Lookup("config"))
	assert.NotNil(t, flags.Lookup("log-level"))
}
