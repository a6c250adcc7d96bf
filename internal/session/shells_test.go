package session

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInitializationScript(t *testing.T) {
	for _, shell := range []string{"bash", "zsh"} {
		script := getInitializationScript(shell)
		assert.Contains(t, script, "__membox_preexec", shell)
		assert.Contains(t, script, "__membox_precmd", shell)
		assert.Contains(t, script, markerStart, shell)
	}

	assert.Empty(t, getInitializationScript("fish"))
	assert.Empty(t, getInitializationScript("sh"))
}

func TestPrepareShellCommandBash(t *testing.T) {
	shellPath, args, cleanup, err := prepareShellCommand("/bin/bash")
	require.NoError(t, err)
	if cleanup != nil {
		defer cleanup()
	}

	assert.Equal(t, "/bin/bash", shellPath)
	require.Len(t, args, 2)
	assert.Equal(t, "--rcfile", args[0])

	content, err := os.ReadFile(args[1])
	require.NoError(t, err)
	assert.Contains(t, string(content), "__membox_precmd")
}

func TestPrepareShellCommandUnknownShellPassesThrough(t *testing.T) {
	shellPath, args, cleanup, err := prepareShellCommand("/usr/bin/fish")
	require.NoError(t, err)
	assert.Nil(t, cleanup)
	assert.Equal(t, "/usr/bin/fish", shellPath)
	assert.Empty(t, args)
}

func TestPrepareShellCommandCleanupRemovesInitFile(t *testing.T) {
	_, args, cleanup, err := prepareShellCommand("/bin/bash")
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	require.Len(t, args, 2)

	cleanup()
	_, err = os.Stat(args[1])
	assert.True(t, os.IsNotExist(err))
}

func TestDefaultShellFallsBackToSh(t *testing.T) {
	assert.NotEmpty(t, defaultShell())
}
