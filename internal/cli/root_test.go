package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"login", "logout", "signup", "password", "status", "watch"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestNewRootCmd_SilencesCobraOutput(t *testing.T) {
	cmd := NewRootCmd()

	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}
