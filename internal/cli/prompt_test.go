package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSecretLine(t *testing.T) {
	secret, err := readSecretLine(strings.NewReader("hunter2\n"))
	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret)
}

func TestReadSecretLine_WindowsLineEnding(t *testing.T) {
	secret, err := readSecretLine(strings.NewReader("hunter2\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret)
}

func TestReadSecretLine_NoTrailingNewline(t *testing.T) {
	secret, err := readSecretLine(strings.NewReader("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret)
}

func TestReadSecretLine_EmptyInput(t *testing.T) {
	_, err := readSecretLine(strings.NewReader(""))
	require.Error(t, err)
}
