package runner

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunEchoesStdin(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	out, err := NewCommand("cat").Run("hello")
	require.NoError(t, err)
	require.Equal(t, "hello", out)
}

func TestRunTrimsTrailingNewlines(t *testing.T) {
	if _, err := exec.LookPath("printf"); err != nil {
		t.Skip("printf not available")
	}
	out, err := NewCommand("printf", "x\n\n").Run("")
	require.NoError(t, err)
	require.Equal(t, "x", out)
}

func TestRunReportsFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	_, err := NewCommand("false").Run("ignored")
	require.Error(t, err)
	require.Contains(t, err.Error(), "interpreter error")
}

func TestCommandName(t *testing.T) {
	require.Equal(t, "cat", NewCommand("cat").Command())
}
