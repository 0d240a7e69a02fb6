package runner

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/cpitclaudel/litpy/internal/config"
)

// ============================================================================
// Execution Backend Interface
// ============================================================================

// Backend accepts a string of code and returns its output. The annotation
// engine never depends on what happens inside; failures propagate to the
// invoking user command as-is.
type Backend interface {
	Run(code string) (string, error)
}

// ============================================================================
// Interpreter
// ============================================================================

// Interpreter runs snippets through an external interpreter process,
// feeding the code on stdin and capturing stdout.
type Interpreter struct {
	command string
	args    []string
}

// NewInterpreter creates a backend using the configured interpreter.
func NewInterpreter() *Interpreter {
	parts := strings.Fields(config.GetInterpreter())
	if len(parts) == 0 {
		parts = []string{"python3"}
	}
	return &Interpreter{command: parts[0], args: parts[1:]}
}

// NewCommand creates a backend for an explicit command line.
func NewCommand(command string, args ...string) *Interpreter {
	return &Interpreter{command: command, args: args}
}

// Command returns the interpreter command name.
func (r *Interpreter) Command() string {
	return r.command
}

// Run executes one snippet and returns its standard output with trailing
// whitespace trimmed. On a non-zero exit the error carries stderr.
func (r *Interpreter) Run(code string) (string, error) {
	cmd := exec.Command(r.command, r.args...)
	cmd.Env = os.Environ()
	cmd.Stdin = strings.NewReader(code + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("interpreter error: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimRight(stdout.String(), "\n"), nil
}
