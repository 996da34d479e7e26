// Package console is the human side of the interview: the handoff
// checkpoint that blocks on terminal input, and plain-text rendering of
// progress and results.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/Nyukimin/reqgather/internal/domain/interview"
)

// LineReader abstracts interactive line input so tests can script replies.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Checkpoint suspends the workflow for literal human text input. It blocks
// indefinitely; only an interrupt or EOF breaks the wait.
type Checkpoint struct {
	reader LineReader
	out    io.Writer
}

// NewCheckpoint creates a Checkpoint reading from the terminal.
func NewCheckpoint() (*Checkpoint, error) {
	rl, err := readline.New("> ")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	return &Checkpoint{reader: rl, out: os.Stdout}, nil
}

// NewCheckpointWithReader creates a Checkpoint with injected input and
// output, for tests.
func NewCheckpointWithReader(r LineReader, out io.Writer) *Checkpoint {
	return &Checkpoint{reader: r, out: out}
}

// Close releases the underlying reader.
func (c *Checkpoint) Close() error {
	return c.reader.Close()
}

// Handoff presents the message, blocks for a single line of input, and
// returns the literal reply. The boolean mirrors the mode: true means the
// calling workflow segment must stop after consuming the reply. It is a
// plain return value, never an unwinding signal.
//
// Ctrl-C and closed input are reported as interview.ErrInterrupted.
func (c *Checkpoint) Handoff(message string, mode interview.HandoffMode) (string, bool, error) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "AGENT REQUESTING USER HANDOFF")
	fmt.Fprintln(c.out, strings.Repeat("=", 50))
	fmt.Fprintln(c.out, message)
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Please provide your response below:")

	line, err := c.reader.Readline()
	if err != nil {
		terminate := mode == interview.HandoffTerminate
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", terminate, interview.ErrInterrupted
		}
		return "", terminate, fmt.Errorf("handoff input: %w", err)
	}

	return line, mode == interview.HandoffTerminate, nil
}
