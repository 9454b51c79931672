package collector

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
)

// ErrNoTerminal is returned when interactive collection is requested
// without a terminal attached.
var ErrNoTerminal = errors.New("exo-autoreply: the SetOOF action needs an interactive terminal")

// TerminalSource prompts on stdout and reads answers from stdin.
type TerminalSource struct {
	in  *bufio.Reader
	out *os.File
}

// NewTerminalSource fails when stdin is not a terminal so a scripted
// invocation errors out up front instead of hanging on the first prompt.
func NewTerminalSource() (*TerminalSource, error) {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil, ErrNoTerminal
	}
	return &TerminalSource{in: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Ask prints the prompt and returns one line of input. Only the line ending
// is stripped, the answer is otherwise taken verbatim.
func (s *TerminalSource) Ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrap(err, "exo-autoreply: reading operator input")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *TerminalSource) Say(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
