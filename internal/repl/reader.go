// Package repl contains the line-reading machinery used by the exprrepl
// interactive session.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader reads one line of expression text at a time from some input
// source. Callers must call Close when done with it.
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// DirectLineReader reads lines directly from any io.Reader, with no escape
// sequence handling or history. Suitable for piped, non-interactive input.
//
// Construct with NewDirectReader.
type DirectLineReader struct {
	r *bufio.Reader
}

// InteractiveLineReader reads lines from stdin via GNU-readline-style
// editing and history. Suitable only when directly connected to a tty.
//
// Construct with NewInteractiveReader.
type InteractiveLineReader struct {
	rl *readline.Instance
}

// NewDirectReader wraps r in a buffered DirectLineReader.
func NewDirectReader(r io.Reader) *DirectLineReader {
	return &DirectLineReader{r: bufio.NewReader(r)}
}

// NewInteractiveReader sets up readline with the given prompt.
func NewInteractiveReader(prompt string) (*InteractiveLineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveLineReader{rl: rl}, nil
}

func (dlr *DirectLineReader) Close() error {
	return nil
}

func (ilr *InteractiveLineReader) Close() error {
	return ilr.rl.Close()
}

// ReadLine reads the next non-blank line. At end of input it returns "" and
// io.EOF.
func (dlr *DirectLineReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dlr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line == "" && err == io.EOF {
			return "", io.EOF
		}
	}

	return line, nil
}

// ReadLine reads the next non-blank line. At end of input it returns "" and
// io.EOF.
func (ilr *InteractiveLineReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ilr.rl.Readline()
		if err != nil {
			return "", err
		}

		line = strings.TrimSpace(line)
	}

	return line, nil
}

func (ilr *InteractiveLineReader) SetPrompt(p string) {
	ilr.rl.SetPrompt(p)
}
