// Package ui provides the line-oriented prompt used before destructive
// actions. Prompts read a single answer from the given reader; an empty
// answer (including a closed or non-interactive stream) means "no".
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Prompter asks yes/no questions on a reader/writer pair.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading answers from in and writing
// questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints "msg (y/N): " and returns true only for an explicit "y" answer.
func (p *Prompter) Ask(msg string) bool {
	fmt.Fprintf(p.out, "%s %s ", msg, color.New(color.Faint).Sprint("(y/N):"))

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		// No input available: treat as declined
		fmt.Fprintln(p.out)
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
