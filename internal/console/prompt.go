package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads operator answers line by line.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints prompt and returns the trimmed answer. A final line without a
// newline is still returned; io.EOF is only reported when nothing was read.
func (p *Prompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		fmt.Fprintln(p.out)
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Only "y" counts as yes.
func (p *Prompter) Confirm(prompt string) bool {
	answer, err := p.Ask(prompt + " (y/n): ")
	if err != nil {
		return false
	}

	return strings.ToLower(answer) == "y"
}
