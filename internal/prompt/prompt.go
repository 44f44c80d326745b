// Package prompt implements the interactive pause protocol: a single-character
// question whose answer decides whether a test continues, skips, fails, quits,
// or aborts.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Response is the decoded answer to a prompt.
type Response int

const (
	Continue Response = iota
	Skip
	Fail
	Quit
	Abort
)

// String renders the response for diagnostics.
func (r Response) String() string {
	switch r {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case Fail:
		return "fail"
	case Quit:
		return "quit"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Parse decodes a single response character, case-insensitively: c=continue,
// s=skip, f=fail, a=abort, q=quit. The second result is false for anything
// else.
func Parse(ch rune) (Response, bool) {
	switch ch {
	case 'c', 'C':
		return Continue, true
	case 's', 'S':
		return Skip, true
	case 'f', 'F':
		return Fail, true
	case 'a', 'A':
		return Abort, true
	case 'q', 'Q':
		return Quit, true
	default:
		return Continue, false
	}
}

// Asker reads prompt answers from a terminal-like stream. An invalid answer
// re-asks the question; only EOF or a read error ends the loop early.
type Asker struct {
	in   *bufio.Reader
	out  io.Writer
	beep bool
}

// NewAsker builds an Asker over the given streams. When beep is true each
// question rings the terminal bell.
func NewAsker(in io.Reader, out io.Writer, beep bool) *Asker {
	return &Asker{in: bufio.NewReader(in), out: out, beep: beep}
}

// Ask poses the question and blocks for a valid single-character answer.
// On EOF it returns Quit, treating a closed input as "stop asking me".
func (a *Asker) Ask(question string) (Response, error) {
	for {
		bell := ""
		if a.beep {
			bell = "\a"
		}
		fmt.Fprintf(a.out, "%s%s [c]ontinue [s]kip [f]ail [a]bort [q]uit: ", bell, question)

		line, err := a.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil {
			if err == io.EOF && line == "" {
				return Quit, nil
			}
			if err != io.EOF {
				return Quit, err
			}
		}
		if len(line) != 1 {
			fmt.Fprintln(a.out, "please answer with a single character")
			continue
		}
		if resp, ok := Parse(rune(line[0])); ok {
			return resp, nil
		}
		fmt.Fprintf(a.out, "unrecognized answer %q\n", line)
	}
}
