package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/marketops/console/internal/pagestate"
)

// prompter reads answers from the terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	if in == nil {
		in = strings.NewReader("")
	}
	return &prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the trimmed answer line.
func (p *prompter) Ask(question string) string {
	fmt.Fprintf(p.out, "%s: ", question)
	line, _ := p.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// Confirm implements pagestate.Confirmer with a yes/no question.
func (p *prompter) Confirm(_ context.Context, question string) bool {
	switch strings.ToLower(p.Ask(question + " [s/N]")) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

func (rt *runtime) confirmer() pagestate.Confirmer {
	if rt.yes {
		return pagestate.AlwaysConfirm
	}
	return rt.prompt
}
