// Package prettyprint renders a parsed module's functions to stdout for the
// `-p` flag: every extracted function's signature, ignore/transform
// classification, and instruction stream, styled the way the teacher's
// bubbletea TUI styles its panes (cmd/run/interactive.go), but applied to
// static output instead of a View().
package prettyprint

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/chop-up/internal/analysis"
	"github.com/wippyai/chop-up/internal/wat"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	ignoredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	splitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))
)

// Dump writes a styled listing of every function in mod to w: its name,
// signature, whether the ignore predicate passes it through unchanged or it
// will be split, and its instruction stream.
func Dump(w io.Writer, mod *wat.Module, colorEnabled bool) {
	styles := []*lipgloss.Style{&titleStyle, &funcStyle, &typeStyle, &ignoredStyle, &splitStyle}
	if !colorEnabled {
		for _, s := range styles {
			*s = lipgloss.NewStyle()
		}
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d functions", len(mod.Funcs))))
	if ignored := analysis.ListIgnored(mod); len(ignored) > 0 {
		fmt.Fprintln(w, ignoredStyle.Render(fmt.Sprintf("passthrough: %v", ignored)))
	}
	for _, fn := range mod.Funcs {
		classification := splitStyle.Render("split")
		if wat.Ignore(fn) {
			classification = ignoredStyle.Render("ignored")
		}
		fmt.Fprintf(w, "%s %s\n", funcStyle.Render("func $"+fn.Name), classification)
		fmt.Fprintln(w, typeStyle.Render(signatureText(fn)))
		for _, instr := range fn.Body {
			fmt.Fprintf(w, "  %s\n", instr.Text)
		}
	}
}

func signatureText(fn wat.Func) string {
	text := "("
	for i, p := range fn.Params {
		if i > 0 {
			text += ", "
		}
		if p.Name != "" {
			text += "$" + p.Name + " " + p.Type.String()
		} else {
			text += p.Type.String()
		}
	}
	text += ")"
	for _, r := range fn.Results {
		text += " -> " + r.String()
	}
	return text
}
