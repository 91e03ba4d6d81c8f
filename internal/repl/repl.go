// Package repl implements an interactive read-eval-print loop over the
// checker, grounded on the teacher's own liner+fatih/color REPL.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sourcecheck/sourcecheck/internal/ast"
	"github.com/sourcecheck/sourcecheck/internal/config"
	"github.com/sourcecheck/sourcecheck/internal/infer"
	"github.com/sourcecheck/sourcecheck/internal/lexer"
	"github.com/sourcecheck/sourcecheck/internal/parser"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// REPL is an interactive checker session.
type REPL struct {
	cfg *config.Config
}

// New creates a REPL using cfg's AllowMutation/VariadicMathBuiltins
// settings.
func New(cfg *config.Config) *REPL {
	return &REPL{cfg: cfg}
}

// Start runs the REPL loop, reading from stdin and writing to out.
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".sourcecheck_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(out, dim("type a statement to check it, :type <expr> to show an expression's inferred type, :quit to exit"))

	line.SetCompleter(func(input string) (c []string) {
		if strings.HasPrefix(input, ":") {
			for _, cmd := range []string{":type", ":help", ":quit"} {
				if strings.HasPrefix(cmd, input) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt("sourcecheck> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("goodbye"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == ":quit" || input == ":q":
			fmt.Fprintln(out, green("goodbye"))
			if f, err := os.Create(historyFile); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
			return
		case input == ":help":
			fmt.Fprintln(out, dim("statements are type-checked directly; ':type <expr>' shows just an expression's type"))
		case strings.HasPrefix(input, ":type "):
			r.printType(out, strings.TrimPrefix(input, ":type "))
		default:
			r.checkStatement(out, input)
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) checkStatement(out io.Writer, src string) {
	l := lexer.New(src, "<repl>")
	p := parser.New(l, "<repl>")
	prog := p.ParseProgram()
	for _, e := range p.Errors() {
		fmt.Fprintf(out, "%s: %v\n", red("syntax error"), e)
	}
	if len(p.Errors()) > 0 {
		return
	}

	diags := infer.Check(prog, r.cfg.AllowMutation, r.cfg.VariadicMathBuiltins)
	if len(diags) == 0 {
		fmt.Fprintln(out, green("ok"))
		return
	}
	rendered, _ := diags.Render("text")
	fmt.Fprint(out, yellow(rendered))
}

func (r *REPL) printType(out io.Writer, src string) {
	l := lexer.New(src+";", "<repl>")
	p := parser.New(l, "<repl>")
	prog := p.ParseProgram()
	for _, e := range p.Errors() {
		fmt.Fprintf(out, "%s: %v\n", red("syntax error"), e)
	}
	if len(p.Errors()) == 0 && len(prog.Body) == 1 {
		if exprStmt, ok := prog.Body[0].(*ast.ExpressionStatement); ok {
			infer.Check(prog, r.cfg.AllowMutation, r.cfg.VariadicMathBuiltins)
			fmt.Fprintln(out, cyan(exprStmt.Expression.Info().InferredType.(interface{ String() string }).String()))
			return
		}
	}
	fmt.Fprintln(out, red("expected a single expression"))
}
