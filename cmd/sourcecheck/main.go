package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sourcecheck/sourcecheck/internal/config"
	"github.com/sourcecheck/sourcecheck/internal/infer"
	"github.com/sourcecheck/sourcecheck/internal/lexer"
	"github.com/sourcecheck/sourcecheck/internal/parser"
	"github.com/sourcecheck/sourcecheck/internal/repl"
)

var (
	Version = "dev"

	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "print version information")
		helpFlag    = flag.Bool("help", false, "show help")
		configFlag  = flag.String("config", "", "path to a YAML config file")
		formatFlag  = flag.String("format", "", "diagnostic render format: text or json (overrides config)")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Println(bold("sourcecheck"), Version)
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}
	if *formatFlag != "" {
		cfg.OutputFormat = *formatFlag
	}

	switch flag.Arg(0) {
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("error"))
			fmt.Println("usage: sourcecheck check <file>")
			os.Exit(1)
		}
		if !checkFile(flag.Arg(1), cfg) {
			os.Exit(1)
		}
	case "repl":
		repl.New(cfg).Start(os.Stdout)
	default:
		printHelp()
	}
}

func checkFile(path string, cfg *config.Config) bool {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		return false
	}

	l := lexer.New(string(src), path)
	p := parser.New(l, path)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("syntax error"), e)
		}
		return false
	}

	diags := infer.Check(prog, cfg.AllowMutation, cfg.VariadicMathBuiltins)
	if len(diags) == 0 {
		fmt.Println(green("ok"))
		return true
	}

	rendered, err := diags.Render(cfg.OutputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		return false
	}
	fmt.Print(rendered)
	return false
}

func printHelp() {
	fmt.Println(bold("sourcecheck"), "- a standalone type checker for the Source teaching language")
	fmt.Println()
	fmt.Println("usage:")
	fmt.Println("  sourcecheck check <file>   type-check a file and print its diagnostics")
	fmt.Println("  sourcecheck repl           start an interactive checking session")
	fmt.Println()
	fmt.Println("flags:")
	flag.PrintDefaults()
}
