package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/stepcalc"
	"github.com/zephyrtronium/stepcalc/transcript"
)

type app struct {
	cfg   settings
	store *transcript.Store
	log   zerolog.Logger

	in  *lineReader
	out io.Writer

	errc  *color.Color
	okc   *color.Color
	stepc *color.Color
}

// lineReader reads trimmed lines of user input.
type lineReader struct {
	s *bufio.Scanner
}

func newLineReader(r io.Reader) *lineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), 4*stepcalc.MaxInputLen)
	return &lineReader{s: s}
}

// line returns the next line without surrounding space. ok is false at the
// end of input.
func (r *lineReader) line() (line string, ok bool) {
	if !r.s.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.s.Text()), true
}

// prompt writes p and reads a line.
func (a *app) prompt(p string) (string, bool) {
	fmt.Fprint(a.out, p)
	line, ok := a.in.line()
	if !ok {
		fmt.Fprintln(a.out)
	}
	return line, ok
}

const menuText = `
Main menu:
1. Start a new calculation
2. View available operations
3. Delete saved evaluations
4. Quit
`

// menu runs the interactive main menu until the user quits or input ends.
func (a *app) menu() error {
	fmt.Fprintln(a.out, "Welcome to the step-by-step calculator!")
	for {
		fmt.Fprint(a.out, menuText)
		choice, ok := a.prompt("Choose an option (1-4): ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			if !a.calculate() {
				return nil
			}
		case "2":
			a.ops()
		case "3":
			a.clear()
		case "4":
			fmt.Fprintln(a.out, "See you next time!")
			return nil
		default:
			a.errc.Fprintln(a.out, "Invalid option. Please choose a number from 1 to 4.")
		}
	}
}

// calculate reads and evaluates expressions until the user types quit. It
// returns false if input ended.
func (a *app) calculate() bool {
	for {
		src, ok := a.prompt(`Enter an expression ("quit" to return, "help" for operations): `)
		if !ok {
			return false
		}
		switch {
		case strings.EqualFold(src, "quit"):
			return true
		case strings.EqualFold(src, "help"):
			a.ops()
			continue
		case src == "":
			a.errc.Fprintln(a.out, "Please enter a non-empty expression.")
			continue
		}
		steps, ok := a.evaluate(src)
		if !ok {
			continue
		}
		ans, ok := a.prompt("Save this evaluation? (y/n): ")
		if !ok {
			return false
		}
		if !strings.EqualFold(ans, "y") && !strings.EqualFold(ans, "yes") {
			continue
		}
		name, ok := a.prompt("Name: ")
		if !ok {
			return false
		}
		a.save(name, steps)
	}
}

// evaluate evaluates src with a new evaluator and prints its steps. It
// reports errors to the user and returns false if evaluation failed. The
// steps are returned even on failure.
func (a *app) evaluate(src string) ([]string, bool) {
	toks, err := stepcalc.Tokenize(src)
	if toks == nil {
		a.fail(src, err)
		return nil, false
	}
	if err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				a.log.Warn().Err(e).Str("expr", src).Msg("ignored input")
			}
		} else {
			a.log.Warn().Err(err).Str("expr", src).Msg("ignored input")
		}
	}
	x, err := stepcalc.Parse(toks)
	if err != nil {
		a.fail(src, err)
		return nil, false
	}
	ev := stepcalc.NewEvaluator(stepcalc.Digits(a.cfg.digits))
	r, err := ev.Eval(x)
	steps := ev.Steps()
	a.printSteps(steps)
	if err != nil {
		a.fail("", err)
		return steps, false
	}
	a.log.Debug().Str("expr", src).Float64("result", r).Int("steps", len(steps)).Msg("evaluated")
	return steps, true
}

func (a *app) printSteps(steps []string) {
	for _, s := range steps {
		a.stepc.Fprintf(a.out, "= %s\n", s)
	}
}

// fail reports err. If the error has a position in src, a marker under src
// points at it.
func (a *app) fail(src string, err error) {
	var ie stepcalc.InputError
	if src != "" && errors.As(err, &ie) && ie.Pos() > 0 {
		fmt.Fprintf(a.out, "  %s\n  %*s\n", src, ie.Pos(), "^")
	}
	a.errc.Fprintf(a.out, "Error: %v\n", err)
}

// save saves steps under name and reports the outcome.
func (a *app) save(name string, steps []string) bool {
	if err := a.store.Save(name, steps); err != nil {
		a.log.Error().Err(err).Str("name", name).Str("dir", a.store.Dir()).Msg("saving evaluation")
		a.errc.Fprintf(a.out, "Failed to save: %v\n", err)
		return false
	}
	a.okc.Fprintf(a.out, "Saved as %s.\n", name)
	return true
}

// clear deletes all saved evaluations and reports the outcome.
func (a *app) clear() bool {
	n, err := a.store.Clear()
	if err != nil {
		a.log.Error().Err(err).Str("dir", a.store.Dir()).Int("deleted", n).Msg("deleting saved evaluations")
		a.errc.Fprintf(a.out, "Failed to delete evaluations: %v\n", err)
		return false
	}
	a.okc.Fprintf(a.out, "Deleted %d saved evaluations.\n", n)
	return true
}

// funcdocs describes each function for the operations table.
var funcdocs = map[string][2]string{
	"abs":  {"absolute value", "abs(-3)"},
	"sqrt": {"square root", "sqrt(16)"},
	"ln":   {"natural logarithm", "ln(e)"},
	"sin":  {"sine, in degrees", "sin(30)"},
	"cos":  {"cosine, in degrees", "cos(60)"},
	"tg":   {"tangent, in degrees (alias tan)", "tg(45)"},
	"cotg": {"cotangent, in degrees (alias cot)", "cotg(45)"},
	"sec":  {"secant, in degrees", "sec(60)"},
	"csc":  {"cosecant, in degrees", "csc(30)"},
	"asin": {"arcsine, result in degrees", "asin(1)"},
	"acos": {"arccosine, result in degrees", "acos(0.5)"},
	"atg":  {"arctangent, result in degrees (alias atan)", "atg(1)"},
	"actg": {"arccotangent, result in degrees (alias acot)", "actg(1)"},
}

// ops prints the table of operators and functions.
func (a *app) ops() {
	tw := tablewriter.NewWriter(a.out)
	tw.SetHeader([]string{"Operation", "Meaning", "Example"})
	tw.SetAutoWrapText(false)
	tw.AppendBulk([][]string{
		{"+", "addition", "2 + 3"},
		{"-", "subtraction, or negation before an operand", "5 - -2"},
		{"*", "multiplication", "4 * 2.5"},
		{"/", "division", "7 / 2"},
		{"^", "exponentiation, grouping right to left", "2 ^ 3 ^ 2"},
		{"!", "factorial of a non-negative integer", "5!"},
		{"( )", "grouping", "(2 + 3) * 4"},
	})
	for _, name := range stepcalc.Funcs() {
		d := funcdocs[name]
		tw.Append([]string{name, d[0], d[1]})
	}
	tw.AppendBulk([][]string{
		{"log", "logarithm; base 2 unless given first", "log(8), log(10, 100)"},
		{"pi", "3.14159...", "2 * pi"},
		{"e", "2.71828...", "e ^ 2"},
	})
	tw.Render()
	if a.cfg.digits >= 0 {
		fmt.Fprintf(a.out, "Function results and constants are rounded to %d decimal places.\n", a.cfg.digits)
	}
}
