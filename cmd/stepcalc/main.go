// Command stepcalc evaluates arithmetic expressions and shows every step of
// the work. Without a command, it runs an interactive menu.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/zephyrtronium/stepcalc/transcript"
)

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run runs the command line in args with the given standard streams.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var fl flags
	var a *app
	cliApp := &cli.App{
		Name:      "stepcalc",
		Usage:     "evaluate arithmetic expressions one step at a time",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     fl.AsCliFlags(),
		Before: func(c *cli.Context) error {
			fc, err := loadConfig(fl.ConfigFile)
			if err != nil {
				return err
			}
			a = newApp(resolve(&fl, fc, c.IsSet), stdin, stdout, stderr)
			a.log.Debug().
				Str("dir", a.cfg.dir).
				Int("digits", a.cfg.digits).
				Bool("color", a.cfg.color).
				Str("config", fl.ConfigFile).
				Msg("settings")
			return nil
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return errors.Errorf("unknown command %q", c.Args().First())
			}
			return a.menu()
		},
		Commands: []*cli.Command{
			{
				Name:  "menu",
				Usage: "run the interactive menu",
				Action: func(c *cli.Context) error {
					return a.menu()
				},
			},
			{
				Name:      "eval",
				Usage:     "evaluate each expression and print its steps",
				ArgsUsage: "EXPR...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "save",
						Aliases: []string{"s"},
						Usage:   "save the steps under `NAME`; with several expressions, NAME-1, NAME-2, ...",
					},
				},
				Action: func(c *cli.Context) error {
					exprs := c.Args().Slice()
					if len(exprs) == 0 {
						return errors.New("no expressions to evaluate")
					}
					name := c.String("save")
					failed := 0
					for i, src := range exprs {
						steps, ok := a.evaluate(src)
						if !ok {
							failed++
							continue
						}
						if name == "" {
							continue
						}
						n := name
						if len(exprs) > 1 {
							n += "-" + strconv.Itoa(i+1)
						}
						if !a.save(n, steps) {
							failed++
						}
					}
					if failed > 0 {
						return errors.Errorf("%d of %d expressions failed", failed, len(exprs))
					}
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list saved evaluations",
				Action: func(c *cli.Context) error {
					names, err := a.store.List()
					if err != nil {
						a.log.Error().Err(err).Str("dir", a.store.Dir()).Msg("listing saved evaluations")
						return err
					}
					for _, name := range names {
						fmt.Fprintln(a.out, name)
					}
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "print a saved evaluation",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("show needs exactly one name")
					}
					steps, err := a.store.Load(c.Args().First())
					if err != nil {
						a.log.Error().Err(err).Str("dir", a.store.Dir()).Msg("loading saved evaluation")
						return err
					}
					a.printSteps(steps)
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "delete all saved evaluations",
				Action: func(c *cli.Context) error {
					if !a.clear() {
						return errors.New("could not delete saved evaluations")
					}
					return nil
				},
			},
			{
				Name:  "ops",
				Usage: "show the available operators and functions",
				Action: func(c *cli.Context) error {
					a.ops()
					return nil
				},
			},
		},
	}
	return cliApp.Run(args)
}

// newApp creates the state shared by all commands.
func newApp(cfg settings, in io.Reader, out, errw io.Writer) *app {
	level := zerolog.InfoLevel
	if cfg.verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: errw, NoColor: !cfg.color}).
		Level(level).
		With().
		Timestamp().
		Logger()
	a := &app{
		cfg:   cfg,
		store: transcript.New(cfg.dir),
		log:   log,
		in:    newLineReader(in),
		out:   out,
		errc:  color.New(color.FgRed),
		okc:   color.New(color.FgGreen),
		stepc: color.New(color.FgCyan),
	}
	if !cfg.color {
		a.errc.DisableColor()
		a.okc.DisableColor()
		a.stepc.DisableColor()
	}
	return a
}
