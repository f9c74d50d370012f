package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/stepcalc"
	"github.com/zephyrtronium/stepcalc/transcript"
)

// flags holds the global command-line flags.
type flags struct {
	ConfigFile string
	Dir        string
	Digits     int
	NoColor    bool
	Verbose    bool
}

func (fl *flags) AsCliFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "YAML file with defaults for dir, digits, and color",
			EnvVars:     []string{"STEPCALC_CONFIG"},
			Destination: &fl.ConfigFile,
		},
		&cli.StringFlag{
			Name:        "dir",
			Value:       transcript.DefaultDir,
			Usage:       "directory for saved evaluations",
			EnvVars:     []string{"STEPCALC_DIR"},
			Destination: &fl.Dir,
		},
		&cli.IntFlag{
			Name:        "digits",
			Value:       stepcalc.DefaultDigits,
			Usage:       "decimal places kept in function results and constants; negative to keep all",
			EnvVars:     []string{"STEPCALC_DIGITS"},
			Destination: &fl.Digits,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "disable colored output",
			Destination: &fl.NoColor,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "log debug messages",
			Destination: &fl.Verbose,
		},
	}
}

// fileConfig is the contents of a config file. Pointer fields distinguish
// unset values from zero values.
type fileConfig struct {
	Dir    string `yaml:"dir"`
	Digits *int   `yaml:"digits"`
	Color  *bool  `yaml:"color"`
}

// loadConfig reads a config file. An empty path gives an empty config.
func loadConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, errors.Wrap(err, "reading config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && err != io.EOF {
		return fc, errors.Wrapf(err, "parsing config %s", path)
	}
	return fc, nil
}

// settings are the effective options after combining defaults, the config
// file, and flags.
type settings struct {
	dir     string
	digits  int
	color   bool
	verbose bool
}

// resolve combines fl and fc. Flags that isSet reports as given, whether on
// the command line or through the environment, override the file, which
// overrides the defaults.
func resolve(fl *flags, fc fileConfig, isSet func(name string) bool) settings {
	s := settings{
		dir:     transcript.DefaultDir,
		digits:  stepcalc.DefaultDigits,
		color:   true,
		verbose: fl.Verbose,
	}
	if fc.Dir != "" {
		s.dir = fc.Dir
	}
	if fc.Digits != nil {
		s.digits = *fc.Digits
	}
	if fc.Color != nil {
		s.color = *fc.Color
	}
	if isSet("dir") {
		s.dir = fl.Dir
	}
	if isSet("digits") {
		s.digits = fl.Digits
	}
	if isSet("no-color") {
		s.color = !fl.NoColor
	}
	return s
}
