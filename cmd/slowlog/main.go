package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	"github.com/tinytelemetry/slowlog/internal/logging"
	"github.com/tinytelemetry/slowlog/internal/report"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

// errUsage marks an invocation rejected after its help was printed.
var errUsage = errors.New("usage")

type arguments struct {
	ConfigPath string
	LogLevel   string

	cfg appConfig
}

type parseArguments struct {
	Input  string
	Output string
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(argv []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.Run(argv)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		printError(stderr, "Error: %v", err)
		return 1
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	var args arguments

	commands := []*cli.Command{versionCommand()}
	for _, format := range report.Formats() {
		commands = append(commands, parseCommand(&args, format))
	}

	return &cli.App{
		Name:      "slowlog",
		Usage:     "Extract slow queries from MongoDB and MySQL logs into reports",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "config file (default is $HOME/.config/slowlog/config.yml)",
				Destination: &args.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "TRACE, DEBUG, INFO, WARN or ERROR",
				Destination: &args.LogLevel,
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(args.ConfigPath)
			if err != nil {
				return errors.Wrap(err, "loading config")
			}
			level := cfg.LogLevel
			if c.IsSet("log-level") {
				level = args.LogLevel
			}
			if !logging.SetLogLevel(level) {
				return errors.Errorf("invalid log level: %q", level)
			}
			args.cfg = cfg
			return nil
		},
		Action: func(c *cli.Context) error {
			return runInteractive(args.cfg, c.App.Writer)
		},
		Commands: commands,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			w := c.App.Writer
			fmt.Fprintf(w, "slowlog - Slow Query Log Parser\n")
			fmt.Fprintf(w, "  Version:    %s\n", version)
			fmt.Fprintf(w, "  Commit:     %s\n", commit)
			fmt.Fprintf(w, "  Built:      %s\n", buildTime)
			fmt.Fprintf(w, "  Go version: %s\n", goVersion)
			return nil
		},
	}
}

func parseCommand(args *arguments, format string) *cli.Command {
	var parseArgs parseArguments

	return &cli.Command{
		Name:      format,
		Usage:     fmt.Sprintf("Parse a %s log; without flags, start the upload UI", format),
		UsageText: fmt.Sprintf("slowlog %s --input <log> --output <report.xlsx|.duckdb|.sqlite|.yaml>", format),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "Path to the input log file",
				Destination: &parseArgs.Input,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Path to the output report",
				Destination: &parseArgs.Output,
			},
		},
		Action: func(c *cli.Context) error {
			switch {
			case parseArgs.Input == "" && parseArgs.Output == "":
				return runInteractive(args.cfg, c.App.Writer)
			case parseArgs.Input == "" || parseArgs.Output == "":
				printError(c.App.ErrWriter, "Error: Both --input and --output arguments are required for CLI mode.")
				_ = cli.ShowSubcommandHelp(c)
				return errUsage
			}
			return runParse(c.Context, args.cfg, format, parseArgs, c.App.Writer)
		},
	}
}
