// fieldctl is the command line client of the field operations console. It
// talks to the same REST API as the console server and keeps the signed-in
// user in a session file between invocations.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"fieldops-console/internal/config"
	"fieldops-console/internal/console"
	"fieldops-console/internal/gateway"
	"fieldops-console/internal/logging"
	"fieldops-console/internal/notify"
	"fieldops-console/internal/session"
	"fieldops-console/internal/validate"
)

// cliAudience is the notification audience of a terminal.
const cliAudience = "terminal"

// exitError carries an exit code for failures that were already reported.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func (e exitError) ExitCode() int { return e.code }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	out       io.Writer
	errOut    io.Writer
	api       *gateway.Client
	store     *session.Store
	board     *notify.Board
	runner    *console.Runner
	validator *validate.Validator
	styles    styles
	format    string
	now       func() time.Time
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.NewEnvReader().ReadClient()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var (
		apiURL      string
		sessionPath string
		format      string
		verbose     bool
	)
	flagSet := pflag.NewFlagSet("fieldctl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&apiURL, "api", cfg.API.BaseURL, "base URL of the REST API")
	flagSet.StringVar(&sessionPath, "session", cfg.SessionPath, "session file (default: user config dir)")
	flagSet.StringVarP(&format, "output", "o", "table", "output format: table, json or yaml")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log API calls to stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printHelp(stderr, flagSet)
		return nil
	}
	switch format {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	logger, err := logging.New(cfg.Env, stderr)
	if err != nil {
		return err
	}
	if !verbose {
		logger = logger.Level(zerolog.ErrorLevel)
	}

	store, err := session.NewStore(sessionPath)
	if err != nil {
		return err
	}
	board := notify.NewBoard(notify.DefaultTTL)
	defer board.Close()

	c := &cli{
		out:       stdout,
		errOut:    stderr,
		api:       gateway.New(apiURL, cfg.API.RequestTimeout, logger),
		store:     store,
		board:     board,
		runner:    console.NewRunner(board, logger),
		validator: validate.NewValidator(),
		styles:    newStyles(lipgloss.NewRenderer(stdout)),
		format:    format,
		now:       time.Now,
	}

	command, rest := flagSet.Arg(0), flagSet.Args()[1:]
	switch command {
	case "login":
		return c.login(ctx, rest)
	case "logout":
		return c.logout()
	case "whoami":
		return c.whoami()
	case "tasks":
		return c.tasks(ctx, rest)
	case "expenses":
		return c.expenses(ctx, rest)
	case "employees":
		return c.employees(ctx, rest)
	case "categories":
		return c.categories(ctx, rest)
	case "statuses":
		return c.statuses(rest)
	}
	printHelp(stderr, flagSet)
	return fmt.Errorf("unknown command %q", command)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `fieldctl manages field tasks, expenses, employees and expense categories.

Usage:
  fieldctl [flags] <command> [arguments]

Commands:
  login       sign in and store the session
  logout      forget the stored session
  whoami      show the signed-in user
  tasks       list, create, update or delete tasks
  expenses    list, create, update or delete expenses
  employees   list, create, update or delete employees
  categories  list, create or delete expense categories
  statuses    show the status options the console offers

Flags:
%s`, flagSet.FlagUsages())
}
