package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ramborogers/netninja/config"
	"github.com/ramborogers/netninja/report"
	"github.com/ramborogers/netninja/scanner"
	"github.com/ramborogers/netninja/security"
	"github.com/ramborogers/netninja/telemetry"
	"github.com/ramborogers/netninja/views"
	"github.com/ramborogers/netninja/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	appName = "netninja-cli"
	version = "1.0.0"
)

func usage(fs *flag.FlagSet) func() {
	return func() {
		out := fs.Output()
		fmt.Fprintf(out, "%s %s - NetNinja Linux network troubleshooting CLI\n\n", appName, version)
		fmt.Fprintf(out, "Usage: %s [options] <command> [command options]\n\n", appName)
		fmt.Fprintf(out, "Commands:\n")
		fmt.Fprintf(out, "  status         Show quick network status summary\n")
		fmt.Fprintf(out, "  monitor        Launch the live monitoring dashboard\n")
		fmt.Fprintf(out, "  serve          Serve reports over HTTP, websocket and /metrics\n")
		fmt.Fprintf(out, "  config init    Write a default configuration file\n")
		fmt.Fprintf(out, "  version        Display version information\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to YAML configuration file")
	logLevel := fs.String("log-level", "", "Log level (trace, debug, info, warn, error); overrides config")
	debugFlag := fs.Bool("debug", false, "Write all logs at debug level to debug.log in the current directory")
	versionFlag := fs.Bool("version", false, "Display version information and exit")
	fs.Usage = usage(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "%s %s\n", appName, version)
		return 0
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	command, cmdArgs := fs.Arg(0), fs.Args()[1:]

	cfg := config.GetConfig()
	if *configPath != "" {
		if err := cfg.LoadConfig(*configPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	closeLog, err := setupLogging(cfg.Logging.Level, *debugFlag, command == "monitor", stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	if path := cfg.Path(); path != "" {
		log.Info().Str("path", path).Msg("configuration loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "status":
		err = runStatus(ctx, cfg, stdout)
	case "monitor":
		err = runMonitor(ctx, cfg, cmdArgs, stderr)
	case "serve":
		err = runServe(ctx, cfg)
	case "config":
		err = runConfig(cmdArgs, stdout)
	case "version":
		fmt.Fprintf(stdout, "%s %s\n", appName, version)
	default:
		fmt.Fprintf(stderr, "Error: unknown command '%s'\n\n", command)
		fs.Usage()
		return 2
	}

	if err != nil {
		log.Error().Err(err).Str("command", command).Msg("command failed")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// setupLogging configures the global zerolog logger. With debug set all
// output goes to debug.log; the dashboard discards logs otherwise so they
// do not corrupt the screen.
func setupLogging(level string, debug, quiet bool, stderr io.Writer) (func(), error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if debug {
		f, err := os.OpenFile("debug.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error opening debug.log: %w", err)
		}
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		if lvl < zerolog.DebugLevel {
			zerolog.SetGlobalLevel(lvl)
		}
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		return func() { f.Close() }, nil
	}

	if quiet {
		log.Logger = zerolog.New(io.Discard)
		return func() {}, nil
	}

	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339})
	return func() {}, nil
}

// newCollector wires the scanner, classifier and report collector from cfg
func newCollector(cfg *config.Config) *report.Collector {
	runner := scanner.NewExecRunner(cfg.Commands.Timeout)

	var opts []scanner.Option
	if cfg.Peers.MDNS {
		opts = append(opts, scanner.WithMDNS(scanner.MDNSBrowser{Timeout: cfg.Peers.MDNSTimeout}))
	}
	s := scanner.NewScanner(runner, opts...)

	classifier := security.NewClassifier(runner, time.Now, security.Settings{
		JournalUnit:         cfg.Security.JournalUnit,
		JournalLines:        cfg.Security.JournalLines,
		ConnectionThreshold: cfg.Security.ConnectionThreshold,
	})

	return report.NewCollector(s, classifier, runner)
}

func runStatus(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	r, err := newCollector(cfg).Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect status: %w", err)
	}
	view := views.NewStatusView(views.NewStyles())
	view.SetReport(r)
	fmt.Fprintln(stdout, view.Render())
	return nil
}

func runMonitor(ctx context.Context, cfg *config.Config, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("monitor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	useTmux := fs.Bool("tmux", false, "Launch the tmux six-pane dashboard instead of the built-in one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *useTmux {
		return launchTmux(ctx, cfg.Monitor.ScriptPath)
	}

	m := newDashboardModel(ctx, newCollector(cfg), scanner.TrafficCounters,
		cfg.Monitor.RefreshInterval, cfg.Monitor.TrafficInterval)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	srv := web.NewServer(web.Options{
		Addr:           cfg.Web.Listen,
		AuthToken:      cfg.Web.AuthToken,
		Interval:       cfg.Web.BroadcastInterval,
		AllowedOrigins: cfg.Web.AllowedOrigins,
	}, newCollector(cfg))

	if cfg.Publish.Endpoint != "" {
		client := telemetry.NewClient(cfg.Publish.Endpoint, cfg.Publish.Token, version)
		if err := client.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("report publishing disabled")
		} else {
			defer client.Stop()
			srv.Subscribe(client.Enqueue)
		}
	}

	return srv.Run(ctx)
}

func runConfig(args []string, stdout io.Writer) error {
	if len(args) != 2 || args[0] != "init" {
		return errors.New("usage: config init <path>")
	}
	if err := config.New().SaveConfig(args[1]); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote default configuration to %s\n", args[1])
	return nil
}
