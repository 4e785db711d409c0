// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/wslpty/wslpty/bridge"
	"github.com/wslpty/wslpty/lib/config"
	"github.com/wslpty/wslpty/lib/process"
	"github.com/wslpty/wslpty/lib/terminal"
	"github.com/wslpty/wslpty/lib/version"
)

const programName = "wslpty"

func main() {
	process.Exit(programName, run(os.Args[1:]))
}

// options holds the parsed command line.
type options struct {
	port        uint16
	configPath  string
	showHelp    bool
	showVersion bool
	flagSet     *pflag.FlagSet

	// overrides receives flag values; only flags the user set are
	// applied over the loaded configuration.
	overrides config.Config
}

func run(args []string) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}
	if parsed.showHelp {
		printHelp(os.Stdout, parsed.flagSet)
		return nil
	}
	if parsed.showVersion {
		version.Print(os.Stdout, programName)
		return nil
	}

	cfg, err := loadConfig(parsed)
	if err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := config.NewLogger(os.Stderr, level).With("session", uuid.NewString())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	return serve(ctx, logger, cfg, parsed.port)
}

// parseArgs parses the command line without applying it to a config.
func parseArgs(args []string) (*options, error) {
	parsed := &options{}
	flagSet := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	parsed.flagSet = flagSet

	defaults := config.Default()
	overrides := &parsed.overrides
	flagSet.Uint16Var(&overrides.Columns, "cols", defaults.Columns, "number of columns in the spawned terminal")
	flagSet.Uint16Var(&overrides.Rows, "rows", defaults.Rows, "number of rows in the spawned terminal")
	flagSet.StringVar(&overrides.WorkingDirectory, "cwd", "", "working directory in which to start the terminal")
	flagSet.StringVar(&overrides.Shell, "shell", "", "shell to run (default: $SHELL, then /bin/sh)")
	flagSet.StringVar(&overrides.Host, "host", defaults.Host, "address of the frontend")
	flagSet.DurationVar(&overrides.PollInterval, "poll-interval", defaults.PollInterval, "interval between foreground process samples")
	flagSet.UintVar(&overrides.ConnectAttempts, "connect-attempts", defaults.ConnectAttempts, "number of attempts to connect to the frontend")
	flagSet.DurationVar(&overrides.ConnectDelay, "connect-delay", defaults.ConnectDelay, "delay between connection attempts")
	flagSet.StringVar(&overrides.LogLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn, or error")
	flagSet.StringVar(&parsed.configPath, "config", "", "YAML configuration file (default: $"+config.FileVariable+")")
	flagSet.BoolVar(&parsed.showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&parsed.showHelp, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			parsed.showHelp = true
			return parsed, nil
		}
		return nil, process.Usage("%v", err)
	}
	if parsed.showHelp || parsed.showVersion {
		return parsed, nil
	}

	positional := flagSet.Args()
	switch len(positional) {
	case 0:
		return nil, process.Usage("missing required argument <port>")
	case 1:
	default:
		return nil, process.Usage("unexpected argument: %s", positional[1])
	}

	port, err := strconv.ParseUint(positional[0], 10, 16)
	if err != nil || port == 0 {
		return nil, process.Usage("port must be a number between 1 and 65535, got %q", positional[0])
	}
	parsed.port = uint16(port)
	return parsed, nil
}

// loadConfig layers the flags the user set over the file and
// environment configuration.
func loadConfig(parsed *options) (*config.Config, error) {
	cfg, err := config.Load(config.FilePath(parsed.configPath))
	if err != nil {
		return nil, process.Usage("%w", err)
	}

	flagSet, overrides := parsed.flagSet, parsed.overrides
	if flagSet.Changed("cols") {
		cfg.Columns = overrides.Columns
	}
	if flagSet.Changed("rows") {
		cfg.Rows = overrides.Rows
	}
	if flagSet.Changed("cwd") {
		cfg.WorkingDirectory = overrides.WorkingDirectory
	}
	if flagSet.Changed("shell") {
		cfg.Shell = overrides.Shell
	}
	if flagSet.Changed("host") {
		cfg.Host = overrides.Host
	}
	if flagSet.Changed("poll-interval") {
		cfg.PollInterval = overrides.PollInterval
	}
	if flagSet.Changed("connect-attempts") {
		cfg.ConnectAttempts = overrides.ConnectAttempts
	}
	if flagSet.Changed("connect-delay") {
		cfg.ConnectDelay = overrides.ConnectDelay
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = overrides.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, process.Usage("invalid configuration: %w", err)
	}
	return cfg, nil
}

// serve connects to the frontend, starts the shell, and runs the session.
func serve(ctx context.Context, logger *slog.Logger, cfg *config.Config, port uint16) error {
	address := net.JoinHostPort(cfg.Host, strconv.Itoa(int(port)))
	connection, err := dial(ctx, logger, address, cfg.ConnectAttempts, cfg.ConnectDelay)
	if err != nil {
		return err
	}

	session, err := terminal.Start(terminal.Options{
		Columns:          cfg.Columns,
		Rows:             cfg.Rows,
		WorkingDirectory: cfg.WorkingDirectory,
		Shell:            cfg.Shell,
		Environment:      os.Environ(),
	})
	if err != nil {
		connection.Close()
		return fmt.Errorf("starting terminal: %w", err)
	}
	logger.Info("terminal started",
		"pid", session.PID(),
		"shell", terminal.ResolveShell(cfg.Shell),
		"columns", cfg.Columns,
		"rows", cfg.Rows,
	)

	b := &bridge.Bridge{
		Connection:     connection,
		Terminal:       session,
		Logger:         logger,
		PollInterval:   cfg.PollInterval,
		ReadBufferSize: cfg.ReadBufferSize,
	}
	runErr := b.Run(ctx)

	// Run has closed the session, which ends the shell.
	exitCode, waitErr := session.Wait()
	logger.Debug("shell exited", "exit_code", exitCode, "error", waitErr)

	return runErr
}

// dial connects to the frontend, retrying as configured.
func dial(ctx context.Context, logger *slog.Logger, address string, attempts uint, delay time.Duration) (*net.TCPConn, error) {
	var dialer net.Dialer
	var connection net.Conn
	attempt := 0
	err := retry.New(
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	).Do(func() error {
		attempt++
		var dialErr error
		connection, dialErr = dialer.DialContext(ctx, "tcp", address)
		if dialErr != nil {
			logger.Debug("connect failed", "address", address, "attempt", attempt, "error", dialErr)
		}
		return dialErr
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to frontend at %s: %w", address, err)
	}

	tcpConnection := connection.(*net.TCPConn)
	if err := tcpConnection.SetNoDelay(true); err != nil {
		tcpConnection.Close()
		return nil, fmt.Errorf("disabling Nagle's algorithm: %w", err)
	}
	logger.Info("connected to frontend", "address", address, "attempts", attempt)
	return tcpConnection, nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `wslpty - Backend terminal process for wslpty

USAGE
    wslpty <port> [flags]

Connects to the frontend on <port>, starts a shell on a new PTY, and
relays terminal I/O, window size, and the foreground process name and
working directory over that connection.

FLAGS
%s
CONFIGURATION
    Settings are read from built-in defaults, then the file named by
    --config or $%s, then %s_* environment variables
    (%s_SHELL, %s_POLL_INTERVAL, ...), then flags.
`, flagSet.FlagUsages(), config.FileVariable, config.EnvironmentPrefix, config.EnvironmentPrefix, config.EnvironmentPrefix)
}
