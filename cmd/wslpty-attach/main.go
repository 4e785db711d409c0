// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/wslpty/wslpty/frontend"
	"github.com/wslpty/wslpty/lib/config"
	"github.com/wslpty/wslpty/lib/process"
	"github.com/wslpty/wslpty/lib/version"
)

const programName = "wslpty-attach"

func main() {
	process.Exit(programName, run(os.Args[1:]))
}

func run(args []string) error {
	var (
		backendPath string
		viaWSL      bool
		cwd         string
		shell       string
		logLevel    string
		backendLog  string
		showVersion bool
		showHelp    bool
	)

	flagSet := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&backendPath, "backend", "", "path to the wslpty backend (default: next to this binary, then $PATH)")
	flagSet.BoolVar(&viaWSL, "wsl", false, "start the backend through wsl.exe")
	flagSet.StringVar(&cwd, "cwd", "", "working directory in which to start the shell")
	flagSet.StringVar(&shell, "shell", "", "shell to run (default: the backend's $SHELL)")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, or error")
	flagSet.StringVar(&backendLog, "backend-log", "", "append the backend's log output to this file")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&showHelp, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return process.Usage("%v", err)
	}
	if showHelp {
		printHelp(flagSet)
		return nil
	}
	if showVersion {
		version.Print(os.Stdout, programName)
		return nil
	}
	if flagSet.NArg() > 0 {
		return process.Usage("unexpected argument: %s", flagSet.Arg(0))
	}

	levelConfig := config.Config{LogLevel: logLevel}
	level, err := levelConfig.Level()
	if err != nil {
		return process.Usage("%w", err)
	}
	logger := config.NewLogger(os.Stderr, level)

	stdin := int(os.Stdin.Fd())
	if !term.IsTerminal(stdin) {
		return process.Usage("standard input is not a terminal")
	}
	// Windows reports the console size only on the output handle.
	sizeFd := stdin
	if stdout := int(os.Stdout.Fd()); term.IsTerminal(stdout) {
		sizeFd = stdout
	}
	columns, rows, err := term.GetSize(sizeFd)
	if err != nil {
		return fmt.Errorf("reading terminal size: %w", err)
	}

	command, err := backendCommand(backendPath, viaWSL)
	if err != nil {
		return err
	}

	var backendStderr io.Writer
	if backendLog != "" {
		logFile, err := os.OpenFile(backendLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening backend log: %w", err)
		}
		defer logFile.Close()
		backendStderr = logFile
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	session, err := frontend.Listen(ctx, frontend.Options{
		Columns:          clampDimension(columns),
		Rows:             clampDimension(rows),
		WorkingDirectory: cwd,
		Shell:            shell,
		Command:          command,
		BackendStderr:    backendStderr,
		Logger:           logger,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	previous, err := term.MakeRaw(stdin)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(stdin, previous)

	return attach(session, os.Stdin, os.Stdout, sizeFd)
}

// attach relays between the session and the local terminal until the
// session ends.
func attach(session *frontend.Frontend, input io.Reader, output io.Writer, terminalFd int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	resized := watchResize(ctx, terminalFd)

	go func() {
		buffer := make([]byte, 4096)
		for {
			n, err := input.Read(buffer)
			if n > 0 {
				if writeErr := session.Write(buffer[:n]); writeErr != nil {
					return
				}
			}
			if err != nil {
				session.Close()
				return
			}
		}
	}()

	for {
		select {
		case data, ok := <-session.Output():
			if !ok {
				<-session.Done()
				return session.Err()
			}
			if _, err := output.Write(data); err != nil {
				return fmt.Errorf("writing to terminal: %w", err)
			}
		case snapshot := <-session.Changes():
			fmt.Fprint(output, titleSequence(snapshot))
		case <-resized:
			columns, rows, err := term.GetSize(terminalFd)
			if err != nil {
				continue
			}
			if err := session.Resize(clampDimension(columns), clampDimension(rows)); err != nil && !errors.Is(err, frontend.ErrClosed) {
				return err
			}
		}
	}
}

// titleSequence returns the xterm escape sequence that sets the window
// title to the foreground process and its working directory.
func titleSequence(snapshot frontend.Snapshot) string {
	title := snapshot.Process
	switch {
	case title == "":
		title = snapshot.Cwd
	case snapshot.Cwd != "":
		title += ": " + snapshot.Cwd
	}
	return "\x1b]0;" + title + "\x07"
}

// backendCommand resolves the command line that starts the backend.
func backendCommand(backendPath string, viaWSL bool) ([]string, error) {
	if backendPath == "" {
		backendPath = defaultBackendPath()
	}
	if viaWSL {
		return []string{"wsl.exe", backendPath}, nil
	}
	resolved, err := exec.LookPath(backendPath)
	if err != nil {
		return nil, fmt.Errorf("backend not found: %w", err)
	}
	return []string{resolved}, nil
}

// defaultBackendPath prefers a wslpty binary installed next to this one.
func defaultBackendPath() string {
	executable, err := os.Executable()
	if err == nil {
		sibling := filepath.Join(filepath.Dir(executable), "wslpty")
		if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
			return sibling
		}
	}
	return "wslpty"
}

func clampDimension(value int) uint16 {
	switch {
	case value < 1:
		return 1
	case value > 0xffff:
		return 0xffff
	default:
		return uint16(value)
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `wslpty-attach - Run a shell through the wslpty backend in this terminal

USAGE
    wslpty-attach [flags]

FLAGS
%s`, flagSet.FlagUsages())
}
