// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package terminal

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"unicode/utf8"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// procRoot is where per-process information is read from.
const procRoot = "/proc"

// Start allocates a PTY, configures it, and starts the shell on it.
func Start(options Options) (*Session, error) {
	workingDirectory, err := ResolveWorkingDirectory(options.WorkingDirectory, os.Getenv("HOME"))
	if err != nil {
		return nil, err
	}
	shell := ResolveShell(options.Shell)

	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("allocate PTY: %w", err)
	}
	// The child holds its own copies of the slave after Start.
	defer slave.Close()

	if err := pty.Setsize(master, &pty.Winsize{Cols: options.Columns, Rows: options.Rows}); err != nil {
		master.Close()
		return nil, fmt.Errorf("set initial window size %dx%d: %w", options.Columns, options.Rows, err)
	}
	if err := configureDiscipline(slave); err != nil {
		master.Close()
		return nil, fmt.Errorf("configure line discipline on %s: %w", slave.Name(), err)
	}

	command := exec.Command(shell)
	command.Dir = workingDirectory
	command.Env = options.Environment
	command.Stdin = slave
	command.Stdout = slave
	command.Stderr = slave
	command.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0, // fd 0 in the child is the slave
	}
	if err := command.Start(); err != nil {
		master.Close()
		return nil, fmt.Errorf("start shell %s: %w", shell, err)
	}

	session := &Session{
		master:  master,
		command: command,
		exited:  make(chan struct{}),
	}
	go session.watch()
	return session, nil
}

// configureDiscipline applies the termios settings of an interactive
// terminal to the PTY slave.
func configureDiscipline(slave *os.File) error {
	termios := unix.Termios{
		Iflag:  unix.ICRNL | unix.IXON | unix.IXANY | unix.IMAXBEL | unix.BRKINT | unix.IUTF8,
		Oflag:  unix.OPOST | unix.ONLCR,
		Cflag:  unix.CREAD | unix.CS8 | unix.HUPCL | unix.B38400,
		Lflag:  unix.ICANON | unix.ISIG | unix.IEXTEN | unix.ECHO | unix.ECHOE | unix.ECHOK | unix.ECHOKE | unix.ECHOCTL,
		Ispeed: unix.B38400,
		Ospeed: unix.B38400,
	}
	termios.Cc[unix.VEOF] = 4      // ^D
	termios.Cc[unix.VEOL] = 0xff   // disabled
	termios.Cc[unix.VEOL2] = 0xff  // disabled
	termios.Cc[unix.VERASE] = 0x7f // DEL
	termios.Cc[unix.VWERASE] = 23  // ^W
	termios.Cc[unix.VKILL] = 21    // ^U
	termios.Cc[unix.VREPRINT] = 18 // ^R
	termios.Cc[unix.VINTR] = 3     // ^C
	termios.Cc[unix.VQUIT] = 0x1c  // ^\
	termios.Cc[unix.VSUSP] = 26    // ^Z
	termios.Cc[unix.VSTART] = 17   // ^Q
	termios.Cc[unix.VSTOP] = 19    // ^S
	termios.Cc[unix.VLNEXT] = 22   // ^V
	termios.Cc[unix.VDISCARD] = 15 // ^O
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	return control(slave, func(fd int) error {
		return unix.IoctlSetTermios(fd, unix.TCSETS, &termios)
	})
}

// control runs f with the file's descriptor without switching the file
// to blocking mode (os.File.Fd would), so that closing the master still
// interrupts a pending Read.
func control(file *os.File, f func(fd int) error) error {
	rawConn, err := file.SyscallConn()
	if err != nil {
		return err
	}
	var operationErr error
	if err := rawConn.Control(func(fd uintptr) {
		operationErr = f(int(fd))
	}); err != nil {
		return err
	}
	return operationErr
}

// Resize sets the terminal window size.
func (s *Session) Resize(columns, rows uint16) error {
	if err := pty.Setsize(s.master, &pty.Winsize{Cols: columns, Rows: rows}); err != nil {
		return fmt.Errorf("resize terminal to %dx%d: %w", columns, rows, err)
	}
	return nil
}

// foregroundProcessGroup returns the id of the terminal's foreground
// process group, which is also the pid of the group leader.
func (s *Session) foregroundProcessGroup() (int, error) {
	var group int
	err := control(s.master, func(fd int) error {
		var ioctlErr error
		group, ioctlErr = unix.IoctlGetInt(fd, unix.TIOCGPGRP)
		return ioctlErr
	})
	if err != nil {
		return 0, fmt.Errorf("query foreground process group: %w", err)
	}
	return group, nil
}

// ForegroundProcessName returns the command name (argv[0]) of the
// terminal's foreground process group leader.
func (s *Session) ForegroundProcessName() (string, error) {
	group, err := s.foregroundProcessGroup()
	if err != nil {
		return "", err
	}
	cmdline, err := os.ReadFile(filepath.Join(procRoot, strconv.Itoa(group), "cmdline"))
	if err != nil {
		return "", fmt.Errorf("read command line of process %d: %w", group, err)
	}
	return parseCommandName(cmdline)
}

// ForegroundWorkingDirectory returns the working directory of the
// terminal's foreground process group leader.
func (s *Session) ForegroundWorkingDirectory() (string, error) {
	group, err := s.foregroundProcessGroup()
	if err != nil {
		return "", err
	}
	directory, err := os.Readlink(filepath.Join(procRoot, strconv.Itoa(group), "cwd"))
	if err != nil {
		return "", fmt.Errorf("read working directory of process %d: %w", group, err)
	}
	if !utf8.ValidString(directory) {
		return "", fmt.Errorf("working directory of process %d is not valid UTF-8", group)
	}
	return directory, nil
}

// parseCommandName extracts argv[0] from the NUL-separated contents of
// /proc/<pid>/cmdline.
func parseCommandName(cmdline []byte) (string, error) {
	if index := bytes.IndexByte(cmdline, 0); index >= 0 {
		cmdline = cmdline[:index]
	}
	if !utf8.Valid(cmdline) {
		return "", fmt.Errorf("command name %q is not valid UTF-8", cmdline)
	}
	return string(cmdline), nil
}
