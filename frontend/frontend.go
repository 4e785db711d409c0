// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package frontend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os/exec"
	"slices"
	"strconv"
	"sync"

	"github.com/wslpty/wslpty/lib/frame"
	"github.com/wslpty/wslpty/lib/netutil"
)

// ErrClosed is returned by Write and Resize after the session has ended.
var ErrClosed = errors.New("frontend: session closed")

// Defaults applied when the corresponding Options field is zero.
const (
	DefaultAddress           = "127.0.0.1:0"
	DefaultColumns           = 80
	DefaultRows              = 30
	DefaultOutputQueueLength = 64

	readBufferSize = 8192
)

// Options configures a Frontend.
type Options struct {
	// Address is the TCP address to listen on.
	Address string

	// Columns and Rows are the initial window size passed to the
	// backend.
	Columns uint16
	Rows    uint16

	// WorkingDirectory and Shell are passed to the backend as --cwd and
	// --shell when set. WorkingDirectory is also the initial value of Cwd.
	WorkingDirectory string
	Shell            string

	// Command is the backend command line, to which the port and the
	// flags above are appended. Empty means the caller starts the
	// backend itself and points it at Port.
	Command []string

	// Environment is the backend's environment. Nil inherits this
	// process's environment.
	Environment []string

	// BackendStderr receives the backend's standard error. Nil discards
	// it.
	BackendStderr io.Writer

	// Logger receives structured log output. If nil, slog.Default() is
	// used.
	Logger *slog.Logger

	// OutputQueueLength is the capacity of the Output channel.
	OutputQueueLength int
}

// Snapshot is the foreground process state reported by the backend.
type Snapshot struct {
	Process string
	Cwd     string
}

// Frontend is one session with one backend.
type Frontend struct {
	logger   *slog.Logger
	listener net.Listener
	backend  *exec.Cmd

	backendExited chan struct{}
	output        chan []byte
	changes       chan Snapshot
	done          chan struct{}

	// writeMu serializes writes to the connection and guards pending.
	writeMu sync.Mutex
	pending [][]byte

	mu         sync.Mutex
	connection net.Conn
	finished   bool
	err        error
	columns    uint16
	rows       uint16
	process    string
	cwd        string
}

// Listen binds the listening socket, launches the backend if
// options.Command is set, and returns without waiting for it to connect.
// Cancelling ctx closes the session.
func Listen(ctx context.Context, options Options) (*Frontend, error) {
	if options.Address == "" {
		options.Address = DefaultAddress
	}
	if options.Columns == 0 {
		options.Columns = DefaultColumns
	}
	if options.Rows == 0 {
		options.Rows = DefaultRows
	}
	if options.OutputQueueLength <= 0 {
		options.OutputQueueLength = DefaultOutputQueueLength
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var listenConfig net.ListenConfig
	listener, err := listenConfig.Listen(ctx, "tcp", options.Address)
	if err != nil {
		return nil, fmt.Errorf("frontend: listen on %s: %w", options.Address, err)
	}

	f := &Frontend{
		logger:        logger.With("listen_addr", listener.Addr().String()),
		listener:      listener,
		backendExited: make(chan struct{}),
		output:        make(chan []byte, options.OutputQueueLength),
		changes:       make(chan Snapshot, 1),
		done:          make(chan struct{}),
		columns:       options.Columns,
		rows:          options.Rows,
		cwd:           options.WorkingDirectory,
	}

	if len(options.Command) > 0 {
		if err := f.launch(options); err != nil {
			listener.Close()
			return nil, err
		}
	} else {
		close(f.backendExited)
	}

	go f.acceptLoop()
	go func() {
		select {
		case <-ctx.Done():
			f.Close()
		case <-f.done:
		}
	}()

	return f, nil
}

// BackendArgs returns the arguments the backend is launched with after
// options.Command.
func BackendArgs(port int, options Options) []string {
	args := []string{
		strconv.Itoa(port),
		"--cols", strconv.Itoa(int(options.Columns)),
		"--rows", strconv.Itoa(int(options.Rows)),
	}
	if options.WorkingDirectory != "" {
		args = append(args, "--cwd", options.WorkingDirectory)
	}
	if options.Shell != "" {
		args = append(args, "--shell", options.Shell)
	}
	return args
}

func (f *Frontend) launch(options Options) error {
	args := append(slices.Clone(options.Command[1:]), BackendArgs(f.Port(), options)...)
	command := exec.Command(options.Command[0], args...)
	command.Env = options.Environment
	command.Stderr = options.BackendStderr
	if err := command.Start(); err != nil {
		return fmt.Errorf("frontend: start backend %s: %w", options.Command[0], err)
	}
	f.backend = command
	f.logger.Debug("backend started", "pid", command.Process.Pid, "args", args)

	go func() {
		waitErr := command.Wait()
		close(f.backendExited)

		f.mu.Lock()
		connected := f.connection != nil
		f.mu.Unlock()
		if connected {
			f.logger.Debug("backend exited", "error", waitErr)
			return
		}
		if waitErr == nil {
			waitErr = errors.New("exit status 0")
		}
		f.finish(fmt.Errorf("frontend: backend exited before connecting: %w", waitErr))
	}()
	return nil
}

// Addr returns the listening address.
func (f *Frontend) Addr() net.Addr { return f.listener.Addr() }

// Port returns the listening TCP port.
func (f *Frontend) Port() int {
	if address, ok := f.listener.Addr().(*net.TCPAddr); ok {
		return address.Port
	}
	return 0
}

// acceptLoop accepts the session's connection and closes every later one.
func (f *Frontend) acceptLoop() {
	for {
		connection, err := f.listener.Accept()
		if err != nil {
			if f.isFinished() {
				return
			}
			f.finish(fmt.Errorf("frontend: accept: %w", err))
			return
		}
		if err := f.attach(connection); err != nil {
			f.logger.Warn("refusing connection",
				"remote_addr", connection.RemoteAddr(),
				"reason", err,
			)
			connection.Close()
		}
	}
}

// attach makes connection the session's connection and flushes queued
// frames to it.
func (f *Frontend) attach(connection net.Conn) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.Lock()
	switch {
	case f.finished:
		f.mu.Unlock()
		return ErrClosed
	case f.connection != nil:
		f.mu.Unlock()
		return errors.New("backend already connected")
	}
	f.connection = connection
	f.mu.Unlock()

	if tcpConnection, ok := connection.(*net.TCPConn); ok {
		tcpConnection.SetNoDelay(true)
	}
	f.logger.Info("backend connected", "remote_addr", connection.RemoteAddr())

	go f.readLoop(connection)

	for _, encoded := range f.pending {
		if _, err := connection.Write(encoded); err != nil {
			f.finish(fmt.Errorf("frontend: flushing queued frames: %w", err))
			break
		}
	}
	f.pending = nil
	return nil
}

// Write sends data to the terminal. Data longer than
// frame.MaxPayloadLength goes out as several consecutive Data frames.
func (f *Frontend) Write(data []byte) error {
	for len(data) > frame.MaxPayloadLength {
		if err := f.send(frame.Data(data[:frame.MaxPayloadLength])); err != nil {
			return err
		}
		data = data[frame.MaxPayloadLength:]
	}
	return f.send(frame.Data(data))
}

// Resize changes the terminal's window size.
func (f *Frontend) Resize(columns, rows uint16) error {
	f.mu.Lock()
	f.columns, f.rows = columns, rows
	f.mu.Unlock()
	return f.send(frame.Size{Columns: columns, Rows: rows})
}

func (f *Frontend) send(message frame.Frame) error {
	encoded := frame.Encode(message)

	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.Lock()
	finished, connection := f.finished, f.connection
	f.mu.Unlock()

	if finished {
		return ErrClosed
	}
	if connection == nil {
		f.pending = append(f.pending, encoded)
		return nil
	}
	if _, err := connection.Write(encoded); err != nil {
		if netutil.IsEndOfStream(err) {
			return ErrClosed
		}
		return fmt.Errorf("frontend: sending %v frame: %w", message.Type(), err)
	}
	return nil
}

// readLoop decodes frames from the backend until the connection ends.
func (f *Frontend) readLoop(connection net.Conn) {
	defer close(f.output)

	var decoder frame.Decoder
	var pending bytes.Buffer
	buffer := make([]byte, readBufferSize)
	for {
		n, err := connection.Read(buffer)
		if n > 0 {
			pending.Write(buffer[:n])
			if decodeErr := f.dispatch(&decoder, &pending); decodeErr != nil {
				f.finish(fmt.Errorf("frontend: %w", decodeErr))
				return
			}
		}
		if err == nil || netutil.IsInterrupted(err) {
			continue
		}
		if netutil.IsEndOfStream(err) || f.isFinished() {
			f.finish(nil)
			return
		}
		f.finish(fmt.Errorf("frontend: reading from backend: %w", err))
		return
	}
}

// dispatch handles every complete frame in pending.
func (f *Frontend) dispatch(decoder *frame.Decoder, pending *bytes.Buffer) error {
	for {
		decoded, err := decoder.Decode(pending)
		if err != nil {
			return err
		}
		if decoded == nil {
			return nil
		}

		switch message := decoded.(type) {
		case frame.Data:
			select {
			case f.output <- message:
			case <-f.done:
				return nil
			}
		case frame.Name:
			f.update(func(snapshot *Snapshot) { snapshot.Process = string(message) })
		case frame.Cwd:
			f.update(func(snapshot *Snapshot) { snapshot.Cwd = string(message) })
		case frame.Size:
			// The backend never sends its size.
		}
	}
}

// update applies change to the foreground state and publishes the
// result, replacing a snapshot nobody has received yet.
func (f *Frontend) update(change func(*Snapshot)) {
	f.mu.Lock()
	snapshot := Snapshot{Process: f.process, Cwd: f.cwd}
	change(&snapshot)
	f.process, f.cwd = snapshot.Process, snapshot.Cwd
	f.mu.Unlock()

	for {
		select {
		case f.changes <- snapshot:
			return
		default:
		}
		select {
		case <-f.changes:
		default:
		}
	}
}

// Output delivers terminal output. It is closed when the session ends.
func (f *Frontend) Output() <-chan []byte { return f.output }

// Changes delivers the foreground state each time the backend reports a
// new process name or working directory. Only the latest snapshot is
// kept.
func (f *Frontend) Changes() <-chan Snapshot { return f.changes }

// Process returns the name of the terminal's foreground process, or ""
// before the backend has reported one.
func (f *Frontend) Process() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.process
}

// Cwd returns the working directory of the terminal's foreground
// process.
func (f *Frontend) Cwd() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cwd
}

// Size returns the window size most recently requested.
func (f *Frontend) Size() (columns, rows uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.columns, f.rows
}

// Done is closed when the session has ended.
func (f *Frontend) Done() <-chan struct{} { return f.done }

// Err returns why the session ended: nil after a clean end of stream or
// Close, an error otherwise. It is only meaningful once Done is closed.
func (f *Frontend) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close ends the session, closes the listener and the connection, and
// kills the backend if it is still running.
func (f *Frontend) Close() error {
	f.finish(nil)
	<-f.backendExited
	return nil
}

func (f *Frontend) isFinished() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finished
}

// finish records the session's outcome and releases its resources. Only
// the first call has any effect.
func (f *Frontend) finish(err error) {
	f.mu.Lock()
	if f.finished {
		f.mu.Unlock()
		return
	}
	f.finished = true
	f.err = err
	connection := f.connection
	close(f.done)
	f.mu.Unlock()

	if err != nil {
		f.logger.Error("session failed", "error", err)
	} else {
		f.logger.Info("session ended")
	}

	f.listener.Close()
	if connection != nil {
		connection.Close()
	} else {
		// No reader was started, so nothing else will close Output.
		close(f.output)
	}

	if f.backend != nil {
		select {
		case <-f.backendExited:
		default:
			f.backend.Process.Kill()
		}
	}
}
