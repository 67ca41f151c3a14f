package terminal

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/creack/pty"

	"github.com/noirtty/noirtty-server/internal/logger"
	"github.com/noirtty/noirtty-server/internal/recovery"
)

const (
	defaultCols = 80
	defaultRows = 24
)

// candidateShells is consulted, in order, when $SHELL is unset or does not
// exist on disk.
var candidateShells = []string{
	"/bin/zsh", "/usr/bin/zsh",
	"/bin/bash", "/usr/bin/bash",
	"/bin/sh", "/usr/bin/sh",
}

// resolveShell picks the login shell to spawn: $SHELL if it names an
// existing file, otherwise the first existing candidate, otherwise /bin/sh.
func resolveShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		if _, err := os.Stat(sh); err == nil {
			return sh
		}
	}
	for _, sh := range candidateShells {
		if _, err := os.Stat(sh); err == nil {
			return sh
		}
	}
	return "/bin/sh"
}

// shellArgs returns the invocation flags for a shell, keyed by basename.
func shellArgs(shell string) []string {
	switch filepath.Base(shell) {
	case "zsh", "bash", "fish":
		return []string{"-l", "-i"}
	case "sh":
		return []string{"-i"}
	default:
		return nil
	}
}

func shellEnv() []string {
	env := append([]string{}, os.Environ()...)
	env = append(env, "TERM=xterm-256color", "COLORTERM=truecolor", "LANG=en_US.UTF-8")
	hasPath := false
	for _, e := range env {
		if len(e) >= 5 && e[:5] == "PATH=" {
			hasPath = true
			break
		}
	}
	if !hasPath {
		env = append(env, "PATH=/usr/local/bin:/usr/bin:/bin:/usr/sbin:/sbin")
	}
	return env
}

// PTYHost owns one PTY master/slave pair and one shell child process for a
// single session.
type PTYHost struct {
	id     SessionId
	cmd    *exec.Cmd
	master *os.File

	readerDone  chan struct{}
	controlDone chan struct{}
}

// ReaderDone is closed once the PTY reader loop returns (EOF or error):
// normal termination for the session.
func (h *PTYHost) ReaderDone() <-chan struct{} { return h.readerDone }

// ControlDone is closed once the control loop returns (its input channel
// was closed, or a write failed).
func (h *PTYHost) ControlDone() <-chan struct{} { return h.controlDone }

// StartPTYHost spawns the shell behind a fresh PTY and wires its reader
// output into the emulator loop's command queue. The caller owns lifecycle
// sequencing via ReaderDone/ControlDone/Wait/Close (see Session).
func StartPTYHost(id SessionId, termQueue chan<- TermCommand, ptyQueue <-chan PtyCommand) (*PTYHost, error) {
	shell := resolveShell()
	cmd := exec.Command(shell, shellArgs(shell)...)
	cmd.Env = shellEnv()

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: defaultRows, Cols: defaultCols})
	if err != nil {
		logger.Errorf("session %s: failed to spawn shell %s: %v", id, shell, err)
		return nil, err
	}

	host := &PTYHost{
		id:          id,
		cmd:         cmd,
		master:      f,
		readerDone:  make(chan struct{}),
		controlDone: make(chan struct{}),
	}
	logger.Infof("session %s: spawned shell %s (pid %d)", id, shell, cmd.Process.Pid)

	recovery.SafeGoWithCleanup("pty-reader:"+string(id), func() {
		host.readLoop(termQueue)
	}, func() {
		close(host.readerDone)
	})

	recovery.SafeGoWithCleanup("pty-control:"+string(id), func() {
		host.controlLoop(ptyQueue, termQueue)
	}, func() {
		close(host.controlDone)
	})

	return host, nil
}

// readLoop reads up to 4KiB at a time from the master and forwards each
// buffer as a Data TermCommand. EOF and read errors end the loop, which is
// normal session termination.
func (h *PTYHost) readLoop(termQueue chan<- TermCommand) {
	buf := make([]byte, 4096)
	for {
		n, err := h.master.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			termQueue <- NewTermData(chunk)
		}
		if err != nil {
			logger.Debugf("session %s: PTY reader exiting: %v", h.id, err)
			return
		}
	}
}

// controlLoop services PtyCommands: writes Data to the master (retrying
// short writes), resizes the master and relays Resize/Scroll to the
// emulator loop. Write failure terminates the loop.
func (h *PTYHost) controlLoop(ptyQueue <-chan PtyCommand, termQueue chan<- TermCommand) {
	for cmd := range ptyQueue {
		switch cmd.Kind {
		case PtyData:
			if err := writeAll(h.master, cmd.Data); err != nil {
				logger.Warnf("session %s: PTY write failed, ending session: %v", h.id, err)
				return
			}
		case PtyResize:
			if err := pty.Setsize(h.master, &pty.Winsize{Rows: cmd.Rows, Cols: cmd.Cols}); err != nil {
				logger.Warnf("session %s: PTY resize failed: %v", h.id, err)
			}
			termQueue <- NewTermResize(cmd.Cols, cmd.Rows)
		case PtyScroll:
			termQueue <- NewTermScroll(cmd.Delta)
		}
	}
}

func writeAll(w *os.File, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Close releases the PTY master. The child process is not signalled: the
// session persists until the shell exits on its own, enabling reattach.
func (h *PTYHost) Close() error {
	return h.master.Close()
}

// Wait blocks until the shell process exits.
func (h *PTYHost) Wait() error {
	return h.cmd.Wait()
}
