//go:build linux

package shell

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
	"jobshell/internal/config"
	"jobshell/internal/history"
	"jobshell/internal/jobs"
	"jobshell/internal/metrics"
	"jobshell/internal/proc"
)

// Wait statuses in the Linux encoding.
func exited(code int) unix.WaitStatus { return unix.WaitStatus(code << 8) }
func signaled(sig unix.Signal) unix.WaitStatus { return unix.WaitStatus(sig) }
func stopped(sig unix.Signal) unix.WaitStatus { return unix.WaitStatus(int(sig)<<8 | 0x7f) }

type sentSignal struct {
	group proc.Group
	sig   unix.Signal
}

// fakeController starts nothing. Pids are handed out from 100 and status
// changes are replayed from a queue filled with push.
type fakeController struct {
	mu       sync.Mutex
	nextPID  int
	started  [][]string
	startErr error
	changes  []proc.Change
	signals  []sentSignal
}

func newFakeController() *fakeController {
	return &fakeController{nextPID: 100}
}

func (f *fakeController) Start(argv []string, _ proc.Stdio) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.started = append(f.started, argv)
	if f.startErr != nil {
		return 0, f.startErr
	}

	pid := f.nextPID
	f.nextPID++

	return pid, nil
}

func (f *fakeController) Wait() (proc.Change, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.changes) == 0 {
		return proc.Change{}, false, nil
	}

	change := f.changes[0]
	f.changes = f.changes[1:]

	return change, true, nil
}

func (f *fakeController) Signal(group proc.Group, sig unix.Signal) error {
	if group <= 0 {
		return proc.ErrNoGroup
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.signals = append(f.signals, sentSignal{group: group, sig: sig})

	return nil
}

func (f *fakeController) push(pid int, status unix.WaitStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.changes = append(f.changes, proc.Change{PID: pid, Status: status})
}

func (f *fakeController) sent() []sentSignal {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]sentSignal(nil), f.signals...)
}

func (f *fakeController) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.started)
}

// syncBuffer is written by the main flow and read by the test goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf.Reset()
}

// scriptReader feeds fixed lines to the read-evaluate loop. "^C" stands for
// an interrupt at the prompt.
type scriptReader struct {
	lines []string
	saved []string
}

func (r *scriptReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}

	line := r.lines[0]
	r.lines = r.lines[1:]

	if line == "^C" {
		return "", readline.ErrInterrupt
	}

	return line, nil
}

func (r *scriptReader) SaveHistory(content string) error {
	r.saved = append(r.saved, content)
	return nil
}

func (r *scriptReader) Close() error {
	return nil
}

func newTestShell(t *testing.T, ctl proc.Controller, maxJobs int, lines ...string) (*Shell, *syncBuffer) {
	t.Helper()

	cfg := &config.Config{
		HomeDir: t.TempDir(),
		Prompt:  config.DefaultPrompt,
		MaxJobs: maxJobs,
	}

	hist, err := history.New(filepath.Join(t.TempDir(), "history"))
	require.NoError(t, err)

	s := newShell(
		cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NewCollector(),
		&scriptReader{lines: lines},
		ctl,
		hist,
	)

	out := &syncBuffer{}
	s.out = out
	s.exit = func(code int) {
		t.Errorf("unexpected exit with code %d", code)
	}

	return s, out
}

func executeAsync(s *Shell, line string) <-chan error {
	done := make(chan error, 1)
	go func() { done <- s.Execute(line) }()
	return done
}

func requireDone(t *testing.T, done <-chan error) {
	t.Helper()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("command did not return")
	}
}

func requireBlocked(t *testing.T, done <-chan error) {
	t.Helper()

	select {
	case err := <-done:
		t.Fatalf("command returned while its job is in the foreground: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
}

func jobState(s *Shell, pid int) (jobs.State, bool) {
	for _, job := range s.ListJobs() {
		if job.PID == pid {
			return job.State, true
		}
	}
	return jobs.Undefined, false
}

func waitForState(t *testing.T, s *Shell, pid int, state jobs.State) {
	t.Helper()

	require.Eventually(t, func() bool {
		got, ok := jobState(s, pid)
		return ok && got == state
	}, 5*time.Second, 5*time.Millisecond)
}

func addJob(t *testing.T, s *Shell, pid int, state jobs.State, cmdline string) jobs.Job {
	t.Helper()

	s.gate.block()
	defer s.gate.unblock()

	job, err := s.jobs.Add(pid, state, cmdline)
	require.NoError(t, err)

	return job
}

func foregroundJobs(s *Shell) int {
	n := 0
	for _, job := range s.ListJobs() {
		if job.State == jobs.Foreground {
			n++
		}
	}
	return n
}
