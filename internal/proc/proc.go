//go:build unix

// Package proc starts jobs in their own process groups, collects their status
// changes and delivers signals to them.
package proc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

var (
	ErrNotFound = errors.New("command not found")
	ErrNoGroup  = errors.New("no process group to signal")
)

// Stdio holds the standard streams of a started job. A nil entry is connected
// to the null device.
type Stdio struct {
	In  *os.File
	Out *os.File
	Err *os.File
}

// Change is a status change of a child, as collected by wait4.
type Change struct {
	PID    int
	Status unix.WaitStatus
}

// Controller is the process-level interface the shell drives.
type Controller interface {
	// Start runs argv in a new process group whose id is the returned pid.
	Start(argv []string, stdio Stdio) (int, error)

	// Wait returns the next pending status change of any child without
	// blocking. ok is false when no change is pending.
	Wait() (change Change, ok bool, err error)

	// Signal delivers sig to every process in the group.
	Signal(group Group, sig unix.Signal) error
}

// OS is the Controller backed by the operating system.
type OS struct{}

var _ Controller = OS{}

func (OS) Start(argv []string, stdio Stdio) (int, error) {
	if len(argv) == 0 || argv[0] == "" {
		return 0, errors.New("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)

	// Assigning a nil *os.File would leave the descriptor closed in the
	// child instead of pointing it at the null device.
	if stdio.In != nil {
		cmd.Stdin = stdio.In
	}

	if stdio.Out != nil {
		cmd.Stdout = stdio.Out
	}

	if stdio.Err != nil {
		cmd.Stderr = stdio.Err
	}

	// Terminal signals target the foreground process group. Giving every job
	// its own group keeps them away from the shell and from other jobs.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%s: %w", argv[0], ErrNotFound)
		}

		return 0, fmt.Errorf("start %s: %w", argv[0], err)
	}

	pid := cmd.Process.Pid

	// The child is collected by Wait, never by cmd.Wait, so drop the handle
	// held by os.Process.
	_ = cmd.Process.Release()

	return pid, nil
}

func (OS) Wait() (Change, bool, error) {
	for {
		var status unix.WaitStatus

		pid, err := unix.Wait4(-1, &status, unix.WNOHANG|unix.WUNTRACED, nil)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.ECHILD:
			return Change{}, false, nil
		case err != nil:
			return Change{}, false, fmt.Errorf("wait4: %w", err)
		case pid <= 0:
			return Change{}, false, nil
		}

		return Change{PID: pid, Status: status}, true, nil
	}
}

func (OS) Signal(group Group, sig unix.Signal) error {
	return group.Signal(sig)
}
