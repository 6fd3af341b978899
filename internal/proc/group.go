//go:build unix

package proc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Group is a process group id. Jobs are started as group leaders, so a job's
// pid is also its Group.
//
// Signalling through Group rather than kill(-pid) keeps group 0, which the
// kernel reads as "the caller's own group", from ever reaching the shell.
type Group int

// Signal delivers sig to every process in the group.
func (g Group) Signal(sig unix.Signal) error {
	if g <= 0 {
		return ErrNoGroup
	}

	if err := unix.Kill(-int(g), sig); err != nil {
		return fmt.Errorf("signal group %d with %s: %w", int(g), unix.SignalName(sig), err)
	}

	return nil
}
