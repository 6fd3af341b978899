//go:build linux

package shell

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
	"jobshell/internal/jobs"
	"jobshell/internal/proc"
)

// reapUntil runs the reaper until cond holds, standing in for SIGCHLD.
func reapUntil(t *testing.T, s *Shell, cond func() bool) {
	t.Helper()

	require.Eventually(t, func() bool {
		s.reap()
		return cond()
	}, 10*time.Second, 10*time.Millisecond)
}

func reapUntilDone(t *testing.T, s *Shell, done <-chan error) {
	t.Helper()

	var err error
	reapUntil(t, s, func() bool {
		select {
		case err = <-done:
			return true
		default:
			return false
		}
	})
	require.NoError(t, err)
}

func TestProcessJobControl(t *testing.T) {
	s, out := newTestShell(t, proc.OS{}, 0)

	done := executeAsync(s, "sleep 30")

	var job jobs.Job
	require.Eventually(t, func() bool {
		list := s.ListJobs()
		if len(list) != 1 {
			return false
		}
		job = list[0]
		return true
	}, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, jobs.Foreground, job.State)
	assert.Equal(t, 1, job.ID)

	pgid, err := unix.Getpgid(job.PID)
	require.NoError(t, err)
	assert.Equal(t, job.PID, pgid)

	// Ctrl-Z.
	s.relay(unix.SIGTSTP)
	reapUntilDone(t, s, done)

	state, ok := jobState(s, job.PID)
	require.True(t, ok)
	assert.Equal(t, jobs.Stopped, state)

	s.flushNotices()
	assert.Contains(t, out.String(), "stopped by signal 20")
	out.Reset()

	require.NoError(t, s.Execute("bg %1"))
	assert.Equal(t, fmt.Sprintf("[1] (%d) sleep 30\n", job.PID), out.String())
	waitForState(t, s, job.PID, jobs.Background)

	require.NoError(t, proc.Group(job.PID).Signal(unix.SIGKILL))
	reapUntil(t, s, func() bool { return len(s.ListJobs()) == 0 })

	s.flushNotices()
	assert.Contains(t, out.String(), "terminated by signal 9")
}

func TestProcessForegroundExit(t *testing.T) {
	s, out := newTestShell(t, proc.OS{}, 0)

	done := executeAsync(s, "sh -c 'exit 0'")
	reapUntilDone(t, s, done)

	assert.Empty(t, s.ListJobs())
	s.flushNotices()
	assert.Empty(t, out.String())
}

func TestProcessInterruptForeground(t *testing.T) {
	s, out := newTestShell(t, proc.OS{}, 0)

	done := executeAsync(s, "sleep 30")
	require.Eventually(t, func() bool { return foregroundJobs(s) == 1 }, 5*time.Second, 5*time.Millisecond)

	// Ctrl-C.
	s.relay(unix.SIGINT)
	reapUntilDone(t, s, done)

	assert.Empty(t, s.ListJobs())
	s.flushNotices()
	assert.Contains(t, out.String(), "terminated by signal 2")
}

func TestProcessCommandNotFound(t *testing.T) {
	s, _ := newTestShell(t, proc.OS{}, 0)

	err := s.Execute("jobshell-no-such-program arg")
	require.ErrorIs(t, err, proc.ErrNotFound)
	assert.Equal(t, "jobshell-no-such-program: command not found", err.Error())
	assert.Empty(t, s.ListJobs())
}
