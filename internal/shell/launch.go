package shell

import (
	"errors"
	"fmt"

	"jobshell/internal/jobs"
	"jobshell/internal/proc"
)

// launch starts argv as a new job. The gate stays blocked from before the
// spawn until the job is in the table, so the reaper can never collect a child
// the table does not know about yet.
func (s *Shell) launch(argv []string, cmdline string, background bool) error {
	state := jobs.Foreground
	stdio := s.stdio
	if background {
		state = jobs.Background
		stdio.In = nil
	}

	s.gate.block()
	defer s.gate.unblock()

	pid, err := s.ctl.Start(argv, stdio)
	if errors.Is(err, proc.ErrNotFound) {
		return err
	} else if err != nil {
		return fmt.Errorf("launch: %w", err)
	}

	job, err := s.jobs.Add(pid, state, cmdline)
	if err != nil {
		// The process keeps running untracked.
		s.logger.Warn("job not tracked", "pid", pid, "cmd", cmdline, "err", err)
		return err
	}

	s.metrics.RecordLaunch()
	s.observeJobs()
	s.logger.Debug("added job", "jid", job.ID, "pid", job.PID, "state", job.State, "cmd", job.Command)

	if background {
		fmt.Fprintf(s.out, "[%d] (%d) %s\n", job.ID, job.PID, job.Command)
		return nil
	}

	s.waitForeground(job.PID)

	return nil
}
