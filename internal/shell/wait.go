package shell

import "jobshell/internal/jobs"

// waitForeground blocks until the job with the given pid is no longer in the
// foreground, because the reaper removed it or marked it stopped.
//
// The gate must be blocked. It is released while waiting and woken by the
// reaper, so no status change can slip in between the check and the wait.
func (s *Shell) waitForeground(pid int) {
	for {
		job, ok := s.jobs.ByPID(pid)
		if !ok || job.State != jobs.Foreground {
			return
		}

		s.gate.suspend()
	}
}
