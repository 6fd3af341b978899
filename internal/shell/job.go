package shell

import (
	"fmt"

	"golang.org/x/sys/unix"
	"jobshell/internal/jobs"
	"jobshell/internal/proc"
)

// ListJobs returns a snapshot of the job table in slot order.
func (s *Shell) ListJobs() []jobs.Job {
	s.gate.block()
	defer s.gate.unblock()

	return s.jobs.List()
}

func (s *Shell) listJobs() {
	for _, job := range s.ListJobs() {
		fmt.Fprintf(s.out, "[%d] (%d) %s %s\n", job.ID, job.PID, job.State, job.Command)
	}
}

// foreground implements fg: a stopped job is resumed, a background job is
// only marked, then the shell waits for it.
func (s *Shell) foreground(args []string) error {
	ref, err := parseJobRef("fg", args)
	if err != nil {
		return err
	}

	s.gate.block()
	defer s.gate.unblock()

	job, err := s.lookup("fg", ref)
	if err != nil {
		return err
	}

	if job.State == jobs.Stopped {
		if err := s.ctl.Signal(proc.Group(job.PID), unix.SIGCONT); err != nil {
			return fmt.Errorf("fg: resume job %d: %w", job.ID, err)
		}
	}

	if err := s.jobs.SetState(job.PID, jobs.Foreground); err != nil {
		return fmt.Errorf("fg: %w", err)
	}
	s.observeJobs()

	s.waitForeground(job.PID)

	return nil
}

// background implements bg: the job is resumed and left running.
func (s *Shell) background(args []string) error {
	ref, err := parseJobRef("bg", args)
	if err != nil {
		return err
	}

	s.gate.block()
	defer s.gate.unblock()

	job, err := s.lookup("bg", ref)
	if err != nil {
		return err
	}

	if err := s.ctl.Signal(proc.Group(job.PID), unix.SIGCONT); err != nil {
		return fmt.Errorf("bg: resume job %d: %w", job.ID, err)
	}

	if err := s.jobs.SetState(job.PID, jobs.Background); err != nil {
		return fmt.Errorf("bg: %w", err)
	}
	s.observeJobs()

	fmt.Fprintf(s.out, "[%d] (%d) %s\n", job.ID, job.PID, job.Command)

	return nil
}

func parseJobRef(cmd string, args []string) (jobs.Ref, error) {
	if len(args) == 0 {
		return jobs.Ref{}, UsageError{Cmd: cmd}
	}

	ref, err := jobs.ParseRef(args[0])
	if err != nil {
		return jobs.Ref{}, RefSyntaxError{Cmd: cmd, Arg: args[0]}
	}

	return ref, nil
}

// lookup must be called with the gate blocked.
func (s *Shell) lookup(cmd string, ref jobs.Ref) (jobs.Job, error) {
	job, ok := s.jobs.Lookup(ref)
	if ok {
		return job, nil
	}

	if ref.Job {
		return jobs.Job{}, NoSuchJobError{Cmd: cmd, Ref: ref}
	}

	return jobs.Job{}, NoSuchProcessError{PID: ref.N}
}
