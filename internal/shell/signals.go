package shell

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"jobshell/internal/jobs"
	"jobshell/internal/proc"
)

// notifications holds one channel per signal kind. Each has room for a single
// pending signal: a second delivery while one is pending carries no extra
// information, since every handler run looks at the current state.
type notifications struct {
	child     chan os.Signal
	interrupt chan os.Signal
	suspend   chan os.Signal
	quit      chan os.Signal
}

func newNotifications() *notifications {
	return &notifications{
		child:     make(chan os.Signal, 1),
		interrupt: make(chan os.Signal, 1),
		suspend:   make(chan os.Signal, 1),
		quit:      make(chan os.Signal, 1),
	}
}

func (n *notifications) stop() {
	signal.Stop(n.child)
	signal.Stop(n.interrupt)
	signal.Stop(n.suspend)
	signal.Stop(n.quit)
}

func (s *Shell) setupSignalHandling() *notifications {
	n := newNotifications()

	signal.Notify(n.child, unix.SIGCHLD)
	signal.Notify(n.interrupt, unix.SIGINT)
	signal.Notify(n.suspend, unix.SIGTSTP)
	signal.Notify(n.quit, unix.SIGQUIT)

	return n
}

// handleSignals runs the handlers one at a time until ctx is done, so no
// handler is ever re-entered.
func (s *Shell) handleSignals(ctx context.Context, n *notifications) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-n.child:
			s.reap()
		case <-n.interrupt:
			s.relay(unix.SIGINT)
		case <-n.suspend:
			s.relay(unix.SIGTSTP)
		case <-n.quit:
			s.terminate()
		}
	}
}

// reap collects every pending child status change without blocking and
// applies it to the job table.
func (s *Shell) reap() {
	s.gate.block()
	defer s.gate.unblock()

	changed := false

	for {
		change, ok, err := s.ctl.Wait()
		if err != nil {
			s.logger.Error("collect child status", "err", err)
			break
		}

		if !ok {
			break
		}

		s.applyChange(change)
		changed = true
	}

	if changed {
		s.observeJobs()
		s.gate.broadcast()
	}
}

// applyChange must be called with the gate blocked.
func (s *Shell) applyChange(change proc.Change) {
	job, tracked := s.jobs.ByPID(change.PID)
	status := change.Status

	switch {
	case status.Exited():
		s.jobs.Remove(change.PID)
		s.metrics.RecordReap("exited")
		s.logger.Debug("job exited", "jid", job.ID, "pid", change.PID, "code", status.ExitStatus(), "tracked", tracked)

	case status.Signaled():
		s.jobs.Remove(change.PID)
		s.metrics.RecordReap("signaled")
		s.logger.Debug("job terminated", "jid", job.ID, "pid", change.PID, "signal", status.Signal(), "tracked", tracked)

		if tracked {
			s.queueNotice(Notice{kind: noticeTerminated, JobID: job.ID, PID: job.PID, Signal: status.Signal()})
		}

	case status.Stopped():
		if !tracked {
			s.logger.Warn("untracked process stopped", "pid", change.PID, "signal", status.StopSignal())
			return
		}

		if err := s.jobs.SetState(change.PID, jobs.Stopped); err != nil {
			s.logger.Error("mark job stopped", "jid", job.ID, "err", err)
			return
		}

		s.metrics.RecordStop()
		s.queueNotice(Notice{kind: noticeStopped, JobID: job.ID, PID: job.PID, Signal: status.StopSignal()})
	}
}

// relay forwards a terminal signal to the process group of the foreground
// job. Without a foreground job it does nothing.
func (s *Shell) relay(sig unix.Signal) {
	s.gate.block()
	defer s.gate.unblock()

	pid, ok := s.jobs.ForegroundPID()
	if !ok {
		s.logger.Debug("no foreground job", "signal", unix.SignalName(sig))
		return
	}

	if err := s.ctl.Signal(proc.Group(pid), sig); err != nil {
		s.logger.Warn("forward signal", "pid", pid, "signal", unix.SignalName(sig), "err", err)
		return
	}

	s.metrics.RecordForward(unix.SignalName(sig))
}

func (s *Shell) terminate() {
	fmt.Fprintln(s.out, "Terminating after receipt of SIGQUIT signal")
	s.exit(1)
}
