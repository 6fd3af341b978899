package shell

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type noticeKind int

const (
	noticeTerminated noticeKind = iota
	noticeStopped
)

// Notice is a job status change reported by the reaper. Notices are queued
// under the gate and printed by the main flow.
type Notice struct {
	kind   noticeKind
	JobID  int
	PID    int
	Signal unix.Signal
}

func (n Notice) String() string {
	verb := "terminated"
	if n.kind == noticeStopped {
		verb = "stopped"
	}

	return fmt.Sprintf("Job [%d] (%d) %s by signal %d", n.JobID, n.PID, verb, int(n.Signal))
}

// queueNotice must be called with the gate blocked.
func (s *Shell) queueNotice(n Notice) {
	s.notices = append(s.notices, n)
}

// takeNotices empties the notice queue.
func (s *Shell) takeNotices() []Notice {
	s.gate.block()
	defer s.gate.unblock()

	pending := s.notices
	s.notices = nil

	return pending
}

func (s *Shell) flushNotices() {
	for _, n := range s.takeNotices() {
		fmt.Fprintln(s.out, n)
	}
}
