package shell

import (
	"errors"
	"fmt"

	"jobshell/internal/jobs"
)

var (
	ErrStoppedJobs = errors.New("there are stopped jobs, not quitting")

	// errQuit ends the read-evaluate loop.
	errQuit = errors.New("quit")
)

// UsageError is returned when fg or bg is given no argument.
type UsageError struct {
	Cmd string
}

func (e UsageError) Error() string {
	return fmt.Sprintf("%s command requires PID or %sjobid argument", e.Cmd, jobs.JobMarker)
}

// RefSyntaxError is returned when the argument of fg or bg is not a number.
type RefSyntaxError struct {
	Cmd string
	Arg string
}

func (e RefSyntaxError) Error() string {
	return fmt.Sprintf("%s: argument must be a PID or %sjobid", e.Cmd, jobs.JobMarker)
}

// NoSuchJobError is returned when no job has the referenced job id.
type NoSuchJobError struct {
	Cmd string
	Ref jobs.Ref
}

func (e NoSuchJobError) Error() string {
	return fmt.Sprintf("%s %s: No such job", e.Cmd, e.Ref)
}

// NoSuchProcessError is returned when no job has the referenced process id.
type NoSuchProcessError struct {
	PID int
}

func (e NoSuchProcessError) Error() string {
	return fmt.Sprintf("(%d): No such process", e.PID)
}
