package shell

import (
	"fmt"
	"os"

	"jobshell/internal/jobs"
)

func (s *Shell) executeBuiltin(args []string) (bool, error) {
	switch args[0] {
	case "quit", "exit":
		return true, s.quit()
	case "jobs":
		s.listJobs()
		return true, nil
	case "fg":
		return true, s.foreground(args[1:])
	case "bg":
		return true, s.background(args[1:])
	case "cd":
		return true, s.changeDirectory(args[1:])
	case "history":
		return true, s.showHistory()
	default:
		return false, nil
	}
}

// quit refuses while any job is stopped, since nothing would resume it.
func (s *Shell) quit() error {
	s.gate.block()
	stopped := s.jobs.HasState(jobs.Stopped)
	s.gate.unblock()

	if stopped {
		return ErrStoppedJobs
	}

	return errQuit
}

func (s *Shell) changeDirectory(args []string) error {
	var dir string
	if len(args) == 0 {
		dir = s.config.HomeDir
	} else {
		dir = args[0]
	}

	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("cd: %w", err)
	}
	return nil
}

func (s *Shell) showHistory() error {
	for i, cmd := range s.history.GetAll() {
		fmt.Fprintf(s.out, "%d: %s\n", i+1, cmd)
	}
	return nil
}
