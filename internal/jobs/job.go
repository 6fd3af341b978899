package jobs

// Job is one tracked child process. A zero PID marks an empty slot.
type Job struct {
	PID     int
	ID      int
	State   State
	Command string
}

func (j Job) empty() bool {
	return j.PID == 0
}
