package jobs

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the number of slots in a Table unless configured
// otherwise.
const DefaultCapacity = 16

var (
	ErrTableFull      = errors.New("tried to create too many jobs")
	ErrInvalidPID     = errors.New("process id must be positive")
	ErrJobNotFound    = errors.New("job not found")
	ErrForegroundBusy = errors.New("another job is already in the foreground")
)

// Table is a fixed-capacity job table.
type Table struct {
	slots  []Job
	nextID int
}

// NewTable returns an empty Table with the given number of slots. A capacity
// below 1 selects DefaultCapacity.
func NewTable(capacity int) *Table {
	if capacity < 1 {
		capacity = DefaultCapacity
	}

	return &Table{
		slots:  make([]Job, capacity),
		nextID: 1,
	}
}

// Capacity returns the number of slots.
func (t *Table) Capacity() int {
	return len(t.slots)
}

// Add stores a new Job in the first empty slot and assigns it the next job
// id. It returns ErrTableFull when every slot is occupied.
func (t *Table) Add(pid int, state State, command string) (Job, error) {
	if pid < 1 {
		return Job{}, ErrInvalidPID
	}

	if state == Undefined {
		return Job{}, fmt.Errorf("add job %d: undefined state", pid)
	}

	if state == Foreground {
		if fg, ok := t.ForegroundPID(); ok {
			return Job{}, fmt.Errorf("add job %d: %w (pid %d)", pid, ErrForegroundBusy, fg)
		}
	}

	for i := range t.slots {
		if !t.slots[i].empty() {
			continue
		}

		t.slots[i] = Job{
			PID:     pid,
			ID:      t.nextID,
			State:   state,
			Command: command,
		}
		t.nextID++

		return t.slots[i], nil
	}

	return Job{}, ErrTableFull
}

// Remove clears the slot of the Job with the given pid. The next job id
// becomes HighestID()+1, so ids are only reused once nothing holds them.
func (t *Table) Remove(pid int) bool {
	i := t.index(pid)
	if i < 0 {
		return false
	}

	t.slots[i] = Job{}
	t.nextID = t.HighestID() + 1

	return true
}

// SetState changes the state of the Job with the given pid.
func (t *Table) SetState(pid int, state State) error {
	i := t.index(pid)
	if i < 0 {
		return ErrJobNotFound
	}

	if state == Undefined {
		return fmt.Errorf("set state of job %d: undefined state", t.slots[i].ID)
	}

	if state == Foreground {
		if fg, ok := t.ForegroundPID(); ok && fg != pid {
			return fmt.Errorf("set state of job %d: %w (pid %d)", t.slots[i].ID, ErrForegroundBusy, fg)
		}
	}

	t.slots[i].State = state

	return nil
}

// ByPID returns the Job with the given process id.
func (t *Table) ByPID(pid int) (Job, bool) {
	i := t.index(pid)
	if i < 0 {
		return Job{}, false
	}

	return t.slots[i], true
}

// ByID returns the Job with the given job id.
func (t *Table) ByID(id int) (Job, bool) {
	if id < 1 {
		return Job{}, false
	}

	for _, job := range t.slots {
		if !job.empty() && job.ID == id {
			return job, true
		}
	}

	return Job{}, false
}

// Lookup resolves a Ref typed to fg or bg.
func (t *Table) Lookup(ref Ref) (Job, bool) {
	if ref.Job {
		return t.ByID(ref.N)
	}

	return t.ByPID(ref.N)
}

// ForegroundPID returns the process id of the foreground Job, if any.
func (t *Table) ForegroundPID() (int, bool) {
	for _, job := range t.slots {
		if !job.empty() && job.State == Foreground {
			return job.PID, true
		}
	}

	return 0, false
}

// HasState reports whether any Job is in the given state.
func (t *Table) HasState(state State) bool {
	for _, job := range t.slots {
		if !job.empty() && job.State == state {
			return true
		}
	}

	return false
}

// Count returns the number of Jobs in each state.
func (t *Table) Count() map[State]int {
	counts := map[State]int{
		Foreground: 0,
		Background: 0,
		Stopped:    0,
	}

	for _, job := range t.slots {
		if !job.empty() {
			counts[job.State]++
		}
	}

	return counts
}

// List returns a copy of the occupied slots in slot order.
func (t *Table) List() []Job {
	list := make([]Job, 0, len(t.slots))

	for _, job := range t.slots {
		if !job.empty() {
			list = append(list, job)
		}
	}

	return list
}

// HighestID returns the largest job id in use, or 0 for an empty Table.
func (t *Table) HighestID() int {
	highest := 0

	for _, job := range t.slots {
		if job.ID > highest {
			highest = job.ID
		}
	}

	return highest
}

func (t *Table) index(pid int) int {
	if pid < 1 {
		return -1
	}

	for i, job := range t.slots {
		if job.PID == pid {
			return i
		}
	}

	return -1
}
