package jobs

// State is the lifecycle state of a Job.
type State int

const (
	// Undefined is the state of an empty slot.
	Undefined State = iota

	// Foreground indicates the job owns the terminal and the shell is blocked
	// waiting for it. At most one Job is in this state.
	Foreground

	// Background indicates the job is running and the shell is not waiting
	// for it.
	Background

	// Stopped indicates the job has been suspended and can be resumed with fg
	// or bg.
	Stopped
)

// Keep in sync with the State values. These are the labels printed by
// the jobs built-in, hence "Running" for Background.
var stateNames = []string{
	"Undefined",
	"Foreground",
	"Running",
	"Stopped",
}

// String returns the label used when listing jobs.
func (s State) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) {
		return stateNames[0]
	}

	return stateNames[s]
}
