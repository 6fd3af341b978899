package jobs

import (
	"errors"
	"strconv"
)

// JobMarker prefixes a job id in a reference; a bare number is a process id.
const JobMarker = "%"

var ErrRefSyntax = errors.New("job reference must be a PID or %jobid")

// Ref is a job reference as typed to fg and bg: "%3" is job 3 and "1234" is
// process 1234.
type Ref struct {
	N   int
	Job bool
}

// ParseRef parses a job reference. Only non-negative decimal numbers, with or
// without JobMarker, are accepted.
func ParseRef(s string) (Ref, error) {
	ref := Ref{}

	if len(s) > 0 && s[:1] == JobMarker {
		ref.Job = true
		s = s[1:]
	}

	if s == "" {
		return Ref{}, ErrRefSyntax
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return Ref{}, ErrRefSyntax
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return Ref{}, ErrRefSyntax
	}

	ref.N = n

	return ref, nil
}

func (r Ref) String() string {
	if r.Job {
		return JobMarker + strconv.Itoa(r.N)
	}

	return strconv.Itoa(r.N)
}
