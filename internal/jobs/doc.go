// Package jobs provides the job table of the shell.
//
// A Job is one child process started by the shell, known both by its process
// id and by a small shell-local job id. The Table holds a fixed number of
// Jobs and hands out job ids in increasing order, reusing an id only once no
// occupied slot carries an id at or above it.
//
// Table does no locking of its own. Callers that share a Table between the
// read-evaluate loop and the signal handlers must serialise access.
package jobs
