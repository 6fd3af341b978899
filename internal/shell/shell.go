// Package shell implements an interactive shell with job control.
//
// Every external command runs as a job in its own process group. The shell
// relays terminal interrupt and suspend requests to the foreground job, reaps
// children as they exit or stop, and offers the fg, bg and jobs built-ins.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"jobshell/internal/config"
	"jobshell/internal/history"
	"jobshell/internal/jobs"
	"jobshell/internal/metrics"
	"jobshell/internal/proc"
)

// lineReader is the part of *readline.Instance the shell uses.
type lineReader interface {
	Readline() (string, error)
	SaveHistory(content string) error
	Close() error
}

type Shell struct {
	config  *config.Config
	history *history.History
	reader  lineReader
	logger  *slog.Logger
	metrics *metrics.Collector
	ctl     proc.Controller
	stdio   proc.Stdio
	out     io.Writer
	exit    func(code int)

	gate *gate

	// Guarded by gate.
	jobs    *jobs.Table
	notices []Notice
}

func New(cfg *config.Config, logger *slog.Logger, collector *metrics.Collector) (*Shell, error) {
	hist, err := history.New(cfg.HistoryFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing history: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 cfg.PromptString(),
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing readline: %w", err)
	}

	for _, line := range hist.GetAll() {
		if err := rl.SaveHistory(line); err != nil {
			logger.Warn("replay history", "err", err)
			break
		}
	}

	s := newShell(cfg, logger, collector, rl, proc.OS{}, hist)
	s.stdio = proc.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}

	return s, nil
}

func newShell(
	cfg *config.Config,
	logger *slog.Logger,
	collector *metrics.Collector,
	reader lineReader,
	ctl proc.Controller,
	hist *history.History,
) *Shell {
	return &Shell{
		config:  cfg,
		history: hist,
		reader:  reader,
		logger:  logger,
		metrics: collector,
		ctl:     ctl,
		out:     os.Stdout,
		exit:    os.Exit,
		gate:    newGate(),
		jobs:    jobs.NewTable(cfg.MaxJobs),
	}
}

// Run installs the signal handlers and runs the read-evaluate loop until the
// input ends or the user quits. It returns an error only if reading input
// fails.
func (s *Shell) Run(ctx context.Context) error {
	defer s.reader.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n := s.setupSignalHandling()
	defer n.stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.handleSignals(ctx, n)
	}()

	err := s.loop()

	cancel()
	<-done

	return err
}

func (s *Shell) loop() error {
	for {
		s.flushNotices()

		line, err := s.reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// Ctrl-C at the prompt: there is no foreground job to relay to.
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.addToHistory(line)

		if err := s.Execute(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(s.out, err)
		}
	}
}

// Execute evaluates one command line: a built-in runs in the shell, anything
// else is launched as a job.
func (s *Shell) Execute(line string) error {
	argv, background, err := parseLine(line)
	if err != nil {
		return err
	}

	if len(argv) == 0 {
		return nil
	}

	if ok, err := s.executeBuiltin(argv); ok {
		return err
	}

	return s.launch(argv, line, background)
}

// parseLine splits line into an argument vector and reports whether the
// command ends with "&".
func parseLine(line string) ([]string, bool, error) {
	argv, err := shellquote.Split(line)
	if err != nil {
		return nil, false, fmt.Errorf("error parsing command: %w", err)
	}

	if len(argv) == 0 {
		return nil, false, nil
	}

	last := argv[len(argv)-1]
	switch {
	case last == "&":
		return argv[:len(argv)-1], true, nil
	case strings.HasSuffix(last, "&"):
		argv[len(argv)-1] = strings.TrimSuffix(last, "&")
		return argv, true, nil
	}

	return argv, false, nil
}

func (s *Shell) addToHistory(line string) {
	if err := s.history.Add(line); err != nil {
		s.logger.Warn("save history", "err", err)
	}

	if err := s.reader.SaveHistory(line); err != nil {
		s.logger.Warn("add readline history", "err", err)
	}
}

// observeJobs refreshes the per-state gauge. The gate must be blocked.
func (s *Shell) observeJobs() {
	counts := make(map[string]int)
	for state, n := range s.jobs.Count() {
		counts[state.String()] = n
	}
	s.metrics.SetJobs(counts)
}
