// Package devserver spawns and supervises the project's dev server process.
package devserver

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os/exec"
	"regexp"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultURL is assumed when the server never announces its address.
	DefaultURL = "http://localhost:5173"

	defaultReadyTimeout  = 30 * time.Second
	defaultFallbackDelay = 5 * time.Second

	// stopTimeout bounds graceful termination before escalating to SIGKILL.
	stopTimeout = 5 * time.Second

	// exitGrace is how long to wait after the output stream ends before
	// concluding the process is still alive.
	exitGrace = 500 * time.Millisecond
)

// listenURLRe matches the dev server's "listening at" announcement.
var listenURLRe = regexp.MustCompile(`http://localhost:(\d+)`)

// Options configures a Server.
type Options struct {
	// Command is the dev server invocation. Defaults to pnpm dev --port 0.
	Command []string
	// Verbose echoes server output lines to the log.
	Verbose bool
	// ReadyTimeout bounds the wait for the listening announcement.
	ReadyTimeout time.Duration
	// FallbackDelay is the settle wait before assuming DefaultURL.
	FallbackDelay time.Duration
}

// Server runs the dev server as a child process. The process is an
// exclusively owned resource: Start acquires it, Stop always releases it,
// escalating from SIGTERM to SIGKILL when the process does not exit in time.
type Server struct {
	dir  string
	opts Options

	cmd      *exec.Cmd
	urlCh    chan string
	scanDone chan struct{}
	waitCh   chan error
	scan     errgroup.Group

	stopOnce sync.Once

	mu      sync.Mutex
	waited  bool
	exitErr error
}

// New creates a server supervisor for the given project directory.
func New(projectDir string, opts Options) *Server {
	if len(opts.Command) == 0 {
		opts.Command = []string{"pnpm", "dev", "--port", "0"}
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = defaultReadyTimeout
	}
	if opts.FallbackDelay <= 0 {
		opts.FallbackDelay = defaultFallbackDelay
	}
	return &Server{dir: projectDir, opts: opts}
}

// Start spawns the process and scans its combined output for the listening
// URL. If the process exits before announcing one, Start fails. If the
// output stream ends or the ready timeout elapses without a match, Start
// falls back to DefaultURL after a short settle delay.
func (s *Server) Start(ctx context.Context) (string, error) {
	cmd := exec.Command(s.opts.Command[0], s.opts.Command[1:]...)
	cmd.Dir = s.dir
	// Run the server in its own process group so termination reaches any
	// children it forks (package managers spawn the real server as a child).
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("creating output pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("spawning dev server: %w", err)
	}

	s.cmd = cmd
	s.urlCh = make(chan string, 1)
	s.scanDone = make(chan struct{})
	s.waitCh = make(chan error, 1)

	s.scan.Go(func() error {
		scanner := bufio.NewScanner(stdout)
		found := false
		for scanner.Scan() {
			line := scanner.Text()
			if s.opts.Verbose {
				log.Printf("   %s", line)
			}
			if !found {
				if m := listenURLRe.FindStringSubmatch(line); m != nil {
					found = true
					s.urlCh <- "http://localhost:" + m[1]
				}
			}
		}
		close(s.scanDone)
		// The stream is drained, so the single Wait call is safe now.
		s.waitCh <- cmd.Wait()
		return scanner.Err()
	})

	deadline := time.NewTimer(s.opts.ReadyTimeout)
	defer deadline.Stop()

	select {
	case url := <-s.urlCh:
		return url, nil
	case <-s.scanDone:
		if err, exited := s.waitExit(exitGrace); exited {
			return "", fmt.Errorf("dev server exited before announcing a listening URL: %v", err)
		}
		log.Printf("dev server output ended without a listening URL, assuming %s", DefaultURL)
		time.Sleep(s.opts.FallbackDelay)
		return DefaultURL, nil
	case <-deadline.C:
		log.Printf("no listening URL within %s, assuming %s", s.opts.ReadyTimeout, DefaultURL)
		return DefaultURL, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Stop terminates the server process group, escalating to SIGKILL if it does
// not exit within the stop timeout. Safe to call when Start was never called
// or already failed.
func (s *Server) Stop() error {
	var stopErr error
	s.stopOnce.Do(func() {
		if s.cmd == nil || s.cmd.Process == nil {
			return
		}

		if _, exited := s.waitExit(0); exited {
			_ = s.scan.Wait()
			return
		}

		s.signalGroup(syscall.SIGTERM)
		if _, exited := s.waitExit(stopTimeout); !exited {
			log.Printf("dev server did not exit after SIGTERM, killing")
			s.signalGroup(syscall.SIGKILL)
			if _, exited := s.waitExit(stopTimeout); !exited {
				stopErr = fmt.Errorf("dev server did not exit after SIGKILL")
				return
			}
		}
		_ = s.scan.Wait()
	})
	return stopErr
}

// signalGroup delivers a signal to the whole process group.
func (s *Server) signalGroup(sig syscall.Signal) {
	if err := syscall.Kill(-s.cmd.Process.Pid, sig); err != nil {
		// Group signaling can fail if the group is already gone; fall back
		// to the direct process.
		_ = s.cmd.Process.Signal(sig)
	}
}

// waitExit waits up to d for the process to be reaped. The exit status is
// cached so repeated callers (readiness check, Stop) agree on it.
func (s *Server) waitExit(d time.Duration) (error, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waited {
		return s.exitErr, true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case err := <-s.waitCh:
		s.waited = true
		s.exitErr = err
		return err, true
	case <-timer.C:
		return nil, false
	}
}
