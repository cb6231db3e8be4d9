package generator

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Config configures the subprocess runtime.
type Config struct {
	// Python interpreter; defaults to "python3".
	Python string
	// Path to the runner script that loads the model and serves requests
	// over stdin/stdout.
	Script string
	// Working directory for the runner (the model repo expects relative
	// config paths).
	WorkDir string
	// Extra arguments appended to the runner command line.
	Args []string
	// Extra environment entries (KEY=VALUE) for the runner.
	Env []string
	// How long to wait for the runner to report readiness after spawn.
	// Weight loading dominates this; defaults to 10 minutes.
	StartupTimeout time.Duration
}

// Subprocess is a Generator backed by one long-lived runner process. The
// runner loads model weights once and then serves requests line by line:
// each request is a JSON object on stdin, each response a JSON object on
// stdout. The first stdout line after spawn must be {"ready":true}.
type Subprocess struct {
	cfg Config

	// genMu serializes the request/response exchange with the runner,
	// including spawn and readiness wait. mu guards the state fields only
	// and is never held across I/O, so Ready and PID answer immediately
	// while a generation is in flight.
	genMu sync.Mutex

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	ready  bool
	pid    int
}

type runnerRequest struct {
	Image  string `json:"image"`
	Audio  string `json:"audio"`
	Prompt string `json:"prompt"`
	Output string `json:"output"`
}

type runnerResponse struct {
	Ready bool   `json:"ready,omitempty"`
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewSubprocess constructs a Subprocess generator. The runner is spawned
// lazily on the first Generate call.
func NewSubprocess(cfg Config) *Subprocess {
	if cfg.Python == "" {
		cfg.Python = "python3"
	}
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = 10 * time.Minute
	}
	return &Subprocess{cfg: cfg}
}

// Ready reports whether the runner has loaded its weights.
func (s *Subprocess) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// PID returns the runner process id, or 0 when not running.
func (s *Subprocess) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pid
}

// ensureStarted spawns the runner if needed and waits for the ready line.
// Caller must hold s.genMu. Returns the pipes of the live runner so the
// exchange never touches the mutable fields.
func (s *Subprocess) ensureStarted(ctx context.Context) (io.WriteCloser, *bufio.Reader, error) {
	s.mu.Lock()
	if s.ready {
		stdin, stdout := s.stdin, s.stdout
		s.mu.Unlock()
		return stdin, stdout, nil
	}
	s.mu.Unlock()

	if s.cfg.Script == "" {
		return nil, nil, errors.New("generator script not configured")
	}
	args := append([]string{s.cfg.Script}, s.cfg.Args...)
	cmd := exec.Command(s.cfg.Python, args...)
	cmd.Dir = s.cfg.WorkDir
	cmd.Env = append(os.Environ(), s.cfg.Env...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("runner stdin: %w", err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("runner stdout: %w", err)
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("spawn runner: %w", err)
	}
	stdout := bufio.NewReader(stdoutPipe)

	s.mu.Lock()
	s.cmd = cmd
	s.stdin = stdin
	s.stdout = stdout
	s.pid = cmd.Process.Pid
	s.mu.Unlock()

	startCtx, cancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer cancel()
	resp, err := readResponse(startCtx, stdout)
	if err != nil {
		s.kill()
		return nil, nil, fmt.Errorf("runner did not become ready: %w", err)
	}
	if !resp.Ready {
		s.kill()
		if resp.Error != "" {
			return nil, nil, fmt.Errorf("runner startup failed: %s", resp.Error)
		}
		return nil, nil, errors.New("runner startup failed")
	}
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	return stdin, stdout, nil
}

// readResponse reads stdout lines until one parses as a runnerResponse,
// respecting ctx. Non-JSON lines (model chatter) are skipped. The reader
// goroutine captures r, so a goroutine orphaned by cancellation keeps
// reading the dead runner's pipe until EOF and never observes a respawn.
func readResponse(ctx context.Context, r *bufio.Reader) (runnerResponse, error) {
	type lineResult struct {
		line string
		err  error
	}
	ch := make(chan lineResult, 1)
	for {
		go func() {
			line, err := r.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
		select {
		case <-ctx.Done():
			return runnerResponse{}, ctx.Err()
		case res := <-ch:
			if res.err != nil {
				return runnerResponse{}, fmt.Errorf("runner stdout closed: %w", res.err)
			}
			l := strings.TrimSpace(res.line)
			if l == "" || !strings.HasPrefix(l, "{") {
				continue
			}
			var resp runnerResponse
			if err := json.Unmarshal([]byte(l), &resp); err != nil {
				continue
			}
			return resp, nil
		}
	}
}

// Generate sends one request to the runner and blocks for the response.
// A context deadline hard-kills the runner; the next job respawns it.
func (s *Subprocess) Generate(ctx context.Context, req Request) error {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	stdin, stdout, err := s.ensureStarted(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(runnerRequest{
		Image:  req.ImagePath,
		Audio:  req.AudioPath,
		Prompt: req.Prompt,
		Output: req.OutputPath,
	})
	if err != nil {
		return err
	}
	if _, err := stdin.Write(append(payload, '\n')); err != nil {
		s.kill()
		return fmt.Errorf("write to runner: %w", err)
	}
	resp, err := readResponse(ctx, stdout)
	if err != nil {
		// Deadline or cancellation: the runner is mid-generation with no way
		// to interrupt it, so kill and respawn on the next job.
		s.kill()
		return err
	}
	if !resp.OK {
		if resp.Error != "" {
			return fmt.Errorf("generation failed: %s", resp.Error)
		}
		return errors.New("generation failed")
	}
	if _, err := os.Stat(req.OutputPath); err != nil {
		return fmt.Errorf("runner reported success but wrote no output: %w", err)
	}
	return nil
}

func (s *Subprocess) kill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.killLocked()
}

// killLocked terminates the runner. Caller must hold s.mu.
func (s *Subprocess) killLocked() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}
	s.cmd = nil
	s.stdin = nil
	s.stdout = nil
	s.ready = false
	s.pid = 0
}

// Close terminates the runner process. Best effort.
func (s *Subprocess) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.killLocked()
	return nil
}
