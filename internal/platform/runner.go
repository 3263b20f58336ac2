package platform

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// maxLineSize bounds a single output line; yt-dlp JSON records can be large.
const maxLineSize = 4 * 1024 * 1024

// Runner abstracts process execution so callers can be tested without
// spawning real tools.
type Runner interface {
	// Output runs the command to completion and returns everything it wrote.
	Output(ctx context.Context, binary string, args ...string) (stdout, stderr []byte, err error)

	// Stream runs the command and hands each stdout/stderr line to the
	// callbacks as it arrives. Carriage returns count as line breaks.
	Stream(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error
}

// CommandRunner is the os/exec backed Runner.
type CommandRunner struct{}

func NewCommandRunner() CommandRunner {
	return CommandRunner{}
}

func (CommandRunner) Output(ctx context.Context, binary string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func (CommandRunner) Stream(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	// Both pipes must be drained before Wait closes them
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanLines(stdout, onStdout)
	}()
	go func() {
		defer wg.Done()
		scanLines(stderr, onStderr)
	}()
	wg.Wait()

	return cmd.Wait()
}

func scanLines(r io.Reader, fn func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	scanner.Split(ScanLinesOrCR)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || fn == nil {
			continue
		}
		fn(line)
	}
	// Keep draining after an oversized line so the child never blocks on a full pipe
	_, _ = io.Copy(io.Discard, r)
}

// ScanLinesOrCR is a bufio.SplitFunc that ends a token at '\n' or '\r'.
// Progress bars redraw with bare carriage returns.
func ScanLinesOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ExitCode extracts the process exit status from err. It returns -1 when
// err did not come from a process that ran and exited.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
