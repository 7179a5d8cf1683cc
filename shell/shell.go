// Package shell runs externally configured commands with the document
// text on stdin, enforcing a timeout and the strict-mode fallback policy.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// ToolMissingError reports that an external binary could not be located
// on PATH.
type ToolMissingError struct {
	Tool string
	Hint string
}

func (e *ToolMissingError) Error() string {
	msg := fmt.Sprintf("%s is not installed or not found in PATH", e.Tool)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

// CommandFailedError reports a non-zero exit code from an external command.
type CommandFailedError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandFailedError) Error() string {
	msg := fmt.Sprintf(
		"command failed with exit code %d: %s",
		e.ExitCode, e.Command,
	)
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

// CommandTimedOutError reports that an external command exceeded its
// wall-clock budget and was killed.
type CommandTimedOutError struct {
	Command string
	Timeout time.Duration
}

func (e *CommandTimedOutError) Error() string {
	return fmt.Sprintf(
		"command timed out after %s: %s",
		e.Timeout, e.Command,
	)
}

// Run pipes text through a shell command and returns the command's stdout.
//
// An empty command is a no-op and returns text unchanged. On non-zero
// exit, timeout or spawn failure the problem is logged; when strict is
// false the original text is returned so the caller can keep going, when
// strict is true a classified error is returned instead.
//
// The timeout is enforced by the exec primitive itself: the child is
// killed when the context deadline fires.
func Run(
	ctx context.Context,
	text string,
	command string,
	timeout time.Duration,
	strict bool,
) (string, error) {
	if command == "" {
		return text, nil
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	cmd.Stdin = strings.NewReader(text)

	// Orphaned grandchildren must not hold the output pipes open past
	// the deadline.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		log.Errorf(
			nil,
			"command timed out after %s: %s",
			timeout, command,
		)
		if strict {
			return "", &CommandTimedOutError{
				Command: command,
				Timeout: timeout,
			}
		}
		return text, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.Errorf(
			nil,
			"command failed with code %d: %s",
			exitErr.ExitCode(), command,
		)
		if stderr.Len() > 0 {
			log.Errorf(nil, "error output: %s", stderr.String())
		}
		if strict {
			return "", &CommandFailedError{
				Command:  command,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return text, nil
	}

	log.Errorf(err, "unable to run command: %s", command)
	if strict {
		return "", karma.Format(err, "unable to run command %q", command)
	}
	return text, nil
}
