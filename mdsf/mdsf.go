// Package mdsf reformats fenced code block contents by delegating to the
// external mdsf binary (https://github.com/hougesen/mdsf), one invocation
// per block.
package mdsf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mdpipe/mdpipe/shell"
	"github.com/mdpipe/mdpipe/types"
	"github.com/reconquest/pkg/log"
)

const binary = "mdsf"

// FormatBlock formats one fenced code block's content with mdsf.
//
// The content is wrapped back into a fence tagged with language, piped to
// `mdsf format --stdin` and the fence lines are stripped off the output
// again. Blocks whose language is not on the configured allow-list, and
// empty blocks, are returned untouched without spawning anything. Every
// failure (binary missing, non-zero exit, timeout) is logged and falls
// back to the unformatted content unless fail-on-error is set.
func FormatBlock(
	ctx context.Context,
	code string,
	language string,
	cfg types.MdsfConfig,
) (string, error) {
	if code == "" {
		return code, nil
	}

	if !cfg.LanguageEnabled(language) {
		log.Tracef(nil, "skipping %q code block: language not enabled", language)
		return code, nil
	}

	bin, err := exec.LookPath(binary)
	if err != nil {
		missing := &shell.ToolMissingError{
			Tool: binary,
			Hint: "Install it from https://github.com/hougesen/mdsf",
		}
		log.Errorf(nil, "%s", missing)
		if cfg.FailOnError {
			return "", missing
		}
		return code, nil
	}

	args := []string{"format", "--stdin"}
	if cfg.ConfigPath != "" {
		args = append(args, "--config", cfg.ConfigPath)
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, bin, args...)
	cmd.Stdin = strings.NewReader(wrapFence(code, language))
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err != nil {
		command := binary + " " + strings.Join(args, " ")

		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			log.Errorf(nil, "mdsf timed out after %s formatting %q block", cfg.Timeout, language)
			if cfg.FailOnError {
				return "", &shell.CommandTimedOutError{
					Command: command,
					Timeout: cfg.Timeout,
				}
			}
			return code, nil
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.Errorf(
				nil,
				"mdsf failed with code %d formatting %q block: %s",
				exitErr.ExitCode(), language, stderr.String(),
			)
			if cfg.FailOnError {
				return "", &shell.CommandFailedError{
					Command:  command,
					ExitCode: exitErr.ExitCode(),
					Stderr:   stderr.String(),
				}
			}
			return code, nil
		}

		log.Errorf(err, "unable to run mdsf on %q block", language)
		if cfg.FailOnError {
			return "", err
		}
		return code, nil
	}

	formatted := stripFence(stdout.String())

	// mdsf may drop the trailing newline; the block's original disposition
	// wins either way.
	if strings.HasSuffix(code, "\n") && !strings.HasSuffix(formatted, "\n") {
		formatted += "\n"
	}

	return formatted, nil
}

// wrapFence turns raw block content into a standalone fenced Markdown
// snippet the way mdsf expects its stdin.
func wrapFence(code, language string) string {
	return fmt.Sprintf("```%s\n%s\n```\n", language, strings.TrimSuffix(code, "\n"))
}

// stripFence removes the opening and closing fence lines from mdsf's
// stdout, leaving just the reformatted code.
func stripFence(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
