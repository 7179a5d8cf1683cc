// Package hooks pipes the fully rendered document through externally
// configured shell commands after formatting.
package hooks

import (
	"context"

	"github.com/mdpipe/mdpipe/shell"
	"github.com/mdpipe/mdpipe/types"
)

// PostProcess runs the configured pre-command and post-command over the
// rendered document, in that order, each command's output feeding the next
// command's input. Either command may be absent, in which case that step
// is skipped. The host calls this exactly once per document.
func PostProcess(
	ctx context.Context,
	document string,
	cfg types.HooksConfig,
) (string, error) {
	text, err := shell.Run(ctx, document, cfg.PreCommand, cfg.Timeout, cfg.Strict)
	if err != nil {
		return "", err
	}

	text, err = shell.Run(ctx, text, cfg.PostCommand, cfg.Timeout, cfg.Strict)
	if err != nil {
		return "", err
	}

	return text, nil
}
