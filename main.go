package main

import (
	"context"
	"os"

	"github.com/mdpipe/mdpipe/util"
	"github.com/reconquest/pkg/log"
	"github.com/urfave/cli/v3"
)

const (
	version     = "1.0.0"
	usage       = "a markdown formatter with external-process plugins."
	description = `Mdpipe normalizes markdown files and delegates the heavy lifting to
external processes: fenced code blocks are reformatted by the mdsf binary
(one invocation per block), and the rendered document can be piped through
arbitrary shell commands configured as pre/post hooks.

Configuration is resolved from CLI flags, the TOML configuration file and,
for the mdsf plugin, the MDSF_CONFIG and MDSF_TIMEOUT environment
variables, in that order of precedence.`
)

func main() {
	cmd := &cli.Command{
		Name:                  "mdpipe",
		Usage:                 usage,
		Description:           description,
		Version:               version,
		Flags:                 util.Flags,
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Action:                util.RunMdpipe,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
