package util

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	altsrctoml "github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configpath string

// Flags wires the CLI surface: host-level flags carry MDPIPE_* environment
// sources the usual way, while the plugin flags take values from the TOML
// configuration file only. The MDSF_CONFIG and MDSF_TIMEOUT environment
// variables are deliberately not flag sources: they rank below the TOML
// layer and are applied inside the options resolver instead.
var Flags = []cli.Flag{
	&cli.StringFlag{
		Name:      "files",
		Aliases:   []string{"f"},
		Value:     "",
		Usage:     "format the specified markdown file(s) in place. Supports file globbing patterns (needs to be quoted). Reads stdin when omitted.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("MDPIPE_FILES"), altsrctoml.TOML("files", altsrc.NewStringPtrSourcer(&configpath))),
	},
	&cli.BoolFlag{
		Name:    "dry-run",
		Value:   false,
		Usage:   "print formatted output to stdout instead of rewriting files.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("MDPIPE_DRY_RUN"), altsrctoml.TOML("dry-run", altsrc.NewStringPtrSourcer(&configpath))),
	},
	&cli.BoolFlag{
		Name:    "continue-on-error",
		Value:   false,
		Usage:   "don't exit if an error occurs while processing a file, continue processing remaining files.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("MDPIPE_CONTINUE_ON_ERROR"), altsrctoml.TOML("continue-on-error", altsrc.NewStringPtrSourcer(&configpath))),
	},
	&cli.StringFlag{
		Name:  "color",
		Value: "auto",
		Usage: "display logs in color. Possible values: auto, never.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("MDPIPE_COLOR"),
			altsrctoml.TOML("color", altsrc.NewStringPtrSourcer(&configpath))),
	},
	&cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		Usage:   "set the log level. Possible values: TRACE, DEBUG, INFO, WARNING, ERROR, FATAL.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("MDPIPE_LOG_LEVEL"), altsrctoml.TOML("log-level", altsrc.NewStringPtrSourcer(&configpath))),
	},
	&cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Value:       ConfigFilePath(),
		Usage:       "use the specified configuration file.",
		TakesFile:   true,
		Sources:     cli.NewValueSourceChain(cli.EnvVar("MDPIPE_CONFIG")),
		Destination: &configpath,
	},

	&cli.StringFlag{
		Name:    "pre-command",
		Value:   "",
		Usage:   "shell command to run before formatting (receives text via stdin).",
		Sources: cli.NewValueSourceChain(altsrctoml.TOML("hooks.pre-command", altsrc.NewStringPtrSourcer(&configpath))),
	},
	&cli.StringFlag{
		Name:    "post-command",
		Value:   "",
		Usage:   "shell command to run after formatting (receives text via stdin).",
		Sources: cli.NewValueSourceChain(altsrctoml.TOML("hooks.post-command", altsrc.NewStringPtrSourcer(&configpath))),
	},
	&cli.IntFlag{
		Name:    "timeout",
		Value:   30,
		Usage:   "timeout in seconds for shell commands (default: 30).",
		Sources: cli.NewValueSourceChain(altsrctoml.TOML("hooks.timeout", altsrc.NewStringPtrSourcer(&configpath))),
	},
	&cli.BoolFlag{
		Name:    "strict-hooks",
		Value:   false,
		Usage:   "fail formatting if a shell command returns a non-zero exit code.",
		Sources: cli.NewValueSourceChain(altsrctoml.TOML("hooks.strict-hooks", altsrc.NewStringPtrSourcer(&configpath))),
	},

	&cli.StringFlag{
		Name:      "mdsf-config",
		Value:     "",
		Usage:     "path to mdsf.json configuration file.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(altsrctoml.TOML("mdsf.config", altsrc.NewStringPtrSourcer(&configpath))),
	},
	&cli.IntFlag{
		Name:    "mdsf-timeout",
		Value:   30,
		Usage:   "timeout in seconds for mdsf operations (default: 30).",
		Sources: cli.NewValueSourceChain(altsrctoml.TOML("mdsf.timeout", altsrc.NewStringPtrSourcer(&configpath))),
	},
	&cli.StringFlag{
		Name:    "mdsf-languages",
		Value:   "",
		Usage:   "comma-separated list of languages to format (default: all).",
		Sources: cli.NewValueSourceChain(altsrctoml.TOML("mdsf.languages", altsrc.NewStringPtrSourcer(&configpath))),
	},
	&cli.BoolFlag{
		Name:    "mdsf-fail-on-error",
		Value:   false,
		Usage:   "fail if mdsf formatting errors occur (default: false).",
		Sources: cli.NewValueSourceChain(altsrctoml.TOML("mdsf.fail-on-error", altsrc.NewStringPtrSourcer(&configpath))),
	},
}
