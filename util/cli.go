package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kovetskiy/lorg"
	"github.com/mdpipe/mdpipe/markdown"
	"github.com/mdpipe/mdpipe/options"
	"github.com/mdpipe/mdpipe/types"
	"github.com/reconquest/pkg/log"
	"github.com/urfave/cli/v3"
)

// RunMdpipe is the action behind the mdpipe command: resolve the effective
// plugin configuration once, then format every matched file (or stdin)
// with it.
func RunMdpipe(ctx context.Context, cmd *cli.Command) error {
	if err := SetLogLevel(cmd); err != nil {
		return err
	}

	if cmd.String("color") == "never" {
		log.GetLogger().SetFormat(
			lorg.NewFormat(
				`${time:2006-01-02 15:04:05.000} ${level:%s:left:true} ${prefix}%s`,
			),
		)
		log.GetLogger().SetOutput(os.Stderr)
	}

	opts := OptionsFromFlags(cmd)
	hooksConfig := options.ResolveHooks(opts)
	mdsfConfig := options.ResolveMdsf(opts)

	log.Debugf(nil, "effective hooks config: %+v", hooksConfig)
	log.Debugf(nil, "effective mdsf config: %+v", mdsfConfig)

	if cmd.String("files") == "" {
		return formatStdin(ctx, hooksConfig, mdsfConfig)
	}

	files, err := doublestar.FilepathGlob(cmd.String("files"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no files matched")
	}

	handler := NewErrorHandler(cmd.Bool("continue-on-error"))

	for _, file := range files {
		log.Infof(nil, "formatting %s", file)

		err := formatFile(ctx, file, cmd.Bool("dry-run"), hooksConfig, mdsfConfig)
		if err != nil {
			if abort := handler.Handle(err, "unable to format file %q", file); abort != nil {
				return abort
			}
		}
	}

	return handler.Err()
}

// OptionsFromFlags lifts explicitly set CLI flags into the flat API-level
// options namespace. Flag defaults are left out so the resolver's own
// defaults and environment fallbacks keep their place in the precedence
// order.
func OptionsFromFlags(cmd *cli.Command) options.Options {
	api := map[string]any{}

	if cmd.IsSet("pre-command") {
		api["pre_command"] = cmd.String("pre-command")
	}
	if cmd.IsSet("post-command") {
		api["post_command"] = cmd.String("post-command")
	}
	if cmd.IsSet("timeout") {
		api["timeout"] = cmd.Int("timeout")
	}
	if cmd.IsSet("strict-hooks") {
		api["strict_hooks"] = cmd.Bool("strict-hooks")
	}

	if cmd.IsSet("mdsf-config") {
		api["mdsf_config"] = cmd.String("mdsf-config")
	}
	if cmd.IsSet("mdsf-timeout") {
		api["mdsf_timeout"] = cmd.Int("mdsf-timeout")
	}
	if cmd.IsSet("mdsf-languages") {
		api["mdsf_languages"] = cmd.String("mdsf-languages")
	}
	if cmd.IsSet("mdsf-fail-on-error") {
		api["mdsf_fail_on_error"] = cmd.Bool("mdsf-fail-on-error")
	}

	return options.Options{options.Namespace: api}
}

func formatStdin(
	ctx context.Context,
	hooksConfig types.HooksConfig,
	mdsfConfig types.MdsfConfig,
) error {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}

	output, err := markdown.FormatDocument(ctx, source, hooksConfig, mdsfConfig)
	if err != nil {
		return err
	}

	fmt.Print(string(output))

	return nil
}

func formatFile(
	ctx context.Context,
	file string,
	dryRun bool,
	hooksConfig types.HooksConfig,
	mdsfConfig types.MdsfConfig,
) error {
	source, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	output, err := markdown.FormatDocument(ctx, source, hooksConfig, mdsfConfig)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Print(string(output))
		return nil
	}

	info, err := os.Stat(file)
	if err != nil {
		return err
	}

	return os.WriteFile(file, output, info.Mode().Perm())
}

func ConfigFilePath() string {
	fp, err := os.UserConfigDir()
	if err != nil {
		log.Fatal(err)
	}
	return filepath.Join(fp, "mdpipe.toml")
}

func SetLogLevel(cmd *cli.Command) error {
	logLevel := cmd.String("log-level")
	switch strings.ToUpper(logLevel) {
	case lorg.LevelTrace.String():
		log.SetLevel(lorg.LevelTrace)
	case lorg.LevelDebug.String():
		log.SetLevel(lorg.LevelDebug)
	case lorg.LevelInfo.String():
		log.SetLevel(lorg.LevelInfo)
	case lorg.LevelWarning.String():
		log.SetLevel(lorg.LevelWarning)
	case lorg.LevelError.String():
		log.SetLevel(lorg.LevelError)
	case lorg.LevelFatal.String():
		log.SetLevel(lorg.LevelFatal)
	default:
		return fmt.Errorf("unknown log level: %s", logLevel)
	}

	return nil
}
