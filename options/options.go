// Package options resolves effective plugin configuration from the host
// tool's nested options, the process environment and hardcoded defaults.
//
// Precedence, highest first: flat API-level keys under the "mdpipe"
// namespace, plugin-namespaced keys under "mdpipe.plugin.<id>", environment
// variables (mdsf only), defaults. Each layer only fills fields the layers
// above left unset, and a value that fails to parse is skipped rather than
// reported: malformed configuration is never fatal.
package options

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mdpipe/mdpipe/types"
	"github.com/reconquest/pkg/log"
)

// Namespace is the reserved top-level options key.
const Namespace = "mdpipe"

// Options is the nested options structure as supplied by the host tool's
// API call, CLI parser or TOML configuration file.
type Options map[string]any

const (
	hooksPlugin = "hooks"
	mdsfPlugin  = "mdsf"

	// Environment fallbacks, read only when every higher layer left the
	// field unset.
	envMdsfConfig  = "MDSF_CONFIG"
	envMdsfTimeout = "MDSF_TIMEOUT"
)

// ResolveHooks produces the effective shell-hooks configuration.
func ResolveHooks(opts Options) types.HooksConfig {
	cfg := types.HooksConfig{
		Timeout: types.DefaultTimeout,
	}

	if pre, ok := firstString(candidates(opts, "pre_command", hooksPlugin, "pre_command")); ok {
		cfg.PreCommand = pre
	}
	if post, ok := firstString(candidates(opts, "post_command", hooksPlugin, "post_command")); ok {
		cfg.PostCommand = post
	}
	if timeout, ok := firstTimeout(candidates(opts, "timeout", hooksPlugin, "timeout")); ok {
		cfg.Timeout = timeout
	}
	if strict, ok := firstBool(candidates(opts, "strict_hooks", hooksPlugin, "strict_hooks")); ok {
		cfg.Strict = strict
	}

	return cfg
}

// ResolveMdsf produces the effective mdsf configuration. MDSF_CONFIG and
// MDSF_TIMEOUT are consulted as a last resort; an unparseable MDSF_TIMEOUT
// is ignored, preserving the prior value.
func ResolveMdsf(opts Options) types.MdsfConfig {
	cfg := types.MdsfConfig{
		Timeout: types.DefaultTimeout,
	}

	path, havePath := firstString(candidates(opts, "mdsf_config", mdsfPlugin, "config"))
	if !havePath {
		path, havePath = firstString([]any{os.Getenv(envMdsfConfig)})
	}
	if havePath {
		cfg.ConfigPath = path
	}

	timeout, haveTimeout := firstTimeout(candidates(opts, "mdsf_timeout", mdsfPlugin, "timeout"))
	if !haveTimeout {
		timeout, haveTimeout = firstTimeout([]any{os.Getenv(envMdsfTimeout)})
	}
	if haveTimeout {
		cfg.Timeout = timeout
	}

	if languages, ok := firstLanguages(candidates(opts, "mdsf_languages", mdsfPlugin, "languages")); ok {
		cfg.Languages = languages
	}
	if fail, ok := firstBool(candidates(opts, "mdsf_fail_on_error", mdsfPlugin, "fail_on_error")); ok {
		cfg.FailOnError = fail
	}

	return cfg
}

// candidates returns the raw values for one field in precedence order:
// the flat API-level key first, then the plugin-namespaced key.
func candidates(opts Options, apiKey, pluginID, pluginKey string) []any {
	var values []any

	namespace, _ := opts[Namespace].(map[string]any)
	if value, ok := namespace[apiKey]; ok {
		values = append(values, value)
	}

	plugins, _ := namespace["plugin"].(map[string]any)
	plugin, _ := plugins[pluginID].(map[string]any)
	if value, ok := plugin[pluginKey]; ok {
		values = append(values, value)
	}

	return values
}

func firstString(values []any) (string, bool) {
	for _, value := range values {
		if s, ok := value.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func firstBool(values []any) (bool, bool) {
	for _, value := range values {
		switch v := value.(type) {
		case bool:
			return v, true
		case string:
			if parsed, err := strconv.ParseBool(v); err == nil {
				return parsed, true
			}
			log.Tracef(nil, "ignoring malformed boolean option: %q", v)
		}
	}
	return false, false
}

// firstTimeout parses the first usable value as a number of seconds.
// Non-positive and non-numeric values are skipped.
func firstTimeout(values []any) (time.Duration, bool) {
	for _, value := range values {
		seconds, ok := asSeconds(value)
		if !ok {
			continue
		}
		if seconds <= 0 {
			log.Tracef(nil, "ignoring non-positive timeout option: %d", seconds)
			continue
		}
		return time.Duration(seconds) * time.Second, true
	}
	return 0, false
}

func asSeconds(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		if v == "" {
			return 0, false
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Tracef(nil, "ignoring malformed timeout option: %q", v)
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// firstLanguages accepts the allow-list either as a native list or as a
// comma-separated string.
func firstLanguages(values []any) ([]string, bool) {
	for _, value := range values {
		switch v := value.(type) {
		case []string:
			if len(v) > 0 {
				return v, true
			}
		case []any:
			var languages []string
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					languages = append(languages, s)
				}
			}
			if len(languages) > 0 {
				return languages, true
			}
		case string:
			languages := splitLanguages(v)
			if len(languages) > 0 {
				return languages, true
			}
		}
	}
	return nil, false
}

func splitLanguages(list string) []string {
	var languages []string
	for _, lang := range strings.Split(list, ",") {
		lang = strings.TrimSpace(lang)
		if lang != "" {
			languages = append(languages, lang)
		}
	}
	return languages
}
