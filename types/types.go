package types

import (
	"slices"
	"time"
)

// DefaultTimeout is the wall-clock budget for a single external-process
// invocation when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// HooksConfig is the effective configuration of the shell-hooks plugin,
// resolved once per formatting run.
type HooksConfig struct {
	PreCommand  string
	PostCommand string
	Timeout     time.Duration
	Strict      bool
}

// MdsfConfig is the effective configuration of the mdsf code-block
// formatter plugin, resolved once per formatting run.
type MdsfConfig struct {
	ConfigPath  string
	Timeout     time.Duration
	Languages   []string
	FailOnError bool
}

// LanguageEnabled reports whether blocks tagged with lang should be
// formatted. An empty allow-list enables every language.
func (c MdsfConfig) LanguageEnabled(lang string) bool {
	if len(c.Languages) == 0 {
		return true
	}
	return slices.Contains(c.Languages, lang)
}
