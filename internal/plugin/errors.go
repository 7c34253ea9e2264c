package plugin

import "fmt"

// UnknownPluginError means a route or global plugin list named a plugin
// with no registered constructor.
type UnknownPluginError struct{ Name string }

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("unknown plugin %q", e.Name)
}

// LackPluginConfigError means a plugin constructor requires a config
// block but none was supplied.
type LackPluginConfigError struct{ Name string }

func (e *LackPluginConfigError) Error() string {
	return fmt.Sprintf("plugin %q requires a config block", e.Name)
}

// YamlError wraps a failure decoding a plugin's config block into its
// expected shape.
type YamlError struct {
	Name  string
	Cause error
}

func (e *YamlError) Error() string {
	return fmt.Sprintf("decoding config for plugin %q: %v", e.Name, e.Cause)
}

func (e *YamlError) Unwrap() error { return e.Cause }

// ValidateError means a plugin's config decoded cleanly but failed a
// semantic check (e.g. cms_rate's interval must be >= 1s).
type ValidateError struct {
	Name   string
	Reason string
}

func (e *ValidateError) Error() string {
	return fmt.Sprintf("invalid config for plugin %q: %s", e.Name, e.Reason)
}

// SpecificError carries a plugin-specific construction failure that
// doesn't fit the other categories, such as an auth plugin name that is
// recognized but not implemented by this build.
type SpecificError struct {
	Name   string
	Reason string
}

func (e *SpecificError) Error() string {
	return fmt.Sprintf("plugin %q: %s", e.Name, e.Reason)
}
