// Package registry is the static name->constructor table every
// configured plugin name is resolved against at build time.
package registry

import (
	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/plugin"
	"github.com/coregate/gateway/internal/plugin/cmsrate"
	"github.com/coregate/gateway/internal/plugin/echo"
)

// Constructor builds a Plugin instance from its declared YAML config
// block.
type Constructor func(*config.RawYAML) (plugin.Plugin, error)

// authPluginNames are recognized so that configuring one never trips
// UnknownPluginError, but none of them has a constructor in this build:
// requesting one fails at build time with a SpecificError rather than
// silently no-op'ing at request time.
var authPluginNames = map[string]bool{
	"basic_auth":   true,
	"hmac_auth":    true,
	"jwt_auth":     true,
	"forward_auth": true,
}

var builders = map[string]Constructor{
	"echo":     echo.New,
	"cms_rate": cmsrate.New,
}

// Build resolves name against the static registry and invokes its
// constructor with cfg. Auth plugin names are recognized but rejected
// with an explicit SpecificError identifying them as unimplemented in
// this build, distinguishing "we don't know this plugin" from "we know
// it, but core doesn't carry auth enforcement."
func Build(name string, cfg *config.RawYAML) (plugin.Plugin, error) {
	if authPluginNames[name] {
		return nil, &plugin.SpecificError{Name: name, Reason: "auth plugins are not implemented in core"}
	}
	ctor, ok := builders[name]
	if !ok {
		return nil, &plugin.UnknownPluginError{Name: name}
	}
	p, err := ctor(cfg)
	if err != nil {
		switch err.(type) {
		case *plugin.LackPluginConfigError, *plugin.YamlError, *plugin.ValidateError, *plugin.SpecificError:
			return nil, err
		default:
			return nil, &plugin.ValidateError{Name: name, Reason: err.Error()}
		}
	}
	return p, nil
}
