package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the YAML document at path. It does not validate;
// call Validate afterwards.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FileName: path, Cause: err}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &LoadError{FileName: path, Cause: err}
	}
	return &cfg, nil
}

// Validate checks structural invariants the loader itself is responsible
// for (schema shape), as distinct from the builder-time invariants
// (cluster/plugin name resolution) that only the builder can check.
func (c *Config) Validate() error {
	if len(c.Services) == 0 {
		return &ValidationError{Path: "services", Reason: "at least one service is required"}
	}
	for si, svc := range c.Services {
		if len(svc.Listeners) == 0 {
			return &ValidationError{
				Path:   fmt.Sprintf("services[%d](%s).listeners", si, svc.Name),
				Reason: "at least one listener is required",
			}
		}
		if len(svc.Routes) == 0 {
			return &ValidationError{
				Path:   fmt.Sprintf("services[%d](%s).routes", si, svc.Name),
				Reason: "at least one route is required",
			}
		}
		for li, l := range svc.Listeners {
			if l.Protocol == ProtocolHTTPS && l.SSLConfig == nil {
				return &ValidationError{
					Path:   fmt.Sprintf("services[%d](%s).listeners[%d](%s)", si, svc.Name, li, l.Name),
					Reason: "ssl_config is required for HTTPS listener",
				}
			}
		}
	}
	return nil
}
