package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// RawYAML defers decoding of a plugin/cluster config block until the
// owning plugin or discovery constructor knows its target shape.
type RawYAML struct {
	node yaml.Node
}

func (r *RawYAML) UnmarshalYAML(node *yaml.Node) error {
	r.node = *node
	return nil
}

func (r RawYAML) MarshalYAML() (any, error) {
	return r.node, nil
}

// Decode unmarshals the deferred block into v.
func (r *RawYAML) Decode(v any) error {
	return r.node.Decode(v)
}

// IsZero reports whether a config block was present at all, distinguishing
// `config:` absent (or explicit `config: null`) from `config: {}`.
func (r *RawYAML) IsZero() bool {
	if r == nil || r.node.Kind == 0 {
		return true
	}
	return r.node.Kind == yaml.ScalarNode && r.node.Tag == "!!null"
}

// Duration parses Go duration strings ("1s", "500ms") from YAML scalars,
// matching the original implementation's humantime-style durations.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML decodes the three mutually-exclusive match tags into a
// single tagged StrMatch.
func (m *StrMatch) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Exact  *string `yaml:"exact"`
		Prefix *string `yaml:"prefix"`
		Regexp *string `yaml:"regexp"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch {
	case raw.Exact != nil:
		m.Kind, m.Value = StrMatchExact, *raw.Exact
	case raw.Prefix != nil:
		m.Kind, m.Value = StrMatchPrefix, *raw.Prefix
	case raw.Regexp != nil:
		m.Kind, m.Value = StrMatchRegexp, *raw.Regexp
	default:
		return fmt.Errorf("match must set exactly one of exact, prefix, regexp")
	}
	return nil
}

func (m StrMatch) MarshalYAML() (any, error) {
	switch m.Kind {
	case StrMatchExact:
		return map[string]string{"exact": m.Value}, nil
	case StrMatchPrefix:
		return map[string]string{"prefix": m.Value}, nil
	case StrMatchRegexp:
		return map[string]string{"regexp": m.Value}, nil
	default:
		return nil, fmt.Errorf("unset StrMatch")
	}
}

func (p Protocol) normalize() Protocol {
	if p == "" {
		return ProtocolHTTP
	}
	return p
}

func (l *Listener) UnmarshalYAML(node *yaml.Node) error {
	type alias Listener
	var a alias
	if err := node.Decode(&a); err != nil {
		return err
	}
	a.Protocol = a.Protocol.normalize()
	*l = Listener(a)
	return nil
}
