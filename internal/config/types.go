// Package config loads and validates the gateway's YAML configuration into
// the data model the builder consumes. Every field maps 1:1 onto the wire
// schema documented for the core: services, listeners, routes, clusters,
// plugins, resolvers.
package config

// Config is the top-level YAML document.
type Config struct {
	Identities []Identity          `yaml:"identities"`
	Services   []Service           `yaml:"services"`
	Resolvers  []DiscoveryProvider `yaml:"resolvers"`
	Admin      *AdminConfig        `yaml:"admin"`
}

// AdminConfig enables the read-only /debug/clusters introspection
// listener. Its absence means the admin surface is not served at all.
type AdminConfig struct {
	Address string `yaml:"address"`
}

// Identity holds auth material for auth plugins. The core decodes it but
// never reads it, and does not pass it to the plugin registry.
type Identity struct {
	Name     string    `yaml:"name"`
	Basic    *Basic    `yaml:"basic_auth"`
	Hmac     *Hmac     `yaml:"hmac_auth"`
	Jwt      *Jwt      `yaml:"jwt_auth"`
}

type Basic struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Hmac struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type Jwt struct {
	Issuer string `yaml:"issuer"`
	Secret string `yaml:"secret"`
}

type Service struct {
	Name       string     `yaml:"name"`
	ServerConf *ServerConf `yaml:"server_conf"`
	Listeners  []Listener `yaml:"listeners"`
	Plugins    []Plugin   `yaml:"plugins"`
	Routes     []Route    `yaml:"routes"`
	Clusters   []Cluster  `yaml:"clusters"`
}

// ServerConf is an opaque per-service knob bag, not interpreted by the
// core; kept so config documents that set it round-trip cleanly.
type ServerConf struct {
	ThreadsPerService int `yaml:"threads_per_service,omitempty"`
}

type Protocol string

const (
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
)

type Listener struct {
	Name      string     `yaml:"name"`
	Address   string     `yaml:"address"`
	Protocol  Protocol   `yaml:"protocol"`
	SSLConfig *SSLConfig `yaml:"ssl_config"`
}

type SSLConfig struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type Route struct {
	Name    string   `yaml:"name"`
	Match   Matcher  `yaml:"match"`
	Auth    *Auth    `yaml:"auth"`
	Plugins []Plugin `yaml:"plugins"`
	Cluster string   `yaml:"cluster"`
}

type Matcher struct {
	URI     *StrMatch          `yaml:"uri"`
	Headers map[string]StrMatch `yaml:"headers"`
}

// StrMatch is a tagged variant decoded from one of three mutually
// exclusive YAML keys: exact, prefix, regexp.
type StrMatch struct {
	Kind  StrMatchKind
	Value string
}

type StrMatchKind int

const (
	StrMatchNone StrMatchKind = iota
	StrMatchExact
	StrMatchPrefix
	StrMatchRegexp
)

type Auth struct {
	Type              string             `yaml:"type"`
	AllowedIdentities []string           `yaml:"allowed_identities"`
	Config            *ForwardAuthConfig `yaml:"config"`
}

type ForwardAuthConfig struct {
	Cluster           string   `yaml:"cluster"`
	Path              string   `yaml:"path"`
	HeadersToForward  []string `yaml:"headers_to_forward"`
}

type Plugin struct {
	Name   string `yaml:"name"`
	Config *RawYAML `yaml:"config"`
}

// ResolverKind tags which discovery backend a cluster (or a resolvers:
// entry) uses. Three variants: dns, static, docker. The first two come
// straight from the spec; docker is a supplemental discovery source.
type ResolverKind string

const (
	ResolverDNS    ResolverKind = "dns"
	ResolverStatic ResolverKind = "static"
	ResolverDocker ResolverKind = "docker"
)

type LBPolicy string

const (
	LBRoundRobin LBPolicy = "round_robin"
	LBLeastConn  LBPolicy = "least_conn"
	LBRandom     LBPolicy = "random"
)

type Cluster struct {
	Name         string        `yaml:"name"`
	Resolver     ResolverKind  `yaml:"resolver"`
	LBPolicy     LBPolicy      `yaml:"lb_policy"`
	Config       *RawYAML      `yaml:"config"`
	HealthChecks []HealthCheck `yaml:"health_checks"`
}

type HealthCheck struct {
	Timeout            Duration `yaml:"timeout"`
	Interval           Duration `yaml:"interval"`
	UnhealthyThreshold int      `yaml:"unhealthy_threshold"`
	HealthyThreshold   int      `yaml:"healthy_threshold"`
}

type DiscoveryProvider struct {
	Name   string       `yaml:"name"`
	Type   ResolverKind `yaml:"type"`
	Config *RawYAML     `yaml:"config"`
}

// DNSClusterConfig is the shape a cluster's `config:` block must have when
// resolver: dns.
type DNSClusterConfig struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`
}

// StaticClusterConfig is the shape a cluster's `config:` block must have
// when resolver: static.
type StaticClusterConfig struct {
	Endpoints []string `yaml:"endpoints"`
}

// DockerClusterConfig is the shape a cluster's `config:` block must have
// when resolver: docker.
type DockerClusterConfig struct {
	LabelPrefix string `yaml:"label_prefix"`
}
