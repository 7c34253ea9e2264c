package discovery

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	dockerclient "github.com/docker/docker/client"
)

// Docker discovers backends by listing running containers whose labels
// opt them into the mesh, adapted from a push-based event watcher (the
// teacher's internal/docker package) into the pull-based Discover()
// contract the load balancer polls.
//
// Label reference (labelPrefix defaults to "gateway."):
//
//	gateway.enable: "true"  # required — opt this container in
//	gateway.port:   "8080"  # required — port the app listens on
//	gateway.name:   "web"   # optional — informational only
type Docker struct {
	client      *dockerclient.Client
	labelPrefix string
}

// NewDocker builds a client for the local Docker daemon (DOCKER_HOST /
// TLS env vars honored, API version auto-negotiated). It does not contact
// the daemon: construction fails only on invalid client settings, and an
// unreachable socket surfaces as an error from the first Discover call.
func NewDocker(labelPrefix string) (*Docker, error) {
	if labelPrefix == "" {
		labelPrefix = "gateway."
	}
	cli, err := dockerclient.NewClientWithOpts(
		dockerclient.FromEnv,
		dockerclient.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to docker daemon: %w", err)
	}
	return &Docker{client: cli, labelPrefix: labelPrefix}, nil
}

func (d *Docker) Discover(ctx context.Context) ([]Endpoint, map[string]bool, error) {
	containers, err := d.client.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("listing containers: %w", err)
	}

	var endpoints []Endpoint
	for _, c := range containers {
		if c.Labels[d.labelPrefix+"enable"] != "true" {
			continue
		}
		ep, ok := d.endpointFor(ctx, c.ID, c.Labels)
		if !ok {
			// A single misconfigured container must not fail discovery
			// for the whole cluster; it's simply absent from the set.
			continue
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, nil, nil
}

func (d *Docker) endpointFor(ctx context.Context, id string, labels map[string]string) (Endpoint, bool) {
	portStr := labels[d.labelPrefix+"port"]
	if portStr == "" {
		return Endpoint{}, false
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Endpoint{}, false
	}

	info, err := d.client.ContainerInspect(ctx, id)
	if err != nil || info.NetworkSettings == nil {
		return Endpoint{}, false
	}
	ip, ok := pickContainerIP(info.NetworkSettings.Networks)
	if !ok {
		return Endpoint{}, false
	}
	return Endpoint{IP: ip, Port: uint16(port), Weight: 1}, true
}

// preferredNetworkSubstr biases endpoint selection toward a dedicated
// proxy-mesh network when a container has more than one attached, the
// same heuristic the teacher's event-driven watcher used.
const preferredNetworkSubstr = "gateway"

func pickContainerIP(networks map[string]*network.EndpointSettings) (net.IP, bool) {
	for name, n := range networks {
		if n == nil || n.IPAddress == "" {
			continue
		}
		if strings.Contains(strings.ToLower(name), preferredNetworkSubstr) {
			if ip := net.ParseIP(n.IPAddress); ip != nil {
				return ip, true
			}
		}
	}
	for _, n := range networks {
		if n == nil || n.IPAddress == "" {
			continue
		}
		if ip := net.ParseIP(n.IPAddress); ip != nil {
			return ip, true
		}
	}
	return nil, false
}
