package proxy

import "fmt"

// NoClusterError means a matched route carries no cluster name at all —
// an internal inconsistency, since build-time validation is supposed to
// reject routes with an empty cluster field before the gateway ever
// starts serving.
type NoClusterError struct{ RouteName string }

func (e *NoClusterError) Error() string {
	return fmt.Sprintf("route %q has no cluster", e.RouteName)
}

// ConnectNoRouteError means a route names a cluster with no
// corresponding entry in the service's cluster manager.
type ConnectNoRouteError struct{ Cluster string }

func (e *ConnectNoRouteError) Error() string {
	return fmt.Sprintf("route references unknown cluster %q", e.Cluster)
}

// NoBackendError means the matched cluster's load balancer has no live
// endpoint to select.
type NoBackendError struct{ Cluster string }

func (e *NoBackendError) Error() string {
	return fmt.Sprintf("cluster %q has no available backend", e.Cluster)
}
