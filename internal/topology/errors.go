package topology

import "errors"

// Compilation errors that can be checked with errors.Is(). All of them
// are detected synchronously while compiling; none are retryable since
// the same input reproduces the same failure.
var (
	// ErrInvalidTopology is returned for unsupported network counts or
	// non-positive copy/instance counts
	ErrInvalidTopology = errors.New("invalid topology")

	// ErrNetworkOverlap is returned when a reserved services/internet
	// block intersects a per-instance block
	ErrNetworkOverlap = errors.New("network blocks overlap")

	// ErrAddressSpaceExhausted is returned when the instance count
	// exceeds what the global block can address
	ErrAddressSpaceExhausted = errors.New("address space exhausted")

	// ErrSubnetworkExhausted is returned when the expanded membership of
	// a subnetwork exceeds its host capacity
	ErrSubnetworkExhausted = errors.New("subnetwork exhausted")

	// ErrDuplicateName is returned when two synthesized identities
	// collide; this indicates a compiler bug and should never surface
	ErrDuplicateName = errors.New("duplicate name")
)
