// Package generator turns a compiled plan into the backend-specific
// variable documents consumed by the provisioning layer. One shared
// compiler feeds three independent, swappable adapters; the adapters
// never recompute addressing or naming, they only reshape the plan.
package generator

import (
	"fmt"

	"github.com/cyrange/cyrange/internal/domain"
)

// Variables is the serializable variable document a backend consumes.
type Variables map[string]any

// Generator is the capability every backend adapter implements.
type Generator interface {
	// Platform returns the backend identifier (aws, libvirt, docker)
	Platform() string

	// GenerateResources reshapes the compiled plan into the backend's
	// variable document. The scenario is passed alongside the plan for
	// guest sizing and flags; neither input is mutated.
	GenerateResources(scenario *domain.Scenario, plan *domain.Plan) (Variables, error)
}

// ForPlatform returns the adapter for the named platform.
func ForPlatform(platform string) (Generator, error) {
	switch platform {
	case "aws":
		return &AWSGenerator{}, nil
	case "libvirt":
		return &LibvirtGenerator{}, nil
	case "docker":
		return &DockerGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown platform %q", platform)
	}
}

// Platforms lists the supported backend identifiers.
func Platforms() []string {
	return []string{"aws", "libvirt", "docker"}
}

// subnetworkVars emits the platform-neutral subnetwork table shared by
// every adapter.
func subnetworkVars(plan *domain.Plan) []map[string]any {
	out := make([]map[string]any, 0, len(plan.Subnetworks))
	for _, s := range plan.Subnetworks {
		out = append(out, map[string]any{
			"instance": s.Instance,
			"network":  s.Network,
			"cidr":     s.CIDR,
		})
	}
	return out
}

// interfaceVars emits a machine's interface list.
func interfaceVars(m domain.Machine) []map[string]any {
	out := make([]map[string]any, 0, len(m.Interfaces))
	for _, iface := range m.Interfaces {
		out = append(out, map[string]any{
			"network":    iface.Network,
			"ip_address": iface.IPAddress,
			"index":      iface.Index,
		})
	}
	return out
}
