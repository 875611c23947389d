package generator

import (
	"fmt"

	"github.com/cyrange/cyrange/internal/domain"
)

// LibvirtGenerator emits the variable document for the hypervisor
// backend. Each subnetwork maps to a host bridge device; machines carry
// their full resource sizing for domain definitions.
type LibvirtGenerator struct{}

// Platform returns the backend identifier.
func (g *LibvirtGenerator) Platform() string { return "libvirt" }

// BridgeName derives the host bridge device for one subnetwork. Linux
// interface names are capped at 15 characters, so the name uses only
// the instance number and the network's declaration index.
func BridgeName(sub domain.Subnetwork) string {
	return fmt.Sprintf("crbr-%d-%d", sub.Instance, sub.Index)
}

// GenerateResources reshapes the plan into libvirt variables.
func (g *LibvirtGenerator) GenerateResources(scenario *domain.Scenario, plan *domain.Plan) (Variables, error) {
	bridges := make(map[string]string, len(plan.Subnetworks))
	networks := make([]map[string]any, 0, len(plan.Subnetworks))
	for _, s := range plan.Subnetworks {
		bridge := BridgeName(s)
		bridges[fmt.Sprintf("%d/%s", s.Instance, s.Network)] = bridge
		networks = append(networks, map[string]any{
			"instance": s.Instance,
			"network":  s.Network,
			"cidr":     s.CIDR,
			"bridge":   bridge,
		})
	}

	machines := make([]map[string]any, 0, len(plan.Machines))
	for _, m := range plan.Machines {
		guest := scenario.Guest(m.Guest)
		if guest == nil {
			return nil, fmt.Errorf("plan references unknown guest %q", m.Guest)
		}

		ifaces := make([]map[string]any, 0, len(m.Interfaces))
		for _, iface := range m.Interfaces {
			ifaces = append(ifaces, map[string]any{
				"network":    iface.Network,
				"ip_address": iface.IPAddress,
				"index":      iface.Index,
				"bridge":     bridges[fmt.Sprintf("%d/%s", m.Instance, iface.Network)],
			})
		}
		machines = append(machines, map[string]any{
			"name":       m.Name,
			"guest":      m.Guest,
			"instance":   m.Instance,
			"copy":       m.Copy,
			"base_os":    guest.BaseOS,
			"vcpu":       guest.VCPU,
			"memory_mb":  guest.MemoryMB,
			"disk_gb":    guest.DiskGB,
			"interfaces": ifaces,
		})
	}

	return Variables{
		"platform":        "libvirt",
		"lab_name":        plan.LabName,
		"institution":     plan.Institution,
		"instance_number": plan.Instances,
		"networks":        networks,
		"machines":        machines,
	}, nil
}
