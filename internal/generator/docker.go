package generator

import (
	"fmt"

	"github.com/cyrange/cyrange/internal/domain"
)

// DockerGenerator emits the variable document for the container
// backend: one flat bridge network per subnetwork and one container per
// machine, attached with static addresses.
type DockerGenerator struct{}

// Platform returns the backend identifier.
func (g *DockerGenerator) Platform() string { return "docker" }

// networkName derives the docker network for one subnetwork. Network
// names are global on the docker host, so the lab name and instance
// number keep concurrently deployed labs apart.
func (g *DockerGenerator) networkName(plan *domain.Plan, sub domain.Subnetwork) string {
	return fmt.Sprintf("%s-%s-%d-%s", plan.Institution, plan.LabName, sub.Instance, sub.Network)
}

// GenerateResources reshapes the plan into docker variables.
func (g *DockerGenerator) GenerateResources(scenario *domain.Scenario, plan *domain.Plan) (Variables, error) {
	networks := make([]map[string]any, 0, len(plan.Subnetworks))
	names := make(map[string]string, len(plan.Subnetworks))
	for _, s := range plan.Subnetworks {
		name := g.networkName(plan, s)
		names[fmt.Sprintf("%d/%s", s.Instance, s.Network)] = name
		networks = append(networks, map[string]any{
			"name":   name,
			"driver": "bridge",
			"subnet": s.CIDR,
		})
	}

	containers := make([]map[string]any, 0, len(plan.Machines))
	for _, m := range plan.Machines {
		guest := scenario.Guest(m.Guest)
		if guest == nil {
			return nil, fmt.Errorf("plan references unknown guest %q", m.Guest)
		}

		attachments := make([]map[string]any, 0, len(m.Interfaces))
		for _, iface := range m.Interfaces {
			attachments = append(attachments, map[string]any{
				"network":    names[fmt.Sprintf("%d/%s", m.Instance, iface.Network)],
				"ip_address": iface.IPAddress,
			})
		}
		containers = append(containers, map[string]any{
			"name":     m.Name,
			"image":    guest.BaseOS,
			"guest":    m.Guest,
			"instance": m.Instance,
			"copy":     m.Copy,
			"networks": attachments,
		})
	}

	return Variables{
		"platform":        "docker",
		"lab_name":        plan.LabName,
		"institution":     plan.Institution,
		"instance_number": plan.Instances,
		"networks":        networks,
		"containers":      containers,
	}, nil
}
