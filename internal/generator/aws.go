package generator

import (
	"fmt"

	"github.com/cyrange/cyrange/internal/domain"
)

// AWSGenerator emits the variable document for the public cloud
// backend. On top of the shared subnetwork and machine tables it adds
// elastic IPs for entry points, NAT plumbing for guests with internet
// access, and Route53 record sets built from the plan's DNS data.
type AWSGenerator struct{}

// Platform returns the backend identifier.
func (g *AWSGenerator) Platform() string { return "aws" }

// GenerateResources reshapes the plan into AWS variables.
func (g *AWSGenerator) GenerateResources(scenario *domain.Scenario, plan *domain.Plan) (Variables, error) {
	machines := make([]map[string]any, 0, len(plan.Machines))
	var elasticIPs []string
	natInstances := make(map[int]bool)
	var records []map[string]any

	for _, m := range plan.Machines {
		guest := scenario.Guest(m.Guest)
		if guest == nil {
			return nil, fmt.Errorf("plan references unknown guest %q", m.Guest)
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
			"interfaces": interfaceVars(m),
		})

		if guest.EntryPoint {
			elasticIPs = append(elasticIPs, m.Name)
		}
		if guest.InternetAccess {
			natInstances[m.Instance] = true
		}

		for _, rec := range m.DNS {
			records = append(records, map[string]any{
				"name":  rec.Forward,
				"type":  "A",
				"value": rec.IPAddress,
			})
			records = append(records, map[string]any{
				"name":  rec.Reverse,
				"type":  "PTR",
				"value": rec.Forward,
			})
		}
	}

	nats := make([]int, 0, len(natInstances))
	for instance := 1; instance <= plan.Instances; instance++ {
		if natInstances[instance] {
			nats = append(nats, instance)
		}
	}

	return Variables{
		"platform":        "aws",
		"lab_name":        plan.LabName,
		"institution":     plan.Institution,
		"instance_number": plan.Instances,
		"subnetworks":     subnetworkVars(plan),
		"machines":        machines,
		"elastic_ips":     elasticIPs,
		"nat_instances":   nats,
		"route53_records": records,
	}, nil
}
