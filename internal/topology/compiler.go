// Package topology compiles a scenario and lab edition into concrete,
// collision-free addressing, naming and DNS data. The compilation is a
// pure function of its inputs: no I/O, no shared state, and identical
// inputs always produce an identical plan. Every backend and lifecycle
// command consumes the plan verbatim.
package topology

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/cyrange/cyrange/internal/domain"
)

// Compile derives the full plan for a scenario and lab edition:
// the subnetwork table, sequential address assignment for every machine
// interface, canonical machine names, and forward/reverse DNS records.
func Compile(scenario *domain.Scenario, edition domain.LabEdition, blocks Blocks) (*domain.Plan, error) {
	if err := validateEdition(edition); err != nil {
		return nil, err
	}

	subnets, err := PartitionNetworks(blocks, edition.InstanceNumber, scenario.Networks)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		Scenario:    scenario.Name,
		Institution: edition.Institution,
		LabName:     edition.LabName,
		Instances:   edition.InstanceNumber,
		Subnetworks: subnets,
	}

	machineNames := make(map[string]bool)
	// forward DNS names are scoped per network
	dnsNames := make(map[string]map[string]bool)
	addresses := make(map[string]string)

	for instance := 1; instance <= edition.InstanceNumber; instance++ {
		// address assignment per network, in declaration order
		byNetwork := make(map[string][]assignment, len(scenario.Networks))
		for k, network := range scenario.Networks {
			sub := plan.SubnetworkFor(instance, network.Name)
			if sub == nil || sub.Index != k {
				return nil, fmt.Errorf("instance %d: missing subnetwork for network %q", instance, network.Name)
			}
			asgs, err := assignSubnetwork(*sub, network, scenario)
			if err != nil {
				return nil, err
			}
			for _, a := range asgs {
				ip := a.Addr.String()
				if owner, taken := addresses[ip]; taken {
					return nil, fmt.Errorf("%w: address %s assigned to both %s and %s-%d",
						ErrDuplicateName, ip, owner, a.Guest, a.Copy)
				}
				addresses[ip] = fmt.Sprintf("%s-%d", a.Guest, a.Copy)
			}
			byNetwork[network.Name] = asgs
		}

		// machines in guest declaration order, copies in increasing order
		for gi := range scenario.Guests {
			guest := &scenario.Guests[gi]
			if !memberOfAnyNetwork(scenario, guest.Name) {
				continue
			}
			for copy := 1; copy <= guest.Copies; copy++ {
				machine := domain.Machine{
					Name:     MachineName(edition.Institution, edition.LabName, instance, guest.Name, copy, guest.Copies),
					Guest:    guest.Name,
					Instance: instance,
					Copy:     copy,
				}
				if machineNames[machine.Name] {
					return nil, fmt.Errorf("%w: machine name %q synthesized twice", ErrDuplicateName, machine.Name)
				}
				machineNames[machine.Name] = true

				for _, network := range scenario.Networks {
					addr, ok := lookupAssignment(byNetwork[network.Name], guest.Name, copy)
					if !ok {
						continue
					}
					sub := plan.SubnetworkFor(instance, network.Name)
					machine.Interfaces = append(machine.Interfaces, domain.MachineInterface{
						Network:   network.Name,
						CIDR:      sub.CIDR,
						IPAddress: addr.String(),
						Index:     len(machine.Interfaces),
					})

					forward := ForwardDNSName(guest.Name, copy, guest.Copies, instance, network.Name)
					if dnsNames[network.Name] == nil {
						dnsNames[network.Name] = make(map[string]bool)
					}
					if dnsNames[network.Name][forward] {
						return nil, fmt.Errorf("%w: DNS name %q synthesized twice in network %q",
							ErrDuplicateName, forward, network.Name)
					}
					dnsNames[network.Name][forward] = true

					machine.DNS = append(machine.DNS, domain.DNSRecord{
						Forward:   forward,
						Reverse:   ReverseDNSName(addr),
						IPAddress: addr.String(),
					})
				}
				plan.Machines = append(plan.Machines, machine)
			}
		}
	}

	return plan, nil
}

// validateEdition checks the per-run parameters the compiler depends on.
// Institution and lab name feed the canonical machine name, so neither
// may contain the '-' component separator.
func validateEdition(edition domain.LabEdition) error {
	if edition.InstanceNumber < 1 {
		return fmt.Errorf("%w: instance number %d must be positive", ErrInvalidTopology, edition.InstanceNumber)
	}
	if edition.Institution == "" || edition.LabName == "" {
		return fmt.Errorf("%w: institution and lab name are required", ErrInvalidTopology)
	}
	if strings.Contains(edition.Institution, "-") {
		return fmt.Errorf("%w: institution %q must not contain '-'", ErrInvalidTopology, edition.Institution)
	}
	if strings.Contains(edition.LabName, "-") {
		return fmt.Errorf("%w: lab name %q must not contain '-'", ErrInvalidTopology, edition.LabName)
	}
	return nil
}

// memberOfAnyNetwork reports whether the guest appears in the topology.
func memberOfAnyNetwork(scenario *domain.Scenario, guest string) bool {
	for _, network := range scenario.Networks {
		for _, member := range network.Members {
			if member == guest {
				return true
			}
		}
	}
	return false
}

// lookupAssignment finds the address handed to (guest, copy) within one
// subnetwork's assignment list.
func lookupAssignment(asgs []assignment, guest string, copy int) (netip.Addr, bool) {
	for _, a := range asgs {
		if a.Guest == guest && a.Copy == copy {
			return a.Addr, true
		}
	}
	return netip.Addr{}, false
}
