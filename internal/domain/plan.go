package domain

// Subnetwork is the CIDR block carved out for one network within one
// instance of the lab.
type Subnetwork struct {
	Instance int    // Instance number owning the block
	Network  string // Network name within the scenario topology
	Index    int    // Position of the network in declaration order
	CIDR     string // Assigned block in CIDR notation
	Capacity int    // Number of assignable host addresses
}

// MachineInterface is one network attachment of a compiled machine.
// A machine has one interface per network its guest is a member of.
type MachineInterface struct {
	Network   string // Subnetwork name the interface attaches to
	CIDR      string // Subnetwork block the address was taken from
	IPAddress string // Assigned address
	Index     int    // Interface ordinal on the machine, starting at 0
}

// DNSRecord is one forward/reverse record pair for a machine interface.
type DNSRecord struct {
	Forward   string // Record name, e.g. "victim-2-1.internal"
	Reverse   string // in-addr.arpa name of the assigned address
	IPAddress string // Address both records describe
}

// Machine is one fully compiled (instance, guest, copy) triple:
// canonical name, interfaces with assigned addresses, and DNS records.
type Machine struct {
	Name       string // Canonical machine name
	Guest      string // Guest template name
	Instance   int    // Instance number
	Copy       int    // Copy number, 1-based
	Interfaces []MachineInterface
	DNS        []DNSRecord
}

// Interface returns the machine's interface on the named network, or nil.
func (m *Machine) Interface(network string) *MachineInterface {
	for i := range m.Interfaces {
		if m.Interfaces[i].Network == network {
			return &m.Interfaces[i]
		}
	}
	return nil
}

// Plan is the complete compiled output for a scenario and lab edition.
// It is a pure function of its inputs: compiling the same scenario and
// edition twice yields an identical plan.
type Plan struct {
	Scenario    string
	Institution string
	LabName     string
	Instances   int
	Subnetworks []Subnetwork // ordered by (instance, network index)
	Machines    []Machine    // ordered by (instance, declaration, copy)
}

// SubnetworkFor returns the subnetwork of the given instance and
// network name, or nil if the plan has no such entry.
func (p *Plan) SubnetworkFor(instance int, network string) *Subnetwork {
	for i := range p.Subnetworks {
		if p.Subnetworks[i].Instance == instance && p.Subnetworks[i].Network == network {
			return &p.Subnetworks[i]
		}
	}
	return nil
}
