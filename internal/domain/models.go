package domain

// GuestTemplate describes one guest machine declared by a scenario.
// Templates are immutable once the scenario is loaded; every instance of
// the lab stamps out Copies replicas of each template.
type GuestTemplate struct {
	Name              string `yaml:"name" json:"name"`
	BaseOS            string `yaml:"base_os" json:"base_os"`
	VCPU              int    `yaml:"vcpu" json:"vcpu"`
	MemoryMB          int    `yaml:"memory_mb" json:"memory_mb"`
	DiskGB            int    `yaml:"disk_gb" json:"disk_gb"`
	Copies            int    `yaml:"copies" json:"copies"`
	EntryPoint        bool   `yaml:"entry_point" json:"entry_point"`
	InternetAccess    bool   `yaml:"internet_access" json:"internet_access"`
	Monitor           bool   `yaml:"monitor" json:"monitor"`
	RedTeamAgent      bool   `yaml:"red_team_agent" json:"red_team_agent"`
	BlueTeamAgent     bool   `yaml:"blue_team_agent" json:"blue_team_agent"`
	InServicesNetwork bool   `yaml:"services_network" json:"services_network"`
}

// NetworkDef is one network of the scenario topology. Member order is
// significant: it determines the order of IP address assignment.
type NetworkDef struct {
	Name    string   `yaml:"name" json:"name"`
	Members []string `yaml:"members" json:"members"`
}

// Scenario is the static, shareable description of a training lab:
// guest templates plus the network topology connecting them.
type Scenario struct {
	Name     string          `yaml:"name" json:"name"`
	Guests   []GuestTemplate `yaml:"guests" json:"guests"`
	Networks []NetworkDef    `yaml:"networks" json:"networks"`
}

// Guest returns the guest template with the given name, or nil.
func (s *Scenario) Guest(name string) *GuestTemplate {
	for i := range s.Guests {
		if s.Guests[i].Name == name {
			return &s.Guests[i]
		}
	}
	return nil
}

// LabEdition holds the per-run parameters layered on top of a scenario.
type LabEdition struct {
	Institution    string `yaml:"institution" json:"institution"`
	LabName        string `yaml:"lab_name" json:"lab_name"`
	InstanceNumber int    `yaml:"instance_number" json:"instance_number"`
}

// Lab represents a recorded lab deployment in the state store.
type Lab struct {
	ID             int64  // Unique identifier
	Name           string // Lab name, unique across the store
	Institution    string // Owning institution
	Scenario       string // Scenario name the lab was compiled from
	Platform       string // Backend platform (aws, libvirt, docker)
	InstanceNumber int    // Number of deployed instances
}

// LabMachine is one deployed machine recorded for a lab.
type LabMachine struct {
	ID        int64  // Unique identifier
	LabID     int64  // Foreign key to Lab
	Name      string // Canonical machine name
	Guest     string // Guest template name
	Instance  int    // Instance number the machine belongs to
	Copy      int    // Copy number within the instance
	Network   string // First network the machine is attached to
	IPAddress string // Address on that network
}
