// Package scenario loads and validates the YAML descriptions a lab is
// compiled from: the scenario file (guest templates plus topology) and
// the lab edition file (per-run parameters).
package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cyrange/cyrange/internal/domain"
)

// Load reads and validates a scenario file.
func Load(path string) (*domain.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (*domain.Scenario, error) {
	var s domain.Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	Normalize(&s)
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadEdition reads and validates a lab edition file.
func LoadEdition(path string) (domain.LabEdition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.LabEdition{}, fmt.Errorf("failed to read lab edition file: %w", err)
	}
	var e domain.LabEdition
	if err := yaml.Unmarshal(data, &e); err != nil {
		return domain.LabEdition{}, fmt.Errorf("failed to parse lab edition: %w", err)
	}
	if err := ValidateEdition(e); err != nil {
		return domain.LabEdition{}, err
	}
	return e, nil
}

// Normalize fills in defaults a scenario document may omit. A guest
// with no copies field is a single-copy guest.
func Normalize(s *domain.Scenario) {
	for i := range s.Guests {
		if s.Guests[i].Copies == 0 {
			s.Guests[i].Copies = 1
		}
	}
}

// Validate checks the structural invariants the compiler depends on:
// unique guest and network names, positive copy counts, and topology
// members that reference declared guests.
func Validate(s *domain.Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Guests) == 0 {
		return fmt.Errorf("scenario %q declares no guests", s.Name)
	}
	if len(s.Networks) == 0 {
		return fmt.Errorf("scenario %q declares no networks", s.Name)
	}

	guests := make(map[string]bool, len(s.Guests))
	for _, g := range s.Guests {
		if g.Name == "" {
			return fmt.Errorf("scenario %q has a guest with no name", s.Name)
		}
		if guests[g.Name] {
			return fmt.Errorf("duplicate guest name %q", g.Name)
		}
		guests[g.Name] = true
		if g.Copies < 1 {
			return fmt.Errorf("guest %q has invalid copy count %d", g.Name, g.Copies)
		}
	}

	networks := make(map[string]bool, len(s.Networks))
	for _, n := range s.Networks {
		if n.Name == "" {
			return fmt.Errorf("scenario %q has a network with no name", s.Name)
		}
		if networks[n.Name] {
			return fmt.Errorf("duplicate network name %q", n.Name)
		}
		networks[n.Name] = true

		seen := make(map[string]bool, len(n.Members))
		for _, member := range n.Members {
			if !guests[member] {
				return fmt.Errorf("network %q lists unknown guest %q", n.Name, member)
			}
			if seen[member] {
				return fmt.Errorf("network %q lists guest %q twice", n.Name, member)
			}
			seen[member] = true
		}
	}
	return nil
}

// ValidateEdition checks the per-run parameters. Institution and lab
// name become machine name components, so '-' is not allowed in either.
func ValidateEdition(e domain.LabEdition) error {
	if e.Institution == "" {
		return fmt.Errorf("institution is required")
	}
	if e.LabName == "" {
		return fmt.Errorf("lab name is required")
	}
	if strings.Contains(e.Institution, "-") {
		return fmt.Errorf("institution %q must not contain '-'", e.Institution)
	}
	if strings.Contains(e.LabName, "-") {
		return fmt.Errorf("lab name %q must not contain '-'", e.LabName)
	}
	if e.InstanceNumber < 1 {
		return fmt.Errorf("instance number %d must be positive", e.InstanceNumber)
	}
	return nil
}
