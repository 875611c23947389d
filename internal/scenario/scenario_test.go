package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyrange/cyrange/internal/domain"
)

const validScenarioYAML = `
name: attack_defense
guests:
  - name: attacker
    base_os: kali
    vcpu: 2
    memory_mb: 2048
    disk_gb: 20
    entry_point: true
  - name: victim
    base_os: debian
    copies: 2
    internet_access: true
networks:
  - name: internal
    members: [attacker, victim]
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(validScenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "attack_defense", s.Name)
	require.Len(t, s.Guests, 2)

	attacker := s.Guest("attacker")
	require.NotNil(t, attacker)
	assert.Equal(t, "kali", attacker.BaseOS)
	assert.Equal(t, 2, attacker.VCPU)
	assert.True(t, attacker.EntryPoint)
	// copies defaults to 1 when omitted
	assert.Equal(t, 1, attacker.Copies)

	victim := s.Guest("victim")
	require.NotNil(t, victim)
	assert.Equal(t, 2, victim.Copies)
	assert.True(t, victim.InternetAccess)

	require.Len(t, s.Networks, 1)
	assert.Equal(t, []string{"attacker", "victim"}, s.Networks[0].Members)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yml")
	require.NoError(t, os.WriteFile(path, []byte(validScenarioYAML), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "attack_defense", s.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *domain.Scenario {
		return &domain.Scenario{
			Name: "s",
			Guests: []domain.GuestTemplate{
				{Name: "a", Copies: 1},
				{Name: "b", Copies: 2},
			},
			Networks: []domain.NetworkDef{
				{Name: "net", Members: []string{"a", "b"}},
			},
		}
	}

	assert.NoError(t, Validate(base()))

	tests := []struct {
		name   string
		mutate func(*domain.Scenario)
	}{
		{"empty name", func(s *domain.Scenario) { s.Name = "" }},
		{"no guests", func(s *domain.Scenario) { s.Guests = nil }},
		{"no networks", func(s *domain.Scenario) { s.Networks = nil }},
		{"unnamed guest", func(s *domain.Scenario) { s.Guests[0].Name = "" }},
		{"duplicate guest", func(s *domain.Scenario) { s.Guests[1].Name = "a" }},
		{"zero copies", func(s *domain.Scenario) { s.Guests[0].Copies = 0 }},
		{"unnamed network", func(s *domain.Scenario) { s.Networks[0].Name = "" }},
		{"unknown member", func(s *domain.Scenario) { s.Networks[0].Members = []string{"ghost"} }},
		{"repeated member", func(s *domain.Scenario) { s.Networks[0].Members = []string{"a", "a"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			assert.Error(t, Validate(s))
		})
	}
}

func TestValidate_DuplicateNetwork(t *testing.T) {
	s := &domain.Scenario{
		Name:   "s",
		Guests: []domain.GuestTemplate{{Name: "a", Copies: 1}},
		Networks: []domain.NetworkDef{
			{Name: "net", Members: []string{"a"}},
			{Name: "net", Members: []string{"a"}},
		},
	}
	assert.Error(t, Validate(s))
}

func TestLoadEdition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edition.yml")
	yaml := "institution: test_inst\nlab_name: test_lab\ninstance_number: 10\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	e, err := LoadEdition(path)
	require.NoError(t, err)
	assert.Equal(t, "test_inst", e.Institution)
	assert.Equal(t, "test_lab", e.LabName)
	assert.Equal(t, 10, e.InstanceNumber)
}

func TestValidateEdition(t *testing.T) {
	tests := []struct {
		name    string
		edition domain.LabEdition
		wantErr bool
	}{
		{"valid", domain.LabEdition{Institution: "inst", LabName: "lab", InstanceNumber: 1}, false},
		{"missing institution", domain.LabEdition{LabName: "lab", InstanceNumber: 1}, true},
		{"missing lab name", domain.LabEdition{Institution: "inst", InstanceNumber: 1}, true},
		{"hyphen in institution", domain.LabEdition{Institution: "my-inst", LabName: "lab", InstanceNumber: 1}, true},
		{"hyphen in lab name", domain.LabEdition{Institution: "inst", LabName: "my-lab", InstanceNumber: 1}, true},
		{"zero instances", domain.LabEdition{Institution: "inst", LabName: "lab"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEdition(tt.edition)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
