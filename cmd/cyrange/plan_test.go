package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testScenarioYAML = `
name: attack_defense
guests:
  - name: attacker
    base_os: kali
  - name: victim
    base_os: debian
    copies: 2
networks:
  - name: internal
    members: [attacker, victim]
`

const testEditionYAML = `
institution: test_inst
lab_name: test_lab
instance_number: 2
`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	scnPath := writeTestFile(t, dir, "scenario.yml", testScenarioYAML)
	edPath := writeTestFile(t, dir, "edition.yml", testEditionYAML)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"plan", "-s", scnPath, "-e", edPath, "-o", dir})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "libvirt_vars.yaml"))
	require.NoError(t, err)

	var vars map[string]any
	require.NoError(t, yaml.Unmarshal(data, &vars))
	assert.Equal(t, "libvirt", vars["platform"])
	assert.Equal(t, "test_lab", vars["lab_name"])
	assert.Equal(t, 2, vars["instance_number"])
	// the configured ansible tuning rides along for the provisioner
	assert.Equal(t, 10, vars["ansible_forks"])

	machines, ok := vars["machines"].([]any)
	require.True(t, ok)
	assert.Len(t, machines, 6)
}

func TestPlanCommand_UnknownPlatform(t *testing.T) {
	dir := t.TempDir()
	scnPath := writeTestFile(t, dir, "scenario.yml", testScenarioYAML)
	edPath := writeTestFile(t, dir, "edition.yml", testEditionYAML)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"plan", "-s", scnPath, "-e", edPath, "-o", dir, "-p", "vsphere"})
	assert.Error(t, cmd.Execute())
}

func TestPlanCommand_BadFormat(t *testing.T) {
	dir := t.TempDir()
	scnPath := writeTestFile(t, dir, "scenario.yml", testScenarioYAML)
	edPath := writeTestFile(t, dir, "edition.yml", testEditionYAML)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"plan", "-s", scnPath, "-e", edPath, "-o", dir, "--format", "toml"})
	assert.Error(t, cmd.Execute())
}
