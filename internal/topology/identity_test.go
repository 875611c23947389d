package topology

import (
	"net/netip"
	"testing"
)

func TestMachineName(t *testing.T) {
	name := MachineName("test_inst", "test_lab", 3, "server", 1, 1)
	if name != "test_inst-test_lab-3-server" {
		t.Errorf("Expected test_inst-test_lab-3-server, got %s", name)
	}

	name = MachineName("test_inst", "test_lab", 3, "server", 2, 2)
	if name != "test_inst-test_lab-3-server-2" {
		t.Errorf("Expected test_inst-test_lab-3-server-2, got %s", name)
	}
}

func TestForwardDNSName(t *testing.T) {
	name := ForwardDNSName("victim", 1, 1, 4, "internal")
	if name != "victim-4.internal" {
		t.Errorf("Expected victim-4.internal, got %s", name)
	}

	name = ForwardDNSName("victim", 2, 3, 4, "internal")
	if name != "victim-2-4.internal" {
		t.Errorf("Expected victim-2-4.internal, got %s", name)
	}
}

func TestReverseDNSName(t *testing.T) {
	name := ReverseDNSName(netip.MustParseAddr("10.0.1.6"))
	if name != "6.1.0.10.in-addr.arpa" {
		t.Errorf("Expected 6.1.0.10.in-addr.arpa, got %s", name)
	}
}
