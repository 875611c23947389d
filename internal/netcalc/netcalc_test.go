package netcalc

import (
	"net/netip"
	"testing"
)

func TestSubdivide(t *testing.T) {
	block := netip.MustParsePrefix("10.0.1.0/24")

	children, err := Subdivide(block, 2)
	if err != nil {
		t.Fatalf("Failed to subdivide: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(children))
	}
	if children[0].String() != "10.0.1.0/25" {
		t.Errorf("Expected first child 10.0.1.0/25, got %s", children[0])
	}
	if children[1].String() != "10.0.1.128/25" {
		t.Errorf("Expected second child 10.0.1.128/25, got %s", children[1])
	}
}

func TestSubdivide_One(t *testing.T) {
	block := netip.MustParsePrefix("10.0.1.0/24")

	children, err := Subdivide(block, 1)
	if err != nil {
		t.Fatalf("Failed to subdivide: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("Expected 1 child, got %d", len(children))
	}
	if children[0].String() != "10.0.1.0/24" {
		t.Errorf("Expected 10.0.1.0/24, got %s", children[0])
	}
}

func TestSubdivide_Four(t *testing.T) {
	block := netip.MustParsePrefix("10.0.3.0/24")

	children, err := Subdivide(block, 4)
	if err != nil {
		t.Fatalf("Failed to subdivide: %v", err)
	}
	expected := []string{"10.0.3.0/26", "10.0.3.64/26", "10.0.3.128/26", "10.0.3.192/26"}
	for i, want := range expected {
		if children[i].String() != want {
			t.Errorf("Child %d: expected %s, got %s", i, want, children[i])
		}
	}
}

func TestSubdivide_NotPowerOfTwo(t *testing.T) {
	block := netip.MustParsePrefix("10.0.1.0/24")

	if _, err := Subdivide(block, 3); err == nil {
		t.Error("Expected error for n=3")
	}
	if _, err := Subdivide(block, 0); err == nil {
		t.Error("Expected error for n=0")
	}
}

func TestSubdivide_TooManyBlocks(t *testing.T) {
	block := netip.MustParsePrefix("10.0.1.0/30")

	if _, err := Subdivide(block, 8); err == nil {
		t.Error("Expected error when subdivision exceeds /32")
	}
}

func TestHost(t *testing.T) {
	block := netip.MustParsePrefix("10.0.1.0/24")

	addr, err := Host(block, 0)
	if err != nil {
		t.Fatalf("Failed to get host 0: %v", err)
	}
	if addr.String() != "10.0.1.0" {
		t.Errorf("Expected 10.0.1.0, got %s", addr)
	}

	addr, err = Host(block, 4)
	if err != nil {
		t.Fatalf("Failed to get host 4: %v", err)
	}
	if addr.String() != "10.0.1.4" {
		t.Errorf("Expected 10.0.1.4, got %s", addr)
	}
}

func TestHost_IndexesFromBlockStart(t *testing.T) {
	block := netip.MustParsePrefix("10.0.1.128/25")

	addr, err := Host(block, 4)
	if err != nil {
		t.Fatalf("Failed to get host 4: %v", err)
	}
	if addr.String() != "10.0.1.132" {
		t.Errorf("Expected 10.0.1.132, got %s", addr)
	}
}

func TestHost_OutOfRange(t *testing.T) {
	block := netip.MustParsePrefix("10.0.1.0/24")

	if _, err := Host(block, 256); err == nil {
		t.Error("Expected error for index past block end")
	}
	if _, err := Host(block, -1); err == nil {
		t.Error("Expected error for negative index")
	}
}

func TestCapacity(t *testing.T) {
	tests := []struct {
		cidr string
		want int
	}{
		{"10.0.1.0/24", 252},
		{"10.0.1.0/25", 124},
		{"10.0.1.0/26", 60},
		{"10.0.1.0/30", 0},
	}

	for _, tt := range tests {
		got := Capacity(netip.MustParsePrefix(tt.cidr))
		if got != tt.want {
			t.Errorf("Capacity(%s): expected %d, got %d", tt.cidr, tt.want, got)
		}
	}
}

func TestOverlaps(t *testing.T) {
	a := netip.MustParsePrefix("10.0.0.0/16")
	b := netip.MustParsePrefix("10.0.5.0/24")
	c := netip.MustParsePrefix("192.168.4.0/24")

	if !Overlaps(a, b) {
		t.Error("Expected 10.0.0.0/16 to overlap 10.0.5.0/24")
	}
	if Overlaps(a, c) {
		t.Error("Expected 10.0.0.0/16 not to overlap 192.168.4.0/24")
	}
}
