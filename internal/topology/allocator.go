package topology

import (
	"fmt"
	"net/netip"

	"github.com/cyrange/cyrange/internal/domain"
	"github.com/cyrange/cyrange/internal/netcalc"
)

// hostStartOffset is the index of the first assignable host within a
// subnetwork. The network address and the three platform-reserved
// addresses that follow it are never handed out, and neither is the
// block's final (broadcast) address.
const hostStartOffset = 4

// assignment records the address handed to one (guest, copy) member of
// a subnetwork.
type assignment struct {
	Guest string
	Copy  int
	Addr  netip.Addr
}

// assignSubnetwork walks the subnetwork's member list in declared order
// and hands out consecutive host addresses starting at the fourth
// usable host. For a guest with copies = k, copies 1..k receive
// consecutive addresses before the next declared member is visited.
// Assignment is stable: it depends only on the subnetwork block and the
// expanded member list, never on any other instance.
func assignSubnetwork(sub domain.Subnetwork, network domain.NetworkDef, scenario *domain.Scenario) ([]assignment, error) {
	block, err := netip.ParsePrefix(sub.CIDR)
	if err != nil {
		return nil, fmt.Errorf("instance %d network %q: bad subnetwork block %q: %w", sub.Instance, sub.Network, sub.CIDR, err)
	}

	expanded := 0
	for _, member := range network.Members {
		guest := scenario.Guest(member)
		if guest == nil {
			return nil, fmt.Errorf("%w: network %q lists unknown guest %q", ErrInvalidTopology, network.Name, member)
		}
		if guest.Copies < 1 {
			return nil, fmt.Errorf("%w: guest %q has non-positive copy count %d", ErrInvalidTopology, guest.Name, guest.Copies)
		}
		expanded += guest.Copies
	}
	// the block's last address is the broadcast, so one address fewer
	// than the capacity figure is assignable
	assignable := sub.Capacity - 1
	if assignable < 0 {
		assignable = 0
	}
	if expanded > assignable {
		return nil, fmt.Errorf("%w: instance %d network %q needs %d addresses but %s has %d assignable",
			ErrSubnetworkExhausted, sub.Instance, sub.Network, expanded, sub.CIDR, assignable)
	}

	out := make([]assignment, 0, expanded)
	offset := hostStartOffset
	for _, member := range network.Members {
		guest := scenario.Guest(member)
		for copy := 1; copy <= guest.Copies; copy++ {
			addr, err := netcalc.Host(block, offset)
			if err != nil {
				return nil, fmt.Errorf("instance %d network %q: %w", sub.Instance, sub.Network, err)
			}
			out = append(out, assignment{Guest: guest.Name, Copy: copy, Addr: addr})
			offset++
		}
	}
	return out, nil
}
