package topology

import (
	"fmt"
	"net/netip"

	"github.com/cyrange/cyrange/internal/domain"
	"github.com/cyrange/cyrange/internal/netcalc"
)

// maxInstanceNetworks caps instances × networks per /16 block. The
// documented platform limits are 200 instances with one network and 50
// with four.
const maxInstanceNetworks = 200

// maxInstanceOctet is the highest instance number that can be encoded
// in the third octet of a per-instance /24.
const maxInstanceOctet = 254

// Blocks holds the address blocks a lab is compiled against. Services
// and Internet are optional globally-scoped blocks outside the
// per-instance numbering space.
type Blocks struct {
	Network  netip.Prefix
	Services netip.Prefix
	Internet netip.Prefix
}

// ParseBlocks parses the configured CIDR strings into a Blocks value.
// Services and internet blocks may be empty.
func ParseBlocks(network, services, internet string) (Blocks, error) {
	var b Blocks
	var err error
	b.Network, err = netip.ParsePrefix(network)
	if err != nil {
		return Blocks{}, fmt.Errorf("invalid network block %q: %w", network, err)
	}
	if services != "" {
		b.Services, err = netip.ParsePrefix(services)
		if err != nil {
			return Blocks{}, fmt.Errorf("invalid services block %q: %w", services, err)
		}
	}
	if internet != "" {
		b.Internet, err = netip.ParsePrefix(internet)
		if err != nil {
			return Blocks{}, fmt.Errorf("invalid internet block %q: %w", internet, err)
		}
	}
	return b, nil
}

// supportedNetworkCount reports whether the scenario's network count
// fits the /16 to per-instance /24 subdivision scheme.
func supportedNetworkCount(n int) bool {
	return n == 1 || n == 2 || n == 4
}

// instanceBlock returns the /24 owned by the given instance:
// <first two octets of base>.<instance>.0/24.
func instanceBlock(base netip.Prefix, instance int) (netip.Prefix, error) {
	addr, err := netcalc.Host(base, instance*256)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, 24), nil
}

// PartitionNetworks derives the per-instance, per-network subnetwork
// table from the global /16 block. Instance i owns the /24 whose third
// octet is i; the /24 is subdivided across the declared networks in
// declaration order. The result is ordered by (instance, network index)
// and is a pure function of its inputs.
func PartitionNetworks(blocks Blocks, instanceNumber int, networks []domain.NetworkDef) ([]domain.Subnetwork, error) {
	if instanceNumber < 1 {
		return nil, fmt.Errorf("%w: instance number %d must be positive", ErrInvalidTopology, instanceNumber)
	}
	if len(networks) == 0 {
		return nil, fmt.Errorf("%w: scenario declares no networks", ErrInvalidTopology)
	}
	if !supportedNetworkCount(len(networks)) {
		return nil, fmt.Errorf("%w: network count %d is not supported, must be 1, 2 or 4", ErrInvalidTopology, len(networks))
	}
	if !blocks.Network.Addr().Is4() || blocks.Network.Bits() != 16 {
		return nil, fmt.Errorf("%w: network block %v must be an IPv4 /16", ErrInvalidTopology, blocks.Network)
	}
	if instanceNumber > maxInstanceOctet {
		return nil, fmt.Errorf("%w: instance number %d exceeds the %d instances addressable in %v",
			ErrAddressSpaceExhausted, instanceNumber, maxInstanceOctet, blocks.Network)
	}
	if instanceNumber*len(networks) > maxInstanceNetworks {
		return nil, fmt.Errorf("%w: %d instances with %d networks exceeds the limit of %d instance networks per %v",
			ErrAddressSpaceExhausted, instanceNumber, len(networks), maxInstanceNetworks, blocks.Network)
	}

	subnets := make([]domain.Subnetwork, 0, instanceNumber*len(networks))
	for instance := 1; instance <= instanceNumber; instance++ {
		block, err := instanceBlock(blocks.Network, instance)
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", instance, err)
		}
		if blocks.Services.IsValid() && netcalc.Overlaps(blocks.Services, block) {
			return nil, fmt.Errorf("%w: services block %v intersects instance %d block %v",
				ErrNetworkOverlap, blocks.Services, instance, block)
		}
		if blocks.Internet.IsValid() && netcalc.Overlaps(blocks.Internet, block) {
			return nil, fmt.Errorf("%w: internet block %v intersects instance %d block %v",
				ErrNetworkOverlap, blocks.Internet, instance, block)
		}

		children, err := netcalc.Subdivide(block, len(networks))
		if err != nil {
			return nil, fmt.Errorf("%w: instance %d: %v", ErrInvalidTopology, instance, err)
		}
		for k, network := range networks {
			subnets = append(subnets, domain.Subnetwork{
				Instance: instance,
				Network:  network.Name,
				Index:    k,
				CIDR:     children[k].String(),
				Capacity: netcalc.Capacity(children[k]),
			})
		}
	}
	return subnets, nil
}
