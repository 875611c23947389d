// Package netcalc provides the IPv4 CIDR arithmetic shared by the
// topology compiler: subdividing a block into equal children, indexing
// host addresses, and computing usable host capacity.
package netcalc

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// ReservedHosts is the number of addresses excluded from every block:
// the network address and the three platform-reserved addresses
// the hosting platforms keep for themselves (gateway and DNS).
const ReservedHosts = 4

// addrToUint32 converts an IPv4 address to its numeric value.
func addrToUint32(a netip.Addr) uint32 {
	b := a.As4()
	return binary.BigEndian.Uint32(b[:])
}

// uint32ToAddr converts a numeric value back to an IPv4 address.
func uint32ToAddr(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// log2 returns the base-2 logarithm of a power of two.
func log2(n int) int {
	bits := 0
	for n > 1 {
		n >>= 1
		bits++
	}
	return bits
}

// Subdivide splits block into n equal-sized contiguous sub-blocks in
// address order. n must be a power of two that fits in the block's
// remaining subnet bits.
func Subdivide(block netip.Prefix, n int) ([]netip.Prefix, error) {
	if !block.Addr().Is4() {
		return nil, fmt.Errorf("subdivide: %v is not an IPv4 block", block)
	}
	if !isPowerOfTwo(n) {
		return nil, fmt.Errorf("subdivide: cannot split %v into %d blocks: not a power of two", block, n)
	}
	block = block.Masked()
	newBits := block.Bits() + log2(n)
	if newBits > 32 {
		return nil, fmt.Errorf("subdivide: cannot split %v into %d blocks: prefix /%d exceeds /32", block, n, newBits)
	}

	size := uint32(1) << (32 - newBits)
	start := addrToUint32(block.Addr())
	out := make([]netip.Prefix, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, netip.PrefixFrom(uint32ToAddr(start+uint32(i)*size), newBits))
	}
	return out, nil
}

// Host returns the k-th address within block, 0-indexed from the
// network address. Host(b, 0) is the network address itself.
func Host(block netip.Prefix, k int) (netip.Addr, error) {
	if !block.Addr().Is4() {
		return netip.Addr{}, fmt.Errorf("host: %v is not an IPv4 block", block)
	}
	block = block.Masked()
	total := uint64(1) << (32 - block.Bits())
	if k < 0 || uint64(k) >= total {
		return netip.Addr{}, fmt.Errorf("host: index %d out of range for %v", k, block)
	}
	return uint32ToAddr(addrToUint32(block.Addr()) + uint32(k)), nil
}

// Capacity returns the number of usable host addresses in block after
// the reserved addresses are taken out. Blocks too small to hold any
// usable host report zero.
func Capacity(block netip.Prefix) int {
	if !block.Addr().Is4() {
		return 0
	}
	total := 1 << (32 - block.Masked().Bits())
	if total <= ReservedHosts {
		return 0
	}
	return total - ReservedHosts
}

// Overlaps reports whether two blocks share any address.
func Overlaps(a, b netip.Prefix) bool {
	return a.Overlaps(b)
}
