package topology

import (
	"fmt"
	"net/netip"
	"strings"
)

// MachineName builds the canonical machine name
// <institution>-<lab_name>-<instance>-<guest>[-<copy>]. The copy suffix
// is emitted only when the guest is replicated; a single-copy guest has
// no numeric suffix even though internally its copy number is 1.
// Institution and lab name must not contain '-' since it is the name
// component separator; the scenario loader enforces that.
func MachineName(institution, labName string, instance int, guest string, copy, copies int) string {
	name := fmt.Sprintf("%s-%s-%d-%s", institution, labName, instance, guest)
	if copies > 1 {
		name = fmt.Sprintf("%s-%d", name, copy)
	}
	return name
}

// ForwardDNSName builds the per-network forward record name
// <guest>[-<copy>]-<instance>.<network>. A machine has one interface,
// and hence one forward name, per network it belongs to.
func ForwardDNSName(guest string, copy, copies, instance int, network string) string {
	host := guest
	if copies > 1 {
		host = fmt.Sprintf("%s-%d", guest, copy)
	}
	return fmt.Sprintf("%s-%d.%s", host, instance, network)
}

// ReverseDNSName returns the in-addr.arpa name of an IPv4 address.
func ReverseDNSName(addr netip.Addr) string {
	b := addr.As4()
	octets := []string{
		fmt.Sprint(b[3]),
		fmt.Sprint(b[2]),
		fmt.Sprint(b[1]),
		fmt.Sprint(b[0]),
	}
	return strings.Join(octets, ".") + ".in-addr.arpa"
}
