package merge

import "github.com/nmstate/nmstate-go/pkg/model"

// MergeDNS combines desired.DNS over current.DNS and, when a config
// change requires it, re-selects which interfaces pin the IPv4/IPv6
// DNS blocks, grounded on
// original_source/rust/src/lib/dns.rs's reselect_dns_ifaces.
func MergeDNS(desired, current *model.NetworkState) *model.DNSState {
	merged := &model.DNSState{}
	if desired.DNS != nil {
		c := *desired.DNS
		merged = &c
	}
	var currentDNS *model.DNSState
	if current != nil {
		currentDNS = current.DNS
	}
	merged.MergeCurrent(currentDNS)

	if merged.Config == nil || len(merged.Config.Servers) == 0 {
		return merged
	}

	v4Servers, v6Servers, ipv6First := model.SplitByFamily(merged.Config.Servers)
	v4Iface := pickDNSInterface(desired.Interfaces, current.Interfaces, 4)
	v6Iface := pickDNSInterface(desired.Interfaces, current.Interfaces, 6)

	// The family holding the first listed server gets the preferred
	// priority; the other family gets 10 more.
	v4Priority, v6Priority := model.ScopedDNSPriority(), model.ScopedDNSPriority()+10
	if ipv6First {
		v4Priority, v6Priority = v6Priority, v4Priority
	}

	pinScopedDNS(desired.Interfaces, v4Iface, v4Servers, merged.Config.Searches, 4, v4Priority)
	pinScopedDNS(desired.Interfaces, v6Iface, v6Servers, merged.Config.Searches, 6, v6Priority)

	return merged
}

// pickDNSInterface chooses which interface should carry a family's
// DNS block: first an eligible interface in desired state (static or
// auto-without-auto-dns, never loopback), falling back to one already
// eligible in current state.
func pickDNSInterface(desired, current model.Interfaces, family int) string {
	if name := findEligibleDNSIface(desired, family); name != "" {
		return name
	}
	return findEligibleDNSIface(current, family)
}

func findEligibleDNSIface(ifaces model.Interfaces, family int) string {
	for i := range ifaces {
		base := ifaces[i].Base()
		if base.Name == "lo" || base.Type == model.TypeLoopback {
			continue
		}
		ip := base.IPv4
		if family == 6 {
			ip = base.IPv6
		}
		if ip == nil || !ip.IsEnabled() {
			continue
		}
		autoDNSOff := ip.AutoDNS != nil && !*ip.AutoDNS
		if !ip.IsDHCP() || autoDNSOff {
			return base.Name
		}
	}
	return ""
}

// pinScopedDNS attaches the per-family DNS block onto the chosen
// interface's IP config, creating it if the interface exists in
// desired state.
func pinScopedDNS(ifaces model.Interfaces, ifaceName string, servers, searches []string, family, priority int) {
	if ifaceName == "" || len(servers) == 0 {
		return
	}
	iface := ifaces.ByName(ifaceName)
	if iface == nil {
		return
	}
	base := iface.Base()
	ip := base.IPv4
	if family == 6 {
		ip = base.IPv6
	}
	if ip == nil {
		return
	}
	ip.DNS = &model.ScopedDNS{
		Servers:  servers,
		Searches: searches,
		Priority: priority,
	}
}
