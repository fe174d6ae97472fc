package backend

import "github.com/nmstate/nmstate-go/pkg/model"

func baseSettings(base *model.BaseInterface) map[string]interface{} {
	settings := map[string]interface{}{}
	if base.MACAddress != "" {
		settings["mac-address"] = base.MACAddress
	}
	if base.MTU != nil {
		settings["mtu"] = *base.MTU
	}
	if base.AcceptAllMacAddresses != nil {
		settings["accept-all-mac-addresses"] = *base.AcceptAllMacAddresses
	}
	if base.Controller != "" {
		settings["controller"] = base.Controller
	}
	if base.IPv4 != nil {
		settings["ipv4"] = ipSettings(base.IPv4)
	}
	if base.IPv6 != nil {
		settings["ipv6"] = ipSettings(base.IPv6)
	}
	return settings
}

func ipSettings(ip *model.IPConfig) map[string]interface{} {
	s := map[string]interface{}{
		"enabled": ip.IsEnabled(),
		"dhcp":    ip.IsDHCP(),
	}
	if len(ip.Addresses) > 0 {
		addrs := make([]string, len(ip.Addresses))
		for i, a := range ip.Addresses {
			addrs[i] = a.String()
		}
		s["address"] = addrs
	}
	if ip.DNS != nil {
		s["dns-servers"] = ip.DNS.Servers
		s["dns-searches"] = ip.DNS.Searches
		s["dns-priority"] = ip.DNS.Priority
	}
	return s
}
