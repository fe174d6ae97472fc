package model

import (
	"fmt"
	"strings"

	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// Sanitize normalises a whole NetworkState document: upper-cases MAC
// literals, canonicalises IPs/CIDRs, dedups routes, and sorts OVN
// bridge mappings. Route rules are left as given.
func (n *NetworkState) Sanitize() error {
	for i := range n.Interfaces {
		if err := n.Interfaces[i].sanitize(); err != nil {
			return fmt.Errorf("interface %q: %w", n.Interfaces[i].Name(), err)
		}
	}
	if err := n.Routes.Sanitize(); err != nil {
		return err
	}
	n.OVN.Sanitize()
	if n.Hostname != nil && n.Hostname.Config != "" {
		n.Hostname.Config = normalizeHostnameCase(n.Hostname.Config)
	}
	return nil
}

func (i *Interface) sanitize() error {
	base := i.Base()
	if base == nil {
		return nmerror.Bug("interface with no variant set")
	}
	if base.MACAddress != "" {
		base.MACAddress = normalizeMAC(base.MACAddress)
	}
	if base.PermanentMACAddress != "" {
		base.PermanentMACAddress = normalizeMAC(base.PermanentMACAddress)
	}
	if err := base.IPv4.Sanitize(4); err != nil {
		return err
	}
	if err := base.IPv6.Sanitize(6); err != nil {
		return err
	}
	if i.LinuxBridge != nil {
		sanitizeBridgePorts(i.LinuxBridge)
	}
	return nil
}

func sanitizeBridgePorts(b *LinuxBridgeInterface) {
	if b.Bridge == nil {
		return
	}
	for idx := range b.Bridge.Ports {
		p := &b.Bridge.Ports[idx]
		if p.Vlan == nil {
			continue
		}
		if flattened, err := p.Vlan.FlattenTrunkTags(); err == nil && len(flattened) > 0 {
			p.Vlan.Trunks = CollapseVlanTrunkTags(flattened)
		}
	}
}

// normalizeHostnameCase lower-cases a hostname literal, matching
// standard DNS hostname normalisation.
func normalizeHostnameCase(h string) string { return strings.ToLower(strings.TrimSpace(h)) }
