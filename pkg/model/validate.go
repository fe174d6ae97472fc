package model

import (
	"go.uber.org/multierr"

	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// Validate enforces the cross-field invariants across the state,
// aggregating every violation found via multierr rather than failing
// fast on the first one, matching how the controllers in this codebase
// aggregate reconcile-time validation errors.
func (n *NetworkState) Validate() error {
	var err error

	seen := map[Key]bool{}
	for i := range n.Interfaces {
		iface := &n.Interfaces[i]
		base := iface.Base()
		if base == nil {
			err = multierr.Append(err, nmerror.Bug("interface at index %d has no variant set", i))
			continue
		}
		if base.Name == "" {
			err = multierr.Append(err, nmerror.InvalidArgument("interfaces", "interface at index %d has no name", i))
			continue
		}
		key := iface.Key()
		if seen[key] {
			err = multierr.Append(err, nmerror.InvalidArgument(base.Name, "duplicate interface entry for %s", key))
		}
		seen[key] = true

		if base.MinMTU != nil && base.MaxMTU != nil && *base.MinMTU > *base.MaxMTU {
			err = multierr.Append(err, nmerror.InvalidArgument(base.Name, "min-mtu %d is greater than max-mtu %d", *base.MinMTU, *base.MaxMTU))
		}
		if base.MTU != nil {
			if base.MinMTU != nil && *base.MTU < *base.MinMTU {
				err = multierr.Append(err, nmerror.InvalidArgument(base.Name, "mtu %d is below min-mtu %d", *base.MTU, *base.MinMTU))
			}
			if base.MaxMTU != nil && *base.MTU > *base.MaxMTU {
				err = multierr.Append(err, nmerror.InvalidArgument(base.Name, "mtu %d is above max-mtu %d", *base.MTU, *base.MaxMTU))
			}
		}

		if verr := ValidateDispatch(base.Type, base.Name, base.Dispatch); verr != nil {
			err = multierr.Append(err, verr)
		}

		if verr := validateVariant(iface); verr != nil {
			err = multierr.Append(err, verr)
		}
	}

	if verr := n.Routes.Validate(); verr != nil {
		err = multierr.Append(err, verr)
	}
	if verr := n.RouteRules.Validate(); verr != nil {
		err = multierr.Append(err, verr)
	}
	if verr := n.DNS.Validate(); verr != nil {
		err = multierr.Append(err, verr)
	}
	if verr := n.OVN.Validate(); verr != nil {
		err = multierr.Append(err, verr)
	}

	return err
}

func validateVariant(i *Interface) error {
	switch {
	case i.LinuxBridge != nil:
		return i.LinuxBridge.Validate()
	case i.Bond != nil:
		return i.Bond.PreEditCleanup(false)
	default:
		return nil
	}
}

// ValidateRef verifies that every interface reference (controller,
// bond/bridge port, vlan/vxlan/vrf base-iface, veth peer) points at an
// interface that exists somewhere in the document.
func (n *NetworkState) ValidateRef() error {
	names := map[string]bool{}
	for i := range n.Interfaces {
		names[n.Interfaces[i].Name()] = true
	}

	var err error
	requireExists := func(owner, ref string) {
		if ref != "" && !names[ref] {
			err = multierr.Append(err, nmerror.InvalidArgument(owner, "references unknown interface %q", ref))
		}
	}

	for i := range n.Interfaces {
		iface := &n.Interfaces[i]
		name := iface.Name()
		requireExists(name, iface.Base().Controller)
		for _, port := range iface.Ports() {
			requireExists(name, port)
		}
		switch {
		case iface.Vlan != nil && iface.Vlan.Vlan != nil:
			requireExists(name, iface.Vlan.Vlan.BaseIface)
		case iface.Vxlan != nil && iface.Vxlan.Vxlan != nil:
			requireExists(name, iface.Vxlan.Vxlan.BaseIface)
		case iface.MacVlan != nil && iface.MacVlan.MacVlan != nil:
			requireExists(name, iface.MacVlan.MacVlan.BaseIface)
		case iface.MacVtap != nil && iface.MacVtap.MacVtap != nil:
			requireExists(name, iface.MacVtap.MacVtap.BaseIface)
		case iface.InfiniBand != nil && iface.InfiniBand.InfiniBand != nil:
			requireExists(name, iface.InfiniBand.InfiniBand.BaseIface)
		case iface.Veth != nil && iface.Veth.Veth != nil:
			requireExists(name, iface.Veth.Veth.Peer)
		}
	}
	return err
}
