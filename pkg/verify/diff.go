package verify

import (
	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// diffInterface compares the user-facing fields of a desired interface
// against the probed one, returning the first mismatch. Runtime-only
// fields (MAC address when desired left it unset, LLDP neighbours,
// permanent MAC, auto-negotiated addresses) are never compared since
// desired state never expresses an opinion on them.
func diffInterface(d, p *model.Interface) error {
	db, pb := d.Base(), p.Base()

	if db.State != "" && db.State != model.StateUnknown && db.State != pb.State {
		if !(db.State == model.StateUp && pb.State == model.StateUp) {
			return nmerror.Verification(db.Name+".state", db.State, pb.State)
		}
	}

	if db.MTU != nil && (pb.MTU == nil || *pb.MTU != *db.MTU) {
		return nmerror.Verification(db.Name+".mtu", *db.MTU, derefInt(pb.MTU))
	}

	if db.MACAddress != "" && !macEqual(db.MACAddress, pb.MACAddress) {
		return nmerror.Verification(db.Name+".mac-address", db.MACAddress, pb.MACAddress)
	}

	if db.Controller != "" && db.Controller != pb.Controller {
		return nmerror.Verification(db.Name+".controller", db.Controller, pb.Controller)
	}

	if err := diffIPConfig(db.Name, "ipv4", db.IPv4, pb.IPv4); err != nil {
		return err
	}
	if err := diffIPConfig(db.Name, "ipv6", db.IPv6, pb.IPv6); err != nil {
		return err
	}

	if d.LinuxBridge != nil && p.LinuxBridge != nil {
		if err := diffLinuxBridge(db.Name, d.LinuxBridge, p.LinuxBridge); err != nil {
			return err
		}
	}

	return nil
}

func diffIPConfig(ifaceName, family string, d, p *model.IPConfig) error {
	if d == nil {
		return nil // desired state silent on this family: nothing to verify
	}
	if d.Enabled != nil {
		gotEnabled := p != nil && p.Enabled != nil && *p.Enabled
		if *d.Enabled != gotEnabled {
			return nmerror.Verification(ifaceName+"."+family+".enabled", *d.Enabled, gotEnabled)
		}
	}
	if p == nil {
		return nil
	}
	for _, want := range d.Addresses {
		if want.Origin == model.OriginAuto {
			continue // runtime-only, never echoed back into desired, never verified
		}
		found := false
		for _, got := range p.Addresses {
			if got.IP == want.IP && got.Prefix == want.Prefix {
				found = true
				break
			}
		}
		if !found {
			return nmerror.Verification(ifaceName+"."+family+".address", want.String(), "missing")
		}
	}
	return nil
}

func diffLinuxBridge(ifaceName string, d, p *model.LinuxBridgeInterface) error {
	if d.Bridge == nil || d.Bridge.Options == nil {
		return nil
	}
	if p.Bridge == nil || p.Bridge.Options == nil {
		return nmerror.Verification(ifaceName+".bridge.options", "set", "unset")
	}
	wantOpts, gotOpts := d.Bridge.Options, p.Bridge.Options

	if wantOpts.STP != nil {
		if gotOpts.STP == nil {
			return nmerror.Verification(ifaceName+".bridge.options.stp", "set", "unset")
		}
		want, got := wantOpts.STP, gotOpts.STP

		if want.HelloTime != nil {
			if err := compareRoundedInt(ifaceName+".bridge.options.stp.hello-time", *want.HelloTime, derefInt(got.HelloTime)); err != nil {
				return err
			}
		}
		if want.MaxAge != nil {
			if err := compareRoundedInt(ifaceName+".bridge.options.stp.max-age", *want.MaxAge, derefInt(got.MaxAge)); err != nil {
				return err
			}
		}
		if want.ForwardDelay != nil {
			if err := compareRoundedInt(ifaceName+".bridge.options.stp.forward-delay", *want.ForwardDelay, derefInt(got.ForwardDelay)); err != nil {
				return err
			}
		}
	}

	return diffLinuxBridgeMulticastIntervals(ifaceName, wantOpts, gotOpts)
}

// diffLinuxBridgeMulticastIntervals compares the jiffies-backed
// multicast timers, tolerating the same ±1 kernel-rounding drift the
// STP timers used to be (wrongly) granted.
func diffLinuxBridgeMulticastIntervals(ifaceName string, want, got *model.LinuxBridgeOptions) error {
	checks := []struct {
		path string
		want *int
		got  *int
	}{
		{"multicast-querier-interval", want.MulticastQuerierInterval, got.MulticastQuerierInterval},
		{"multicast-query-interval", want.MulticastQueryInterval, got.MulticastQueryInterval},
		{"multicast-query-response-interval", want.MulticastQueryResponseInterval, got.MulticastQueryResponseInterval},
		{"multicast-startup-query-interval", want.MulticastStartupQueryInterval, got.MulticastStartupQueryInterval},
		{"multicast-last-member-interval", want.MulticastLastMemberInterval, got.MulticastLastMemberInterval},
		{"multicast-membership-interval", want.MulticastMembershipInterval, got.MulticastMembershipInterval},
	}
	for _, c := range checks {
		if c.want == nil {
			continue
		}
		if err := acceptRounded(compareRoundedInt(ifaceName+".bridge.options."+c.path, *c.want, derefInt(c.got))); err != nil {
			return err
		}
	}
	return nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func macEqual(a, b string) bool {
	return normalizeMACForCompare(a) == normalizeMACForCompare(b)
}

// acceptRounded treats a KindKernelIntegerRounded mismatch as a
// tolerated match rather than a verification failure; any
// other error (including a plain VerificationError) still fails.
func acceptRounded(err error) error {
	if err == nil {
		return nil
	}
	if nmerror.KindOf(err) == nmerror.KindKernelIntegerRounded {
		return nil
	}
	return err
}
