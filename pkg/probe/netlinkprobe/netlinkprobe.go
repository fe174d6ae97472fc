// Package netlinkprobe is the reference implementation of the Probe
// capability (pkg/backendapi.Probe): it reads current interface,
// route, and route-rule state straight from the kernel via netlink,
// and DNS state from /etc/resolv.conf.
//
// Grounded on pkg/cni/helper_linux.go's netlink usage
// (netlink.LinkByName/AddrList/RouteAdd/LinkSetUp) and
// pkg/node/gateway.go's default-route detection, generalised from
// per-Pod veth setup into a full-host state reader.
package netlinkprobe

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/vishvananda/netlink"

	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// Prober implements backendapi.Probe against the host's default
// network namespace.
type Prober struct {
	// ResolvConfPath overrides /etc/resolv.conf; used by tests.
	ResolvConfPath string
}

// New returns a Prober reading from the real /etc/resolv.conf.
func New() *Prober {
	return &Prober{ResolvConfPath: "/etc/resolv.conf"}
}

// ProbeInterfaces lists every netlink link and translates it into a
// model.Interface, best-effort: link kinds nmstate has no variant for
// become a model.OtherInterface rather than an error, since an
// unrecognised kernel device showing up is not itself a verification
// failure.
func (p *Prober) ProbeInterfaces(_ context.Context) (model.Interfaces, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, nmerror.Retryable(err, "failed to list netlink links")
	}

	byIndex := make(map[int]netlink.Link, len(links))
	for _, l := range links {
		byIndex[l.Attrs().Index] = l
	}

	out := make(model.Interfaces, 0, len(links))
	for _, l := range links {
		iface, err := translateLink(l, byIndex)
		if err != nil {
			return nil, err
		}
		if err := attachAddresses(l, iface); err != nil {
			return nil, err
		}
		out = append(out, *iface)
	}
	return out, nil
}

// attachAddresses fills ipv4/ipv6 address lists from netlink.AddrList.
func attachAddresses(l netlink.Link, iface *model.Interface) error {
	base := iface.Base()

	v4, err := netlink.AddrList(l, netlink.FAMILY_V4)
	if err != nil {
		return nmerror.Retryable(err, "failed to list IPv4 addresses on %s", base.Name)
	}
	v6, err := netlink.AddrList(l, netlink.FAMILY_V6)
	if err != nil {
		return nmerror.Retryable(err, "failed to list IPv6 addresses on %s", base.Name)
	}

	if len(v4) > 0 {
		base.IPv4 = &model.IPConfig{Enabled: boolPtr(true), Addresses: translateAddrs(v4)}
	}
	if len(v6) > 0 {
		base.IPv6 = &model.IPConfig{Enabled: boolPtr(true), Addresses: translateAddrs(v6)}
	}
	return nil
}

func translateAddrs(addrs []netlink.Addr) []model.Address {
	out := make([]model.Address, 0, len(addrs))
	for _, a := range addrs {
		if a.IPNet == nil {
			continue
		}
		ones, _ := a.IPNet.Mask.Size()
		const ifaFPermanent = 0x80
		origin := model.OriginStatic
		if a.Flags&ifaFPermanent == 0 {
			origin = model.OriginAuto
		}
		out = append(out, model.Address{
			IP:     a.IPNet.IP.String(),
			Prefix: ones,
			Origin: origin,
		})
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

// translateLink maps one netlink.Link onto the matching model.Interface
// variant, switching on the kernel link kind the way
// pkg/cni/helper_linux.go switches on veth vs. bridge membership.
func translateLink(l netlink.Link, byIndex map[int]netlink.Link) (*model.Interface, error) {
	attrs := l.Attrs()
	name := attrs.Name

	base := model.BaseInterface{
		Name:       name,
		MACAddress: strings.ToUpper(attrs.HardwareAddr.String()),
		State:      operStateToModel(attrs.OperState),
	}
	if attrs.MTU > 0 {
		mtu := attrs.MTU
		base.MTU = &mtu
	}
	if attrs.MasterIndex != 0 {
		if master, ok := byIndex[attrs.MasterIndex]; ok {
			base.Controller = master.Attrs().Name
			base.ControllerType = controllerType(master)
		}
	}

	iface := &model.Interface{}

	switch v := l.(type) {
	case *netlink.Bond:
		base.Type = model.TypeBond
		iface.Bond = &model.BondInterface{Base: base, Bond: &model.BondConfig{
			Mode: bondModeToModel(v.Mode),
		}}
	case *netlink.Bridge:
		base.Type = model.TypeLinuxBridge
		iface.LinuxBridge = &model.LinuxBridgeInterface{Base: base, Bridge: &model.LinuxBridgeConfig{}}
	case *netlink.Vlan:
		base.Type = model.TypeVlan
		parent := ""
		if p, ok := byIndex[v.ParentIndex]; ok {
			parent = p.Attrs().Name
		}
		iface.Vlan = &model.VlanInterface{Base: base, Vlan: &model.VlanConfig{BaseIface: parent, ID: v.VlanId}}
	case *netlink.Vxlan:
		base.Type = model.TypeVxlan
		parent := ""
		if p, ok := byIndex[v.VtepDevIndex]; ok {
			parent = p.Attrs().Name
		}
		iface.Vxlan = &model.VxlanInterface{Base: base, Vxlan: &model.VxlanConfig{
			BaseIface: parent,
			ID:        v.VxlanId,
			Remote:    v.Group.String(),
			DstPort:   v.Port,
		}}
	case *netlink.Dummy:
		base.Type = model.TypeDummy
		iface.Dummy = &model.DummyInterface{Base: base}
	case *netlink.Macvlan:
		base.Type = model.TypeMacVlan
		parent := ""
		if p, ok := byIndex[v.ParentIndex]; ok {
			parent = p.Attrs().Name
		}
		iface.MacVlan = &model.MacVlanInterface{Base: base, MacVlan: &model.MacVlanConfig{BaseIface: parent}}
	case *netlink.Macvtap:
		base.Type = model.TypeMacVtap
		parent := ""
		if p, ok := byIndex[v.ParentIndex]; ok {
			parent = p.Attrs().Name
		}
		iface.MacVtap = &model.MacVtapInterface{Base: base, MacVtap: &model.MacVlanConfig{BaseIface: parent}}
	case *netlink.Vrf:
		base.Type = model.TypeVrf
		iface.Vrf = &model.VrfInterface{Base: base, Vrf: &model.VrfConfig{TableID: v.Table}}
	case *netlink.Veth:
		base.Type = model.TypeVeth
		iface.Veth = &model.VethInterface{Base: base, Veth: &model.VethConfig{Peer: v.PeerName}}
	default:
		if name == "lo" {
			base.Type = model.TypeLoopback
			iface.Loopback = &model.LoopbackInterface{Base: base}
		} else if attrs.EncapType == "ether" {
			base.Type = model.TypeEthernet
			iface.Ethernet = &model.EthernetInterface{Base: base}
		} else {
			base.Type = model.TypeUnknown
			iface.Unknown = &model.UnknownInterface{Base: base}
		}
	}

	return iface, nil
}

func controllerType(master netlink.Link) model.InterfaceType {
	switch master.(type) {
	case *netlink.Bond:
		return model.TypeBond
	case *netlink.Bridge:
		return model.TypeLinuxBridge
	case *netlink.Vrf:
		return model.TypeVrf
	default:
		return model.TypeUnknown
	}
}

func operStateToModel(s netlink.LinkOperState) model.InterfaceState {
	switch s {
	case netlink.OperUp, netlink.OperUnknown:
		return model.StateUp
	default:
		return model.StateDown
	}
}

func bondModeToModel(m netlink.BondMode) model.BondMode {
	switch m {
	case netlink.BOND_MODE_ACTIVE_BACKUP:
		return model.BondModeActiveBackup
	case netlink.BOND_MODE_802AD:
		return model.BondMode8023AD
	case netlink.BOND_MODE_BALANCE_XOR:
		return model.BondModeXOR
	case netlink.BOND_MODE_BROADCAST:
		return model.BondModeBroadcast
	case netlink.BOND_MODE_BALANCE_TLB:
		return model.BondModeTLB
	case netlink.BOND_MODE_BALANCE_ALB:
		return model.BondModeALB
	default:
		return model.BondModeRoundRobin
	}
}

// ProbeRoutes reads the kernel's unicast route tables across all families.
func (p *Prober) ProbeRoutes(_ context.Context) (*model.Routes, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, nmerror.Retryable(err, "failed to list netlink links for route probe")
	}
	byIndex := make(map[int]string, len(links))
	for _, l := range links {
		byIndex[l.Attrs().Index] = l.Attrs().Name
	}

	routes, err := netlink.RouteList(nil, netlink.FAMILY_ALL)
	if err != nil {
		return nil, nmerror.Retryable(err, "failed to list routes")
	}

	running := make([]model.RouteEntry, 0, len(routes))
	for _, r := range routes {
		if r.Dst == nil && r.Gw == nil {
			continue
		}
		entry := model.RouteEntry{
			NextHopIface: byIndex[r.LinkIndex],
			TableID:      uint32(r.Table),
			Metric:       int64(r.Priority),
		}
		if r.Dst != nil {
			entry.Destination = r.Dst.String()
		}
		if r.Gw != nil {
			entry.NextHopAddress = r.Gw.String()
		}
		running = append(running, entry)
	}

	return &model.Routes{Running: running}, nil
}

// ProbeRouteRules reads the kernel's `ip rule` policy routing tables.
func (p *Prober) ProbeRouteRules(_ context.Context) (*model.RouteRules, error) {
	rules, err := netlink.RuleList(netlink.FAMILY_ALL)
	if err != nil {
		return nil, nmerror.Retryable(err, "failed to list route rules")
	}

	out := make([]model.RouteRuleEntry, 0, len(rules))
	for _, r := range rules {
		entry := model.RouteRuleEntry{
			Priority: int64(r.Priority),
			TableID:  uint32(r.Table),
			Fwmark:   uint32(r.Mark),
			Fwmask:   uint32(r.Mask),
		}
		if r.Src != nil {
			entry.IPFrom = r.Src.String()
		}
		if r.Dst != nil {
			entry.IPTo = r.Dst.String()
		}
		if r.Family == netlink.FAMILY_V6 {
			entry.Family = model.FamilyIPv6
		} else if entry.IPFrom != "" || entry.IPTo != "" {
			entry.Family = model.FamilyIPv4
		}
		out = append(out, entry)
	}

	return &model.RouteRules{Config: out}, nil
}

// ProbeDNS reads /etc/resolv.conf's nameserver/search lines.
func (p *Prober) ProbeDNS(_ context.Context) (*model.DNSState, error) {
	path := p.ResolvConfPath
	if path == "" {
		path = "/etc/resolv.conf"
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.DNSState{}, nil
		}
		return nil, nmerror.Retryable(err, "failed to open %s", path)
	}
	defer f.Close()

	client := &model.DNSClientState{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "nameserver":
			client.Servers = append(client.Servers, fields[1])
		case "search":
			client.Searches = append(client.Searches, fields[1:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nmerror.Retryable(err, "failed to scan %s", path)
	}

	return &model.DNSState{Running: client}, nil
}
