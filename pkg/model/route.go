package model

import (
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

const (
	defaultTableID       = 254 // main route table
	loopbackIfaceName    = "lo"
	routeUseDefaultMetric = -1
)

// RouteType is the route kind; the zero value means "unicast".
type RouteType string

const (
	RouteTypeUnicast    RouteType = ""
	RouteTypeBlackhole  RouteType = "blackhole"
	RouteTypeUnreachable RouteType = "unreachable"
	RouteTypeProhibit   RouteType = "prohibit"
)

// RouteEntry is a single static route.
type RouteEntry struct {
	Absent          bool      `yaml:"-" json:"-"`
	Destination     string    `yaml:"destination,omitempty" json:"destination,omitempty"`
	NextHopIface    string    `yaml:"next-hop-interface,omitempty" json:"nextHopInterface,omitempty"`
	NextHopAddress  string    `yaml:"next-hop-address,omitempty" json:"nextHopAddress,omitempty"`
	Metric          int64     `yaml:"metric,omitempty" json:"metric,omitempty"`
	TableID         uint32    `yaml:"table-id,omitempty" json:"tableId,omitempty"`
	Weight          uint16    `yaml:"weight,omitempty" json:"weight,omitempty"`
	RouteType       RouteType `yaml:"route-type,omitempty" json:"routeType,omitempty"`
	Cwnd            uint32    `yaml:"cwnd,omitempty" json:"cwnd,omitempty"`
	Source          string    `yaml:"source,omitempty" json:"source,omitempty"`
}

// IsUnicast reports whether the route's type is the (default) unicast type.
func (r *RouteEntry) IsUnicast() bool { return r.RouteType == RouteTypeUnicast }

// IsIPv6 reports whether the destination is in the IPv6 family.
func (r *RouteEntry) IsIPv6() bool {
	return r.Destination != "" && addrFamily(strings.SplitN(r.Destination, "/", 2)[0]) == 6
}

// effectiveTableID returns the table id the route resolves to, mapping
// the "use default" sentinel 0 onto 254 (main).
func (r *RouteEntry) effectiveTableID() uint32 {
	if r.TableID == 0 {
		return defaultTableID
	}
	return r.TableID
}

// effectiveNextHopIface returns the route's next-hop interface,
// defaulting non-unicast routes to "lo" for identity purposes
//.
func (r *RouteEntry) effectiveNextHopIface() string {
	if r.NextHopIface == "" {
		return loopbackIfaceName
	}
	return r.NextHopIface
}

// sortKey is the dedup/ordering identity key for a route: metric
// is deliberately excluded.
type routeSortKey struct {
	present      bool
	isIPv4       bool
	tableID      uint32
	nextHopIface string
	destination  string
	nextHopAddr  string
	source       string
	weight       uint16
	cwnd         uint32
}

func (r *RouteEntry) sortKey() routeSortKey {
	return routeSortKey{
		present:      !r.Absent,
		isIPv4:       !r.IsIPv6(),
		tableID:      r.effectiveTableID(),
		nextHopIface: r.effectiveNextHopIface(),
		destination:  r.Destination,
		nextHopAddr:  r.NextHopAddress,
		source:       r.Source,
		weight:       r.Weight,
		cwnd:         r.Cwnd,
	}
}

func (k routeSortKey) less(o routeSortKey) bool {
	if k.present != o.present {
		return k.present // present (non-absent) sorts first? matches !is_absent ordering
	}
	if k.isIPv4 != o.isIPv4 {
		return k.isIPv4
	}
	if k.tableID != o.tableID {
		return k.tableID < o.tableID
	}
	if k.nextHopIface != o.nextHopIface {
		return k.nextHopIface < o.nextHopIface
	}
	if k.destination != o.destination {
		return k.destination < o.destination
	}
	if k.nextHopAddr != o.nextHopAddr {
		return k.nextHopAddr < o.nextHopAddr
	}
	if k.source != o.source {
		return k.source < o.source
	}
	if k.weight != o.weight {
		return k.weight < o.weight
	}
	return k.cwnd < o.cwnd
}

// IdentityEqual reports whether two routes share the same dedup
// identity.
func (r *RouteEntry) IdentityEqual(o *RouteEntry) bool {
	return r.sortKey() == o.sortKey()
}

// Matches reports whether the desired route (r, typically absent with
// wildcard fields) matches a concrete route `other`. Unset fields on r
// are wildcards.
func (r *RouteEntry) Matches(other *RouteEntry) bool {
	if r.Destination != "" && r.Destination != other.Destination {
		return false
	}
	if r.NextHopIface != "" && r.NextHopIface != other.NextHopIface {
		return false
	}
	if r.NextHopAddress != "" && r.NextHopAddress != other.NextHopAddress {
		return false
	}
	if r.TableID != 0 && r.TableID != other.TableID {
		return false
	}
	if r.Weight != 0 && r.Weight != other.Weight {
		return false
	}
	if r.RouteType != RouteTypeUnicast && r.RouteType != other.RouteType {
		return false
	}
	if r.Cwnd != 0 && r.Cwnd != other.Cwnd {
		return false
	}
	if r.Source != "" && r.Source != other.Source {
		return false
	}
	return true
}

// Sanitize canonicalises a route's IP literals and validates its
// locally-checkable invariants (destination/weight); see also
// Routes.Validate for the cross-field ones that need the full list.
func (r *RouteEntry) Sanitize() error {
	if r.Destination != "" {
		canon, err := canonicalizeCIDR(r.Destination)
		if err != nil {
			return nmerror.InvalidArgument(r.Destination, "invalid route destination: %v", err)
		}
		r.Destination = canon
	}
	if r.NextHopAddress != "" {
		canon, err := canonicalizeIP(r.NextHopAddress)
		if err != nil {
			return nmerror.InvalidArgument(r.NextHopAddress, "invalid route next-hop-address: %v", err)
		}
		r.NextHopAddress = canon
	}
	if r.Source != "" {
		canon, err := canonicalizeIP(r.Source)
		if err != nil {
			return nmerror.InvalidArgument(r.Source, "invalid route source: %v", err)
		}
		r.Source = canon
	}
	if r.Weight != 0 {
		if r.Weight < 1 || r.Weight > 256 {
			return nmerror.InvalidArgument(r.Destination, "invalid ECMP route weight %d, must be 1-256", r.Weight)
		}
		if r.IsIPv6() {
			return nmerror.NotSupported("IPv6 ECMP route with weight is not supported")
		}
	}
	return validateRouteDestination(r.Destination)
}

// validateRouteDestination rejects `0.0.0.0/{>=8}` and `::/{>=8,<128}`
// as unicast destinations.
func validateRouteDestination(dst string) error {
	if dst == "" {
		return nil
	}
	ip, network, err := net.ParseCIDR(dst)
	if err != nil {
		return nmerror.InvalidArgument(dst, "invalid destination CIDR: %v", err)
	}
	ones, bits := network.Mask.Size()
	if ip.Equal(net.IPv4zero) && bits == 32 && ones >= 8 {
		return nmerror.InvalidArgument(dst, "0.0.0.0/%d is too broad to be a valid unicast destination", ones)
	}
	if ip.Equal(net.IPv6zero) && bits == 128 && ones >= 8 && ones < 128 {
		return nmerror.InvalidArgument(dst, "::/%d is too broad to be a valid unicast destination", ones)
	}
	return nil
}

// Routes is the top-level routes document.
type Routes struct {
	Running []RouteEntry `yaml:"running,omitempty" json:"running,omitempty"`
	Config  []RouteEntry `yaml:"config,omitempty" json:"config,omitempty"`
}

// IsEmpty reports whether neither Running nor Config was supplied
// (i.e. this block means "do not touch").
func (r *Routes) IsEmpty() bool {
	return r == nil || (r.Running == nil && r.Config == nil)
}

// Validate enforces the route invariants across the whole config
// list.
func (r *Routes) Validate() error {
	if r == nil {
		return nil
	}
	for i := range r.Config {
		route := &r.Config[i]
		if !route.Absent {
			hasNextHop := route.NextHopIface != "" && route.NextHopIface != loopbackIfaceName
			if !route.IsUnicast() {
				if hasNextHop || route.NextHopAddress != "" {
					return nmerror.InvalidArgument(route.Destination,
						"a %s route cannot have a next hop", route.RouteType)
				}
			} else if route.NextHopIface == "" {
				return nmerror.NotSupported(
					"route with empty next-hop-interface is not supported: %s", route.Destination)
			}
		}
		if err := validateRouteDestination(route.Destination); err != nil {
			return err
		}
	}
	return nil
}

// Sanitize canonicalises and deduplicates the route list in place
//.
func (r *Routes) Sanitize() error {
	if r == nil {
		return nil
	}
	for i := range r.Config {
		if err := r.Config[i].Sanitize(); err != nil {
			return fmt.Errorf("routes.config[%d]: %w", i, err)
		}
	}
	r.Config = DedupRoutes(r.Config)
	return nil
}

// DedupRoutes sorts routes by their identity key and removes
// consecutive duplicates, so the set of identities kept does not
// depend on input order; of routes sharing an identity, the first in
// input order is kept.
func DedupRoutes(routes []RouteEntry) []RouteEntry {
	if len(routes) == 0 {
		return routes
	}
	sorted := make([]RouteEntry, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].sortKey().less(sorted[j].sortKey())
	})
	out := sorted[:1]
	for _, r := range sorted[1:] {
		if r.sortKey() != out[len(out)-1].sortKey() {
			out = append(out, r)
		}
	}
	return out
}
