package model

import (
	"fmt"
	"net"
	"strings"
)

// AddressOrigin records how an address was configured.
type AddressOrigin string

const (
	OriginStatic AddressOrigin = "static"
	OriginDHCP   AddressOrigin = "dhcp"
	OriginAuto   AddressOrigin = "auto" // slaac / dhcpv6, runtime-only
	OriginLinkLocal AddressOrigin = "link-layer"
)

// Address is a single IP address with its prefix length and origin.
// Addresses with Origin == OriginAuto are runtime-only: the sanitiser
// never echoes them back into a desired document.
type Address struct {
	IP     string        `yaml:"ip" json:"ip"`
	Prefix int           `yaml:"prefix-length" json:"prefixLength"`
	Origin AddressOrigin `yaml:"-" json:"origin,omitempty"`
}

func (a Address) String() string {
	return fmt.Sprintf("%s/%d", a.IP, a.Prefix)
}

// DHCPClientIdentifierType / DHCPDuidType name the client identifier
// nmstate passes to the DHCP client.
type DHCPClientIdentifierType string

// IPConfig is a per-family IP configuration block.
type IPConfig struct {
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	DHCP    *bool `yaml:"dhcp,omitempty" json:"dhcp,omitempty"`

	// Autoconf is IPv6-only (SLAAC).
	Autoconf *bool `yaml:"autoconf,omitempty" json:"autoconf,omitempty"`

	Addresses []Address `yaml:"address,omitempty" json:"addresses,omitempty"`

	AutoDNS         *bool `yaml:"auto-dns,omitempty" json:"autoDns,omitempty"`
	AutoGateway     *bool `yaml:"auto-gateway,omitempty" json:"autoGateway,omitempty"`
	AutoRoutes      *bool `yaml:"auto-routes,omitempty" json:"autoRoutes,omitempty"`
	AutoTableID     int   `yaml:"auto-route-table-id,omitempty" json:"autoTableId,omitempty"`
	AutoRouteMetric *int  `yaml:"auto-route-metric,omitempty" json:"autoRouteMetric,omitempty"`

	DHCPClientID      string `yaml:"dhcp-client-id,omitempty" json:"dhcpClientId,omitempty"`
	DHCPDuid          string `yaml:"dhcp-duid,omitempty" json:"dhcpDuid,omitempty"`
	DHCPSendHostname  *bool  `yaml:"dhcp-send-hostname,omitempty" json:"dhcpSendHostname,omitempty"`
	DHCPCustomHostname string `yaml:"dhcp-custom-hostname,omitempty" json:"dhcpCustomHostname,omitempty"`

	AddrGenMode string `yaml:"addr-gen-mode,omitempty" json:"addrGenMode,omitempty"`
	Token       string `yaml:"token,omitempty" json:"token,omitempty"` // IPv6 only

	// DNS is the scoped, internal-only client state used to pin DNS
	// servers onto this interface. Not user-facing on input; populated by the merger.
	DNS *ScopedDNS `yaml:"-" json:"-"`
}

// ScopedDNS is DNS configuration pinned onto one interface by the
// merger's DNS-placement algorithm.
type ScopedDNS struct {
	Servers  []string
	Searches []string
	Options  []string
	Priority int
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func isEnabled(b *bool) bool { return b != nil && *b }

// IsEnabled reports whether the family is enabled at all.
func (c *IPConfig) IsEnabled() bool {
	return c != nil && isEnabled(c.Enabled)
}

// IsDHCP reports whether DHCP/autoconf is requested for this family.
func (c *IPConfig) IsDHCP() bool {
	if c == nil {
		return false
	}
	return isEnabled(c.DHCP) || isEnabled(c.Autoconf)
}

// family of an address literal, 4 or 6; 0 if unparsable.
func addrFamily(ip string) int {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return 0
	}
	if parsed.To4() != nil {
		return 4
	}
	return 6
}

// Sanitize normalises the IP config: canonical address literals,
// dropping auto-origin addresses from what would round-trip into a
// desired document.
func (c *IPConfig) Sanitize(family int) error {
	if c == nil {
		return nil
	}
	kept := c.Addresses[:0:0]
	for _, a := range c.Addresses {
		if a.Origin == OriginAuto {
			// runtime-only, never echoed back
			continue
		}
		canon, err := canonicalizeIP(a.IP)
		if err != nil {
			return fmt.Errorf("interface ip%d address %q: %w", family, a.IP, err)
		}
		a.IP = canon
		kept = append(kept, a)
	}
	c.Addresses = kept

	if isEnabled(c.Autoconf) && !c.IsDHCP() && family == 6 {
		// IPv6 autoconf without DHCP is handled as a NotSupported error
		// by Validate, not silently coerced here.
		_ = 0
	}
	return nil
}

// canonicalizeIP renders an IP literal in its canonical (net.IP string)
// form, the sanitiser's "normalise CIDRs and IP literals" rule.
func canonicalizeIP(s string) (string, error) {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return "", fmt.Errorf("invalid IP address")
	}
	return ip.String(), nil
}

// canonicalizeCIDR renders a CIDR literal in its canonical form with
// the host bits of the network address cleared.
func canonicalizeCIDR(s string) (string, error) {
	_, network, err := net.ParseCIDR(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return network.String(), nil
}
