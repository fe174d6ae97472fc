package model

import "github.com/nmstate/nmstate-go/pkg/nmerror"

// defaultDNSPriority is the priority of the DNS block pinned for the
// family whose server is listed first; the other family's block gets
// defaultDNSPriority+10.
const defaultDNSPriority = 40

// DNSState is the top-level DNS resolver document.
type DNSState struct {
	// Running is the effective, read-only resolver state; ignored on apply.
	Running *DNSClientState `yaml:"running,omitempty" json:"running,omitempty"`

	// Config is the static resolver config. Nil preserves the current
	// static config; non-nil (even empty) replaces it.
	Config *DNSClientState `yaml:"config,omitempty" json:"config,omitempty"`
}

// DNSClientState is a server/search list pair.
type DNSClientState struct {
	Servers  []string `yaml:"server,omitempty" json:"server,omitempty"`
	Searches []string `yaml:"search,omitempty" json:"search,omitempty"`
}

// IsEmpty reports whether neither Running nor Config was supplied.
func (d *DNSState) IsEmpty() bool {
	return d == nil || (d.Running == nil && d.Config == nil)
}

// IsPurge reports whether the config block asks to clear all DNS state
// (both lists present and empty, or both entirely absent).
func (c *DNSClientState) IsPurge() bool {
	if c == nil {
		return true
	}
	return len(c.Servers) == 0 && len(c.Searches) == 0
}

// Validate enforces the "no interleaved families" rule: once
// there are more than two servers, IPv4 and IPv6 literals must not be
// interleaved (mixed in the middle of one another).
func (d *DNSState) Validate() error {
	if d == nil || d.Config == nil {
		return nil
	}
	servers := d.Config.Servers
	if len(servers) <= 2 {
		return nil
	}
	firstFamily := addrFamily(servers[0])
	seenOther := false
	for _, s := range servers[1:] {
		fam := addrFamily(s)
		if fam != firstFamily {
			seenOther = true
		} else if seenOther {
			return nmerror.NotSupported(
				"placing IPv4/IPv6 name servers in the middle of the other family's servers is not supported")
		}
	}
	return nil
}

// MergeCurrent fills in an unset Config's servers/searches from the
// current static config, or clears both lists if the desired config
// asks to purge.
func (d *DNSState) MergeCurrent(current *DNSState) {
	if d.Config != nil {
		if d.Config.IsPurge() {
			d.Config = &DNSClientState{Servers: []string{}, Searches: []string{}}
			return
		}
		if current == nil || current.Config == nil {
			return
		}
		if d.Config.Servers == nil {
			d.Config.Servers = append([]string{}, current.Config.Servers...)
		}
		if d.Config.Searches == nil {
			d.Config.Searches = append([]string{}, current.Config.Searches...)
		}
		return
	}
	if current != nil {
		d.Config = current.Config
	}
}

// SplitByFamily partitions a server list into IPv4 and IPv6 groups,
// preserving order, and reports whether IPv6 servers were listed first
// (used to decide which family's ScopedDNS gets the lower Priority).
func SplitByFamily(servers []string) (v4, v6 []string, ipv6First bool) {
	if len(servers) > 0 {
		ipv6First = addrFamily(servers[0]) == 6
	}
	for _, s := range servers {
		if addrFamily(s) == 6 {
			v6 = append(v6, s)
		} else {
			v4 = append(v4, s)
		}
	}
	return v4, v6, ipv6First
}

// ScopedDNSPriority is the priority of the pinned DNS block for the
// family whose server is listed first.
func ScopedDNSPriority() int { return defaultDNSPriority }
