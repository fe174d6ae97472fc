// Package model is the typed data model for a network state: the
// interfaces, IP configuration, routes, route rules, DNS, hostname,
// and OVSDB/OVN globals that make up a NetworkState document, plus the
// sanitiser and validator that enforce the cross-field invariants
// every interface variant must satisfy.
//
// Nothing in this package talks to the kernel, a backend, or OVSDB —
// it is pure data plus pure functions over that data. Backends and
// probes (pkg/backendapi, pkg/probe) produce and consume NetworkState
// values; the merger (pkg/merge) combines them.
package model

import "strings"

// InterfaceState is the administrative state of an interface.
type InterfaceState string

const (
	StateUp      InterfaceState = "up"
	StateDown    InterfaceState = "down"
	StateAbsent  InterfaceState = "absent"
	StateIgnore  InterfaceState = "ignore"
	StateUnknown InterfaceState = "unknown"
)

// InterfaceType discriminates the Interface tagged union.
type InterfaceType string

const (
	TypeEthernet   InterfaceType = "ethernet"
	TypeVeth       InterfaceType = "veth"
	TypeBond       InterfaceType = "bond"
	TypeLinuxBridge InterfaceType = "linux-bridge"
	TypeOvsBridge  InterfaceType = "ovs-bridge"
	TypeOvsInterface InterfaceType = "ovs-interface"
	TypeVlan       InterfaceType = "vlan"
	TypeVxlan      InterfaceType = "vxlan"
	TypeDummy      InterfaceType = "dummy"
	TypeMacVlan    InterfaceType = "mac-vlan"
	TypeMacVtap    InterfaceType = "mac-vtap"
	TypeVrf        InterfaceType = "vrf"
	TypeLoopback   InterfaceType = "loopback"
	TypeInfiniBand InterfaceType = "infiniband"
	TypeMacSec     InterfaceType = "macsec"
	TypeHsr        InterfaceType = "hsr"
	TypeIpsec      InterfaceType = "ipsec"
	TypeDispatch   InterfaceType = "dispatch"
	TypeUnknown    InterfaceType = "unknown"
)

// IsUserSpace reports whether an interface's primary key lives in the
// OVS (user-space) namespace rather than the kernel's (name, type)
// namespace.
func (t InterfaceType) IsUserSpace() bool {
	return t == TypeOvsBridge || t == TypeOvsInterface
}

// IsController reports whether interfaces of this type can own ports.
func (t InterfaceType) IsController() bool {
	switch t {
	case TypeBond, TypeLinuxBridge, TypeOvsBridge, TypeVrf:
		return true
	default:
		return false
	}
}

// Identifier selects how an interface is matched against current state:
// by name, or by (possibly renamed) MAC address.
type Identifier string

const (
	IdentifierName Identifier = "name"
	IdentifierMAC  Identifier = "mac-address"
)

// WaitIP controls how long `apply` waits for IP readiness on an
// interface before considering it up.
type WaitIP string

const (
	WaitIPAny       WaitIP = "any"
	WaitIPv4        WaitIP = "ipv4"
	WaitIPv6        WaitIP = "ipv6"
	WaitIPv4AndIPv6 WaitIP = "ipv4+ipv6"
)

// Key is the kernel primary key for an interface: (name, type). OVS
// user-space interfaces are additionally tracked under the same key
// shape but live in a logically separate map; this
// package does not need two Go maps to express that since InterfaceType
// disambiguates member lookup.
type Key struct {
	Name string
	Type InterfaceType
}

func (k Key) String() string {
	return k.Name + " (" + string(k.Type) + ")"
}

// BaseInterface holds the fields common to every interface variant.
type BaseInterface struct {
	Name                  string         `yaml:"name" json:"name"`
	Type                  InterfaceType  `yaml:"type" json:"type"`
	State                 InterfaceState `yaml:"state,omitempty" json:"state,omitempty"`
	Identifier            Identifier     `yaml:"identifier,omitempty" json:"identifier,omitempty"`
	ProfileName           string         `yaml:"profile-name,omitempty" json:"profileName,omitempty"`
	MACAddress            string         `yaml:"mac-address,omitempty" json:"macAddress,omitempty"`
	PermanentMACAddress   string         `yaml:"permanent-mac-address,omitempty" json:"permanentMacAddress,omitempty"`
	MTU                   *int           `yaml:"mtu,omitempty" json:"mtu,omitempty"`
	MinMTU                *int           `yaml:"min-mtu,omitempty" json:"minMtu,omitempty"`
	MaxMTU                *int           `yaml:"max-mtu,omitempty" json:"maxMtu,omitempty"`
	AcceptAllMacAddresses *bool          `yaml:"accept-all-mac-addresses,omitempty" json:"acceptAllMacAddresses,omitempty"`
	Controller            string        `yaml:"controller,omitempty" json:"controller,omitempty"`
	ControllerType         InterfaceType `yaml:"controller-type,omitempty" json:"controllerType,omitempty"`
	IPv4                  *IPConfig      `yaml:"ipv4,omitempty" json:"ipv4,omitempty"`
	IPv6                  *IPConfig      `yaml:"ipv6,omitempty" json:"ipv6,omitempty"`
	MPTCP                 *MPTCPConfig   `yaml:"mptcp,omitempty" json:"mptcp,omitempty"`
	LLDP                  *LLDPConfig    `yaml:"lldp,omitempty" json:"lldp,omitempty"`
	Ethtool               *EthtoolConfig `yaml:"ethtool,omitempty" json:"ethtool,omitempty"`
	IEEE8021X             *IEEE8021XConfig `yaml:"ieee-802-1x,omitempty" json:"ieee8021x,omitempty"`
	OVSDB                 *InterfaceOVSDB `yaml:"ovs-db,omitempty" json:"ovsdb,omitempty"`
	Dispatch              *DispatchConfig `yaml:"dispatch,omitempty" json:"dispatch,omitempty"`
	WaitIP                WaitIP          `yaml:"wait-ip,omitempty" json:"waitIp,omitempty"`

	// UpPriority is assigned by the merger (pkg/merge): controllers
	// activate before their ports. Internal only, never serialised.
	UpPriority int `yaml:"-" json:"-"`
}

// Key returns the interface's kernel/user-space primary key.
func (b *BaseInterface) Key() Key { return Key{Name: b.Name, Type: b.Type} }

// IsAbsent reports whether the interface is marked for removal.
func (b *BaseInterface) IsAbsent() bool { return b.State == StateAbsent }

// IsIgnore reports whether the interface is marked as not to be touched.
func (b *BaseInterface) IsIgnore() bool { return b.State == StateIgnore }

// IsVirtual reports whether this interface type is software-defined
// (can be fully deleted) as opposed to physical hardware.
func (t InterfaceType) IsVirtual() bool {
	switch t {
	case TypeEthernet, TypeInfiniBand:
		return false
	default:
		return true
	}
}

// MPTCPConfig is the interface's Multipath TCP configuration.
type MPTCPConfig struct {
	AddressFlags []string `yaml:"address-flags,omitempty" json:"addressFlags,omitempty"`
}

// LLDPConfig controls whether LLDP neighbour discovery is enabled.
// Neighbours themselves are runtime-only and dropped before verify
//.
type LLDPConfig struct {
	Enabled    bool               `yaml:"enabled" json:"enabled"`
	Neighbors  []map[string]string `yaml:"neighbors,omitempty" json:"neighbors,omitempty"`
}

// EthtoolConfig holds an interface's pause/feature/coalesce/ring knobs.
// No Probe or Backend Translator in this module reads or writes them.
type EthtoolConfig struct {
	Pause    map[string]bool   `yaml:"pause,omitempty" json:"pause,omitempty"`
	Feature  map[string]bool   `yaml:"feature,omitempty" json:"feature,omitempty"`
	Coalesce map[string]int    `yaml:"coalesce,omitempty" json:"coalesce,omitempty"`
	Ring     map[string]int    `yaml:"ring,omitempty" json:"ring,omitempty"`
}

// IEEE8021XConfig is 802.1X authentication configuration.
type IEEE8021XConfig struct {
	Identity        string `yaml:"identity,omitempty" json:"identity,omitempty"`
	EapMethods      []string `yaml:"eap-methods,omitempty" json:"eapMethods,omitempty"`
	PrivateKey      string `yaml:"private-key,omitempty" json:"privateKey,omitempty"`
	ClientCert      string `yaml:"client-cert,omitempty" json:"clientCert,omitempty"`
	CACert          string `yaml:"ca-cert,omitempty" json:"caCert,omitempty"`
	PrivateKeyPassword string `yaml:"private-key-password,omitempty" json:"-"`
}

// InterfaceOVSDB carries per-interface external_ids/other_config, the
// same pair the global OVSDB config (ovsdb.go) carries.
type InterfaceOVSDB struct {
	ExternalIDs map[string]string `yaml:"external_ids,omitempty" json:"externalIds,omitempty"`
	OtherConfig map[string]string `yaml:"other_config,omitempty" json:"otherConfig,omitempty"`
}

// normalizeMAC upper-cases a MAC address literal, the sanitiser's
// "upper-case MAC addresses" rule.
func normalizeMAC(mac string) string {
	return strings.ToUpper(strings.TrimSpace(mac))
}
