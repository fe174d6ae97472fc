package model

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// linuxBridgeIntegerRoundedOptions lists the multicast timer suffixes
// the kernel stores as jiffies and reports back rounded to the nearest
// HZ tick on a 250 kernel-HZ / 100 user-HZ system; verify tolerates a
// ±1 mismatch on these.
var linuxBridgeIntegerRoundedOptions = []string{
	"multicast-querier-interval",
	"multicast-query-interval",
	"multicast-query-response-interval",
	"multicast-startup-query-interval",
	"multicast-last-member-interval",
	"multicast-membership-interval",
}

// IsIntegerRoundedOption reports whether a dotted option path ends in
// one of the kernel-HZ-rounded multicast timer names.
func IsIntegerRoundedOption(propFullName string) bool {
	for _, suffix := range linuxBridgeIntegerRoundedOptions {
		if strings.HasSuffix(propFullName, suffix) {
			return true
		}
	}
	return false
}

// LinuxBridgeInterface is a kernel (netlink) Linux bridge.
type LinuxBridgeInterface struct {
	Base   BaseInterface      `yaml:",inline"`
	Bridge *LinuxBridgeConfig `yaml:"bridge,omitempty" json:"bridge,omitempty"`
}

// NewLinuxBridgeInterface returns a LinuxBridgeInterface with Type pre-set.
func NewLinuxBridgeInterface(name string) *LinuxBridgeInterface {
	return &LinuxBridgeInterface{Base: BaseInterface{Name: name, Type: TypeLinuxBridge}}
}

// LinuxBridgeConfig is the bridge-wide STP and port configuration.
type LinuxBridgeConfig struct {
	Options *LinuxBridgeOptions      `yaml:"options,omitempty" json:"options,omitempty"`
	Ports   []LinuxBridgePortConfig  `yaml:"port,omitempty" json:"port,omitempty"`
}

// LinuxBridgeOptions are bridge-wide tunables.
type LinuxBridgeOptions struct {
	GroupForwardMask               *int                   `yaml:"group-forward-mask,omitempty" json:"groupForwardMask,omitempty"`
	MulticastRouter                string                 `yaml:"multicast-router,omitempty" json:"multicastRouter,omitempty"`
	MulticastQuerierInterval       *int                   `yaml:"multicast-querier-interval,omitempty" json:"multicastQuerierInterval,omitempty"`
	MulticastQueryInterval         *int                   `yaml:"multicast-query-interval,omitempty" json:"multicastQueryInterval,omitempty"`
	MulticastQueryResponseInterval *int                   `yaml:"multicast-query-response-interval,omitempty" json:"multicastQueryResponseInterval,omitempty"`
	MulticastStartupQueryInterval  *int                   `yaml:"multicast-startup-query-interval,omitempty" json:"multicastStartupQueryInterval,omitempty"`
	MulticastLastMemberInterval    *int                   `yaml:"multicast-last-member-interval,omitempty" json:"multicastLastMemberInterval,omitempty"`
	MulticastMembershipInterval    *int                   `yaml:"multicast-membership-interval,omitempty" json:"multicastMembershipInterval,omitempty"`
	STP                            *LinuxBridgeStpOptions `yaml:"stp,omitempty" json:"stp,omitempty"`
}

// linuxBridgeOptionsAlias is LinuxBridgeOptions without its own
// UnmarshalYAML method, so decoding into it doesn't recurse.
type linuxBridgeOptionsAlias LinuxBridgeOptions

// UnmarshalYAML accepts "group-fwd-mask" as a synonym for
// "group-forward-mask", merging it into GroupForwardMask when the
// canonical key was left unset. Only "group-forward-mask" is ever
// produced on output.
func (o *LinuxBridgeOptions) UnmarshalYAML(value *yaml.Node) error {
	var alias linuxBridgeOptionsAlias
	if err := value.Decode(&alias); err != nil {
		return err
	}
	var synonym struct {
		GroupFwdMask *int `yaml:"group-fwd-mask"`
	}
	if err := value.Decode(&synonym); err != nil {
		return err
	}
	if alias.GroupForwardMask == nil {
		alias.GroupForwardMask = synonym.GroupFwdMask
	}
	*o = LinuxBridgeOptions(alias)
	return nil
}

// LinuxBridgeStpOptions are the bridge's Spanning Tree Protocol knobs.
type LinuxBridgeStpOptions struct {
	Enabled      *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	HelloTime    *int  `yaml:"hello-time,omitempty" json:"helloTime,omitempty"`
	MaxAge       *int  `yaml:"max-age,omitempty" json:"maxAge,omitempty"`
	ForwardDelay *int  `yaml:"forward-delay,omitempty" json:"forwardDelay,omitempty"`
	Priority     *int  `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// Validate enforces the STP timer ranges the kernel itself enforces
// (original_source linux_bridge.rs LinuxBridgeStpOptions::validate).
func (s *LinuxBridgeStpOptions) Validate() error {
	if s == nil {
		return nil
	}
	if s.HelloTime != nil && (*s.HelloTime < 1 || *s.HelloTime > 10) {
		return nmerror.InvalidArgument("stp.hello-time", "desired STP hello-time %d is not in the range 1-10", *s.HelloTime)
	}
	if s.MaxAge != nil && (*s.MaxAge < 6 || *s.MaxAge > 40) {
		return nmerror.InvalidArgument("stp.max-age", "desired STP max-age %d is not in the range 6-40", *s.MaxAge)
	}
	if s.ForwardDelay != nil && (*s.ForwardDelay < 4 || *s.ForwardDelay > 30) {
		return nmerror.InvalidArgument("stp.forward-delay", "desired STP forward-delay %d is not in the range 4-30", *s.ForwardDelay)
	}
	return nil
}

// Validate enforces the bridge-config-wide invariants.
func (c *LinuxBridgeConfig) Validate() error {
	if c == nil {
		return nil
	}
	if c.Options != nil {
		if err := c.Options.STP.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LinuxBridgePortConfig is per-port STP and VLAN filtering config.
type LinuxBridgePortConfig struct {
	Name          string                    `yaml:"name" json:"name"`
	StpHairpinMode *bool                    `yaml:"stp-hairpin-mode,omitempty" json:"stpHairpinMode,omitempty"`
	StpPathCost   *uint32                   `yaml:"stp-path-cost,omitempty" json:"stpPathCost,omitempty"`
	StpPriority   *uint16                   `yaml:"stp-priority,omitempty" json:"stpPriority,omitempty"`
	Vlan          *LinuxBridgePortVlanConfig `yaml:"vlan,omitempty" json:"vlan,omitempty"`
}

// IsChanged reports whether the explicitly-set fields of this port
// config differ from current (unset fields never force a change).
func (p *LinuxBridgePortConfig) IsChanged(current *LinuxBridgePortConfig) bool {
	if current == nil {
		return true
	}
	if p.StpHairpinMode != nil && (current.StpHairpinMode == nil || *p.StpHairpinMode != *current.StpHairpinMode) {
		return true
	}
	if p.StpPathCost != nil && (current.StpPathCost == nil || *p.StpPathCost != *current.StpPathCost) {
		return true
	}
	if p.StpPriority != nil && (current.StpPriority == nil || *p.StpPriority != *current.StpPriority) {
		return true
	}
	return false
}

// LinuxBridgePortVlanMode is access or trunk VLAN filtering mode.
type LinuxBridgePortVlanMode string

const (
	PortVlanModeTrunk LinuxBridgePortVlanMode = "trunk"
	PortVlanModeAccess LinuxBridgePortVlanMode = "access"
)

// LinuxBridgePortVlanConfig is a port's 802.1Q VLAN filtering config.
type LinuxBridgePortVlanConfig struct {
	Mode       LinuxBridgePortVlanMode `yaml:"mode,omitempty" json:"mode,omitempty"`
	Tag        *int                    `yaml:"tag,omitempty" json:"tag,omitempty"`
	EnableNative *bool                 `yaml:"enable-native,omitempty" json:"enableNative,omitempty"`
	Trunks     []VlanTrunkTag          `yaml:"trunk-tags,omitempty" json:"trunkTags,omitempty"`
}

// FlattenTrunkTags expands this port's trunk entries into explicit,
// sorted, deduplicated tag ids, repurposing the
// bitmap-based flattener.
func (v *LinuxBridgePortVlanConfig) FlattenTrunkTags() ([]int, error) {
	if v == nil {
		return nil, nil
	}
	return FlattenVlanTrunkTags(v.Trunks)
}

// Ports returns the configured port name list, or nil if ports were
// not mentioned in desired state.
func (b *LinuxBridgeInterface) Ports() []string {
	if b.Bridge == nil {
		return nil
	}
	names := make([]string, len(b.Bridge.Ports))
	for i, p := range b.Bridge.Ports {
		names[i] = p.Name
	}
	return names
}

// PortConfig looks up a port's config by name.
func (b *LinuxBridgeInterface) PortConfig(name string) *LinuxBridgePortConfig {
	if b.Bridge == nil {
		return nil
	}
	for i := range b.Bridge.Ports {
		if b.Bridge.Ports[i].Name == name {
			return &b.Bridge.Ports[i]
		}
	}
	return nil
}

// VlanFilteringEnabled reports whether any port declares VLAN config,
// which switches the whole bridge into 802.1Q filtering mode.
func (b *LinuxBridgeInterface) VlanFilteringEnabled() bool {
	if b.Bridge == nil {
		return false
	}
	for _, p := range b.Bridge.Ports {
		if p.Vlan != nil {
			return true
		}
	}
	return false
}

// ChangedConfigPorts returns the names of ports whose STP config
// differs between this (desired) and current; port membership changes
// are the caller's responsibility (original_source
// get_config_changed_ports doc comment, carried over unchanged).
func (b *LinuxBridgeInterface) ChangedConfigPorts(current *LinuxBridgeInterface) []string {
	var changed []string
	if b.Bridge == nil || b.Bridge.Ports == nil {
		return changed
	}
	for _, desiredPort := range b.Bridge.Ports {
		curPort := current.PortConfig(desiredPort.Name)
		if curPort == nil {
			continue
		}
		dp := desiredPort
		if dp.IsChanged(curPort) {
			changed = append(changed, desiredPort.Name)
		}
	}
	return changed
}

// Validate validates the bridge-specific invariants.
func (b *LinuxBridgeInterface) Validate() error {
	return b.Bridge.Validate()
}
