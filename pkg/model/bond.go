package model

import "github.com/nmstate/nmstate-go/pkg/nmerror"

// BondMode is the bonding driver mode.
type BondMode string

const (
	BondModeRoundRobin   BondMode = "round-robin"
	BondModeActiveBackup BondMode = "active-backup"
	BondModeXOR          BondMode = "xor"
	BondModeBroadcast    BondMode = "broadcast"
	BondMode8023AD       BondMode = "802.3ad"
	BondModeTLB          BondMode = "balance-tlb"
	BondModeALB          BondMode = "balance-alb"
)

// BondFailOverMac controls MAC address handling in active-backup mode.
type BondFailOverMac string

const (
	BondFailOverMacNone   BondFailOverMac = "none"
	BondFailOverMacActive BondFailOverMac = "active"
	BondFailOverMacFollow BondFailOverMac = "follow"
)

// BondConfig is a bond interface's link-aggregation configuration.
type BondConfig struct {
	Mode    BondMode          `yaml:"mode,omitempty" json:"mode,omitempty"`
	Ports   []string          `yaml:"port,omitempty" json:"port,omitempty"`
	Options *BondOptions      `yaml:"options,omitempty" json:"options,omitempty"`
	PortsConfig []BondPortConfig `yaml:"ports-config,omitempty" json:"portsConfig,omitempty"`
}

// BondOptions is the passthrough set of kernel bonding module options.
type BondOptions struct {
	Miimon        *int            `yaml:"miimon,omitempty" json:"miimon,omitempty"`
	UpDelay       *int            `yaml:"updelay,omitempty" json:"updelay,omitempty"`
	DownDelay     *int            `yaml:"downdelay,omitempty" json:"downdelay,omitempty"`
	FailOverMac   BondFailOverMac `yaml:"fail_over_mac,omitempty" json:"failOverMac,omitempty"`
	Primary       string          `yaml:"primary,omitempty" json:"primary,omitempty"`
	XmitHashPolicy string         `yaml:"xmit_hash_policy,omitempty" json:"xmitHashPolicy,omitempty"`
	ARPInterval   *int            `yaml:"arp_interval,omitempty" json:"arpInterval,omitempty"`
	ARPIPTarget   string          `yaml:"arp_ip_target,omitempty" json:"arpIpTarget,omitempty"`
}

// BondPortConfig is per-port tuning (currently just LACP queue id/priority).
type BondPortConfig struct {
	Name     string `yaml:"name" json:"name"`
	Priority *int   `yaml:"priority,omitempty" json:"priority,omitempty"`
	QueueID  *int   `yaml:"queue-id,omitempty" json:"queueId,omitempty"`
}

// BondInterface is a bonding (link-aggregation) interface.
type BondInterface struct {
	Base BaseInterface `yaml:",inline"`
	Bond *BondConfig   `yaml:"link-aggregation,omitempty" json:"linkAggregation,omitempty"`
}

// NewBondInterface returns a BondInterface with Type pre-set.
func NewBondInterface(name string) *BondInterface {
	return &BondInterface{Base: BaseInterface{Name: name, Type: TypeBond}}
}

// Ports returns the configured port list, or nil if ports were not
// mentioned in the desired state at all (distinct from an empty list,
// which clears every port).
func (b *BondInterface) Ports() []string {
	if b.Bond == nil {
		return nil
	}
	return b.Bond.Ports
}

// Mode returns the bond mode, or "" if unset.
func (b *BondInterface) Mode() BondMode {
	if b.Bond == nil {
		return ""
	}
	return b.Bond.Mode
}

// IsMacRestrictedMode reports whether the bond is in active-backup
// mode with fail_over_mac=active, which restricts MAC address changes
// on the bond and its ports.
func (b *BondInterface) IsMacRestrictedMode() bool {
	if b.Mode() != BondModeActiveBackup || b.Bond.Options == nil {
		return false
	}
	return b.Bond.Options.FailOverMac == BondFailOverMacActive
}

// IsNotMacRestrictedModeExplicitly reports whether the desired state
// explicitly opts out of MAC-restricted mode, either by choosing a
// mode other than active-backup or by setting fail_over_mac to
// anything but "active".
func (b *BondInterface) IsNotMacRestrictedModeExplicitly() bool {
	if b.Mode() != "" && b.Mode() != BondModeActiveBackup {
		return true
	}
	if b.Bond == nil || b.Bond.Options == nil {
		return false
	}
	fom := b.Bond.Options.FailOverMac
	return fom != "" && fom != BondFailOverMacActive
}

// PreEditCleanup validates the bond-specific invariants that need to
// know whether this is a brand-new interface:
//   - mode is mandatory when creating a bond from scratch
//   - mac-address cannot be set when entering mac-restricted mode
func (b *BondInterface) PreEditCleanup(isNew bool) error {
	if isNew && b.Mode() == "" {
		return nmerror.InvalidArgument(b.Base.Name, "bond mode is mandatory for a new bond interface")
	}
	if b.IsMacRestrictedMode() && b.Base.MACAddress != "" {
		return nmerror.InvalidArgument(b.Base.Name,
			"cannot set mac-address on a bond in active-backup/fail_over_mac=active mode")
	}
	if b.Bond != nil && b.Bond.Options != nil {
		if err := validateBondOptions(b.Bond.Options, b.Mode()); err != nil {
			return err
		}
	}
	return nil
}

func validateBondOptions(opts *BondOptions, mode BondMode) error {
	if opts.ARPInterval != nil && *opts.ARPInterval < 0 {
		return nmerror.InvalidArgument("bond", "arp_interval must not be negative")
	}
	if opts.Primary != "" && mode != BondModeActiveBackup && mode != BondModeTLB && mode != BondModeALB {
		return nmerror.InvalidArgument("bond", "primary option only applies to active-backup/balance-tlb/balance-alb modes")
	}
	return nil
}
