package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// OvnBridgeMappingState marks a bridge mapping for deletion.
type OvnBridgeMappingState string

const (
	OvnBridgeMappingPresent OvnBridgeMappingState = "present"
	OvnBridgeMappingAbsent  OvnBridgeMappingState = "absent"
)

// OvnBridgeMapping binds one OVN localnet name to an OVS bridge
//.
type OvnBridgeMapping struct {
	Localnet string                 `yaml:"localnet" json:"localnet"`
	State    OvnBridgeMappingState  `yaml:"state,omitempty" json:"state,omitempty"`
	Bridge   string                 `yaml:"bridge,omitempty" json:"bridge,omitempty"`
}

// IsAbsent reports whether this mapping should be removed.
func (m OvnBridgeMapping) IsAbsent() bool { return m.State == OvnBridgeMappingAbsent }

// String renders the mapping in the OVSDB external_ids wire form
// "localnet:bridge".
func (m OvnBridgeMapping) String() string {
	return fmt.Sprintf("%s:%s", m.Localnet, m.Bridge)
}

// ParseOvnBridgeMapping parses the wire form "localnet:bridge" back
// into a mapping.
func ParseOvnBridgeMapping(s string) (OvnBridgeMapping, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return OvnBridgeMapping{}, nmerror.InvalidArgument(s, "invalid ovn bridge mapping, expected localnet:bridge")
	}
	return OvnBridgeMapping{Localnet: parts[0], Bridge: parts[1]}, nil
}

// sortKey orders absent mappings first, then by localnet name (ovn.rs
// sort_key ordering, carried over unchanged).
func (m OvnBridgeMapping) sortKey() (bool, string) {
	return m.IsAbsent(), m.Localnet
}

// OvnConfiguration is the top-level `ovn` document's bridge-mapping
// list.
type OvnConfiguration struct {
	BridgeMappings []OvnBridgeMapping `yaml:"bridge-mappings,omitempty" json:"bridgeMappings,omitempty"`
}

// IsEmpty reports whether no bridge mappings were supplied.
func (o *OvnConfiguration) IsEmpty() bool { return o == nil || len(o.BridgeMappings) == 0 }

// Validate rejects a desired document naming the same localnet twice
// as both present and absent.
func (o *OvnConfiguration) Validate() error {
	if o == nil {
		return nil
	}
	seen := map[string]OvnBridgeMappingState{}
	for _, m := range o.BridgeMappings {
		state := m.State
		if state == "" {
			state = OvnBridgeMappingPresent
		}
		if prior, ok := seen[m.Localnet]; ok && prior != state {
			return nmerror.InvalidArgument(m.Localnet,
				"localnet %q declared both present and absent", m.Localnet)
		}
		seen[m.Localnet] = state
	}
	return nil
}

// Sanitize dedups and sorts the mapping list, matching
// to_ovsdb_external_id_value's canonical ordering.
func (o *OvnConfiguration) Sanitize() {
	if o == nil {
		return
	}
	o.BridgeMappings = dedupMappings(o.BridgeMappings)
	sort.SliceStable(o.BridgeMappings, func(i, j int) bool {
		ki, li := o.BridgeMappings[i].sortKey()
		kj, lj := o.BridgeMappings[j].sortKey()
		if ki != kj {
			return ki && !kj // absent first
		}
		return li < lj
	})
}

func dedupMappings(in []OvnBridgeMapping) []OvnBridgeMapping {
	seen := map[string]bool{}
	out := in[:0:0]
	for _, m := range in {
		key := m.Localnet + "\x00" + m.Bridge + "\x00" + string(m.State)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// MergeOvnConfiguration merges a desired OvnConfiguration over a
// current one: current mappings are kept unless a desired mapping for
// the same localnet overrides or deletes them.
func MergeOvnConfiguration(desired, current *OvnConfiguration) *OvnConfiguration {
	merged := map[string]OvnBridgeMapping{}
	if current != nil {
		for _, m := range current.BridgeMappings {
			merged[m.Localnet] = m
		}
	}
	if desired != nil {
		for _, m := range desired.BridgeMappings {
			if m.IsAbsent() {
				delete(merged, m.Localnet)
				continue
			}
			merged[m.Localnet] = m
		}
	}
	result := &OvnConfiguration{}
	for _, m := range merged {
		result.BridgeMappings = append(result.BridgeMappings, m)
	}
	result.Sanitize()
	return result
}

// ToExternalIDValue renders the mapping list into the single
// "ovn-bridge-mappings" external_ids value OVSDB stores: mappings
// joined by "," in sorted order.
func (o *OvnConfiguration) ToExternalIDValue() string {
	if o.IsEmpty() {
		return ""
	}
	o.Sanitize()
	parts := make([]string, 0, len(o.BridgeMappings))
	for _, m := range o.BridgeMappings {
		if m.IsAbsent() {
			continue
		}
		parts = append(parts, m.String())
	}
	return strings.Join(parts, ",")
}
