// Package ovsdb provides the Open vSwitch database models and
// transaction helpers the OVS-facing Backend capability uses to push
// ovs-bridge/ovs-interface profiles and OVN bridge-mappings.
//
// This file defines the row models for the Open_vSwitch database
// (as opposed to the OVN Northbound/Southbound databases): the
// top-level Open_vSwitch row, Bridge, Port, and Interface tables.
//
// Open vSwitch Database Tables (schema "Open_vSwitch"):
// - Open_vSwitch: the single row of switch-wide external_ids/other_config
// - Bridge: a named bridge owning one or more Ports
// - Port: a bridge member, possibly a bond of several Interfaces
// - Interface: the netdev backing one Interface UUID in a Port
//
// Reference: pkg/ovndb/models.go (same ovsdb struct-tag convention,
// repointed at the OVS schema instead of OVN NB/SB).
package ovsdb

// OpenVSwitch represents the single row of the Open_vSwitch table.
type OpenVSwitch struct {
	UUID        string            `ovsdb:"_uuid"`
	Bridges     []string          `ovsdb:"bridges"`
	OtherConfig map[string]string `ovsdb:"other_config"`
	ExternalIDs map[string]string `ovsdb:"external_ids"`
}

// Bridge represents one row of the Bridge table.
type Bridge struct {
	UUID         string            `ovsdb:"_uuid"`
	Name         string            `ovsdb:"name"`
	Ports        []string          `ovsdb:"ports"`
	FailMode     *string           `ovsdb:"fail_mode"`
	STPEnable    bool              `ovsdb:"stp_enable"`
	RSTPEnable   bool              `ovsdb:"rstp_enable"`
	DatapathType string            `ovsdb:"datapath_type"`
	OtherConfig  map[string]string `ovsdb:"other_config"`
	ExternalIDs  map[string]string `ovsdb:"external_ids"`
}

// Port represents one row of the Port table: a bridge member that may
// be a single Interface or a bonded set (len(Interfaces) > 1).
type Port struct {
	UUID        string            `ovsdb:"_uuid"`
	Name        string            `ovsdb:"name"`
	Interfaces  []string          `ovsdb:"interfaces"`
	Tag         *int              `ovsdb:"tag"`
	Trunks      []int             `ovsdb:"trunks"`
	VlanMode    *string           `ovsdb:"vlan_mode"`
	BondMode    *string           `ovsdb:"bond_mode"`
	BondUpdelay int               `ovsdb:"bond_updelay"`
	BondDowndelay int             `ovsdb:"bond_downdelay"`
	OtherConfig map[string]string `ovsdb:"other_config"`
	ExternalIDs map[string]string `ovsdb:"external_ids"`
}

// Interface represents one row of the Interface table: the netdev
// backing a Port (or one bonded member of it).
type Interface struct {
	UUID        string            `ovsdb:"_uuid"`
	Name        string            `ovsdb:"name"`
	Type        string            `ovsdb:"type"`
	Options     map[string]string `ovsdb:"options"`
	MTURequest  *int              `ovsdb:"mtu_request"`
	OtherConfig map[string]string `ovsdb:"other_config"`
	ExternalIDs map[string]string `ovsdb:"external_ids"`
}

// OVNBridgeMappingsKey is the Open_vSwitch external_ids key OVN reads
// for its localnet-to-bridge mapping table.
const OVNBridgeMappingsKey = "ovn-bridge-mappings"
