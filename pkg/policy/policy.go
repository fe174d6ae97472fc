package policy

import (
	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// CaptureExpr names one ordered capture rule, as it appears in a
// policy document's "capture" block.
type CaptureExpr struct {
	Name       string `yaml:"name" json:"name"`
	Expression string `yaml:"expression" json:"expression"`
}

// Document is a policy file: ordered capture rules plus a desired
// state document whose string fields may reference them via
// `{{ capture.<name>.<path> }}`.
type Document struct {
	Capture      []CaptureExpr          `yaml:"capture" json:"capture"`
	DesiredState map[string]interface{} `yaml:"desiredState" json:"desiredState"`
}

// Resolve runs doc's capture rules against current, substitutes every
// template reference in doc.DesiredState, and decodes the result into
// a NetworkState ready for the Merger.
func Resolve(doc *Document, current *model.NetworkState) (*model.NetworkState, error) {
	names := make([]string, 0, len(doc.Capture))
	exprs := make(map[string]string, len(doc.Capture))
	for _, c := range doc.Capture {
		names = append(names, c.Name)
		exprs[c.Name] = c.Expression
	}

	rules, err := ParseCaptureRules(names, exprs)
	if err != nil {
		return nil, err
	}

	captures, err := rules.Execute(current)
	if err != nil {
		return nil, err
	}

	resolvedValue, err := ApplyTemplates(doc.DesiredState, captures)
	if err != nil {
		return nil, err
	}
	resolved, _ := asMap(resolvedValue)

	return DecodeNetworkState(resolved)
}

// DecodeNetworkState builds a NetworkState from a generic YAML
// document map (as produced by unmarshalling a state file, or by
// ApplyTemplates). Interfaces decode through Interface's own
// type-keyed UnmarshalYAML, so a variant's type-specific block
// (link-aggregation, bridge, vlan, ...) is populated along with its
// common fields.
func DecodeNetworkState(doc map[string]interface{}) (*model.NetworkState, error) {
	desired := &model.NetworkState{}

	if ifacesDoc, ok := doc["interfaces"]; ok {
		if err := fromValue(ifacesDoc, &desired.Interfaces); err != nil {
			return nil, nmerror.Bug("failed to decode desired interfaces: %v", err)
		}
	}
	if routesDoc, ok := doc["routes"]; ok {
		if err := fromValue(routesDoc, &desired.Routes); err != nil {
			return nil, nmerror.Bug("failed to decode desired routes: %v", err)
		}
	}
	if rulesDoc, ok := doc["route-rules"]; ok {
		if err := fromValue(rulesDoc, &desired.RouteRules); err != nil {
			return nil, nmerror.Bug("failed to decode desired route-rules: %v", err)
		}
	}
	if dnsDoc, ok := doc["dns-resolver"]; ok {
		if err := fromValue(dnsDoc, &desired.DNS); err != nil {
			return nil, nmerror.Bug("failed to decode desired dns-resolver: %v", err)
		}
	}
	if hostnameDoc, ok := doc["hostname"]; ok {
		if err := fromValue(hostnameDoc, &desired.Hostname); err != nil {
			return nil, nmerror.Bug("failed to decode desired hostname: %v", err)
		}
	}
	if ovsdbDoc, ok := doc["ovs-db"]; ok {
		if err := fromValue(ovsdbDoc, &desired.OVSDB); err != nil {
			return nil, nmerror.Bug("failed to decode desired ovs-db: %v", err)
		}
	}
	if ovnDoc, ok := doc["ovn"]; ok {
		if err := fromValue(ovnDoc, &desired.OVN); err != nil {
			return nil, nmerror.Bug("failed to decode desired ovn: %v", err)
		}
	}
	return desired, nil
}
