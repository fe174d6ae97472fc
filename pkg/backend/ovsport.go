package backend

import "github.com/nmstate/nmstate-go/pkg/model"

// OvsRowPlan is the set of Bridge/Port/Interface rows pkg/ovsdb must
// insert or update to realise one ovs-bridge interface profile,
// expressed with same-transaction named UUIDs so the caller can build
// a single atomic libovsdb transaction (grounded on
// pkg/ovndb/models.go's per-table struct shape, repointed at
// Bridge/Port/Interface instead of Logical_Switch*).
type OvsRowPlan struct {
	BridgeName string
	BridgeUUID string
	Ports      []OvsPortRowPlan
}

// OvsPortRowPlan is one Port row (and its single backing Interface row
// for non-bonded ports, or N Interface rows for a bonded port).
type OvsPortRowPlan struct {
	PortUUID       string
	Name           string
	InterfaceUUIDs []string
	InterfaceNames []string
	VlanMode       string
	VlanTag        *int
	VlanTrunks     []int
}

// PlanOvsBridge builds the row plan for one ovs-bridge interface,
// assigning a same-transaction named UUID to every row so the bridge,
// its ports, and their interfaces can all be inserted in one
// transaction even though none of them exist yet.
func PlanOvsBridge(iface *model.OvsBridgeInterface) OvsRowPlan {
	plan := OvsRowPlan{
		BridgeName: iface.Base.Name,
		BridgeUUID: BuildNamedUUID("bridge-" + iface.Base.Name),
	}
	if iface.Bridge == nil {
		return plan
	}
	for _, port := range iface.Bridge.Ports {
		portPlan := OvsPortRowPlan{
			PortUUID: BuildNamedUUID("port-" + port.Name),
			Name:     port.Name,
		}
		if port.Vlan != nil {
			portPlan.VlanMode = string(port.Vlan.Mode)
			portPlan.VlanTag = port.Vlan.Tag
			if trunks, err := port.Vlan.FlattenTrunkTags(); err == nil {
				portPlan.VlanTrunks = trunks
			}
		}
		if port.LinkAggregation != nil {
			for _, member := range port.LinkAggregation.Ports {
				portPlan.InterfaceNames = append(portPlan.InterfaceNames, member)
				portPlan.InterfaceUUIDs = append(portPlan.InterfaceUUIDs, BuildNamedUUID("iface-"+member))
			}
		} else {
			portPlan.InterfaceNames = []string{port.Name}
			portPlan.InterfaceUUIDs = []string{BuildNamedUUID("iface-" + port.Name)}
		}
		plan.Ports = append(plan.Ports, portPlan)
	}
	return plan
}
