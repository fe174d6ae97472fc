package ovsdb

import (
	"github.com/ovn-org/libovsdb/ovsdb"

	"github.com/nmstate/nmstate-go/pkg/backend"
)

// BuildBridgeInsertOps turns one pkg/backend.OvsRowPlan into the insert
// operations that create its Bridge/Port/Interface rows atomically,
// using the plan's named UUIDs to cross-reference rows that do not
// exist yet (grounded on pkg/ovndb/transact.go's BuildNamedUUID
// convention, generalised here into the actual ovsdb.Operation
// builder pkg/ovndb left for the caller to hand-write per table).
func BuildBridgeInsertOps(plan backend.OvsRowPlan) []ovsdb.Operation {
	var ops []ovsdb.Operation

	portUUIDs := make([]string, 0, len(plan.Ports))
	for _, port := range plan.Ports {
		for i, ifaceName := range port.InterfaceNames {
			ops = append(ops, ovsdb.Operation{
				Op:       ovsdb.OperationInsert,
				Table:    "Interface",
				Row:      ovsdb.Row{"name": ifaceName},
				UUIDName: port.InterfaceUUIDs[i],
			})
		}

		portRow := ovsdb.Row{
			"name":       port.Name,
			"interfaces": toUUIDSet(port.InterfaceUUIDs),
		}
		if port.VlanTag != nil {
			portRow["tag"] = *port.VlanTag
		}
		if len(port.VlanTrunks) > 0 {
			portRow["trunks"] = toIntSet(port.VlanTrunks)
		}
		if port.VlanMode != "" {
			portRow["vlan_mode"] = port.VlanMode
		}

		ops = append(ops, ovsdb.Operation{
			Op:       ovsdb.OperationInsert,
			Table:    "Port",
			Row:      portRow,
			UUIDName: port.PortUUID,
		})
		portUUIDs = append(portUUIDs, port.PortUUID)
	}

	ops = append(ops, ovsdb.Operation{
		Op:    ovsdb.OperationInsert,
		Table: "Bridge",
		Row: ovsdb.Row{
			"name":  plan.BridgeName,
			"ports": toUUIDSet(portUUIDs),
		},
		UUIDName: plan.BridgeUUID,
	})

	return ops
}

func toUUIDSet(uuids []string) []ovsdb.UUID {
	set := make([]ovsdb.UUID, len(uuids))
	for i, u := range uuids {
		set[i] = ovsdb.UUID{GoUUID: u}
	}
	return set
}

func toIntSet(ints []int) []int {
	out := make([]int, len(ints))
	copy(out, ints)
	return out
}
