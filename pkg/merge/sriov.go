package merge

import (
	"fmt"

	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// AssignSRIOVReferences resolves and validates SR-IOV VF id
// references on every Ethernet interface after merge: VF ids in
// sr-iov.vfs must be below total-vfs, and a VF id must be unique
// within its PF (generalised from the base-iface cross-reference
// resolution pattern in inter_ifaces.rs's Interfaces::update, applied
// here to PF/VF identity instead of controller/port identity).
func AssignSRIOVReferences(state *model.NetworkState) error {
	for i := range state.Interfaces {
		eth := state.Interfaces[i].Ethernet
		if eth == nil || eth.SRIOV == nil {
			continue
		}
		seen := map[int]bool{}
		for _, vf := range eth.SRIOV.VFs {
			if vf.ID < 0 || vf.ID >= eth.SRIOV.TotalVFs {
				return nmerror.InvalidArgument(eth.Base.Name,
					"sr-iov VF id %d is out of range for total-vfs %d", vf.ID, eth.SRIOV.TotalVFs)
			}
			if seen[vf.ID] {
				return nmerror.InvalidArgument(eth.Base.Name,
					fmt.Sprintf("sr-iov VF id %d is configured more than once", vf.ID))
			}
			seen[vf.ID] = true
		}
	}
	return nil
}
