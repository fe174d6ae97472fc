package merge

import "github.com/nmstate/nmstate-go/pkg/model"

// maxUpPriorityPasses bounds the fixed-point loop AssignUpPriority
// runs; a cycle in the controller graph (A controlled-by B controlled-
// by A) would otherwise iterate forever (original_source
// inter_ifaces_controller.rs::set_ifaces_up_priority, which bounds the
// same loop with its own controller-must-resolve-first invariant).
const maxUpPriorityPasses = 64

// AssignUpPriority assigns each interface an up_priority: a controller
// gets priority one less than every one of its ports, so the Apply
// Orchestrator can activate controllers before ports. Interfaces with no controller get priority 0.
//
// This runs to a fixed point rather than a single topological sort
// pass because a port can be mentioned before its controller in the
// interface list; each pass resolves any interface whose controller
// already has a priority, the same incremental approach as the
// original.
func AssignUpPriority(ifaces model.Interfaces) error {
	priority := map[string]int{}
	controllerOf := map[string]string{}

	for i := range ifaces {
		base := ifaces[i].Base()
		if base.Controller != "" {
			controllerOf[base.Name] = base.Controller
		}
	}

	for pass := 0; pass < maxUpPriorityPasses; pass++ {
		progress := false
		unresolved := 0
		for i := range ifaces {
			name := ifaces[i].Name()
			if _, ok := priority[name]; ok {
				continue
			}
			ctrl, hasCtrl := controllerOf[name]
			if !hasCtrl {
				priority[name] = 0
				progress = true
				continue
			}
			if ctrlPriority, ok := priority[ctrl]; ok {
				priority[name] = ctrlPriority + 1
				progress = true
				continue
			}
			unresolved++
		}
		if unresolved == 0 {
			break
		}
		if !progress {
			// A controller cycle or a dangling controller reference;
			// ValidateRef catches the latter, this just stops looping.
			break
		}
	}

	for i := range ifaces {
		base := ifaces[i].Base()
		if p, ok := priority[base.Name]; ok {
			base.UpPriority = p
		}
	}
	return nil
}
