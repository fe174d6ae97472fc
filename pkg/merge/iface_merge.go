package merge

import (
	"go.uber.org/multierr"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/nmstate/nmstate-go/pkg/model"
)

// MergeInterfaces combines desired interfaces over current ones:
// every current interface is kept unless a desired entry for the same
// key overrides or removes it (state: absent); a desired entry for an
// already-existing interface inherits the current values of the
// fields mergeOneInterface lists.
//
// Returns the merged interface list and the names of the interfaces
// whose activation needs to run, sorted by name (apply order is set
// later by AssignUpPriority).
func MergeInterfaces(desired, current model.Interfaces) (model.Interfaces, []string, error) {
	var err error

	currentByKey := map[model.Key]*model.Interface{}
	for i := range current {
		currentByKey[current[i].Key()] = &current[i]
	}

	changed := sets.NewString()
	mergedByKey := map[model.Key]*model.Interface{}
	for i := range current {
		c := current[i]
		mergedByKey[c.Key()] = &c
	}

	for i := range desired {
		d := &desired[i]
		key := d.Key()

		if d.IsAbsent() {
			delete(mergedByKey, key)
			changed.Insert(d.Name())
			continue
		}
		if d.IsIgnore() {
			continue
		}

		cur := currentByKey[key]
		merged, mergeErr := mergeOneInterface(d, cur)
		if mergeErr != nil {
			err = multierr.Append(err, mergeErr)
			continue
		}
		mergedByKey[key] = merged
		if cur == nil || interfaceChanged(d, cur) {
			changed.Insert(d.Name())
		}
	}

	result := make(model.Interfaces, 0, len(mergedByKey))
	for _, v := range mergedByKey {
		result = append(result, *v)
	}

	return result, changed.List(), err
}

// mergeOneInterface fills these unset desired fields from current:
// MTU, IPv4/IPv6, accept-all-mac, controller (with its type) and
// state; for a Linux bridge, also the bridge block, or only its
// options, when desired leaves them unset. Every other field,
// including the rest of the variant-specific config, is taken from
// desired as given.
func mergeOneInterface(desired *model.Interface, current *model.Interface) (*model.Interface, error) {
	merged := *desired
	db := merged.Base()
	if current == nil {
		return &merged, nil
	}
	cb := current.Base()

	if db.MTU == nil {
		db.MTU = cb.MTU
	}
	if db.IPv4 == nil {
		db.IPv4 = cb.IPv4
	}
	if db.IPv6 == nil {
		db.IPv6 = cb.IPv6
	}
	if db.AcceptAllMacAddresses == nil {
		db.AcceptAllMacAddresses = cb.AcceptAllMacAddresses
	}
	if db.Controller == "" {
		db.Controller = cb.Controller
		db.ControllerType = cb.ControllerType
	}
	if db.State == "" {
		db.State = cb.State
	}

	if merged.LinuxBridge != nil && current.LinuxBridge != nil {
		mergeLinuxBridgePorts(merged.LinuxBridge, current.LinuxBridge)
	}
	return &merged, nil
}

func mergeLinuxBridgePorts(desired, current *model.LinuxBridgeInterface) {
	if desired.Bridge == nil {
		desired.Bridge = current.Bridge
		return
	}
	if desired.Bridge.Options == nil {
		desired.Bridge.Options = current.Bridge.Options
	}
}

// interfaceChanged reports whether activating this interface is
// necessary: a brand-new interface always needs activation; an
// existing one needs it only if its administrative state, controller
// membership or MTU actually differs.
func interfaceChanged(desired, current *model.Interface) bool {
	db, cb := desired.Base(), current.Base()
	if db.State != "" && db.State != cb.State {
		return true
	}
	if db.Controller != cb.Controller {
		return true
	}
	if db.MTU != nil && (cb.MTU == nil || *db.MTU != *cb.MTU) {
		return true
	}
	return false
}
