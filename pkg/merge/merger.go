// Package merge implements the Merger component: it
// combines a desired NetworkState with the current probed state into
// one MergedState ready for the Backend Translator. "None means keep
// current" is the semantics threaded through every sub-merge here;
// there is no generic deep-merge library that captures it (see
// SPEC_FULL.md Domain Stack for why dario.cat/mergo was dropped), so
// each field group gets its own explicit merge function.
package merge

import (
	"go.uber.org/multierr"

	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// MergedState is the output of merging desired over current: a
// NetworkState ready to hand to the Backend Translator, plus the
// per-interface change set the orchestrator and verifier need.
type MergedState struct {
	Result *model.NetworkState

	// ChangedInterfaces are the interfaces whose activation state
	// needs to be (re)applied, sorted by name.
	ChangedInterfaces []string

	// ChangedRouteTables maps route table id to its fully-resolved,
	// deduplicated route-rule list post-merge.
	ChangedRouteTables map[uint32][]model.RouteRuleEntry
}

// Merge combines desired over current.
func Merge(desired, current *model.NetworkState) (*MergedState, error) {
	var err error

	mergedIfaces, changed, mergeErr := MergeInterfaces(desired.Interfaces, current.Interfaces)
	err = multierr.Append(err, mergeErr)

	if mergeErr := AssignUpPriority(mergedIfaces); mergeErr != nil {
		err = multierr.Append(err, mergeErr)
	}

	mergedRoutes := MergeRoutes(desired.Routes, current.Routes)
	ruleTables, ruleErr := model.GenChangedTableRules(desired.RouteRules, current.RouteRules)
	err = multierr.Append(err, ruleErr)

	mergedDNS := MergeDNS(desired, current)

	mergedOVN := model.MergeOvnConfiguration(desired.OVN, current.OVN)

	if err != nil {
		return nil, err
	}

	result := &model.NetworkState{
		Interfaces: mergedIfaces,
		Routes:     mergedRoutes,
		RouteRules: desired.RouteRules,
		DNS:        mergedDNS,
		Hostname:   desired.Hostname,
		OVSDB:      desired.OVSDB,
		OVN:        mergedOVN,
	}
	if result.Hostname == nil {
		result.Hostname = current.Hostname
	}
	if result.OVSDB == nil {
		result.OVSDB = current.OVSDB
	}

	if err := AssignSRIOVReferences(result); err != nil {
		return nil, err
	}

	return &MergedState{
		Result:             result,
		ChangedInterfaces:  changed,
		ChangedRouteTables: ruleTables,
	}, nil
}

// ValidateMergeResult re-runs the data model's own validator plus the
// merge-specific reference checks on the merge result, catching
// dangling controller/port/base-iface references that only become
// visible once desired and current are combined.
func ValidateMergeResult(m *MergedState) error {
	if m == nil || m.Result == nil {
		return nmerror.Bug("merge produced a nil result")
	}
	var err error
	err = multierr.Append(err, m.Result.Validate())
	err = multierr.Append(err, m.Result.ValidateRef())
	return err
}
