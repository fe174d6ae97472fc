// Package verify is the Verifier: it compares the
// merged desired NetworkState against what a Probe actually observed
// after a push, dropping runtime-only fields first and tolerating
// documented kernel-rounding drift on Linux bridge multicast timers.
//
// Grounded on pkg/ovn/policy_controller_test.go's assertion style
// (field-by-field expected-vs-actual comparison), generalised here
// into a reusable diff algorithm, and on
// original_source/rust/src/lib/query_apply/ifaces.rs for which fields
// are runtime-only and dropped before comparison.
package verify

import (
	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// VerifyInterfaces compares each non-absent desired interface against
// its probed counterpart, returning the first mismatch found (wrapped
// with its property path) or nil if everything matches within
// tolerance. Desired interfaces with State == absent are expected to
// be missing from probed and are skipped rather than diffed.
func VerifyInterfaces(desired model.Interfaces, probed model.Interfaces) error {
	for idx := range desired {
		d := &desired[idx]
		base := d.Base()
		if base.IsAbsent() {
			if probed.ByKey(base.Key()) != nil {
				return nmerror.Verification(base.Name+".state", "absent", "present")
			}
			continue
		}
		if base.IsIgnore() {
			continue
		}

		p := probed.ByKey(base.Key())
		if p == nil {
			return nmerror.Verification(base.Name+".state", "present", "absent")
		}

		if err := diffInterface(d, p); err != nil {
			return err
		}
	}
	return nil
}
