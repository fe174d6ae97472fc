package verify

import (
	"strings"

	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// roundingTolerance is the maximum absolute drift the kernel's HZ-tick
// rounding can introduce on a Linux bridge multicast timer.
const roundingTolerance = 1

// compareRoundedInt compares a desired option value against the
// probed one, returning a KindKernelIntegerRounded error (not a hard
// VerificationError) when they differ by no more than
// roundingTolerance and path names one of the rounding-tolerant
// multicast timers, and a plain VerificationError otherwise.
func compareRoundedInt(path string, want, got int) error {
	if want == got {
		return nil
	}
	diff := want - got
	if diff < 0 {
		diff = -diff
	}
	if diff <= roundingTolerance && model.IsIntegerRoundedOption(path) {
		return nmerror.KernelRounded(path, want, got)
	}
	return nmerror.Verification(path, want, got)
}

func normalizeMACForCompare(mac string) string {
	return strings.ToUpper(strings.TrimSpace(mac))
}
