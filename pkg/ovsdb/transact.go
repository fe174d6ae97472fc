// Package ovsdb provides Open vSwitch database transaction helpers.
//
// This file mirrors pkg/ovndb/transact.go's retry/check/named-UUID
// helpers, minus klog (this module standardises on go-logr/logr, see
// DESIGN.md), repointed at an OVSDB client talking to the
// "Open_vSwitch" schema instead of OVN's NB/SB schemas.
package ovsdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/ovn-org/libovsdb/client"
	"github.com/ovn-org/libovsdb/ovsdb"
	"k8s.io/apimachinery/pkg/util/wait"
)

// ErrNotFound is returned when a row is not found in the database.
var ErrNotFound = client.ErrNotFound

// pollInterval is how often TransactWithRetry re-attempts a
// transaction while the client is disconnected.
const pollInterval = 200 * time.Millisecond

// TransactWithRetry executes a transaction, retrying on a disconnected
// client by polling every 200ms until ctx is cancelled (grounded on
// pkg/ovndb/transact.go's TransactWithRetry).
func TransactWithRetry(ctx context.Context, log logr.Logger, c client.Client, ops []ovsdb.Operation) ([]ovsdb.OperationResult, error) {
	var results []ovsdb.OperationResult
	resultErr := wait.PollUntilContextCancel(ctx, pollInterval, true, func(ctx context.Context) (bool, error) {
		var err error
		results, err = c.Transact(ctx, ops...)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, client.ErrNotConnected) {
			log.V(1).Info("OVSDB client disconnected, retrying transaction", "ops", len(ops))
			return false, nil
		}
		return false, err
	})
	return results, resultErr
}

// TransactAndCheck executes a transaction with a bounded timeout and
// checks every operation's result for a per-operation error.
func TransactAndCheck(ctx context.Context, log logr.Logger, c client.Client, ops []ovsdb.Operation, timeout time.Duration) ([]ovsdb.OperationResult, error) {
	if len(ops) == 0 {
		return []ovsdb.OperationResult{{}}, nil
	}

	log.V(1).Info("executing OVSDB transaction", "ops", len(ops))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, err := TransactWithRetry(ctx, log, c, ops)
	if err != nil {
		return nil, fmt.Errorf("ovsdb transaction failed: %w", err)
	}

	if opErrors, err := ovsdb.CheckOperationResults(results, ops); err != nil {
		return nil, fmt.Errorf("ovsdb operation failed (errors %+v): %w", opErrors, err)
	}

	return results, nil
}

// BuildNamedUUID generates a same-transaction named UUID for insert
// operations, the same convention pkg/backend uses to cross-reference
// rows that do not exist yet within one transaction.
func BuildNamedUUID(name string) string {
	return fmt.Sprintf("named-uuid-%s", name)
}

// IsNamedUUID reports whether uuid is a same-transaction named UUID
// rather than a real row UUID.
func IsNamedUUID(uuid string) bool {
	const prefix = "named-uuid-"
	return len(uuid) > len(prefix) && uuid[:len(prefix)] == prefix
}

// GetUUIDFromResult extracts the assigned UUID from an insert
// operation's result.
func GetUUIDFromResult(result ovsdb.OperationResult) string {
	return result.UUID.GoUUID
}
