package ovsdb

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/ovn-org/libovsdb/client"
	"github.com/ovn-org/libovsdb/ovsdb"

	"github.com/nmstate/nmstate-go/pkg/model"
)

// Pusher adapts a connected OVSDB client into backendapi.OVSDBPusher.
type Pusher struct {
	Client  client.Client
	Log     logr.Logger
	Timeout time.Duration
}

// PushOvnBridgeMappings satisfies backendapi.OVSDBPusher.
func (p *Pusher) PushOvnBridgeMappings(ctx context.Context, cfg *model.OvnConfiguration) error {
	return PushOvnBridgeMappings(ctx, p.Log, p.Client, p.Timeout, cfg)
}

// ReadOvnBridgeMappings reads the Open_vSwitch row's
// external_ids["ovn-bridge-mappings"] value back into an
// OvnConfiguration, for the Probe side of the OVSDB capability.
func ReadOvnBridgeMappings(ctx context.Context, log logr.Logger, c client.Client, timeout time.Duration) (*model.OvnConfiguration, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	externalIDs, err := readExternalIDs(ctx, log, c)
	if err != nil {
		return nil, err
	}

	value, ok := externalIDs[OVNBridgeMappingsKey]
	if !ok || value == "" {
		return &model.OvnConfiguration{}, nil
	}

	cfg := &model.OvnConfiguration{}
	for _, entry := range splitNonEmpty(value, ',') {
		mapping, err := model.ParseOvnBridgeMapping(entry)
		if err != nil {
			return nil, err
		}
		cfg.BridgeMappings = append(cfg.BridgeMappings, mapping)
	}
	cfg.Sanitize()
	return cfg, nil
}

// PushOvnBridgeMappings writes cfg's bridge-mapping list into the
// Open_vSwitch row's external_ids["ovn-bridge-mappings"], leaving
// every other external_ids key untouched. An empty cfg removes the
// key rather than writing an empty string, matching real ovs-vsctl
// behaviour.
func PushOvnBridgeMappings(ctx context.Context, log logr.Logger, c client.Client, timeout time.Duration, cfg *model.OvnConfiguration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	externalIDs, err := readExternalIDs(ctx, log, c)
	if err != nil {
		return err
	}

	value := cfg.ToExternalIDValue()
	if value == "" {
		delete(externalIDs, OVNBridgeMappingsKey)
	} else {
		externalIDs[OVNBridgeMappingsKey] = value
	}

	op := ovsdb.Operation{
		Op:    ovsdb.OperationUpdate,
		Table: "Open_vSwitch",
		Row:   ovsdb.Row{"external_ids": toOvsMap(externalIDs)},
		Where: []ovsdb.Condition{},
	}

	_, err = TransactAndCheck(ctx, log, c, []ovsdb.Operation{op}, timeout)
	if err != nil {
		return fmt.Errorf("failed to write ovn-bridge-mappings: %w", err)
	}
	return nil
}

// readExternalIDs selects the Open_vSwitch table's single row and
// returns its external_ids map. The table is a singleton by OVSDB
// schema convention, so there is never more than one row to merge.
func readExternalIDs(ctx context.Context, log logr.Logger, c client.Client) (map[string]string, error) {
	op := ovsdb.Operation{
		Op:      ovsdb.OperationSelect,
		Table:   "Open_vSwitch",
		Columns: []string{"external_ids"},
	}

	results, err := TransactWithRetry(ctx, log, c, []ovsdb.Operation{op})
	if err != nil {
		return nil, fmt.Errorf("failed to read Open_vSwitch row: %w", err)
	}
	if len(results) == 0 || len(results[0].Rows) == 0 {
		return map[string]string{}, nil
	}

	return fromOvsMap(results[0].Rows[0]["external_ids"]), nil
}

func toOvsMap(m map[string]string) ovsdb.OvsMap {
	goMap := make(map[interface{}]interface{}, len(m))
	for k, v := range m {
		goMap[k] = v
	}
	return ovsdb.OvsMap{GoMap: goMap}
}

func fromOvsMap(raw interface{}) map[string]string {
	out := map[string]string{}
	ovsMap, ok := raw.(ovsdb.OvsMap)
	if !ok {
		return out
	}
	for k, v := range ovsMap.GoMap {
		key, kok := k.(string)
		value, vok := v.(string)
		if kok && vok {
			out[key] = value
		}
	}
	return out
}

func splitNonEmpty(s string, sep rune) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == sep {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
