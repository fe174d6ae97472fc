package ovsdb

import (
	"context"
	"fmt"

	"github.com/ovn-org/libovsdb/client"
	"github.com/ovn-org/libovsdb/model"
)

// clientDBModel builds the libovsdb model for the four Open_vSwitch
// tables this package reads or writes.
func clientDBModel() (model.ClientDBModel, error) {
	return model.NewClientDBModel("Open_vSwitch", map[string]model.Model{
		"Open_vSwitch": &OpenVSwitch{},
		"Bridge":       &Bridge{},
		"Port":         &Port{},
		"Interface":    &Interface{},
	})
}

// Connect dials the OVSDB server at address (e.g.
// "unix:/run/openvswitch/db.sock" or "tcp:127.0.0.1:6640") and starts
// monitoring the tables this package cares about.
func Connect(ctx context.Context, address string) (client.Client, error) {
	dbModel, err := clientDBModel()
	if err != nil {
		return nil, fmt.Errorf("failed to build OVSDB client model: %w", err)
	}

	c, err := client.NewOVSDBClient(dbModel, client.WithEndpoint(address))
	if err != nil {
		return nil, fmt.Errorf("failed to create OVSDB client: %w", err)
	}

	if err := c.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to OVSDB at %s: %w", address, err)
	}

	if _, err := c.MonitorAll(ctx); err != nil {
		c.Disconnect()
		return nil, fmt.Errorf("failed to monitor OVSDB tables: %w", err)
	}

	return c, nil
}
