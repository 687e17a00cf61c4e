// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package ciscoftd is a stub driver for the "cisco_ftd" vendor tag.
// Grounded on original_source/pathtracer/drivers/cisco_ftd.py, itself a
// stub that raises NotImplementedError from every method — spec.md §9
// calls this out explicitly as an accepted gap, not a bug. Every
// operation here fails with a clear, distinct KindConfiguration error so
// a trace that reaches an FTD hop ends in status "error" with a readable
// message instead of panicking or silently no-opping.
package ciscoftd

import (
	"context"

	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/drivers"
	pterrors "pathtrace.dev/pathtrace/internal/errors"
	"pathtrace.dev/pathtrace/internal/model"
)

// Driver is the cisco_ftd stub: Connect and Disconnect are no-ops and
// every query method returns a not-implemented error, without ever
// touching the network.
type Driver struct {
	device model.Device
}

// New builds a Driver for one device, satisfying drivers.Factory.
func New(device model.Device, creds credentials.Set) (drivers.Driver, error) {
	return &Driver{device: device}, nil
}

var _ drivers.FirewallDriver = (*Driver)(nil)

func notImplemented(op string) error {
	return pterrors.Errorf(pterrors.KindConfiguration, "cisco_ftd: %s is not implemented", op)
}

// Connect is a no-op; FTD support never reaches the network.
func (d *Driver) Connect(ctx context.Context) error { return nil }

// Disconnect is a no-op.
func (d *Driver) Disconnect() error { return nil }

// GetRoute always fails with a not-implemented error.
func (d *Driver) GetRoute(ctx context.Context, destination, logicalContext string) (*model.Route, error) {
	return nil, notImplemented("get_route")
}

// GetRoutingTable always fails with a not-implemented error.
func (d *Driver) GetRoutingTable(ctx context.Context, logicalContext string) ([]model.Route, error) {
	return nil, notImplemented("get_routing_table")
}

// ListLogicalContexts always fails with a not-implemented error.
func (d *Driver) ListLogicalContexts(ctx context.Context) ([]string, error) {
	return nil, notImplemented("list_logical_contexts")
}

// GetInterfaceToContextMapping always fails with a not-implemented error.
func (d *Driver) GetInterfaceToContextMapping(ctx context.Context) (map[string]string, error) {
	return nil, notImplemented("get_interface_to_context_mapping")
}

// DetectDeviceInfo always fails with a not-implemented error.
func (d *Driver) DetectDeviceInfo(ctx context.Context) (drivers.DeviceInfo, error) {
	return drivers.DeviceInfo{}, notImplemented("detect_device_info")
}

// GetInterfaceDetail always fails with a not-implemented error.
func (d *Driver) GetInterfaceDetail(ctx context.Context, name string) (*model.InterfaceDetail, error) {
	return nil, notImplemented("get_interface_detail")
}

// GetZoneForInterface always fails with a not-implemented error.
func (d *Driver) GetZoneForInterface(ctx context.Context, interfaceName string) (string, error) {
	return "", notImplemented("get_zone_for_interface")
}

// LookupSecurityPolicy always fails with a not-implemented error.
func (d *Driver) LookupSecurityPolicy(ctx context.Context, srcIP, dstIP, proto string, port int, srcZone, dstZone string) (*model.PolicyResult, error) {
	return nil, notImplemented("lookup_security_policy")
}

// LookupNAT always fails with a not-implemented error.
func (d *Driver) LookupNAT(ctx context.Context, srcIP, dstIP, proto string, port int) (*model.NATResult, error) {
	return nil, notImplemented("lookup_nat")
}
