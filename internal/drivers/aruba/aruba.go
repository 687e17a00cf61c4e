// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package aruba drives Aruba AOS-CX/AOS-Switch devices over SSH.
// Grounded on original_source/pathtracer/drivers/cisco_ios.py's session
// shape, adapted to Aruba's VRF vocabulary.
package aruba

import (
	"context"
	"fmt"

	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/drivers"
	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/parsers/aruba"
)

// Driver drives a single Aruba device.
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
	return aruba.ParseRouteEntry(out, logicalContext), nil
}

// GetRoutingTable returns the full routing table for one context.
func (d *Driver) GetRoutingTable(ctx context.Context, logicalContext string) ([]model.Route, error) {
	out, err := d.Send(ctx, tableCommand(logicalContext))
	if err != nil {
		return nil, err
	}
	return aruba.ParseRoutingTable(out, logicalContext), nil
}

// ListLogicalContexts lists every VRF, always including "default".
func (d *Driver) ListLogicalContexts(ctx context.Context) ([]string, error) {
	out, err := d.Send(ctx, "show vrf")
	if err != nil {
		return []string{"default"}, nil
	}
	return aruba.ParseVRFList(out), nil
}

// GetInterfaceToContextMapping always returns an empty mapping. Aruba's
// parser has no per-interface VRF listing, so no interface is reported.
func (d *Driver) GetInterfaceToContextMapping(ctx context.Context) (map[string]string, error) {
	return map[string]string{}, nil
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

// GetInterfaceDetail is not supported by this driver's parser; it
// always returns nil per the best-effort contract.
func (d *Driver) GetInterfaceDetail(ctx context.Context, name string) (*model.InterfaceDetail, error) {
	return nil, nil
}
