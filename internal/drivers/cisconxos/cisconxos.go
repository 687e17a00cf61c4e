// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package cisconxos drives Cisco NX-OS devices over SSH. Adapted from
// ciscoios.Driver — NX-OS's command surface differs only in VRF naming
// ("default" not "global") and the "show vrf" column layout; see
// DESIGN.md for why this has no direct original_source grounding.
package cisconxos

import (
	"context"
	"fmt"
	"regexp"

	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/drivers"
	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/parsers/cisconxos"
)

// vrfLine matches "vrf member X" in an interface's running config.
var vrfLine = regexp.MustCompile(`vrf(?:\s+forwarding|\s+member)?\s+(\S+)`)

// Driver drives a single Cisco NX-OS device.
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
	return cisconxos.ParseRouteEntry(out, logicalContext), nil
}

// GetRoutingTable returns the full routing table for one context.
func (d *Driver) GetRoutingTable(ctx context.Context, logicalContext string) ([]model.Route, error) {
	out, err := d.Send(ctx, tableCommand(logicalContext))
	if err != nil {
		return nil, err
	}
	return cisconxos.ParseRoutingTable(out, logicalContext), nil
}

// ListLogicalContexts lists every VRF, always including "default".
func (d *Driver) ListLogicalContexts(ctx context.Context) ([]string, error) {
	out, err := d.Send(ctx, "show vrf")
	if err != nil {
		return []string{"default"}, nil
	}
	return cisconxos.ParseVRFList(out), nil
}

// GetInterfaceToContextMapping maps interfaces to their VRF.
func (d *Driver) GetInterfaceToContextMapping(ctx context.Context) (map[string]string, error) {
	out, err := d.Send(ctx, "show ip interface brief")
	if err != nil {
		return nil, err
	}
	interfaces := cisconxos.ParseInterfaces(out)

	mapping := make(map[string]string, len(interfaces))
	for iface := range interfaces {
		mapping[iface] = "default"
		vrfOut, err := d.Send(ctx, fmt.Sprintf("show run interface %s | include vrf", iface))
		if err != nil {
			continue
		}
		if m := vrfLine.FindStringSubmatch(vrfOut); m != nil {
			mapping[iface] = m[1]
		}
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
	if out, err := d.Send(ctx, "show version | include NXOS"); err == nil {
		info.Version = drivers.FirstLine(out)
	}
	if out, err := d.Send(ctx, "show inventory"); err == nil {
		info.Model, info.Serial = drivers.ParseModelAndSerial(out)
	}
	return info, nil
}

// GetInterfaceDetail returns best-effort operational detail for one
// interface.
func (d *Driver) GetInterfaceDetail(ctx context.Context, name string) (*model.InterfaceDetail, error) {
	return d.BestEffortDetail(name, func() (*model.InterfaceDetail, error) {
		out, err := d.Send(ctx, fmt.Sprintf("show interface %s", name))
		if err != nil {
			return nil, err
		}
		return cisconxos.ParseInterfaceDetail(out), nil
	}), nil
}
