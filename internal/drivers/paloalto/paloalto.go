// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package paloalto drives PAN-OS firewalls over SSH, implementing
// drivers.FirewallDriver on top of parsers/paloalto. Grounded on
// original_source/pathtracer/drivers/paloalto.py. Registered under both
// the "paloalto" and "paloalto_panos" vendor tags (internal/registry).
package paloalto

import (
	"context"
	"fmt"

	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/drivers"
	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/parsers/paloalto"
)

// Driver drives a single PAN-OS virtual-system/virtual-router.
type Driver struct {
	*drivers.Session
}

// New builds a Driver for one device, satisfying drivers.Factory.
func New(device model.Device, creds credentials.Set) (drivers.Driver, error) {
	return &Driver{Session: drivers.NewSession(device, creds)}, nil
}

var _ drivers.FirewallDriver = (*Driver)(nil)

func vr(context string) string {
	if context == "" {
		return "default"
	}
	return context
}

// GetRoute queries the routing table for one destination within a
// virtual router.
func (d *Driver) GetRoute(ctx context.Context, destination, logicalContext string) (*model.Route, error) {
	cmd := fmt.Sprintf("show routing route destination %s virtual-router %s", destination, vr(logicalContext))
	out, err := d.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return paloalto.ParseRouteEntry(out, logicalContext), nil
}

// GetRoutingTable returns the full routing table for one virtual router.
func (d *Driver) GetRoutingTable(ctx context.Context, logicalContext string) ([]model.Route, error) {
	cmd := fmt.Sprintf("show routing route virtual-router %s", vr(logicalContext))
	out, err := d.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return paloalto.ParseRoutingTable(out, logicalContext), nil
}

// ListLogicalContexts lists every virtual router, always including
// "default".
func (d *Driver) ListLogicalContexts(ctx context.Context) ([]string, error) {
	out, err := d.Send(ctx, "show routing virtual-router")
	if err != nil {
		return []string{"default"}, nil
	}
	vrs := paloalto.ParseVirtualRouterList(out)
	for _, vr := range vrs {
		if vr == "default" {
			return vrs, nil
		}
	}
	return append([]string{"default"}, vrs...), nil
}

// GetInterfaceToContextMapping maps interfaces to their virtual router.
// PAN-OS reports this per virtual router rather than per interface, so
// every interface with a known address is associated with the device's
// default virtual router; a richer binding would need one "show
// interface" call per name, which the orchestrator's best-effort
// interface lookups already cover individually.
func (d *Driver) GetInterfaceToContextMapping(ctx context.Context) (map[string]string, error) {
	out, err := d.Send(ctx, "show interface all")
	if err != nil {
		return nil, err
	}
	interfaces := paloalto.ParseInterfaceList(out)
	mapping := make(map[string]string, len(interfaces))
	for iface := range interfaces {
		mapping[iface] = d.Device.DefaultContext
	}
	return mapping, nil
}

// DetectDeviceInfo returns best-effort device identity.
func (d *Driver) DetectDeviceInfo(ctx context.Context) (drivers.DeviceInfo, error) {
	info := drivers.DeviceInfo{Hostname: d.Device.Hostname}
	if out, err := d.Send(ctx, "show system info"); err == nil {
		info.Hostname = drivers.ParseHostnameFromConfig(out)
		if info.Hostname == "" {
			info.Hostname = d.Device.Hostname
		}
		info.Version = drivers.FirstLine(out)
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
		return paloalto.ParseInterfaceDetail(out), nil
	}), nil
}

// GetZoneForInterface returns the security zone bound to an interface.
func (d *Driver) GetZoneForInterface(ctx context.Context, interfaceName string) (string, error) {
	out, err := d.Send(ctx, fmt.Sprintf("show interface %s", interfaceName))
	if err != nil {
		return "", err
	}
	return paloalto.ParseZoneFromInterface(out), nil
}

// LookupSecurityPolicy evaluates which security-policy rule a flow
// would match via "test security-policy-match".
func (d *Driver) LookupSecurityPolicy(ctx context.Context, srcIP, dstIP, proto string, port int, srcZone, dstZone string) (*model.PolicyResult, error) {
	cmd := fmt.Sprintf(
		"test security-policy-match from %s to %s source %s destination %s protocol %s destination-port %d",
		srcZone, dstZone, srcIP, dstIP, proto, port,
	)
	out, err := d.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return paloalto.ParseSecurityPolicyMatch(out), nil
}

// LookupNAT evaluates source and/or destination NAT for a flow via
// "test nat-policy-match".
func (d *Driver) LookupNAT(ctx context.Context, srcIP, dstIP, proto string, port int) (*model.NATResult, error) {
	cmd := fmt.Sprintf(
		"test nat-policy-match source %s destination %s protocol %s destination-port %d",
		srcIP, dstIP, proto, port,
	)
	out, err := d.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return paloalto.ParseNATPolicyMatch(out), nil
}
