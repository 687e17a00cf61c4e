// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package junos drives Juniper SRX devices over SSH, implementing
// drivers.FirewallDriver on top of parsers/junos. Grounded on
// original_source/pathtracer/drivers/juniper_srx.py. Registered under
// both "juniper_srx" and "juniper_junos" (internal/registry).
package junos

import (
	"context"
	"fmt"
	"strings"

	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/drivers"
	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/parsers/junos"
)

// Driver drives a single Junos routing-instance.
type Driver struct {
	*drivers.Session
}

// New builds a Driver for one device, satisfying drivers.Factory.
func New(device model.Device, creds credentials.Set) (drivers.Driver, error) {
	return &Driver{Session: drivers.NewSession(device, creds)}, nil
}

var _ drivers.FirewallDriver = (*Driver)(nil)

func instanceClause(logicalContext string) string {
	if logicalContext == "" || logicalContext == "default" {
		return ""
	}
	return " instance " + logicalContext
}

// GetRoute queries the routing table for one destination within a
// routing-instance.
func (d *Driver) GetRoute(ctx context.Context, destination, logicalContext string) (*model.Route, error) {
	cmd := fmt.Sprintf("show route %s%s", destination, instanceClause(logicalContext))
	out, err := d.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return junos.ParseRouteEntry(out, logicalContext), nil
}

// GetRoutingTable returns the full routing table for one routing-instance.
func (d *Driver) GetRoutingTable(ctx context.Context, logicalContext string) ([]model.Route, error) {
	cmd := fmt.Sprintf("show route%s", instanceClause(logicalContext))
	out, err := d.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return junos.ParseRoutingTable(out, logicalContext), nil
}

// ListLogicalContexts lists every routing-instance, always including
// "default" (the main instance).
func (d *Driver) ListLogicalContexts(ctx context.Context) ([]string, error) {
	out, err := d.Send(ctx, "show route instance")
	if err != nil {
		return []string{"default"}, nil
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 || fields[0] == "Instance" {
			continue
		}
		names = append(names, fields[0])
	}
	for _, name := range names {
		if name == "default" {
			return names, nil
		}
	}
	return append([]string{"default"}, names...), nil
}

// GetInterfaceToContextMapping maps interfaces to their security zone,
// Junos's closest per-interface binding short of a full per-instance
// interface walk.
func (d *Driver) GetInterfaceToContextMapping(ctx context.Context) (map[string]string, error) {
	out, err := d.Send(ctx, "show security zones")
	if err != nil {
		return nil, err
	}
	return junos.ParseSecurityZones(out), nil
}

// DetectDeviceInfo returns best-effort device identity.
func (d *Driver) DetectDeviceInfo(ctx context.Context) (drivers.DeviceInfo, error) {
	info := drivers.DeviceInfo{Hostname: d.Device.Hostname}
	if out, err := d.Send(ctx, "show version"); err == nil {
		info.Version = drivers.FirstLine(out)
	}
	if out, err := d.Send(ctx, "show chassis hardware"); err == nil {
		info.Model, info.Serial = drivers.ParseModelAndSerial(out)
	}
	return info, nil
}

// GetInterfaceDetail returns best-effort operational detail for one
// interface.
func (d *Driver) GetInterfaceDetail(ctx context.Context, name string) (*model.InterfaceDetail, error) {
	return d.BestEffortDetail(name, func() (*model.InterfaceDetail, error) {
		out, err := d.Send(ctx, fmt.Sprintf("show interfaces %s extensive", name))
		if err != nil {
			return nil, err
		}
		return junos.ParseInterfaceDetail(out), nil
	}), nil
}

// GetZoneForInterface returns the security zone bound to an interface.
func (d *Driver) GetZoneForInterface(ctx context.Context, interfaceName string) (string, error) {
	zones, err := d.GetInterfaceToContextMapping(ctx)
	if err != nil {
		return "", err
	}
	return zones[interfaceName], nil
}

// LookupSecurityPolicy evaluates which security policy a flow would
// match via "show security match-policies".
func (d *Driver) LookupSecurityPolicy(ctx context.Context, srcIP, dstIP, proto string, port int, srcZone, dstZone string) (*model.PolicyResult, error) {
	cmd := fmt.Sprintf(
		"show security match-policies from-zone %s to-zone %s source-ip %s destination-ip %s protocol %s destination-port %d",
		srcZone, dstZone, srcIP, dstIP, proto, port,
	)
	out, err := d.Send(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return junos.ParseSecurityPolicyMatch(out), nil
}

// LookupNAT evaluates source and destination NAT rule hits via separate
// source/destination rule-lookup commands, folded into one NATResult.
func (d *Driver) LookupNAT(ctx context.Context, srcIP, dstIP, proto string, port int) (*model.NATResult, error) {
	srcOut, err := d.Send(ctx, fmt.Sprintf("show security nat source rule all source-ip %s", srcIP))
	if err != nil {
		return nil, err
	}
	dstOut, err := d.Send(ctx, fmt.Sprintf("show security nat destination rule all destination-ip %s", dstIP))
	if err != nil {
		return nil, err
	}
	return junos.ParseNATRules(srcOut, dstOut, srcIP, dstIP, port), nil
}
