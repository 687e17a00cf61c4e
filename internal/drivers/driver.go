// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package drivers defines the vendor-polymorphic device contract every
// concrete driver implements, and the scoped-session discipline the
// orchestrator relies on. Grounded on
// original_source/pathtracer/drivers/base.py's abstract NetworkDriver,
// re-expressed as a Go interface rather than an ABC with protected
// state — each concrete driver owns its own transport.Session instead of
// inheriting one.
package drivers

import (
	"context"

	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/model"
)

// DeviceInfo is what detect_device_info surfaces: best-effort identity
// data gathered once per session, never required for a trace to
// succeed.
type DeviceInfo struct {
	Hostname string
	Version  string
	Model    string
	Serial   string
}

// Driver is the vendor-polymorphic device contract (spec.md §4.5).
// Every method after Connect may be called any number of times before
// Disconnect; the orchestrator's scoped-resource discipline (SPEC_FULL.md
// §4.8) calls Connect once, issues the hop's required queries, and
// always calls Disconnect before moving to the next hop.
type Driver interface {
	// Connect establishes the single remote shell session this driver
	// will use for every subsequent call. Implementations must return a
	// KindAuth error for credential failures and a KindConnection error
	// for anything else, distinctly.
	Connect(ctx context.Context) error

	// Disconnect tears down the session. It must be safe to call even
	// if Connect failed or was never called.
	Disconnect() error

	// GetRoute queries the routing table for one destination within a
	// logical context, returning nil (not an error) if no route
	// matches.
	GetRoute(ctx context.Context, destination, context_ string) (*model.Route, error)

	// GetRoutingTable returns the full routing table for a logical
	// context.
	GetRoutingTable(ctx context.Context, context_ string) ([]model.Route, error)

	// ListLogicalContexts lists every VRF/routing-instance/virtual-router
	// on the device. The device's default context is always present.
	ListLogicalContexts(ctx context.Context) ([]string, error)

	// GetInterfaceToContextMapping maps interface name to the logical
	// context it belongs to.
	GetInterfaceToContextMapping(ctx context.Context) (map[string]string, error)

	// DetectDeviceInfo returns best-effort device identity. Callers
	// should treat a failure here as non-fatal.
	DetectDeviceInfo(ctx context.Context) (DeviceInfo, error)

	// GetInterfaceDetail returns operational detail for one interface,
	// or nil if the lookup failed. Never returns an error for a missing
	// or unparsable interface — only for a session-level failure.
	GetInterfaceDetail(ctx context.Context, name string) (*model.InterfaceDetail, error)
}

// FirewallDriver is the capability extension a Driver may additionally
// implement (spec.md §9: a capability record checked with a type
// assertion, not a subtype relationship). The orchestrator probes for it
// with `fw, ok := driver.(FirewallDriver)` once per hop, per
// model.Device.IsFirewall.
type FirewallDriver interface {
	Driver

	// GetZoneForInterface returns the security zone (or nameif, for
	// Cisco ASA) bound to an interface, or "" if unknown.
	GetZoneForInterface(ctx context.Context, interfaceName string) (string, error)

	// LookupSecurityPolicy evaluates which security-policy rule a flow
	// would match.
	LookupSecurityPolicy(ctx context.Context, srcIP, dstIP, proto string, port int, srcZone, dstZone string) (*model.PolicyResult, error)

	// LookupNAT evaluates source and/or destination NAT for a flow.
	LookupNAT(ctx context.Context, srcIP, dstIP, proto string, port int) (*model.NATResult, error)
}

// Factory constructs a Driver for one inventory device using the
// resolved credential set. Concrete vendor packages register their own
// Factory with internal/registry; Factory never dials the network
// itself — that happens in Connect.
type Factory func(device model.Device, creds credentials.Set) (Driver, error)
