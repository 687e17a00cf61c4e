// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package model holds the value types shared by every layer of pathtrace:
// the inventory, the parsers, the drivers, and the orchestrator. Nothing in
// this package talks to a network or a file — it is the vocabulary the rest
// of the system is written in.
package model

// DeviceKind classifies a device's role. Firewall-only enrichment is
// decided by Device.IsFirewall, which also accepts a device of any other
// kind, unknown included, whose vendor tag is a firewall vendor.
type DeviceKind string

const (
	DeviceKindRouter   DeviceKind = "router"
	DeviceKindFirewall DeviceKind = "firewall"
	DeviceKindL3Switch DeviceKind = "l3_switch"
	DeviceKindUnknown  DeviceKind = "unknown"
)

// Device is an inventory entry, unique by (Hostname, ManagementIP).
// Devices are owned by the inventory and are immutable for the lifetime
// of a trace; hops only ever hold a reference to one.
type Device struct {
	Hostname        string            `json:"hostname"`
	ManagementIP    string            `json:"management_ip"`
	Vendor          string            `json:"vendor"`
	Kind            DeviceKind        `json:"device_type"`
	Site            string            `json:"site,omitempty"`
	CredentialsRef  string            `json:"credentials_ref"`
	LogicalContexts []string          `json:"logical_contexts"`
	DefaultContext  string            `json:"default_context"`
	Subnets         []string          `json:"subnets,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// IsFirewall reports whether the device should be treated as a firewall
// for the orchestrator's zone/policy/NAT enrichment, combining the
// explicit device kind with a fallback on vendor tag (some inventories
// never set device_type correctly for ASA/PAN-OS gear).
func (d Device) IsFirewall() bool {
	if d.Kind == DeviceKindFirewall {
		return true
	}
	switch d.Vendor {
	case "cisco_asa", "cisco_ftd", "paloalto", "paloalto_panos":
		return true
	default:
		return false
	}
}

// HasContext reports whether name is one of the device's logical contexts.
func (d Device) HasContext(name string) bool {
	for _, c := range d.LogicalContexts {
		if c == name {
			return true
		}
	}
	return false
}
