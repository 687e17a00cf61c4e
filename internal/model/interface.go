// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package model

// InterfaceStatus is the operational state of an interface, derived from
// vendor CLI output with "admin down" taking precedence over the
// line-protocol state (spec.md §4.4).
type InterfaceStatus string

const (
	InterfaceUp        InterfaceStatus = "up"
	InterfaceDown      InterfaceStatus = "down"
	InterfaceAdminDown InterfaceStatus = "admin_down"
	InterfaceUnknown   InterfaceStatus = "unknown"
)

// InterfaceDetail is the best-effort enrichment gathered for a hop's
// ingress or egress interface. Any field may be its zero value if the
// device output didn't carry it; absence of the whole detail (nil) means
// the lookup failed and was suppressed per the best-effort contract.
type InterfaceDetail struct {
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Status          InterfaceStatus `json:"status"`
	Speed           string          `json:"speed,omitempty"`
	InUtilization   *float64        `json:"in_utilization_pct,omitempty"`
	OutUtilization  *float64        `json:"out_utilization_pct,omitempty"`
	InErrors        uint64          `json:"in_errors"`
	OutErrors       uint64          `json:"out_errors"`
	InDiscards      uint64          `json:"in_discards"`
	OutDiscards     uint64          `json:"out_discards"`
}
