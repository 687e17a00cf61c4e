// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package model

import "time"

// ResolveStatus records how a hop's device was selected, so a reader can
// tell an unambiguous resolution apart from one broken by site affinity.
type ResolveStatus string

const (
	ResolveDirect         ResolveStatus = "resolved"
	ResolveBySite         ResolveStatus = "resolved_by_site"
)

// Hop is one device visited during a trace, carrying everything gathered
// about it: the route that was followed, best-effort interface detail,
// and — on firewalls — the matched policy and NAT results.
type Hop struct {
	Sequence        int               `json:"sequence"`
	Device          Device            `json:"device"`
	IngressInterface string           `json:"ingress_interface,omitempty"`
	EgressInterface  string           `json:"egress_interface,omitempty"`
	LogicalContext  string            `json:"logical_context"`
	Route           *Route            `json:"route,omitempty"`
	LookupTime      time.Duration     `json:"lookup_time_ns"`
	IngressDetail   *InterfaceDetail  `json:"ingress_detail,omitempty"`
	EgressDetail    *InterfaceDetail  `json:"egress_detail,omitempty"`
	Policy          *PolicyResult     `json:"policy,omitempty"`
	NAT             *NATResult        `json:"nat,omitempty"`
	ResolveStatus   ResolveStatus     `json:"resolve_status,omitempty"`
	Note            string            `json:"note,omitempty"`
}

// Candidate is one inventory entry surfaced when a resolution is
// ambiguous or empty, carrying enough to show an operator (or an
// interactive CLI, see SPEC_FULL.md §5.2) what to pick between.
type Candidate struct {
	Hostname     string `json:"hostname"`
	ManagementIP string `json:"management_ip"`
	Site         string `json:"site,omitempty"`
	Reason       string `json:"reason,omitempty"`
}
