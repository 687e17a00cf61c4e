// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package model

// NextHopKind classifies how a Route's next hop should be interpreted.
type NextHopKind string

const (
	NextHopIP        NextHopKind = "ip"
	NextHopInterface NextHopKind = "interface"
	NextHopConnected NextHopKind = "connected"
	NextHopLocal     NextHopKind = "local"
	NextHopNull      NextHopKind = "null"
	NextHopReject    NextHopKind = "reject"
)

// TerminatesHere reports whether a route of this kind means the
// destination is present on the device that returned it (a connected or
// local route), independent of the actual next-hop value.
func (k NextHopKind) TerminatesHere() bool {
	return k == NextHopConnected || k == NextHopLocal
}

// IsBlackhole reports whether a route of this kind drops or rejects
// traffic rather than forwarding it.
func (k NextHopKind) IsBlackhole() bool {
	return k == NextHopNull || k == NextHopReject
}

// Route is one normalised routing-table entry, as returned by a device
// driver after parsing vendor CLI text.
type Route struct {
	Destination       string      `json:"destination"`
	NextHop           string      `json:"next_hop,omitempty"`
	NextHopKind       NextHopKind `json:"next_hop_kind"`
	OutgoingInterface string      `json:"outgoing_interface,omitempty"`
	Protocol          string      `json:"protocol,omitempty"`
	LogicalContext    string      `json:"logical_context,omitempty"`
	Metric            int         `json:"metric"`
	AdminDistance     int         `json:"admin_distance"`
	Raw               string      `json:"raw,omitempty"`
}

// DestinationReached reports whether this route means "destination is
// on this device", per spec.md §4.6 step 7: either it terminates here
// (connected/local) or its next hop literally equals the destination
// being routed toward (workingDestination, which may have been rewritten
// by a DNAT translation earlier in the trace).
func (r Route) DestinationReached(workingDestination string) bool {
	if r.NextHopKind.TerminatesHere() {
		return true
	}
	return r.NextHop != "" && r.NextHop == workingDestination
}
