// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package model

// PolicyAction is the normalised outcome of a firewall security-policy
// match. Vendor idioms ("allow", "deny", "drop") are folded down to this
// set by the parsers (spec.md §4.4: allow -> permit; deny/drop preserved).
type PolicyAction string

const (
	ActionPermit PolicyAction = "permit"
	ActionDeny   PolicyAction = "deny"
	ActionDrop   PolicyAction = "drop"
)

// NormalizePolicyAction maps a vendor's raw action word onto the
// PolicyAction vocabulary.
func NormalizePolicyAction(raw string) PolicyAction {
	switch raw {
	case "allow", "permit", "accept":
		return ActionPermit
	case "drop":
		return ActionDrop
	default:
		return ActionDeny
	}
}

// PolicyResult is the matched security-policy rule for one flow, as
// reported by a firewall driver.
type PolicyResult struct {
	RuleName    string       `json:"rule_name"`
	Position    int          `json:"position"`
	Action      PolicyAction `json:"action"`
	SourceZone  string       `json:"source_zone,omitempty"`
	DestZone    string       `json:"dest_zone,omitempty"`
	SourceAddrs []string     `json:"source_addrs,omitempty"`
	DestAddrs   []string     `json:"dest_addrs,omitempty"`
	Services    []string     `json:"services,omitempty"`
	Logging     bool         `json:"logging"`
}

// NATTranslation is one direction of address/port translation.
type NATTranslation struct {
	OriginalIP      string `json:"original_ip"`
	OriginalPort    int    `json:"original_port,omitempty"`
	TranslatedIP    string `json:"translated_ip"`
	TranslatedPort  int    `json:"translated_port,omitempty"`
	RuleName        string `json:"rule_name,omitempty"`
}

// NATResult carries the source- and/or destination-NAT translations that
// applied to one flow on a firewall hop, if any.
type NATResult struct {
	SourceNAT      *NATTranslation `json:"source_nat,omitempty"`
	DestinationNAT *NATTranslation `json:"destination_nat,omitempty"`
}
