// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package ciscoasa normalises Cisco ASA "show" and "packet-tracer"
// output. Grounded on
// original_source/services/pathtrace-api/pathtracer/parsers/cisco_asa_parser.py.
// ASA reports networks as address+mask pairs (not CIDR) and names
// interfaces by security nameif rather than physical name; both quirks
// are folded away here so the rest of the system only ever sees the
// shared model.
package ciscoasa

import (
	"regexp"
	"strconv"
	"strings"

	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/parsers/common"
)

var (
	routingEntryFor = regexp.MustCompile(`Routing entry for\s+(\d+\.\d+\.\d+\.\d+)\s+(\d+\.\d+\.\d+\.\d+)`)
	knownVia        = regexp.MustCompile(`Known via\s+"([^"]+)",\s+distance\s+(\d+),\s+metric\s+(\d+)`)
	viaHop          = regexp.MustCompile(`\*\s+(\d+\.\d+\.\d+\.\d+),\s+via\s+(\S+)`)
	viaConnected    = regexp.MustCompile(`\*\s+directly connected,\s+via\s+(\S+)`)

	tableRow     = regexp.MustCompile(`^([A-Z*\s]+)\s+(\d+\.\d+\.\d+\.\d+)\s+(\d+\.\d+\.\d+\.\d+)\s+(.+)$`)
	directlyConn = regexp.MustCompile(`directly connected,\s+(\S+)`)
	tableViaHop  = regexp.MustCompile(`\[(\d+)/(\d+)\]\s+via\s+(\S+),\s+(\S+)`)
)

func maskToCIDR(network, mask string) string {
	prefix, ok := common.MaskToPrefix(mask)
	if !ok {
		prefix = 0
	}
	return network + "/" + strconv.Itoa(prefix)
}

// ParseRouteEntry parses "show route <destination>" output.
func ParseRouteEntry(output, context string) *model.Route {
	if strings.TrimSpace(output) == "" {
		return nil
	}

	m := routingEntryFor.FindStringSubmatch(output)
	if m == nil {
		return nil
	}
	destinationNetwork := maskToCIDR(m[1], m[2])

	protocol := "unknown"
	preference, metric := 0, 0
	if km := knownVia.FindStringSubmatch(output); km != nil {
		protocol = km[1]
		preference, _ = strconv.Atoi(km[2])
		metric, _ = strconv.Atoi(km[3])
	}

	var nextHop, iface string
	if vm := viaHop.FindStringSubmatch(output); vm != nil {
		nextHop, iface = vm[1], vm[2]
	} else if cm := viaConnected.FindStringSubmatch(output); cm != nil {
		iface = cm[1]
	}

	kind := model.NextHopIP
	switch protocol {
	case "connected":
		kind = model.NextHopConnected
	case "local":
		kind = model.NextHopLocal
	}

	hop := nextHop
	if hop == "" {
		hop = iface
	}

	return &model.Route{
		Destination:       destinationNetwork,
		NextHop:           hop,
		NextHopKind:       kind,
		OutgoingInterface: iface,
		Protocol:          protocol,
		LogicalContext:    context,
		Metric:            metric,
		AdminDistance:     preference,
		Raw:               output,
	}
}

var protocolCodes = map[string]string{
	"C": "connected", "L": "local", "S": "static", "S*": "static",
	"O": "ospf", "B": "bgp", "D": "eigrp", "R": "rip",
}

// ParseRoutingTable parses full "show route" output.
func ParseRoutingTable(output, context string) []model.Route {
	var routes []model.Route
	for _, line := range common.TrimLines(output) {
		m := tableRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		code := strings.TrimSpace(m[1])
		network := maskToCIDR(m[2], m[3])
		rest := m[4]
		protocol := protocolCodes[strings.ReplaceAll(code, "*", "")]
		if protocol == "" {
			protocol = "unknown"
		}

		if strings.Contains(rest, "directly connected") {
			iface := ""
			if cm := directlyConn.FindStringSubmatch(rest); cm != nil {
				iface = cm[1]
			}
			routes = append(routes, model.Route{
				Destination: network, NextHop: iface, NextHopKind: model.NextHopConnected,
				OutgoingInterface: iface, Protocol: protocol, LogicalContext: context, Raw: line,
			})
			continue
		}
		if vm := tableViaHop.FindStringSubmatch(rest); vm != nil {
			preference, _ := strconv.Atoi(vm[1])
			metric, _ := strconv.Atoi(vm[2])
			routes = append(routes, model.Route{
				Destination: network, NextHop: vm[3], NextHopKind: model.NextHopIP,
				OutgoingInterface: vm[4], Protocol: protocol, LogicalContext: context,
				Metric: metric, AdminDistance: preference, Raw: line,
			})
		}
	}
	return routes
}

// ParseNameifMapping parses "show nameif" into physical-interface -> nameif.
func ParseNameifMapping(output string) map[string]string {
	mapping := map[string]string{}
	for _, line := range common.TrimLines(output) {
		if strings.Contains(line, "Interface") && strings.Contains(line, "Name") && strings.Contains(line, "Security") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			mapping[fields[0]] = fields[1]
		}
	}
	return mapping
}

// PacketTraceResult is the first-class split of one "packet-tracer"
// invocation into its four idiomatic phases (SPEC_FULL.md §5.4): the
// access-list phase feeds PolicyResult, the un-nat and nat phases feed
// NATResult, and the final Result line supplies the overall action.
type PacketTraceResult struct {
	ACL    *model.PolicyResult
	UnNAT  *model.NATTranslation
	NAT    *model.NATTranslation
	Result model.PolicyAction
}

var (
	finalAction  = regexp.MustCompile(`Action:\s+(\S+)`)
	phaseSplit   = regexp.MustCompile(`(?m)^(?:Phase:\s+\d+)`)
	phaseType    = regexp.MustCompile(`Type:\s+(.+)`)
	aclName      = regexp.MustCompile(`access-list\s+(\S+)`)
	acgName      = regexp.MustCompile(`access-group\s+(\S+)`)
	unnat        = regexp.MustCompile(`Untranslate\s+(\S+?)/(\S+)\s+to\s+(\S+?)/(\S+)`)
	natTranslate = regexp.MustCompile(`(?i)(?:Dynamic |Static )?translate\s+(\S+?)/(\S+)\s+to\s+(\S+?)/(\S+)`)
	natRuleLine  = regexp.MustCompile(`(?m)^(nat\s+.+)$`)
)

// ParsePacketTracer parses one "packet-tracer input ..." invocation into
// its access-list, un-nat, and nat phases plus the overall result,
// grounded on CiscoASAParser.parse_packet_tracer.
func ParsePacketTracer(output string) *PacketTraceResult {
	if strings.TrimSpace(output) == "" {
		return nil
	}

	result := model.ActionDeny
	if am := finalAction.FindStringSubmatch(output); am != nil {
		switch strings.ToLower(am[1]) {
		case "allow":
			result = model.ActionPermit
		default:
			result = common.NormalizeAction(strings.ToLower(am[1]))
		}
	}

	trace := &PacketTraceResult{Result: result}

	sections := splitPhases(output)
	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		tm := phaseType.FindStringSubmatch(section)
		if tm == nil {
			continue
		}
		switch strings.TrimSpace(tm[1]) {
		case "ACCESS-LIST":
			ruleName := ""
			if m := aclName.FindStringSubmatch(section); m != nil {
				ruleName = m[1]
			} else if m := acgName.FindStringSubmatch(section); m != nil {
				ruleName = m[1]
			}
			trace.ACL = &model.PolicyResult{
				RuleName: ruleName,
				Action:   result,
				Logging:  strings.Contains(strings.ToLower(section), "log"),
			}
		case "UN-NAT":
			if m := unnat.FindStringSubmatch(section); m != nil {
				trace.UnNAT = &model.NATTranslation{
					OriginalIP:   m[1],
					TranslatedIP: m[3],
					RuleName:     ruleLine(section),
				}
				trace.UnNAT.OriginalPort, _ = strconv.Atoi(m[2])
				trace.UnNAT.TranslatedPort, _ = strconv.Atoi(m[4])
			}
		case "NAT":
			if m := natTranslate.FindStringSubmatch(section); m != nil {
				trace.NAT = &model.NATTranslation{
					OriginalIP:   m[1],
					TranslatedIP: m[3],
					RuleName:     ruleLine(section),
				}
				trace.NAT.OriginalPort, _ = strconv.Atoi(m[2])
				trace.NAT.TranslatedPort, _ = strconv.Atoi(m[4])
			}
		}
	}
	return trace
}

func ruleLine(section string) string {
	if m := natRuleLine.FindStringSubmatch(section); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func splitPhases(output string) []string {
	idxs := phaseSplit.FindAllStringIndex(output, -1)
	if len(idxs) == 0 {
		return []string{output}
	}
	var sections []string
	for i, idx := range idxs {
		end := len(output)
		if i+1 < len(idxs) {
			end = idxs[i+1][0]
		}
		sections = append(sections, output[idx[0]:end])
	}
	return sections
}

// ToNATResult folds the packet-tracer's un-nat (destination NAT) and nat
// (source NAT) phases into the shared NATResult shape, or nil if neither
// phase produced a translation.
func (p *PacketTraceResult) ToNATResult() *model.NATResult {
	if p == nil || (p.UnNAT == nil && p.NAT == nil) {
		return nil
	}
	return &model.NATResult{SourceNAT: p.NAT, DestinationNAT: p.UnNAT}
}
