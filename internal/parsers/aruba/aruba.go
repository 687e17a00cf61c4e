// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package aruba normalises Aruba AOS-CX/AOS-Switch "show" command text.
// Grounded on
// original_source/pathtracer/parsers/aruba_parser.py — table format is
// close to Arista/IOS but with its own protocol-code map and "no such
// route" miss message.
package aruba

import (
	"regexp"
	"strconv"
	"strings"

	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/parsers/common"
)

var (
	tableRow     = regexp.MustCompile(`^([A-Z*\s]+)\s+(\S+)\s+(.+)$`)
	directlyConn = regexp.MustCompile(`directly connected,\s+(\S+)`)
	viaNextHop   = regexp.MustCompile(`\[(\d+)/(\d+)\]\s+via\s+(\S+)(?:,\s+(\S+))?`)
)

var protocolCodes = map[string]string{
	"C": "connected", "L": "local", "S": "static", "R": "rip", "O": "ospf", "B": "bgp", "i": "isis",
}

func parseLine(line, context string) *model.Route {
	m := tableRow.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	code := strings.TrimSpace(m[1])
	network := m[2]
	rest := m[3]
	protocol := protocolCodes[strings.ReplaceAll(code, "*", "")]
	if protocol == "" {
		protocol = "unknown"
	}

	if strings.Contains(rest, "directly connected") {
		iface := ""
		if cm := directlyConn.FindStringSubmatch(rest); cm != nil {
			iface = cm[1]
		}
		return &model.Route{
			Destination: network, NextHop: iface, NextHopKind: model.NextHopConnected,
			OutgoingInterface: iface, Protocol: protocol, LogicalContext: context, Raw: line,
		}
	}

	if vm := viaNextHop.FindStringSubmatch(rest); vm != nil {
		preference, _ := strconv.Atoi(vm[1])
		metric, _ := strconv.Atoi(vm[2])
		return &model.Route{
			Destination: network, NextHop: vm[3], NextHopKind: model.NextHopIP,
			OutgoingInterface: vm[4], Protocol: protocol, LogicalContext: context,
			Metric: metric, AdminDistance: preference, Raw: line,
		}
	}
	return nil
}

// ParseRouteEntry parses "show ip route <destination> vrf <vrf>" output.
func ParseRouteEntry(output, context string) *model.Route {
	if strings.TrimSpace(output) == "" || strings.Contains(strings.ToLower(output), "no such route") {
		return nil
	}
	for _, line := range common.TrimLines(output) {
		if strings.HasPrefix(line, "Codes:") || strings.HasPrefix(line, "Gateway") {
			continue
		}
		if route := parseLine(line, context); route != nil {
			return route
		}
	}
	return nil
}

// ParseRoutingTable parses the full "show ip route vrf <vrf>" output.
func ParseRoutingTable(output, context string) []model.Route {
	var routes []model.Route
	for _, line := range common.TrimLines(output) {
		if strings.HasPrefix(line, "Codes:") || strings.HasPrefix(line, "Gateway") {
			continue
		}
		if route := parseLine(line, context); route != nil {
			routes = append(routes, *route)
		}
	}
	return routes
}

// ParseVRFList parses "show vrf" output, always including "default".
func ParseVRFList(output string) []string {
	var vrfs []string
	for _, line := range common.TrimLines(output) {
		if strings.Contains(line, "Name") || strings.Contains(line, "---") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] != "default" {
			vrfs = append(vrfs, fields[0])
		}
	}
	return append([]string{"default"}, vrfs...)
}
