// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package arista normalises Arista EOS "show" command text. Grounded on
// original_source/services/pathtrace-api/pathtracer/parsers/arista_parser.py
// — EOS's table format is close to IOS's but uses "default" rather than
// "global" for the base routing context and a slightly different
// protocol-code map.
package arista

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
	viaNextHop   = regexp.MustCompile(`\[(\d+)/(\d+)\]\s+via\s+([^\s,]+)(?:,\s+(\S+))?`)
)

var protocolCodes = map[string]string{
	"C": "connected", "S": "static", "O": "ospf", "B": "bgp", "K": "kernel", "i": "isis",
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

// ParseRouteEntry parses "show ip route <destination> vrf <vrf>" output,
// returning the first route line matched (EOS, unlike IOS, shows the
// queried route directly in table-row form rather than a "Routing entry
// for" banner).
func ParseRouteEntry(output, context string) *model.Route {
	if strings.TrimSpace(output) == "" || strings.Contains(strings.ToLower(output), "no matching routes") {
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
		if strings.Contains(line, "VRF") && strings.Contains(line, "RD") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "-") {
			continue
		}
		if fields[0] != "default" {
			vrfs = append(vrfs, fields[0])
		}
	}
	return append([]string{"default"}, vrfs...)
}

// ParseInterfaces parses "show ip interface brief" into interface->IP,
// stripping EOS's CIDR-suffixed address form.
func ParseInterfaces(output string) map[string]string {
	interfaces := map[string]string{}
	for _, line := range common.TrimLines(output) {
		if strings.Contains(line, "Interface") || strings.Contains(line, "Address") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ip := fields[1]
		if idx := strings.Index(ip, "/"); idx >= 0 {
			ip = ip[:idx]
		}
		if ip != "unassigned" {
			interfaces[fields[0]] = ip
		}
	}
	return interfaces
}
