// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package paloalto normalises PAN-OS "show"/"test" command text.
// Grounded on
// original_source/pathtracer/parsers/paloalto_parser.py, the richest of
// the three paloalto_parser.py revisions in the pack (it alone carries
// security-policy-match and NAT-policy-match parsing).
package paloalto

import (
	"regexp"
	"strconv"
	"strings"

	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/parsers/common"
)

func dataLines(output string) []string {
	var data []string
	foundHeader := false
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "---") {
			foundHeader = true
			continue
		}
		if foundHeader && strings.TrimSpace(line) != "" {
			data = append(data, line)
		}
	}
	return data
}

func routeFromFields(line, context string) *model.Route {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return nil
	}
	network := fields[0]
	nextHop := fields[1]
	metric, _ := strconv.Atoi(fields[2])
	// Flags may span several short tokens ("A S"); an optional numeric
	// age column sits between them and the interface.
	isNumber := func(s string) bool { _, err := strconv.Atoi(s); return err == nil }
	i := 3
	for i < len(fields)-1 && len(fields[i]) <= 2 && !isNumber(fields[i]) {
		i++
	}
	flags := strings.Join(fields[3:i], " ")
	if isNumber(fields[i]) && i < len(fields)-1 {
		i++
	}
	iface := fields[i]

	protocol := "unknown"
	switch {
	case strings.Contains(flags, "S"):
		protocol = "static"
	case strings.Contains(flags, "C"):
		protocol = "connected"
	case strings.Contains(flags, "O"):
		protocol = "ospf"
	case strings.Contains(flags, "B"):
		protocol = "bgp"
	case strings.Contains(flags, "R"):
		protocol = "rip"
	}

	kind := model.NextHopIP
	switch {
	case protocol == "connected":
		kind = model.NextHopConnected
	case nextHop == "discard":
		kind = model.NextHopNull
	}

	return &model.Route{
		Destination: network, NextHop: nextHop, NextHopKind: kind,
		OutgoingInterface: iface, Protocol: protocol, LogicalContext: context,
		Metric: metric, Raw: line,
	}
}

// ParseRouteEntry parses "show routing route destination <ip>
// virtual-router <vr>" output, returning the first matching route.
func ParseRouteEntry(output, context string) *model.Route {
	if output == "" || strings.Contains(strings.ToLower(output), "destination not found") {
		return nil
	}
	for _, line := range dataLines(output) {
		if route := routeFromFields(line, context); route != nil {
			return route
		}
	}
	return nil
}

// ParseRoutingTable parses "show routing route virtual-router <vr>" output.
func ParseRoutingTable(output, context string) []model.Route {
	var routes []model.Route
	for _, line := range dataLines(output) {
		if route := routeFromFields(line, context); route != nil {
			routes = append(routes, *route)
		}
	}
	return routes
}

var virtualRouterRe = regexp.MustCompile(`Virtual Router:\s+(\S+)`)

// ParseVirtualRouterList parses "show routing virtual-router" output.
func ParseVirtualRouterList(output string) []string {
	var vrs []string
	seen := map[string]bool{}
	for _, m := range virtualRouterRe.FindAllStringSubmatch(output, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			vrs = append(vrs, m[1])
		}
	}
	return vrs
}

var ipRe = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)

// ParseInterfaceList parses "show interface all" output into
// interface->IP.
func ParseInterfaceList(output string) map[string]string {
	interfaces := map[string]string{}
	var current string
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "ethernet") || strings.HasPrefix(trimmed, "vlan") {
			if fields := strings.Fields(trimmed); len(fields) > 0 {
				current = fields[0]
			}
		}
		if current != "" && strings.Contains(strings.ToLower(line), "ip:") {
			if ip := ipRe.FindString(line); ip != "" {
				interfaces[current] = ip
				current = ""
			}
		}
	}
	return interfaces
}

var (
	nameRe      = regexp.MustCompile(`^Name:\s+(.+)$`)
	ifDescRe    = regexp.MustCompile(`^Description:\s+(.+)$`)
	linkStateRe = regexp.MustCompile(`^Link state:\s+(\S+)`)
	linkSpeedRe = regexp.MustCompile(`^Link speed:\s+(\d+)`)
	errRecvRe   = regexp.MustCompile(`^Errors received:\s+(\d+)`)
	errXmitRe   = regexp.MustCompile(`^Errors transmitted:\s+(\d+)`)
	dropRecvRe  = regexp.MustCompile(`^Drops received:\s+(\d+)`)
	dropXmitRe  = regexp.MustCompile(`^Drops transmitted:\s+(\d+)`)
	zoneRe      = regexp.MustCompile(`^\s*Zone:\s+(\S+)`)
)

// ParseInterfaceDetail parses "show interface <name>" output.
func ParseInterfaceDetail(output string) *model.InterfaceDetail {
	if strings.TrimSpace(output) == "" {
		return nil
	}

	var name, description, speed string
	status := model.InterfaceUnknown
	var errIn, errOut, dropIn, dropOut uint64

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case nameRe.MatchString(line):
			name = nameRe.FindStringSubmatch(line)[1]
		case ifDescRe.MatchString(line):
			description = ifDescRe.FindStringSubmatch(line)[1]
		case linkStateRe.MatchString(line):
			switch strings.ToLower(linkStateRe.FindStringSubmatch(line)[1]) {
			case "up":
				status = model.InterfaceUp
			case "down":
				status = model.InterfaceDown
			}
		case linkSpeedRe.MatchString(line):
			speed = linkSpeedRe.FindStringSubmatch(line)[1] + "Mb/s"
		case errRecvRe.MatchString(line):
			v, _ := strconv.ParseUint(errRecvRe.FindStringSubmatch(line)[1], 10, 64)
			errIn = v
		case errXmitRe.MatchString(line):
			v, _ := strconv.ParseUint(errXmitRe.FindStringSubmatch(line)[1], 10, 64)
			errOut = v
		case dropRecvRe.MatchString(line):
			v, _ := strconv.ParseUint(dropRecvRe.FindStringSubmatch(line)[1], 10, 64)
			dropIn = v
		case dropXmitRe.MatchString(line):
			v, _ := strconv.ParseUint(dropXmitRe.FindStringSubmatch(line)[1], 10, 64)
			dropOut = v
		}
	}
	if name == "" {
		return nil
	}
	return &model.InterfaceDetail{
		Name: name, Description: description, Status: status, Speed: speed,
		InErrors: errIn, OutErrors: errOut, InDiscards: dropIn, OutDiscards: dropOut,
	}
}

// ParseZoneFromInterface extracts the "Zone:" line from "show interface
// <name>" output.
func ParseZoneFromInterface(output string) string {
	for _, raw := range strings.Split(output, "\n") {
		if zoneRe.MatchString(raw) {
			return zoneRe.FindStringSubmatch(raw)[1]
		}
	}
	return ""
}

var (
	ruleNameRe = regexp.MustCompile(`"([^"]+)"`)
	fromRe     = regexp.MustCompile(`(?m)^\s*from\s+(\S+?);`)
	toRe       = regexp.MustCompile(`(?m)^\s*to\s+(\S+?);`)
	sourceRe   = regexp.MustCompile(`(?m)^\s*source\s+(.+?);`)
	destRe     = regexp.MustCompile(`(?m)^\s*destination\s+(.+?);`)
	serviceRe  = regexp.MustCompile(`application/service\s+(.+?);`)
	actionRe   = regexp.MustCompile(`(?m)^\s*action\s+(\S+?);`)
)

// ParseSecurityPolicyMatch parses "test security-policy-match" output.
func ParseSecurityPolicyMatch(output string) *model.PolicyResult {
	if strings.TrimSpace(output) == "" {
		return nil
	}
	ruleMatch := ruleNameRe.FindStringSubmatch(output)
	if ruleMatch == nil {
		return nil
	}

	var sourceZone, destZone string
	if m := fromRe.FindStringSubmatch(output); m != nil {
		sourceZone = m[1]
	}
	if m := toRe.FindStringSubmatch(output); m != nil {
		destZone = m[1]
	}

	var sourceAddrs, destAddrs, services []string
	if m := sourceRe.FindStringSubmatch(output); m != nil {
		sourceAddrs = strings.Fields(m[1])
	}
	if m := destRe.FindStringSubmatch(output); m != nil {
		destAddrs = strings.Fields(m[1])
	}
	if m := serviceRe.FindStringSubmatch(output); m != nil {
		services = []string{strings.TrimSpace(m[1])}
	}

	action := model.ActionDeny
	if m := actionRe.FindStringSubmatch(output); m != nil {
		action = common.NormalizeAction(strings.ToLower(m[1]))
	}

	return &model.PolicyResult{
		RuleName:    ruleMatch[1],
		Action:      action,
		SourceZone:  sourceZone,
		DestZone:    destZone,
		SourceAddrs: sourceAddrs,
		DestAddrs:   destAddrs,
		Services:    services,
		Logging:     strings.Contains(strings.ToLower(output), "log"),
	}
}

var (
	natRuleRe = regexp.MustCompile(`Matched NAT rule:\s*"([^"]+)"`)
	srcXlatRe = regexp.MustCompile(`Source translation:\s*(.+)`)
	dstXlatRe = regexp.MustCompile(`Destination translation:\s*(.+)`)
	xlatPair  = regexp.MustCompile(`(\S+)\s*==>\s*(\S+)`)
)

func splitIPPort(value string) (string, int) {
	if idx := strings.LastIndex(value, ":"); idx >= 0 {
		port, _ := strconv.Atoi(value[idx+1:])
		return value[:idx], port
	}
	return value, 0
}

func parseTranslation(value, ruleName string) *model.NATTranslation {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") {
		return nil
	}
	m := xlatPair.FindStringSubmatch(value)
	if m == nil {
		return nil
	}
	origIP, origPort := splitIPPort(m[1])
	xlatIP, xlatPort := splitIPPort(m[2])
	return &model.NATTranslation{
		OriginalIP: origIP, OriginalPort: origPort,
		TranslatedIP: xlatIP, TranslatedPort: xlatPort,
		RuleName: ruleName,
	}
}

// ParseNATPolicyMatch parses "test nat-policy-match" output.
func ParseNATPolicyMatch(output string) *model.NATResult {
	if strings.TrimSpace(output) == "" {
		return nil
	}
	ruleMatch := natRuleRe.FindStringSubmatch(output)
	if ruleMatch == nil {
		return nil
	}
	ruleName := ruleMatch[1]

	var snat, dnat *model.NATTranslation
	if m := srcXlatRe.FindStringSubmatch(output); m != nil {
		snat = parseTranslation(m[1], ruleName)
	}
	if m := dstXlatRe.FindStringSubmatch(output); m != nil {
		dnat = parseTranslation(m[1], ruleName)
	}
	return &model.NATResult{SourceNAT: snat, DestinationNAT: dnat}
}
