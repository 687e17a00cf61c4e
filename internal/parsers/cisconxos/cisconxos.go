// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package cisconxos normalises Cisco NX-OS "show" command text. The
// original parser pack carries no NX-OS source file; this package
// adapts the ciscoios idiom to genuine NX-OS CLI conventions (the
// "ubest/mbest" table prefix, "default" rather than "global" as the
// unnamed VRF, and "show vrf"'s own column layout) rather than claiming
// a one-to-one original grounding — see DESIGN.md.
package cisconxos

import (
	"regexp"
	"strconv"
	"strings"

	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/parsers/common"
)

var (
	routingEntryFor = regexp.MustCompile(`Routing entry for\s+(\S+)`)
	ubestVia        = regexp.MustCompile(`\*via\s+(\S+),\s+(\S+),\s+\[(\d+)/(\d+)\],.*?,\s+(\S+)`)
	ubestPrefix     = regexp.MustCompile(`^(\S+/\d+),\s+ubest/mbest`)

	tableRow     = regexp.MustCompile(`^([A-Za-z*>\s]+)\s+(\S+)\s+(.+)$`)
	directlyConn = regexp.MustCompile(`directly connected,\s+(\S+)`)
	viaNextHop   = regexp.MustCompile(`\[(\d+)/(\d+)\]\s+via\s+(\S+),\s+(\S+)`)

	ifaceBrief     = regexp.MustCompile(`^(\S+)\s+\d+\s+\S+\s+(\S+)`)
	ifaceFirstLine = regexp.MustCompile(`^(\S+)\s+is\s+(.+?),\s+line protocol is\s+(\S+)`)
	descriptionRe  = regexp.MustCompile(`^Description:\s+(.+)$`)
	bandwidthRe    = regexp.MustCompile(`BW\s+(\d+)\s+Kbit`)
	speedRe        = regexp.MustCompile(`duplex,\s+(\S+)`)
	inputRateRe    = regexp.MustCompile(`input rate\s+(\d+)\s+bps`)
	outputRateRe   = regexp.MustCompile(`output rate\s+(\d+)\s+bps`)
	inputErrRe     = regexp.MustCompile(`(\d+)\s+input error`)
	outputErrRe    = regexp.MustCompile(`(\d+)\s+output error`)
)

var protocolCodes = map[string]string{
	"C": "connected", "L": "local", "S": "static",
	"O": "ospf", "B": "bgp", "D": "eigrp", "i": "isis",
}

// ParseRouteEntry parses "show ip route [vrf <ctx>] <destination>"
// output.
func ParseRouteEntry(output, context string) *model.Route {
	lower := strings.ToLower(output)
	if output == "" || strings.Contains(lower, "% subnet not in table") || strings.Contains(lower, "not in table") {
		return nil
	}

	m := routingEntryFor.FindStringSubmatch(output)
	if m == nil {
		return nil
	}
	destination := m[1]

	protocol, preference, metric := "unknown", 0, 0
	var nextHop, iface string
	if vm := ubestVia.FindStringSubmatch(output); vm != nil {
		nextHop = vm[1]
		iface = vm[2]
		preference, _ = strconv.Atoi(vm[3])
		metric, _ = strconv.Atoi(vm[4])
		protocol = vm[5]
	}

	kind := model.NextHopIP
	switch {
	case protocol == "connected":
		kind = model.NextHopConnected
	case protocol == "local":
		kind = model.NextHopLocal
	case strings.Contains(iface, "Null"):
		kind = model.NextHopNull
	}

	hop := nextHop
	if hop == "" {
		hop = iface
	}

	return &model.Route{
		Destination:       destination,
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

// ParseRoutingTable parses "show ip route [vrf <ctx>]" output.
func ParseRoutingTable(output, context string) []model.Route {
	var routes []model.Route
	prefix := ""
	for _, line := range common.TrimLines(output) {
		if pm := ubestPrefix.FindStringSubmatch(line); pm != nil {
			prefix = pm[1]
			continue
		}
		if ubestVia.MatchString(line) {
			if prefix != "" {
				route := ParseRouteEntry("Routing entry for "+prefix+"\n"+line, context)
				route.Raw = line
				routes = append(routes, *route)
			}
			continue
		}
		if strings.HasPrefix(line, "IP Route Table") || strings.HasPrefix(line, "Codes:") ||
			strings.HasPrefix(line, "Gateway") || strings.HasPrefix(line, "ubest/mbest") {
			continue
		}
		m := tableRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		code := strings.TrimSpace(strings.ReplaceAll(m[1], ">", ""))
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
			routes = append(routes, model.Route{
				Destination: network, NextHop: iface, NextHopKind: model.NextHopConnected,
				OutgoingInterface: iface, Protocol: protocol, LogicalContext: context, Raw: line,
			})
			continue
		}

		if vm := viaNextHop.FindStringSubmatch(rest); vm != nil {
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

// ParseVRFList parses "show vrf" output, always including "default" as
// the unnamed VRF (NX-OS's equivalent of IOS's "global").
func ParseVRFList(output string) []string {
	var vrfs []string
	for _, line := range common.TrimLines(output) {
		if strings.Contains(line, "VRF-Name") || strings.Contains(line, "---") {
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

// ParseInterfaces parses "show ip interface brief" into interface->IP.
func ParseInterfaces(output string) map[string]string {
	interfaces := map[string]string{}
	for _, line := range common.TrimLines(output) {
		if strings.Contains(line, "Interface") || strings.Contains(line, "---") {
			continue
		}
		m := ifaceBrief.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if m[2] != "unassigned" {
			interfaces[m[1]] = m[2]
		}
	}
	return interfaces
}

// ParseInterfaceDetail parses "show interface <name>" output.
func ParseInterfaceDetail(output string) *model.InterfaceDetail {
	if strings.TrimSpace(output) == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	first := ifaceFirstLine.FindStringSubmatch(lines[0])
	if first == nil {
		return nil
	}

	name := first[1]
	interfaceStatus := first[2]
	lineProtocol := first[3]

	var status model.InterfaceStatus
	switch {
	case strings.Contains(interfaceStatus, "administratively down"):
		status = model.InterfaceAdminDown
	case lineProtocol == "up":
		status = model.InterfaceUp
	default:
		status = model.InterfaceDown
	}

	var description, speed string
	var bandwidthKbit, inputRate, outputRate int
	var errIn, errOut uint64

	for _, line := range lines[1:] {
		stripped := strings.TrimSpace(line)
		switch {
		case descriptionRe.MatchString(stripped):
			description = descriptionRe.FindStringSubmatch(stripped)[1]
		case bandwidthRe.MatchString(stripped):
			bandwidthKbit, _ = strconv.Atoi(bandwidthRe.FindStringSubmatch(stripped)[1])
		case speedRe.MatchString(stripped):
			speed = speedRe.FindStringSubmatch(stripped)[1]
		case inputRateRe.MatchString(stripped):
			inputRate, _ = strconv.Atoi(inputRateRe.FindStringSubmatch(stripped)[1])
		case outputRateRe.MatchString(stripped):
			outputRate, _ = strconv.Atoi(outputRateRe.FindStringSubmatch(stripped)[1])
		case inputErrRe.MatchString(stripped):
			v, _ := strconv.ParseUint(inputErrRe.FindStringSubmatch(stripped)[1], 10, 64)
			errIn = v
		case outputErrRe.MatchString(stripped):
			v, _ := strconv.ParseUint(outputErrRe.FindStringSubmatch(stripped)[1], 10, 64)
			errOut = v
		}
	}

	var inUtil, outUtil *float64
	if bandwidthKbit > 0 {
		bandwidthBps := float64(bandwidthKbit) * 1000
		in := float64(inputRate) / bandwidthBps * 100
		out := float64(outputRate) / bandwidthBps * 100
		inUtil, outUtil = &in, &out
	}

	return &model.InterfaceDetail{
		Name: name, Description: description, Status: status, Speed: speed,
		InUtilization: inUtil, OutUtilization: outUtil,
		InErrors: errIn, OutErrors: errOut,
	}
}
