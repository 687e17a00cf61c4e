// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package ciscoios normalises Cisco IOS and IOS-XE "show" command text
// into the shared route/interface model. Grounded on
// original_source/services/pathtrace-api/pathtracer/parsers/cisco_ios_parser.py.
package ciscoios

import (
	"regexp"
	"strconv"
	"strings"

	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/parsers/common"
)

var (
	routingEntryFor = regexp.MustCompile(`Routing entry for\s+(\S+)`)
	knownVia        = regexp.MustCompile(`Known via\s+"([^"]+)",\s+distance\s+(\d+),\s+metric\s+(\d+)`)
	lastUpdateFrom  = regexp.MustCompile(`(?:Last update from|via)\s+([^\s"]\S*)(?:\s+on\s+(\S+))?`)

	tableRow      = regexp.MustCompile(`^([A-Z*\s]+)\s+(\S+)\s+(.+)$`)
	directlyConn  = regexp.MustCompile(`directly connected,\s+(\S+)`)
	viaNextHop    = regexp.MustCompile(`\[(\d+)/(\d+)\]\s+via\s+([^\s,]+)(?:,\s+[\d:]+,\s+(\S+))?`)

	ifaceBrief    = regexp.MustCompile(`^(\S+)\s+(\S+)\s+`)
	ifaceFirstLine = regexp.MustCompile(`^(\S+)\s+is\s+(.+?),\s+line protocol is\s+(\S+)`)
	descriptionRe = regexp.MustCompile(`^Description:\s+(.+)$`)
	bandwidthRe   = regexp.MustCompile(`BW\s+(\d+)\s+Kbit/sec`)
	speedRe       = regexp.MustCompile(`duplex,\s+(\S+),`)
	inputRateRe   = regexp.MustCompile(`5 minute input rate\s+(\d+)\s+bits/sec`)
	outputRateRe  = regexp.MustCompile(`5 minute output rate\s+(\d+)\s+bits/sec`)
	inputErrRe    = regexp.MustCompile(`(\d+)\s+input errors`)
	outputErrRe   = regexp.MustCompile(`(\d+)\s+output errors`)
	inputDropRe   = regexp.MustCompile(`(\d+)\s+input queue drops`)
	outputDropRe  = regexp.MustCompile(`(\d+)\s+output drops`)
)

var protocolCodes = map[string]string{
	"C": "connected", "L": "local", "S": "static", "S*": "static",
	"O": "ospf", "B": "bgp", "D": "eigrp", "R": "rip", "i": "isis",
}

// ParseRouteEntry parses "show ip route [vrf <ctx>] <destination>" output.
func ParseRouteEntry(output, context string) *model.Route {
	lower := strings.ToLower(output)
	if output == "" || strings.Contains(lower, "not in table") {
		return nil
	}

	m := routingEntryFor.FindStringSubmatch(output)
	if m == nil {
		return nil
	}
	destinationNetwork := m[1]

	protocol := "unknown"
	preference, metric := 0, 0
	if km := knownVia.FindStringSubmatch(output); km != nil {
		protocol = km[1]
		preference, _ = strconv.Atoi(km[2])
		metric, _ = strconv.Atoi(km[3])
	}

	var nextHop, iface string
	if vm := lastUpdateFrom.FindStringSubmatch(output); vm != nil {
		nextHop = vm[1]
		iface = strings.TrimSuffix(vm[2], ",")
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

// ParseRoutingTable parses "show ip route [vrf <ctx>]" output.
func ParseRoutingTable(output, context string) []model.Route {
	var routes []model.Route
	for _, line := range common.TrimLines(output) {
		if strings.HasPrefix(line, "Codes:") || strings.HasPrefix(line, "Gateway") {
			continue
		}
		m := tableRow.FindStringSubmatch(line)
		if m == nil {
			continue
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
			routes = append(routes, model.Route{
				Destination:       network,
				NextHop:           iface,
				NextHopKind:       model.NextHopConnected,
				OutgoingInterface: iface,
				Protocol:          protocol,
				LogicalContext:    context,
				Raw:               line,
			})
			continue
		}

		if vm := viaNextHop.FindStringSubmatch(rest); vm != nil {
			preference, _ := strconv.Atoi(vm[1])
			metric, _ := strconv.Atoi(vm[2])
			routes = append(routes, model.Route{
				Destination:       network,
				NextHop:           vm[3],
				NextHopKind:       model.NextHopIP,
				OutgoingInterface: vm[4],
				Protocol:          protocol,
				LogicalContext:    context,
				Metric:            metric,
				AdminDistance:     preference,
				Raw:               line,
			})
		}
	}
	return routes
}

// ParseVRFList parses "show vrf" / "show ip vrf" output, always
// returning "global" as a member even if absent from the device output.
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
		name := fields[0]
		if name != "" && !strings.HasPrefix(name, "%") {
			vrfs = append(vrfs, name)
		}
	}
	for _, v := range vrfs {
		if v == "global" {
			return vrfs
		}
	}
	return append([]string{"global"}, vrfs...)
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

// ParseInterfaceDetail parses "show interfaces <name>" output.
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
	var errIn, errOut, dropIn, dropOut uint64

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
		case inputDropRe.MatchString(stripped):
			v, _ := strconv.ParseUint(inputDropRe.FindStringSubmatch(stripped)[1], 10, 64)
			dropIn = v
		case outputDropRe.MatchString(stripped):
			v, _ := strconv.ParseUint(outputDropRe.FindStringSubmatch(stripped)[1], 10, 64)
			dropOut = v
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
		Name:           name,
		Description:    description,
		Status:         status,
		Speed:          speed,
		InUtilization:  inUtil,
		OutUtilization: outUtil,
		InErrors:       errIn,
		OutErrors:      errOut,
		InDiscards:     dropIn,
		OutDiscards:    dropOut,
	}
}
