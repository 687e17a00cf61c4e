// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package junos normalises Juniper SRX/Junos "show"/"test" command text
// for the juniper_srx and juniper_junos vendor tags. Grounded on
// original_source/pathtracer/parsers/juniper_srx_parser.py — the
// "*[Protocol/pref]" bracket route idiom needs a next-hop line lookahead,
// unlike the single-line table rows of the IOS family.
package junos

import (
	"regexp"
	"strconv"
	"strings"

	"pathtrace.dev/pathtrace/internal/model"
)

var (
	routeLine = regexp.MustCompile(`^\s*(\S+/\d+)\s+\*\[(\w+)/(\d+)\]\s+(.+)$`)
	hopLine   = regexp.MustCompile(`>\s+to\s+(\S+)\s+via\s+(\S+)`)
	otherLine = regexp.MustCompile(`^\s*\S+/\d+\s+`)
	metricRe  = regexp.MustCompile(`metric\s+(\d+)`)
)

func nextHopKind(protocol string) model.NextHopKind {
	switch protocol {
	case "direct":
		return model.NextHopConnected
	case "local":
		return model.NextHopLocal
	default:
		return model.NextHopIP
	}
}

func routeFromLine(lines []string, i int, context string) *model.Route {
	m := routeLine.FindStringSubmatch(lines[i])
	if m == nil {
		return nil
	}
	destination := m[1]
	protocol := strings.ToLower(m[2])
	preference, _ := strconv.Atoi(m[3])
	rest := m[4]

	metric := 0
	if mm := metricRe.FindStringSubmatch(rest); mm != nil {
		metric, _ = strconv.Atoi(mm[1])
	}

	var nextHop, iface string
	for j := i + 1; j < len(lines); j++ {
		if hm := hopLine.FindStringSubmatch(lines[j]); hm != nil {
			nextHop = hm[1]
			iface = hm[2]
			break
		}
		if otherLine.MatchString(lines[j]) {
			break
		}
	}

	hop := nextHop
	if hop == "" {
		hop = iface
	}

	return &model.Route{
		Destination:       destination,
		NextHop:           hop,
		NextHopKind:       nextHopKind(protocol),
		OutgoingInterface: iface,
		Protocol:          protocol,
		LogicalContext:    context,
		Metric:            metric,
		AdminDistance:     preference,
		Raw:               lines[i],
	}
}

// ParseRouteEntry parses "show route <destination>" output, returning
// only the first matching route.
func ParseRouteEntry(output, context string) *model.Route {
	if strings.TrimSpace(output) == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := range lines {
		if route := routeFromLine(lines, i, context); route != nil {
			return route
		}
	}
	return nil
}

// ParseRoutingTable parses the full "show route" output.
func ParseRoutingTable(output, context string) []model.Route {
	var routes []model.Route
	if strings.TrimSpace(output) == "" {
		return routes
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := range lines {
		if route := routeFromLine(lines, i, context); route != nil {
			routes = append(routes, *route)
		}
	}
	return routes
}

var (
	physicalIfaceLine = regexp.MustCompile(`^Physical interface:\s+(\S+),\s+\S+,\s+Physical link is\s+(\S+)`)
	ifaceDescLine     = regexp.MustCompile(`^Description:\s+(.+)$`)
	ifaceSpeedLine    = regexp.MustCompile(`Speed:\s+(\S+)`)
	ifaceErrorsLine   = regexp.MustCompile(`Input errors:\s+(\d+),\s+Output errors:\s+(\d+)`)
	ifaceDropsLine    = regexp.MustCompile(`Input drops:\s+(\d+),\s+Output drops:\s+(\d+)`)
)

// ParseInterfaceDetail parses "show interfaces <name> extensive" output.
func ParseInterfaceDetail(output string) *model.InterfaceDetail {
	if strings.TrimSpace(output) == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")

	first := physicalIfaceLine.FindStringSubmatch(lines[0])
	if first == nil {
		return nil
	}
	name := strings.TrimSuffix(first[1], ",")
	status := model.InterfaceDown
	if strings.EqualFold(first[2], "up") {
		status = model.InterfaceUp
	}

	var description, speed string
	var errIn, errOut, dropIn, dropOut uint64

	for _, raw := range lines[1:] {
		line := strings.TrimSpace(raw)
		switch {
		case ifaceDescLine.MatchString(line):
			description = strings.TrimSpace(ifaceDescLine.FindStringSubmatch(line)[1])
		case ifaceSpeedLine.MatchString(line):
			speed = ifaceSpeedLine.FindStringSubmatch(line)[1]
		case ifaceErrorsLine.MatchString(line):
			m := ifaceErrorsLine.FindStringSubmatch(line)
			errIn, _ = strconv.ParseUint(m[1], 10, 64)
			errOut, _ = strconv.ParseUint(m[2], 10, 64)
		case ifaceDropsLine.MatchString(line):
			m := ifaceDropsLine.FindStringSubmatch(line)
			dropIn, _ = strconv.ParseUint(m[1], 10, 64)
			dropOut, _ = strconv.ParseUint(m[2], 10, 64)
		}
	}

	return &model.InterfaceDetail{
		Name: name, Description: description, Status: status, Speed: speed,
		InErrors: errIn, OutErrors: errOut, InDiscards: dropIn, OutDiscards: dropOut,
	}
}

var (
	zoneLine       = regexp.MustCompile(`^Security zone:\s+(\S+)`)
	ifacesBoundHdr = regexp.MustCompile(`^Interfaces bound:`)
	ifaceNameLike  = regexp.MustCompile(`^[a-zA-Z]`)
	zoneResumeHdr  = regexp.MustCompile(`^(Security zone|Send reset)`)
)

// ParseSecurityZones parses "show security zones" output into an
// interface-name -> zone-name mapping.
func ParseSecurityZones(output string) map[string]string {
	zones := map[string]string{}
	if strings.TrimSpace(output) == "" {
		return zones
	}

	var currentZone string
	inInterfaces := false

	for _, raw := range strings.Split(strings.TrimSpace(output), "\n") {
		line := strings.TrimSpace(raw)

		if m := zoneLine.FindStringSubmatch(line); m != nil {
			currentZone = m[1]
			inInterfaces = false
			continue
		}
		if ifacesBoundHdr.MatchString(line) {
			inInterfaces = true
			continue
		}
		if currentZone != "" && inInterfaces && line != "" {
			switch {
			case ifaceNameLike.MatchString(line) && strings.Contains(line, "/"):
				zones[line] = currentZone
			case zoneResumeHdr.MatchString(line):
				inInterfaces = false
			}
		}
	}
	return zones
}

var (
	policyNameRe = regexp.MustCompile(`Policy:\s+(\S+?),`)
	seqNumberRe  = regexp.MustCompile(`Sequence number:\s+(\d+)`)
	policyZoneRe = regexp.MustCompile(`Source zone:\s+(\S+?),\s+Destination zone:\s+(\S+)`)
	srcAddrRe    = regexp.MustCompile(`Source addresses:\s+(.+)`)
	dstAddrRe    = regexp.MustCompile(`Destination addresses:\s+(.+)`)
	applicRe     = regexp.MustCompile(`Applications:\s+(.+)`)
	policyActRe  = regexp.MustCompile(`Action:\s+(\S+)`)
)

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseSecurityPolicyMatch parses "show security match-policies" output.
func ParseSecurityPolicyMatch(output string) *model.PolicyResult {
	if strings.TrimSpace(output) == "" {
		return nil
	}
	nameMatch := policyNameRe.FindStringSubmatch(output)
	if nameMatch == nil {
		return nil
	}

	position := 0
	if m := seqNumberRe.FindStringSubmatch(output); m != nil {
		position, _ = strconv.Atoi(m[1])
	}

	var sourceZone, destZone string
	if m := policyZoneRe.FindStringSubmatch(output); m != nil {
		sourceZone, destZone = m[1], m[2]
	}

	var sourceAddrs, destAddrs, services []string
	if m := srcAddrRe.FindStringSubmatch(output); m != nil {
		sourceAddrs = splitCommaList(m[1])
	}
	if m := dstAddrRe.FindStringSubmatch(output); m != nil {
		destAddrs = splitCommaList(m[1])
	}
	if m := applicRe.FindStringSubmatch(output); m != nil {
		services = splitCommaList(m[1])
	}

	actionMatch := policyActRe.FindStringSubmatch(output)
	if actionMatch == nil {
		return nil
	}
	actionWord := strings.ToLower(strings.TrimSuffix(actionMatch[1], ","))

	logging := false
	if idx := strings.LastIndex(strings.ToLower(output), "action:"); idx >= 0 {
		logging = strings.Contains(strings.ToLower(output[idx:]), "log")
	}

	return &model.PolicyResult{
		RuleName:    nameMatch[1],
		Position:    position,
		Action:      model.NormalizePolicyAction(actionWord),
		SourceZone:  sourceZone,
		DestZone:    destZone,
		SourceAddrs: sourceAddrs,
		DestAddrs:   destAddrs,
		Services:    services,
		Logging:     logging,
	}
}

var (
	srcNATRuleRe     = regexp.MustCompile(`source NAT rule:\s+(\S+)`)
	dstNATRuleRe     = regexp.MustCompile(`destination NAT rule:\s+(\S+)`)
	translatedAddrRe = regexp.MustCompile(`translated address:\s+(\S+)`)
	translatedPortRe = regexp.MustCompile(`translated port:\s+(\d+)`)
)

// ParseNATRules parses Junos source and destination NAT rule-lookup
// output ("show security nat source rule ...", "... destination rule
// ..."), returning nil if neither side shows a NAT hit.
func ParseNATRules(sourceOutput, destOutput, sourceIP, destIP string, port int) *model.NATResult {
	var snat, dnat *model.NATTranslation

	if strings.TrimSpace(sourceOutput) != "" {
		ruleMatch := srcNATRuleRe.FindStringSubmatch(sourceOutput)
		xlatMatch := translatedAddrRe.FindStringSubmatch(sourceOutput)
		if ruleMatch != nil && xlatMatch != nil {
			snat = &model.NATTranslation{
				OriginalIP:   sourceIP,
				OriginalPort: port,
				TranslatedIP: strings.TrimSuffix(xlatMatch[1], ","),
				RuleName:     ruleMatch[1],
			}
		}
	}

	if strings.TrimSpace(destOutput) != "" {
		ruleMatch := dstNATRuleRe.FindStringSubmatch(destOutput)
		xlatMatch := translatedAddrRe.FindStringSubmatch(destOutput)
		if ruleMatch != nil && xlatMatch != nil {
			translatedPort := 0
			if pm := translatedPortRe.FindStringSubmatch(destOutput); pm != nil {
				translatedPort, _ = strconv.Atoi(pm[1])
			}
			dnat = &model.NATTranslation{
				OriginalIP:     destIP,
				OriginalPort:   port,
				TranslatedIP:   strings.TrimSuffix(xlatMatch[1], ","),
				TranslatedPort: translatedPort,
				RuleName:       ruleMatch[1],
			}
		}
	}

	if snat == nil && dnat == nil {
		return nil
	}
	return &model.NATResult{SourceNAT: snat, DestinationNAT: dnat}
}
