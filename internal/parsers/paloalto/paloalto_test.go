// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package paloalto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathtrace.dev/pathtrace/internal/model"
)

const routeOutput = `destination        nexthop              metric       flags   age          interface    tag
---------------   -------------------  -----  ----------  --------  ---------------  ----
0.0.0.0/0         10.1.1.1             0      A S         1234567   ethernet1/1      0
10.0.0.0/8        10.2.2.1             20     A O         123456    ethernet1/2      0`

func TestParseRouteEntry(t *testing.T) {
	route := ParseRouteEntry(routeOutput, "vr-trust")
	require.NotNil(t, route)
	assert.Equal(t, "0.0.0.0/0", route.Destination)
	assert.Equal(t, "static", route.Protocol)
	assert.Equal(t, "ethernet1/1", route.OutgoingInterface)
}

func TestParseRoutingTable(t *testing.T) {
	routes := ParseRoutingTable(routeOutput, "vr-trust")
	require.Len(t, routes, 2)
	assert.Equal(t, "ospf", routes[1].Protocol)
}

func TestParseSecurityPolicyMatch(t *testing.T) {
	output := `"Allow-Web" {
	from trust;
	source 10.0.0.0/8;
	source-region none;
	to untrust;
	destination any;
	destination-region none;
	category any;
	application/service any/tcp/any/443;
	action allow;
	icmp-unreachable: no
	terminal yes;
}`
	policy := ParseSecurityPolicyMatch(output)
	require.NotNil(t, policy)
	assert.Equal(t, "Allow-Web", policy.RuleName)
	assert.Equal(t, model.ActionPermit, policy.Action)
	assert.Equal(t, "trust", policy.SourceZone)
	assert.Equal(t, "untrust", policy.DestZone)
}

func TestParseNATPolicyMatchWithPorts(t *testing.T) {
	output := `Matched NAT rule: "Internet-SNAT"
  Source translation: 10.1.1.100:8080 ==> 203.0.113.5:80
  Destination translation: none`

	nat := ParseNATPolicyMatch(output)
	require.NotNil(t, nat)
	require.NotNil(t, nat.SourceNAT)
	assert.Equal(t, "10.1.1.100", nat.SourceNAT.OriginalIP)
	assert.Equal(t, 8080, nat.SourceNAT.OriginalPort)
	assert.Equal(t, "203.0.113.5", nat.SourceNAT.TranslatedIP)
	assert.Equal(t, 80, nat.SourceNAT.TranslatedPort)
	assert.Nil(t, nat.DestinationNAT)
}

func TestParseInterfaceDetail(t *testing.T) {
	output := `Name: ethernet1/1
  Link speed:          1000
  Link duplex:         full
  Link state:          up
  Description:         Outside uplink
  Zone:                untrust
  Errors received:     5
  Drops received:      2
  Errors transmitted:  1
  Drops transmitted:   0`

	detail := ParseInterfaceDetail(output)
	require.NotNil(t, detail)
	assert.Equal(t, "ethernet1/1", detail.Name)
	assert.Equal(t, model.InterfaceUp, detail.Status)
	assert.Equal(t, "1000Mb/s", detail.Speed)
	assert.EqualValues(t, 5, detail.InErrors)

	assert.Equal(t, "untrust", ParseZoneFromInterface(output))
}
