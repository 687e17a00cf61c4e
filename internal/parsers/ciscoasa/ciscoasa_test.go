// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package ciscoasa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathtrace.dev/pathtrace/internal/model"
)

func TestParseRouteEntryWithMask(t *testing.T) {
	output := `Routing entry for 10.1.1.0 255.255.255.0
  Known via "static", distance 1, metric 0
  * 10.0.0.1, via outside`

	route := ParseRouteEntry(output, "system")
	require.NotNil(t, route)
	assert.Equal(t, "10.1.1.0/24", route.Destination)
	assert.Equal(t, "10.0.0.1", route.NextHop)
	assert.Equal(t, "outside", route.OutgoingInterface)
}

func TestParseRouteEntryConnected(t *testing.T) {
	output := `Routing entry for 10.2.2.0 255.255.255.0
  Known via "connected", distance 0, metric 0
  * directly connected, via inside`

	route := ParseRouteEntry(output, "system")
	require.NotNil(t, route)
	assert.Equal(t, model.NextHopConnected, route.NextHopKind)
	assert.Equal(t, "inside", route.OutgoingInterface)
}

func TestParseRoutingTable(t *testing.T) {
	output := `S    0.0.0.0 0.0.0.0 [1/0] via 10.0.0.1, outside
C    10.1.1.0 255.255.255.0 is directly connected, inside`

	routes := ParseRoutingTable(output, "system")
	require.Len(t, routes, 2)
	assert.Equal(t, "0.0.0.0/0", routes[0].Destination)
	assert.Equal(t, "10.1.1.0/24", routes[1].Destination)
	assert.Equal(t, model.NextHopConnected, routes[1].NextHopKind)
}

func TestParseNameifMapping(t *testing.T) {
	output := `Interface                  Name                     Security
GigabitEthernet0/0         outside                       0
GigabitEthernet0/1         inside                      100`

	mapping := ParseNameifMapping(output)
	assert.Equal(t, "outside", mapping["GigabitEthernet0/0"])
	assert.Equal(t, "inside", mapping["GigabitEthernet0/1"])
}

func TestParsePacketTracerAllowWithNAT(t *testing.T) {
	output := `Phase: 1
Type: ACCESS-LIST
Subtype:
Result: ALLOW
Config:
access-group outside_access_in in interface outside
access-list outside_access_in extended permit tcp any any eq 443

Phase: 2
Type: UN-NAT
Subtype: static
Result: ALLOW
Config:
nat (inside,outside) source static obj-10.1.1.10 obj-203.0.113.10
Additional Information:
Untranslate 203.0.113.10/443 to 10.1.1.10/443

Phase: 3
Type: NAT
Subtype:
Result: ALLOW
Config:
nat (inside,outside) source dynamic any interface
Additional Information:
Dynamic translate 10.1.1.10/1025 to 203.0.113.10/1025

Result:
input-interface: outside
output-interface: inside
Action: allow`

	trace := ParsePacketTracer(output)
	require.NotNil(t, trace)
	assert.Equal(t, model.ActionPermit, trace.Result)
	require.NotNil(t, trace.ACL)
	assert.Equal(t, "outside_access_in", trace.ACL.RuleName)
	require.NotNil(t, trace.UnNAT)
	assert.Equal(t, "203.0.113.10", trace.UnNAT.OriginalIP)
	assert.Equal(t, "10.1.1.10", trace.UnNAT.TranslatedIP)
	require.NotNil(t, trace.NAT)
	assert.Equal(t, "10.1.1.10", trace.NAT.OriginalIP)

	nat := trace.ToNATResult()
	require.NotNil(t, nat)
	assert.Equal(t, trace.NAT, nat.SourceNAT)
	assert.Equal(t, trace.UnNAT, nat.DestinationNAT)
}

func TestParsePacketTracerDrop(t *testing.T) {
	output := `Phase: 1
Type: ACCESS-LIST
Result: DROP
Config:
access-group outside_access_in in interface outside
access-list outside_access_in extended deny ip any any

Result:
Action: drop`

	trace := ParsePacketTracer(output)
	require.NotNil(t, trace)
	assert.Equal(t, model.ActionDrop, trace.Result)
	assert.Nil(t, trace.ToNATResult())
}
