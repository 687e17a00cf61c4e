// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package arista

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathtrace.dev/pathtrace/internal/model"
)

const table = `Codes: C - connected, S - static, O - OSPF, B - BGP
Gateway of last resort is 10.0.0.1

 C        10.0.0.0/8 is directly connected, Vlan100
 S        192.168.1.0/24 [1/0] via 10.1.1.2, Ethernet1
 O        10.2.0.0/16 [110/20] via 10.1.1.3, Ethernet2`

func TestParseRouteEntryReturnsFirstMatch(t *testing.T) {
	route := ParseRouteEntry(table, "default")
	require.NotNil(t, route)
	assert.Equal(t, model.NextHopConnected, route.NextHopKind)
}

func TestParseRoutingTable(t *testing.T) {
	routes := ParseRoutingTable(table, "default")
	require.Len(t, routes, 3)
	assert.Equal(t, "static", routes[1].Protocol)
	assert.Equal(t, "10.1.1.2", routes[1].NextHop)
	assert.Equal(t, "ospf", routes[2].Protocol)
}

func TestParseRouteEntryNoMatch(t *testing.T) {
	assert.Nil(t, ParseRouteEntry("% No matching routes", "default"))
}

func TestParseVRFListAlwaysIncludesDefault(t *testing.T) {
	vrfs := ParseVRFList("   VRF         RD\n   dmz         100:1")
	assert.Contains(t, vrfs, "default")
	assert.Contains(t, vrfs, "dmz")
}

func TestParseInterfacesStripsMask(t *testing.T) {
	ifaces := ParseInterfaces("Interface    Address    Status\nEthernet1    10.1.1.1/24    up")
	assert.Equal(t, "10.1.1.1", ifaces["Ethernet1"])
}
