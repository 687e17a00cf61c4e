// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package aruba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathtrace.dev/pathtrace/internal/model"
)

const table = `Codes: C - connected, S - static, R - RIP, O - OSPF, B - BGP

S    192.168.1.0/24 [1/0] via 10.1.1.2, vlan10
C    10.0.0.0/8 is directly connected, vlan100`

func TestParseRouteEntry(t *testing.T) {
	route := ParseRouteEntry(table, "default")
	require.NotNil(t, route)
	assert.Equal(t, "static", route.Protocol)
}

func TestParseRoutingTable(t *testing.T) {
	routes := ParseRoutingTable(table, "default")
	require.Len(t, routes, 2)
	assert.Equal(t, model.NextHopConnected, routes[1].NextHopKind)
}

func TestParseRouteEntryNoSuchRoute(t *testing.T) {
	assert.Nil(t, ParseRouteEntry("No such route", "default"))
}

func TestParseVRFListAlwaysIncludesDefault(t *testing.T) {
	vrfs := ParseVRFList("Name   RD\ndmz    100:1")
	assert.Contains(t, vrfs, "default")
	assert.Contains(t, vrfs, "dmz")
}
